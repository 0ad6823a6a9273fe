package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResendSendEnvelope(t *testing.T) {
	var gotAuth string
	var gotReq resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte(`{"id":"re-123"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re-key", "Mind180 <hello@mind180.example>")
	s.BaseURL = srv.URL

	id, err := s.Send(context.Background(), Message{
		To:      "user@example.com",
		Subject: "Welcome",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "re-123" {
		t.Fatalf("id = %q", id)
	}
	if gotAuth != "Bearer re-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotReq.From != "Mind180 <hello@mind180.example>" {
		t.Fatalf("from = %q", gotReq.From)
	}
	if len(gotReq.To) != 1 || gotReq.To[0] != "user@example.com" {
		t.Fatalf("to = %v", gotReq.To)
	}
}

func TestResendSendMissingKey(t *testing.T) {
	s := NewResendSender("", "hello@mind180.example")
	if _, err := s.Send(context.Background(), Message{To: "x@example.com"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestResendSendSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re-key", "bad-from")
	s.BaseURL = srv.URL

	_, err := s.Send(context.Background(), Message{To: "x@example.com", Subject: "s", HTML: "h"})
	if err == nil || !strings.Contains(err.Error(), "invalid from address") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestSMTPSendMissingCredentials(t *testing.T) {
	s := NewSMTPSender("", 587, "", "", "hello@mind180.example")
	if _, err := s.Send(context.Background(), Message{To: "x@example.com"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestEnvelopeAddress(t *testing.T) {
	cases := map[string]string{
		"Mind180 <hello@mind180.example>": "hello@mind180.example",
		"hello@mind180.example":           "hello@mind180.example",
		"Broken <hello@mind180.example":   "Broken <hello@mind180.example",
	}
	for in, want := range cases {
		if got := envelopeAddress(in); got != want {
			t.Fatalf("envelopeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}
