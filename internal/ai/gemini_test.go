package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiCompleteMapsRolesAndExtractsText(t *testing.T) {
	var gotPath, gotQuery string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"take a breath"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("g-key", "gemini-1.5-flash")
	c.BaseURL = srv.URL

	out, err := c.Complete(context.Background(), "be kind", []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "take a breath" {
		t.Fatalf("content = %q", out)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-1.5-flash:generateContent") {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "key=g-key" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "be kind" {
		t.Fatalf("system instruction wrong: %+v", gotReq.SystemInstruction)
	}
	if len(gotReq.Contents) != 2 || gotReq.Contents[0].Role != "user" || gotReq.Contents[1].Role != "model" {
		t.Fatalf("roles wrong: %+v", gotReq.Contents)
	}
}

func TestGeminiCompleteMissingKey(t *testing.T) {
	c := NewGeminiClient("", "gemini-1.5-flash")
	if _, err := c.Complete(context.Background(), "", nil); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestGeminiCompleteNon2xxIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("g-key", "m")
	c.BaseURL = srv.URL

	_, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if pe.Provider != "gemini" || pe.Status != http.StatusTooManyRequests {
		t.Fatalf("fields wrong: %+v", pe)
	}
}

func TestGeminiCompleteBlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("g-key", "m")
	c.BaseURL = srv.URL

	_, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected blocked-prompt error, got %v", err)
	}
}
