package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const resendBaseURL = "https://api.resend.com"

// ResendSender delivers email through the Resend REST API.
type ResendSender struct {
	APIKey  string
	From    string
	BaseURL string
	HTTP    *http.Client
}

// NewResendSender creates a sender using the given API key and from address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		APIKey:  apiKey,
		From:    from,
		BaseURL: resendBaseURL,
		HTTP:    http.DefaultClient,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// Send submits the email and returns the Resend message id.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if s.APIKey == "" {
		return "", ErrMissingCredentials
	}

	body := resendRequest{
		From:    s.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var out resendResponse
		if json.Unmarshal(respBody, &out) == nil && out.Message != "" {
			return "", fmt.Errorf("resend: HTTP %d: %s", resp.StatusCode, out.Message)
		}
		return "", fmt.Errorf("resend: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var out resendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("resend: decode: %w", err)
	}
	return out.ID, nil
}
