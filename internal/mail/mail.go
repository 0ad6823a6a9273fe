// Package mail sends transactional email through Resend or a plain SMTP
// relay. Senders are constructed once at startup with injected credentials;
// nothing in this package reads the environment directly.
package mail

import (
	"context"
	"errors"
)

// ErrMissingCredentials indicates the sender has no usable credentials.
var ErrMissingCredentials = errors.New("missing email credentials")

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id, when
// the provider issues one. Delivery is fire-and-forget: acceptance by the
// provider is the only success signal.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
