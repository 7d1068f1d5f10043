// Package mailer delivers plain-text reminder messages.
package mailer

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var ErrInvalidMessage = errors.New("invalid mail message")

// Message is the shape handed to every transport.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (message Message) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(message.From)); err != nil {
		return errors.Join(ErrInvalidMessage, errors.New("from: "+err.Error()))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(message.To)); err != nil {
		return errors.Join(ErrInvalidMessage, errors.New("to: "+err.Error()))
	}
	if strings.TrimSpace(message.Subject) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("subject is empty"))
	}
	return nil
}

// Transport sends a single message. Implementations must be safe for
// concurrent use.
type Transport interface {
	Send(ctx context.Context, message Message) error
	Name() string
}
