package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleTransport writes messages to the log instead of delivering them.
type ConsoleTransport struct {
	logger zerolog.Logger
}

func NewConsoleTransport(logger zerolog.Logger) *ConsoleTransport {
	return &ConsoleTransport{logger: logger}
}

func (transport *ConsoleTransport) Name() string {
	return "console"
}

func (transport *ConsoleTransport) Send(_ context.Context, message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	transport.logger.Info().
		Str("from", message.From).
		Str("to", message.To).
		Str("subject", message.Subject).
		Msg(message.Text)
	return nil
}
