package mailer

import (
	"context"
	"errors"
	"sync"
)

type recordingTransport struct {
	mu       sync.Mutex
	messages []Message
	failWith error
	block    chan struct{}
}

func (transport *recordingTransport) Name() string {
	return "recording"
}

func (transport *recordingTransport) Send(ctx context.Context, message Message) error {
	if transport.block != nil {
		select {
		case <-transport.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if transport.failWith != nil {
		return transport.failWith
	}
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.messages = append(transport.messages, message)
	return nil
}

func (transport *recordingTransport) sent() []Message {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return append([]Message(nil), transport.messages...)
}

var errTransportDown = errors.New("transport down")

func validMessage() Message {
	return Message{
		From:    "noreply@example.com",
		To:      "estudiante@unadvirtual.edu.co",
		Subject: "Recordatorio de Clase: Cálculo",
		Text:    "Tu clase \"Cálculo\" comienza ahora (lunes 08:00).",
	}
}
