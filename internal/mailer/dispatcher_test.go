package mailer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDispatcherDeliversInBackground(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := NewDispatcher(transport, DispatcherConfig{RatePerSec: 10, SendTimeout: time.Second}, zerolog.Nop())

	dispatcher.Dispatch(validMessage(), "start")
	dispatcher.Dispatch(validMessage(), "one_day")

	if err := dispatcher.Close(context.Background()); err != nil {
		t.Fatalf("close dispatcher: %v", err)
	}
	if got := len(transport.sent()); got != 2 {
		t.Fatalf("expected 2 delivered messages, got %d", got)
	}
}

func TestDispatcherDoesNotBlockCaller(t *testing.T) {
	transport := &recordingTransport{block: make(chan struct{})}
	dispatcher := NewDispatcher(transport, DispatcherConfig{RatePerSec: 10, SendTimeout: time.Second}, zerolog.Nop())

	returned := make(chan struct{})
	go func() {
		dispatcher.Dispatch(validMessage(), "start")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a stalled transport")
	}

	close(transport.block)
	if err := dispatcher.Close(context.Background()); err != nil {
		t.Fatalf("close dispatcher: %v", err)
	}
}

func TestDispatcherLogsTransportFailure(t *testing.T) {
	var output bytes.Buffer
	logger := zerolog.New(&output)
	transport := &recordingTransport{failWith: errTransportDown}
	dispatcher := NewDispatcher(transport, DispatcherConfig{RatePerSec: 10, SendTimeout: time.Second}, logger)

	dispatcher.Dispatch(validMessage(), "five_days")
	if err := dispatcher.Close(context.Background()); err != nil {
		t.Fatalf("close dispatcher: %v", err)
	}

	logged := output.String()
	if !strings.Contains(logged, "mail send failed") || !strings.Contains(logged, "transport down") {
		t.Fatalf("expected failure to be logged, got %s", logged)
	}
}

func TestDispatcherCloseCancelsStalledSends(t *testing.T) {
	transport := &recordingTransport{block: make(chan struct{})}
	dispatcher := NewDispatcher(transport, DispatcherConfig{RatePerSec: 10, SendTimeout: time.Minute}, zerolog.Nop())

	dispatcher.Dispatch(validMessage(), "start")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := dispatcher.Close(ctx); err == nil {
		t.Fatal("expected Close to report the expired context")
	}
	if got := len(transport.sent()); got != 0 {
		t.Fatalf("expected stalled send to be cancelled, got %d delivered", got)
	}
}

func TestDispatcherDropsMessagesAfterClose(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := NewDispatcher(transport, DispatcherConfig{RatePerSec: 10, SendTimeout: time.Second}, zerolog.Nop())

	if err := dispatcher.Close(context.Background()); err != nil {
		t.Fatalf("close dispatcher: %v", err)
	}
	dispatcher.Dispatch(validMessage(), "start")

	if got := len(transport.sent()); got != 0 {
		t.Fatalf("expected no deliveries after close, got %d", got)
	}
}
