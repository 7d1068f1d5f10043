package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type DispatcherConfig struct {
	RatePerSec  int
	SendTimeout time.Duration
}

// Dispatcher sends messages in the background. Callers never wait for the
// outcome; failures are logged and dropped.
type Dispatcher struct {
	transport Transport
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    zerolog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(transport Transport, config DispatcherConfig, logger zerolog.Logger) *Dispatcher {
	ratePerSec := config.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	timeout := config.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		transport: transport,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		timeout:   timeout,
		logger:    logger.With().Str("component", "mailer").Str("transport", transport.Name()).Logger(),
		baseCtx:   baseCtx,
		cancel:    cancel,
	}
}

// Dispatch queues message for delivery and returns immediately. kind is a
// short label used only in logs.
func (dispatcher *Dispatcher) Dispatch(message Message, kind string) {
	dispatcher.mu.Lock()
	if dispatcher.closed {
		dispatcher.mu.Unlock()
		dispatcher.logger.Warn().Str("kind", kind).Str("to", message.To).Msg("dispatcher closed, message dropped")
		return
	}
	dispatcher.wg.Add(1)
	dispatcher.mu.Unlock()

	go func() {
		defer dispatcher.wg.Done()
		dispatcher.deliver(message, kind)
	}()
}

func (dispatcher *Dispatcher) deliver(message Message, kind string) {
	event := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("kind", kind).Str("to", message.To).Str("subject", message.Subject)
	}

	if err := dispatcher.limiter.Wait(dispatcher.baseCtx); err != nil {
		event(dispatcher.logger.Error()).Err(err).Msg("mail not sent")
		return
	}

	ctx, cancel := context.WithTimeout(dispatcher.baseCtx, dispatcher.timeout)
	defer cancel()

	started := time.Now()
	if err := dispatcher.transport.Send(ctx, message); err != nil {
		event(dispatcher.logger.Error()).Err(err).Dur("elapsed", time.Since(started)).Msg("mail send failed")
		return
	}
	event(dispatcher.logger.Info()).Dur("elapsed", time.Since(started)).Msg("mail sent")
}

// Close stops accepting messages and waits for in-flight sends. When ctx
// expires first, pending sends are cancelled.
func (dispatcher *Dispatcher) Close(ctx context.Context) error {
	dispatcher.mu.Lock()
	dispatcher.closed = true
	dispatcher.mu.Unlock()

	done := make(chan struct{})
	go func() {
		dispatcher.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		dispatcher.cancel()
		return nil
	case <-ctx.Done():
		dispatcher.cancel()
		<-done
		return ctx.Err()
	}
}
