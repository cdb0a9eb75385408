package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"ucoa-chat/internal/platform/logger"
)

// ErrOutboxFull is returned when the handoff buffer cannot take another event.
var ErrOutboxFull = errors.New("event: outbox buffer full")

// ErrOutboxClosed is returned once Run has stopped draining the buffer.
var ErrOutboxClosed = errors.New("event: outbox closed")

// Outbox is the post-commit handoff: Publish only places the event on a buffered channel,
// Run drains it and fans each event out to every sink.
//
// Sinks are best-effort. A failing sink is logged and does not stop the others.
// Outbox is safe for concurrent use by multiple goroutines.
type Outbox struct {
	mu      sync.RWMutex
	closed  bool
	log     *logger.Logger
	events  chan ChatCreatedEvent
	sinks   []Dispatcher
	timeout time.Duration
}

func NewOutbox(log *logger.Logger, size int, timeout time.Duration, sinks ...Dispatcher) *Outbox {
	if size <= 0 {
		size = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Outbox{
		log:     log,
		events:  make(chan ChatCreatedEvent, size),
		sinks:   sinks,
		timeout: timeout,
	}
}

// Publish never blocks: it either enqueues or returns ErrOutboxFull.
// After Run has returned it fails with ErrOutboxClosed.
func (o *Outbox) Publish(ctx context.Context, evt ChatCreatedEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.events <- evt:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Run blocks until ctx is done, then closes the outbox and flushes what is already buffered.
func (o *Outbox) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-o.events:
			o.fanout(ctx, evt)
		case <-ctx.Done():
			// Sends happen under the read lock, so nothing lands in the buffer after this.
			o.mu.Lock()
			o.closed = true
			o.mu.Unlock()
			o.drain(context.WithoutCancel(ctx))
			o.log.Debug("outbox stopped")
			return nil
		}
	}
}

func (o *Outbox) drain(ctx context.Context) {
	for {
		select {
		case evt := <-o.events:
			o.fanout(ctx, evt)
		default:
			return
		}
	}
}

func (o *Outbox) fanout(ctx context.Context, evt ChatCreatedEvent) {
	for _, sink := range o.sinks {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		err := sink.Publish(sctx, evt)
		cancel()
		if err != nil {
			o.log.Warn("event sink failed", "event_id", evt.ID, "chat_id", evt.Chat.ID, "error", err)
		}
	}
}
