package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrMissingAction rejects events that name no action; every record in the
// navigation trail must say what happened.
var ErrMissingAction = errors.New("audit: event action is required")

// Publisher is the single entry point for the navigation audit trail. Session
// events, resolution outcomes, and redirect decisions all pass through here,
// so this is the one place that stamps timestamps and enforces the event
// shape before a record reaches the sink.
//
// The guards emit from request paths, so the async mode trades completeness
// for latency: when the queue is full the event is counted and dropped rather
// than stalling a navigation.
type Publisher struct {
	sink    Store
	queue   chan Event
	dropped atomic.Uint64
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer moves persistence to a background goroutine with the given
// queue capacity. Zero or negative sizes leave the publisher synchronous.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

// WithPublisherLogger sets a logger for sink failures and drop reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one audit event. In async mode it never blocks the caller.
func (p *Publisher) Emit(ctx context.Context, e Event) error {
	if e.Action == "" {
		return ErrMissingAction
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if p.queue == nil {
		return p.sink.Append(ctx, e)
	}
	select {
	case p.queue <- e:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.Warn("audit queue full, event dropped",
				"action", e.Action,
				"user_id", e.UserID,
			)
		}
	}
	return nil
}

// Dropped reports how many events were shed because the queue was full.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// drain persists queued events until the queue is closed.
func (p *Publisher) drain() {
	defer p.wg.Done()
	for e := range p.queue {
		if err := p.sink.Append(context.Background(), e); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", e.Action,
				"user_id", e.UserID,
			)
		}
	}
}

// Close stops the async publisher after draining queued events. Synchronous
// publishers have nothing to do.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	close(p.queue)
	p.wg.Wait()
	if n := p.dropped.Load(); n > 0 && p.logger != nil {
		p.logger.Warn("audit events were dropped under load", "count", n)
	}
}
