package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"studiogate/internal/platform/metrics"
)

// ErrAlreadyStarted is returned when Start is called on a live subscription.
var ErrAlreadyStarted = errors.New("listener already started")

// Listener subscribes to the provider's session-change stream and forwards
// normalized sessions to a single consumer. It performs no redirects and owns
// no state beyond the subscription itself.
type Listener struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	started bool
}

// ListenerOption configures the Listener.
type ListenerOption func(*Listener)

func WithLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) ListenerOption {
	return func(l *Listener) {
		l.metrics = m
	}
}

func NewListener(provider Provider, opts ...ListenerOption) *Listener {
	l := &Listener{provider: provider}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Start resolves a pending redirect sign-in first, then begins normal event
// delivery. onChange receives normalized sessions in emission order; nil means
// signed out. The returned function cancels the subscription.
//
// Malformed payloads are logged and dropped: the consumer only ever sees a
// valid Session or nil, never a partially normalized one.
func (l *Listener) Start(ctx context.Context, onChange func(*Session)) (func(), error) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	l.started = true
	l.mu.Unlock()

	pending, err := l.provider.CompletePendingRedirectSignIn(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "pending redirect sign-in failed",
			"error", err,
		)
	} else if pending != nil {
		l.deliver(pending, onChange)
	}

	unsubscribe := l.provider.Subscribe(func(raw *RawSession) {
		l.deliver(raw, onChange)
	})

	return func() {
		unsubscribe()
		l.mu.Lock()
		l.started = false
		l.mu.Unlock()
	}, nil
}

func (l *Listener) deliver(raw *RawSession, onChange func(*Session)) {
	if raw == nil {
		l.count("signed_out")
		onChange(nil)
		return
	}
	session, err := Normalize(raw)
	if err != nil {
		l.logger.Warn("dropping malformed session payload",
			"error", err,
			"uid", raw.UID,
		)
		l.count("malformed")
		return
	}
	if session.FirstSignIn {
		l.count("first_sign_in")
	} else {
		l.count("signed_in")
	}
	onChange(session)
}

func (l *Listener) count(kind string) {
	if l.metrics != nil {
		l.metrics.IncrementSessionEvents(kind)
	}
}
