package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studiogate/internal/identity"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/sentinel"
	derrors "studiogate/pkg/domainerrors"
)

// Store defines the persistence interface for profile data.
// Error Contract: FindByID returns an error wrapping sentinel.ErrNotFound when
// the profile doesn't exist, and sentinel.ErrUnavailable for infrastructure
// failures; absence and failure are never conflated.
type Store interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

// ResolveMode selects how absence is handled during resolution.
type ResolveMode int

const (
	// ResolveExisting expects the profile write to have propagated. Absence is
	// treated as read-after-write lag and retried on the backoff schedule;
	// exhausted retries return (nil, nil).
	ResolveExisting ResolveMode = iota
	// ResolveCreateIfMissing creates a default profile on absence. Used for the
	// first resolution of a brand-new session.
	ResolveCreateIfMissing
	// ResolveDefinitive returns absence immediately without retrying.
	ResolveDefinitive
)

const (
	defaultAttempts    = 3
	defaultBackoffStep = 500 * time.Millisecond
)

// Resolver fetches profiles with bounded retries, tolerating the document
// store's write-then-read lag. The attempt count and backoff schedule are
// injectable so tests can simulate "never consistent" and "consistent after
// one attempt" without real delays.
type Resolver struct {
	store       Store
	attempts    int
	backoffStep time.Duration
	clock       func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithResolverMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithAttempts bounds the number of store lookups per resolution.
func WithAttempts(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBackoffStep sets the linear backoff step between attempts. The delay
// before attempt n is (n-1) * step.
func WithBackoffStep(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d >= 0 {
			r.backoffStep = d
		}
	}
}

// WithClock injects the time source.
func WithClock(clock func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithSleeper injects the delay function so tests can run the backoff
// schedule without real timers.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) ResolverOption {
	return func(r *Resolver) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:       store,
		attempts:    defaultAttempts,
		backoffStep: defaultBackoffStep,
		clock:       time.Now,
		sleep:       sleepContext,
		tracer:      otel.Tracer("studiogate/profile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Resolve fetches the profile for a session.
//
// Outcomes:
//   - (profile, nil): found, or created for a brand-new session.
//   - (nil, nil): definitive absence — no profile and none was created. The
//     caller decides whether that means "create one" or "force sign-out".
//   - (nil, err): the store could not answer (network, permission). Never
//     silently coerced to absence.
func (r *Resolver) Resolve(ctx context.Context, sess *identity.Session, mode ResolveMode) (*Profile, error) {
	if sess == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "session is required")
	}

	ctx, span := r.tracer.Start(ctx, "profile.Resolve",
		trace.WithAttributes(attribute.String("session.id", sess.ID.String())),
	)
	defer span.End()

	start := r.clock()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveResolveLatency(r.clock().Sub(start).Seconds())
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := r.sleep(ctx, time.Duration(attempt-1)*r.backoffStep); err != nil {
			span.SetStatus(codes.Error, "cancelled during backoff")
			return nil, derrors.Wrap(err, derrors.CodeTimeout, "profile resolution cancelled")
		}

		if r.metrics != nil {
			r.metrics.IncrementResolveAttempts()
		}

		p, err := r.store.FindByID(ctx, sess.ID)
		if err == nil {
			span.SetAttributes(attribute.Int("resolve.attempts", attempt))
			return p, nil
		}

		if errors.Is(err, sentinel.ErrNotFound) {
			switch mode {
			case ResolveCreateIfMissing:
				return r.createDefault(ctx, sess)
			case ResolveDefinitive:
				return nil, nil
			}
			// ResolveExisting: possible write-then-read lag, retry.
			lastErr = err
			continue
		}

		// Transient store failure: retry on the same schedule, but surface the
		// error if the budget runs out rather than reporting absence.
		r.logger.WarnContext(ctx, "profile lookup failed",
			"session_id", sess.ID.String(),
			"attempt", attempt,
			"error", err,
		)
		lastErr = err
	}

	if r.metrics != nil {
		r.metrics.IncrementResolveFailures()
	}

	if errors.Is(lastErr, sentinel.ErrNotFound) {
		// The write never propagated within the budget. Absence, not failure.
		span.SetAttributes(attribute.Bool("resolve.exhausted", true))
		return nil, nil
	}

	span.SetStatus(codes.Error, "store unavailable")
	return nil, derrors.Wrap(lastErr, derrors.CodeUnavailable, "could not determine profile")
}

func (r *Resolver) createDefault(ctx context.Context, sess *identity.Session) (*Profile, error) {
	now := r.clock()
	displayName := sess.Email
	if displayName == "" {
		displayName = sess.ID.String()
	}
	p := NewDefault(sess.ID, sess.Email, displayName, now)

	err := r.store.Create(ctx, p)
	if err == nil {
		if r.metrics != nil {
			r.metrics.IncrementProfilesCreated()
		}
		r.logger.InfoContext(ctx, "created default profile",
			"profile_id", p.ID.String(),
			"event", "profile_created",
			"log_type", "audit",
		)
		return p, nil
	}

	if errors.Is(err, sentinel.ErrInvalidState) {
		// Lost a create race; the winner's row is authoritative.
		existing, findErr := r.store.FindByID(ctx, sess.ID)
		if findErr != nil {
			return nil, derrors.Wrap(findErr, derrors.CodeUnavailable, "could not read profile after create race")
		}
		return existing, nil
	}

	return nil, derrors.Wrap(err, derrors.CodeUnavailable, "could not create default profile")
}
