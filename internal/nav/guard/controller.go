package guard

import (
	"context"
	"log/slog"
	"sync"

	"studiogate/internal/audit"
	"studiogate/internal/identity"
	"studiogate/internal/nav/intent"
	"studiogate/internal/nav/policy"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/profile"
)

// AuditPublisher records guard decisions for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Snapshot is the visitor-facing view of the navigation state:
// { session, profile, isLoading, error }.
type Snapshot struct {
	Session *identity.Session
	Profile *profile.Profile
	Loading bool
	Err     error
}

// Controller reconciles the session stream with profile resolution. It owns
// the per-process navigation state machine:
//
//	unauthenticated -> profile_loading -> {pending_role_setup | pending_approval | active(role) | suspended}
//
// Every session event supersedes in-flight resolutions: a resolution started
// for session N is tagged with a sequence number and its result is discarded
// if a newer event has arrived by the time it completes.
type Controller struct {
	resolver *profile.Resolver
	tracker  *intent.Tracker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditPub AuditPublisher

	ctx context.Context

	mu   sync.Mutex
	snap Snapshot
	seq  uint64
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithControllerMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithControllerAudit(publisher AuditPublisher) ControllerOption {
	return func(c *Controller) {
		c.auditPub = publisher
	}
}

func NewController(resolver *profile.Resolver, tracker *intent.Tracker, opts ...ControllerOption) *Controller {
	c := &Controller{
		resolver: resolver,
		tracker:  tracker,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Start subscribes the controller to the listener's session stream. The
// returned function cancels the subscription.
func (c *Controller) Start(ctx context.Context, listener *identity.Listener) (func(), error) {
	c.ctx = ctx
	return listener.Start(ctx, c.OnSessionChange)
}

// OnSessionChange handles one session event. Delivery order is the provider's
// emission order; each event bumps the sequence so older resolutions cannot
// overwrite newer state.
func (c *Controller) OnSessionChange(s *identity.Session) {
	c.mu.Lock()
	c.seq++
	seq := c.seq

	if s == nil {
		hadSession := c.snap.Session != nil
		c.snap = Snapshot{}
		c.mu.Unlock()
		if hadSession && c.metrics != nil {
			c.metrics.DecrementActiveVisitors(1)
		}
		c.emit(audit.Event{Action: string(audit.EventSignOut)})
		return
	}

	hadSession := c.snap.Session != nil
	c.snap = Snapshot{Session: s, Loading: true}
	c.mu.Unlock()

	if !hadSession && c.metrics != nil {
		c.metrics.IncrementActiveVisitors(1)
	}
	c.emit(audit.Event{UserID: s.ID.String(), Action: string(audit.EventSignIn)})

	mode := profile.ResolveExisting
	if s.FirstSignIn {
		mode = profile.ResolveCreateIfMissing
	}
	go c.resolve(seq, s, mode)
}

// Retry re-runs resolution for the current session after a definitive store
// failure. It is the render guard's retry affordance.
func (c *Controller) Retry() {
	c.mu.Lock()
	s := c.snap.Session
	if s == nil || c.snap.Loading {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.snap.Loading = true
	c.snap.Err = nil
	c.mu.Unlock()

	go c.resolve(seq, s, profile.ResolveExisting)
}

func (c *Controller) resolve(seq uint64, s *identity.Session, mode profile.ResolveMode) {
	p, err := c.resolver.Resolve(c.ctx, s, mode)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		// A newer session event superseded this resolution; applying it would
		// clobber fresher state.
		if c.metrics != nil {
			c.metrics.IncrementStaleResolutions()
		}
		c.logger.Info("discarded stale profile resolution",
			"session_id", s.ID.String(),
		)
		c.emit(audit.Event{UserID: s.ID.String(), Action: string(audit.EventResolutionDiscarded)})
		return
	}
	c.snap.Loading = false
	c.snap.Profile = p
	c.snap.Err = err
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("profile resolution failed",
			"session_id", s.ID.String(),
			"error", err,
		)
	}
}

// Snapshot returns the current navigation state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// MarkUserNavigation registers a visitor-driven route change before it
// happens, so the guard can distinguish it from a policy redirect. Leaving the
// pending-approval screen for a designated escape path raises the longer-lived
// escape flag.
func (c *Controller) MarkUserNavigation(path string) {
	c.mu.Lock()
	p := c.snap.Profile
	c.mu.Unlock()

	reason := intent.ReasonUserNavigation
	if p != nil && p.Status == profile.StatusPendingApproval && policy.IsEscapePath(path) {
		reason = intent.ReasonEscapePendingApproval
	}
	c.tracker.Mark(true, path, reason)
}

func (c *Controller) emit(e audit.Event) {
	if c.auditPub == nil {
		return
	}
	if err := c.auditPub.Emit(c.ctx, e); err != nil {
		c.logger.Error("failed to emit audit event", "error", err, "action", e.Action)
	}
}
