package intent

import (
	"sync"
	"time"
)

// Reason records why a navigation intent was marked.
type Reason string

const (
	// ReasonUserNavigation marks an explicit, visitor-driven route change.
	ReasonUserNavigation Reason = "user_navigation"
	// ReasonAutoRedirect marks a policy-driven route change.
	ReasonAutoRedirect Reason = "auto_redirect"
	// ReasonEscapePendingApproval marks a deliberate exit from the
	// pending-approval holding screen toward a designated escape path.
	ReasonEscapePendingApproval Reason = "escape_pending_approval"
)

// Intent is a short-lived marker distinguishing a visitor-driven route change
// from an automatic one. Superseded intents are logically expired, not
// retained; each Mark overwrites the previous value.
type Intent struct {
	UserInitiated bool
	TargetPath    string
	Timestamp     time.Time
	Reason        Reason
}

// Windows holds the decay windows after which an intent stops influencing
// decisions. Values are injectable so tests need no real timers.
type Windows struct {
	// UserIntent is how long a user-initiated intent is authoritative.
	UserIntent time.Duration
	// UserAction is how long any route-changing user action counts as recent.
	UserAction time.Duration
	// Escape is how long the escaping-a-held-screen flag is authoritative.
	Escape time.Duration
}

// DefaultWindows returns the canonical decay windows.
func DefaultWindows() Windows {
	return Windows{
		UserIntent: 2000 * time.Millisecond,
		UserAction: 3000 * time.Millisecond,
		Escape:     5000 * time.Millisecond,
	}
}

// Tracker is the process-wide navigation intent cell. Writes are
// last-write-wins; reads always see the most recent write. Expired intents are
// not deleted eagerly — every read is a pure decay check against the injected
// clock.
type Tracker struct {
	mu      sync.Mutex
	clock   func() time.Time
	windows Windows

	current        Intent
	lastUserAction time.Time
	escapeAt       time.Time
	escapeTarget   string
}

// New constructs a Tracker with the given clock and decay windows.
func New(clock func() time.Time, windows Windows) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{clock: clock, windows: windows}
}

// Mark records a navigation intent, overwriting the previous one.
func (t *Tracker) Mark(userInitiated bool, targetPath string, reason Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	t.current = Intent{
		UserInitiated: userInitiated,
		TargetPath:    targetPath,
		Timestamp:     now,
		Reason:        reason,
	}
	if userInitiated {
		t.lastUserAction = now
	}
	if reason == ReasonEscapePendingApproval {
		t.escapeAt = now
		t.escapeTarget = targetPath
	}
}

// Current returns the most recent intent regardless of age. Consumers must
// check its age before trusting it.
func (t *Tracker) Current() Intent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// IsRecentUserAction reports whether a user-initiated intent was recorded
// within the given window.
func (t *Tracker) IsRecentUserAction(within time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastUserAction.IsZero() {
		return false
	}
	return t.clock().Sub(t.lastUserAction) < within
}

// RecentUserIntent reports whether the current intent is user-initiated and
// still inside the user-intent window.
func (t *Tracker) RecentUserIntent() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current.UserInitiated {
		return false
	}
	return t.clock().Sub(t.current.Timestamp) < t.windows.UserIntent
}

// RecentUserAction reports whether any user action happened inside the
// user-action window.
func (t *Tracker) RecentUserAction() bool {
	return t.IsRecentUserAction(t.windows.UserAction)
}

// ActiveEscape reports whether the escaping-a-held-screen flag is inside its
// window, and the path the visitor escaped toward.
func (t *Tracker) ActiveEscape() (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.escapeAt.IsZero() {
		return false, ""
	}
	if t.clock().Sub(t.escapeAt) >= t.windows.Escape {
		return false, ""
	}
	return true, t.escapeTarget
}
