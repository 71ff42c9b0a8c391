package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TrackerSuite struct {
	suite.Suite
	now     time.Time
	tracker *Tracker
}

func (s *TrackerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.tracker = New(func() time.Time { return s.now }, DefaultWindows())
}

func (s *TrackerSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) TestFreshTrackerHasNoIntent() {
	s.False(s.tracker.RecentUserIntent())
	s.False(s.tracker.RecentUserAction())
	active, _ := s.tracker.ActiveEscape()
	s.False(active)
}

func (s *TrackerSuite) TestUserIntentExpiresAtWindow() {
	s.tracker.Mark(true, "/photographer", ReasonUserNavigation)
	s.True(s.tracker.RecentUserIntent())

	s.advance(1999 * time.Millisecond)
	s.True(s.tracker.RecentUserIntent())

	s.advance(2 * time.Millisecond) // t+2001ms
	s.False(s.tracker.RecentUserIntent())
}

func (s *TrackerSuite) TestUserActionOutlivesUserIntent() {
	s.tracker.Mark(true, "/brands", ReasonUserNavigation)

	s.advance(2500 * time.Millisecond)
	s.False(s.tracker.RecentUserIntent())
	s.True(s.tracker.RecentUserAction())

	s.advance(600 * time.Millisecond) // t+3100ms
	s.False(s.tracker.RecentUserAction())
}

func (s *TrackerSuite) TestAutoRedirectIsNotUserIntent() {
	s.tracker.Mark(false, "/role-setup", ReasonAutoRedirect)

	s.False(s.tracker.RecentUserIntent())
	s.False(s.tracker.RecentUserAction())
	s.Equal("/role-setup", s.tracker.Current().TargetPath)
}

func (s *TrackerSuite) TestLastWriteWins() {
	s.tracker.Mark(true, "/photographer", ReasonUserNavigation)
	s.advance(100 * time.Millisecond)
	s.tracker.Mark(false, "/role-setup", ReasonAutoRedirect)

	current := s.tracker.Current()
	s.Equal("/role-setup", current.TargetPath)
	s.False(current.UserInitiated)
	// The auto redirect superseded the user intent cell, but the user action
	// timestamp survives for its own window.
	s.False(s.tracker.RecentUserIntent())
	s.True(s.tracker.RecentUserAction())
}

func (s *TrackerSuite) TestEscapeFlagDecaysAtItsOwnWindow() {
	s.tracker.Mark(true, "/login", ReasonEscapePendingApproval)

	active, target := s.tracker.ActiveEscape()
	s.True(active)
	s.Equal("/login", target)

	s.advance(4999 * time.Millisecond)
	active, _ = s.tracker.ActiveEscape()
	s.True(active)

	s.advance(1 * time.Millisecond) // t+5000ms, boundary is exclusive
	active, _ = s.tracker.ActiveEscape()
	s.False(active)
}

func (s *TrackerSuite) TestEscapeOutlivesGenericIntent() {
	s.tracker.Mark(true, "/login", ReasonEscapePendingApproval)

	s.advance(3000 * time.Millisecond)
	s.False(s.tracker.RecentUserIntent())
	active, _ := s.tracker.ActiveEscape()
	s.True(active, "escape keeps suppressing after the 2s intent window lapses")
}

func (s *TrackerSuite) TestOrdinaryNavigationDoesNotRaiseEscape() {
	s.tracker.Mark(true, "/login", ReasonUserNavigation)

	active, _ := s.tracker.ActiveEscape()
	s.False(active)
}

func (s *TrackerSuite) TestInjectedWindows() {
	tracker := New(func() time.Time { return s.now }, Windows{
		UserIntent: 10 * time.Millisecond,
		UserAction: 20 * time.Millisecond,
		Escape:     30 * time.Millisecond,
	})
	tracker.Mark(true, "/x", ReasonUserNavigation)

	s.advance(15 * time.Millisecond)
	s.False(tracker.RecentUserIntent())
	s.True(tracker.RecentUserAction())
}
