package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ListenerSuite struct {
	suite.Suite
	provider *DevProvider
	listener *Listener
	received []*Session
}

func (s *ListenerSuite) SetupTest() {
	s.provider = NewDevProvider()
	s.listener = NewListener(s.provider)
	s.received = nil
}

func (s *ListenerSuite) onChange(sess *Session) {
	s.received = append(s.received, sess)
}

func TestListenerSuite(t *testing.T) {
	suite.Run(t, new(ListenerSuite))
}

func (s *ListenerSuite) TestDeliversSignInEvents() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel()

	uid := uuid.New()
	s.provider.EmitSignIn(&RawSession{UID: uid.String(), Email: "ana@example.com", EmailVerified: true})

	s.Require().Len(s.received, 1)
	s.Equal(uid, s.received[0].ID)
	s.Equal("ana@example.com", s.received[0].Email)
	s.True(s.received[0].EmailVerified)
}

func (s *ListenerSuite) TestDeliversSignOutAsNil() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel()

	s.provider.EmitSignIn(&RawSession{UID: uuid.New().String()})
	s.provider.EmitSignOut()

	s.Require().Len(s.received, 2)
	s.NotNil(s.received[0])
	s.Nil(s.received[1])
}

// TestPendingRedirectResolvedFirst verifies a redirect sign-in that completed
// before startup is delivered before any subscription event.
func (s *ListenerSuite) TestPendingRedirectResolvedFirst() {
	pendingUID := uuid.New()
	s.provider.SetPendingRedirectResult(&RawSession{UID: pendingUID.String(), IsNewUser: true})

	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel()

	laterUID := uuid.New()
	s.provider.EmitSignIn(&RawSession{UID: laterUID.String()})

	s.Require().Len(s.received, 2)
	s.Equal(pendingUID, s.received[0].ID)
	s.True(s.received[0].FirstSignIn)
	s.Equal(laterUID, s.received[1].ID)
}

func (s *ListenerSuite) TestMalformedPayloadDropped() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel()

	s.provider.EmitSignIn(&RawSession{UID: "not-a-uuid"})
	s.provider.EmitSignIn(&RawSession{UID: uuid.New().String()})

	// The consumer only ever sees valid sessions.
	s.Require().Len(s.received, 1)
	s.NotNil(s.received[0])
}

func (s *ListenerSuite) TestStartTwiceFails() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel()

	_, err = s.listener.Start(context.Background(), s.onChange)
	s.ErrorIs(err, ErrAlreadyStarted)
}

func (s *ListenerSuite) TestCancelStopsDelivery() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)

	cancel()
	s.provider.EmitSignIn(&RawSession{UID: uuid.New().String()})

	s.Empty(s.received)
}

func (s *ListenerSuite) TestRestartAfterCancel() {
	cancel, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	cancel()

	cancel2, err := s.listener.Start(context.Background(), s.onChange)
	s.Require().NoError(err)
	defer cancel2()

	s.provider.EmitSignIn(&RawSession{UID: uuid.New().String()})
	s.Len(s.received, 1)
}
