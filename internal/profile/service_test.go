package profile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"studiogate/internal/audit"
	"studiogate/internal/sentinel"
	derrors "studiogate/pkg/domainerrors"
)

// mapStore is a minimal in-memory Store for service tests.
type mapStore struct {
	profiles map[uuid.UUID]*Profile
}

func newMapStore() *mapStore {
	return &mapStore{profiles: make(map[uuid.UUID]*Profile)}
}

func (s *mapStore) Create(_ context.Context, p *Profile) error {
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *mapStore) FindByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("no profile %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *mapStore) Update(_ context.Context, p *Profile) error {
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

type capturingAudit struct {
	events []audit.Event
}

func (c *capturingAudit) Emit(_ context.Context, e audit.Event) error {
	c.events = append(c.events, e)
	return nil
}

type ServiceSuite struct {
	suite.Suite
	store *mapStore
	sink  *capturingAudit
	svc   *Service
	now   time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.store = newMapStore()
	s.sink = &capturingAudit{}
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.svc = NewService(s.store,
		WithAuditPublisher(s.sink),
		WithServiceClock(func() time.Time { return s.now }),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) seed() uuid.UUID {
	p := NewDefault(uuid.New(), "ana@example.com", "Ana", s.now)
	s.Require().NoError(s.store.Create(context.Background(), p))
	return p.ID
}

func (s *ServiceSuite) TestSubmitRoleHappyPath() {
	id := s.seed()

	p, err := s.svc.SubmitRole(context.Background(), id, &RoleSubmission{
		Role:        "photographer",
		DisplayName: "Ana P",
	})

	s.Require().NoError(err)
	s.Equal(StatusPendingApproval, p.Status)
	s.Equal(RolePhotographer, p.Role)
	s.Equal("Ana P", p.DisplayName)

	stored, err := s.store.FindByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(StatusPendingApproval, stored.Status)

	s.Require().Len(s.sink.events, 1)
	s.Equal(string(audit.EventRoleSubmitted), s.sink.events[0].Action)
}

func (s *ServiceSuite) TestSubmitRoleRejectsUnknownRole() {
	id := s.seed()

	_, err := s.svc.SubmitRole(context.Background(), id, &RoleSubmission{Role: "new_user"})

	s.True(derrors.HasCode(err, derrors.CodeValidation))
	s.Empty(s.sink.events)
}

func (s *ServiceSuite) TestSubmitRoleUnknownProfile() {
	_, err := s.svc.SubmitRole(context.Background(), uuid.New(), &RoleSubmission{Role: "photographer"})

	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}

func (s *ServiceSuite) TestSubmitRoleTwiceConflicts() {
	id := s.seed()
	_, err := s.svc.SubmitRole(context.Background(), id, &RoleSubmission{Role: "photographer"})
	s.Require().NoError(err)

	_, err = s.svc.SubmitRole(context.Background(), id, &RoleSubmission{Role: "super_admin"})

	s.True(derrors.HasCode(err, derrors.CodeInvalidState))
}

func (s *ServiceSuite) TestApproveActivatesAndAudits() {
	id := s.seed()
	_, err := s.svc.SubmitRole(context.Background(), id, &RoleSubmission{Role: "brand_coordinator"})
	s.Require().NoError(err)

	p, err := s.svc.Approve(context.Background(), id)

	s.Require().NoError(err)
	s.Equal(StatusActive, p.Status)
	s.Require().Len(s.sink.events, 2)
	s.Equal(string(audit.EventProfileApproved), s.sink.events[1].Action)
}

func (s *ServiceSuite) TestApproveBeforeRoleSetupConflicts() {
	id := s.seed()

	_, err := s.svc.Approve(context.Background(), id)

	s.True(derrors.HasCode(err, derrors.CodeInvalidState))
}

func (s *ServiceSuite) TestSuspendActiveProfile() {
	id := s.seed()
	_, err := s.svc.SubmitRole(context.Background(), id, &RoleSubmission{Role: "marketing_coordinator"})
	s.Require().NoError(err)
	_, err = s.svc.Approve(context.Background(), id)
	s.Require().NoError(err)

	p, err := s.svc.Suspend(context.Background(), id)

	s.Require().NoError(err)
	s.Equal(StatusSuspended, p.Status)
}
