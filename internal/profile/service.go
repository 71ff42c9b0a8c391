package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"studiogate/internal/audit"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/middleware"
	"studiogate/internal/sentinel"
	derrors "studiogate/pkg/domainerrors"
)

// AuditPublisher records profile mutations for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// RoleSubmission is the role-setup form payload.
type RoleSubmission struct {
	Role        string `json:"role" validate:"required,oneof=photographer brand_coordinator marketing_coordinator super_admin"`
	DisplayName string `json:"display_name" validate:"omitempty,max=120"`
}

// Service applies the profile mutations the platform performs: role-setup
// submission and the approval action. Both are status transitions with rules
// owned by the Profile model; the service adds persistence, validation, and
// observability.
type Service struct {
	store    Store
	clock    func() time.Time
	logger   *slog.Logger
	auditPub AuditPublisher
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) ServiceOption {
	return func(s *Service) {
		s.auditPub = publisher
	}
}

func WithServiceMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithServiceClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{
		store:    store,
		clock:    time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// SubmitRole applies a role-setup submission: pending_role_setup -> pending_approval.
func (s *Service) SubmitRole(ctx context.Context, id uuid.UUID, req *RoleSubmission) (*Profile, error) {
	if req == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "submission is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeValidation, "invalid role submission")
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "profile not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to load profile")
	}

	if err := p.SubmitRole(Role(req.Role), s.clock()); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidState, "role submission rejected")
	}
	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to save profile")
	}

	s.logAudit(ctx, string(audit.EventRoleSubmitted), p.ID.String(),
		"role", req.Role,
	)
	return p, nil
}

// Approve applies the external approval action: pending_approval -> active.
// There is no path from pending_approval back to pending_role_setup.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "profile not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to load profile")
	}

	if err := p.Approve(s.clock()); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidState, "approval rejected")
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to save profile")
	}

	s.logAudit(ctx, string(audit.EventProfileApproved), p.ID.String(),
		"role", string(p.Role),
	)
	return p, nil
}

// Suspend marks an active profile suspended (admin action).
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "profile not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to load profile")
	}

	if err := p.Suspend(s.clock()); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidState, "suspension rejected")
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "failed to save profile")
	}

	s.logAudit(ctx, string(audit.EventProfileSuspended), p.ID.String())
	return p, nil
}

func (s *Service) logAudit(ctx context.Context, event string, userID string, attributes ...any) {
	if s.metrics != nil {
		s.metrics.IncrementProfileTransitions(event)
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "user_id", userID, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPub == nil {
		return
	}
	if err := s.auditPub.Emit(ctx, audit.Event{
		UserID:    userID,
		Action:    event,
		RequestID: middleware.GetRequestID(ctx),
	}); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}
