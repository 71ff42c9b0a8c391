package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studiogate/internal/profile"
	derrors "studiogate/pkg/domainerrors"
)

// handleRoleSubmission applies the role-setup form for the current visitor:
// pending_role_setup -> pending_approval.
func (h *Handler) handleRoleSubmission(w http.ResponseWriter, r *http.Request) {
	defer h.observe("role_submission", time.Now())

	snap := h.controller.Snapshot()
	if snap.Session == nil {
		writeError(w, derrors.New(derrors.CodeUnauthorized, "no active session"))
		return
	}

	var req profile.RoleSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeInvalidInput, "invalid role submission"))
		return
	}

	p, err := h.profiles.SubmitRole(r.Context(), snap.Session.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	// The listener stream carries no event for profile mutations, so refresh
	// the controller's view directly.
	h.controller.Retry()

	writeJSON(w, http.StatusOK, profileView{
		ID:          p.ID.String(),
		Status:      string(p.Status),
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		Email:       p.Email,
	})
}

// handleApprove applies the external approval action: pending_approval -> active.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	defer h.observe("profile_approve", time.Now())
	h.mutateProfile(w, r, h.profiles.Approve)
}

// handleSuspend marks an active profile suspended.
func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	defer h.observe("profile_suspend", time.Now())
	h.mutateProfile(w, r, h.profiles.Suspend)
}

func (h *Handler) mutateProfile(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID) (*profile.Profile, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeInvalidInput, "profile id must be a uuid"))
		return
	}

	p, err := apply(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if snap := h.controller.Snapshot(); snap.Session != nil && snap.Session.ID == id {
		h.controller.Retry()
	}

	writeJSON(w, http.StatusOK, profileView{
		ID:          p.ID.String(),
		Status:      string(p.Status),
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		Email:       p.Email,
	})
}
