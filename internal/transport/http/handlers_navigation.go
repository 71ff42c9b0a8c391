package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	derrors "studiogate/pkg/domainerrors"
)

// navigationState is the visitor-facing snapshot: { session, profile,
// isLoading, error }. Errors are reported as a retryable flag plus a message,
// never as profile absence.
type navigationState struct {
	Session *sessionView `json:"session"`
	Profile *profileView `json:"profile"`
	Loading bool         `json:"is_loading"`
	Error   string       `json:"error,omitempty"`
}

type sessionView struct {
	ID            string `json:"id"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	DeviceName    string `json:"device_name,omitempty"`
}

type profileView struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (h *Handler) handleNavigationState(w http.ResponseWriter, _ *http.Request) {
	defer h.observe("navigation_state", time.Now())

	snap := h.controller.Snapshot()
	state := navigationState{Loading: snap.Loading}
	if snap.Session != nil {
		state.Session = &sessionView{
			ID:            snap.Session.ID.String(),
			Email:         snap.Session.Email,
			EmailVerified: snap.Session.EmailVerified,
			DeviceName:    snap.Session.DeviceName,
		}
	}
	if snap.Profile != nil {
		state.Profile = &profileView{
			ID:          snap.Profile.ID.String(),
			Status:      string(snap.Profile.Status),
			Role:        string(snap.Profile.Role),
			DisplayName: snap.Profile.DisplayName,
			Email:       snap.Profile.Email,
		}
	}
	if snap.Err != nil {
		state.Error = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, state)
}

type intentRequest struct {
	Path string `json:"path"`
}

// handleNavigationIntent registers a visitor-driven route change before it
// happens, so the guards can tell it apart from their own redirects.
func (h *Handler) handleNavigationIntent(w http.ResponseWriter, r *http.Request) {
	defer h.observe("navigation_intent", time.Now())

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeInvalidInput, "invalid intent payload"))
		return
	}
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		writeError(w, derrors.New(derrors.CodeInvalidInput, "path must be absolute"))
		return
	}

	h.controller.MarkUserNavigation(req.Path)
	w.WriteHeader(http.StatusAccepted)
}

// handleNavigationRetry re-runs profile resolution after a definitive store
// failure. It backs the render guard's retry affordance.
func (h *Handler) handleNavigationRetry(w http.ResponseWriter, _ *http.Request) {
	defer h.observe("navigation_retry", time.Now())

	h.controller.Retry()
	w.WriteHeader(http.StatusAccepted)
}
