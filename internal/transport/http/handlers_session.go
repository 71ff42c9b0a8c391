package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"studiogate/internal/identity"
	derrors "studiogate/pkg/domainerrors"
)

// signInRequest is the development sign-in payload. With a hosted identity
// provider this endpoint disappears and sessions arrive via the provider's
// redirect flow instead.
type signInRequest struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	NewUser bool   `json:"new_user"`
}

func (h *Handler) handleSignInPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": "sign_in"})
}

// handleSignIn drives the dev provider: it emits a session event into the
// listener stream and issues a token cookie so the edge guard sees presence on
// subsequent navigations.
func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	defer h.observe("sign_in", time.Now())

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeInvalidInput, "invalid sign-in payload"))
		return
	}
	if req.UID == "" {
		req.UID = uuid.New().String()
	}
	uid, err := uuid.Parse(req.UID)
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeInvalidInput, "uid must be a uuid"))
		return
	}

	h.provider.EmitSignIn(&identity.RawSession{
		UID:           uid.String(),
		Email:         req.Email,
		EmailVerified: true,
		IsNewUser:     req.NewUser,
		UserAgent:     r.UserAgent(),
	})

	token, err := h.inspector.Issue(uid, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identity.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": uid.String(),
		"token":      token,
	})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	defer h.observe("sign_out", time.Now())

	if err := h.provider.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identity.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
