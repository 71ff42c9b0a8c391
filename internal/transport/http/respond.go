package httptransport

import (
	"encoding/json"
	"net/http"

	derrors "studiogate/pkg/domainerrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain error codes to HTTP statuses. The mapping lives in the
// transport layer so domain code never reasons in HTTP terms.
func statusFor(code derrors.Code) int {
	switch code {
	case derrors.CodeNotFound:
		return http.StatusNotFound
	case derrors.CodeInvalidInput, derrors.CodeValidation:
		return http.StatusBadRequest
	case derrors.CodeConflict, derrors.CodeInvalidState:
		return http.StatusConflict
	case derrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case derrors.CodeForbidden:
		return http.StatusForbidden
	case derrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case derrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError centralizes domain error translation so every handler emits the
// same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	writeJSON(w, statusFor(code), map[string]string{
		"error":             string(code),
		"error_description": err.Error(),
	})
}
