package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"studiogate/internal/sentinel"
)

// RawSession is the provider-specific payload delivered on every authentication
// state transition. A nil RawSession means "signed out".
type RawSession struct {
	UID           string
	EmailVerified bool
	// IsNewUser is set by the provider on the first sign-in after registration.
	IsNewUser bool
	Email     string
	UserAgent string
	Claims    map[string]any
}

// Session is the normalized, immutable view of a provider session. Lifecycle is
// tied 1:1 to a provider emission; nil represents "signed out".
type Session struct {
	ID            uuid.UUID
	EmailVerified bool
	FirstSignIn   bool
	Email         string
	DeviceName    string
	Raw           map[string]any
}

// Normalize converts a raw provider payload into a Session.
// Returns an error for payloads the provider should never emit (missing or
// malformed subject); callers log and drop those rather than propagating them.
func Normalize(raw *RawSession) (*Session, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw session is required: %w", sentinel.ErrInvalidInput)
	}
	uid, err := uuid.Parse(raw.UID)
	if err != nil {
		return nil, fmt.Errorf("parse provider uid %q: %w", raw.UID, sentinel.ErrInvalidInput)
	}
	return &Session{
		ID:            uid,
		EmailVerified: raw.EmailVerified,
		FirstSignIn:   raw.IsNewUser,
		Email:         raw.Email,
		DeviceName:    DeviceDisplayName(raw.UserAgent),
		Raw:           raw.Claims,
	}, nil
}

// DeviceDisplayName extracts a human-readable device name from a User-Agent
// string. Returns format: "Browser on OS" (e.g., "Chrome on macOS").
func DeviceDisplayName(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
