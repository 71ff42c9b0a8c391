package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.NotEmpty(t, cfg.TokenSigningKey)
	assert.Equal(t, 3, cfg.Nav.ResolveAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Nav.ResolveBackoffStep)
	assert.Equal(t, 2000*time.Millisecond, cfg.Nav.UserIntentWindow)
	assert.Equal(t, 3000*time.Millisecond, cfg.Nav.UserActionWindow)
	assert.Equal(t, 5000*time.Millisecond, cfg.Nav.EscapeWindow)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDIOGATE_ADDR", ":9999")
	t.Setenv("STUDIOGATE_RESOLVE_ATTEMPTS", "5")
	t.Setenv("STUDIOGATE_USER_INTENT_WINDOW", "250ms")
	t.Setenv("STUDIOGATE_DATABASE_URL", "postgres://localhost/studiogate")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 5, cfg.Nav.ResolveAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Nav.UserIntentWindow)
	assert.Equal(t, "postgres://localhost/studiogate", cfg.Database.URL)
}

func TestMalformedEnvFallsBack(t *testing.T) {
	t.Setenv("STUDIOGATE_RESOLVE_ATTEMPTS", "many")
	t.Setenv("STUDIOGATE_ESCAPE_WINDOW", "soon")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.Nav.ResolveAttempts)
	assert.Equal(t, 5000*time.Millisecond, cfg.Nav.EscapeWindow)
}
