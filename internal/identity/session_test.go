package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiogate/internal/sentinel"
)

func TestNormalize(t *testing.T) {
	uid := uuid.New()
	sess, err := Normalize(&RawSession{
		UID:           uid.String(),
		Email:         "ana@example.com",
		EmailVerified: true,
		IsNewUser:     true,
		Claims:        map[string]any{"plan": "studio"},
	})

	require.NoError(t, err)
	assert.Equal(t, uid, sess.ID)
	assert.Equal(t, "ana@example.com", sess.Email)
	assert.True(t, sess.EmailVerified)
	assert.True(t, sess.FirstSignIn)
	assert.Equal(t, "studio", sess.Raw["plan"])
}

func TestNormalizeRejectsBadPayloads(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)

	_, err = Normalize(&RawSession{UID: ""})
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)

	_, err = Normalize(&RawSession{UID: "not-a-uuid"})
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
}

func TestDeviceDisplayName(t *testing.T) {
	chromeUA := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	name := DeviceDisplayName(chromeUA)
	assert.Contains(t, name, "Chrome")
	assert.Contains(t, name, " on ")

	assert.Equal(t, "Unknown Device", DeviceDisplayName(""))
}
