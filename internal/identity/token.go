package identity

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	derrors "studiogate/pkg/domainerrors"
)

// TokenCookieName carries the provider token on browser navigations so the
// edge guard can check presence without a profile fetch.
const TokenCookieName = "sg_token"

// TokenClaims are the claims StudioGate reads from a provider token. The edge
// guard never trusts them for status/role decisions; those belong to the
// render guard after profile resolution.
type TokenClaims struct {
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// TokenInspector parses and issues provider tokens for the dev flow. With a
// hosted provider only Peek and HasToken are used.
type TokenInspector struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewTokenInspector(signingKey string, issuer string, ttl time.Duration) *TokenInspector {
	return &TokenInspector{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// HasToken reports whether the request carries a token of any kind: a bearer
// header or the session cookie. Presence only; no validation.
func HasToken(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		return true
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return true
	}
	return false
}

// Peek parses and validates a token string, returning its claims.
func (t *TokenInspector) Peek(tokenString string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.signingKey, nil
	})
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Issue creates a signed token for a session. Used by the dev sign-in flow and
// cmd/tokengen.
func (t *TokenInspector) Issue(sessionID uuid.UUID, subject string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", derrors.Wrap(err, derrors.CodeInternal, "sign token")
	}
	return signed, nil
}
