package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt decodes the bearer token's exp claim without verifying the
// signature (the client has no key material; this is display-only). The
// second return is false when there is no token or no usable exp claim.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
