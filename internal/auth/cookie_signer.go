package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// CookieSigner signs the opaque session handle into the session cookie so a
// tampered cookie is rejected before the session table is consulted. The
// table stays the source of truth; the signature only protects transport.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner creates a signer keyed with the session secret.
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign wraps a session handle in a signed token expiring with the session.
func (s *CookieSigner) Sign(handle string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        handle,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a cookie token and returns the embedded session handle.
func (s *CookieSigner) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ID, nil
}
