// Package session manages the client's session credential: durable storage,
// expiry evaluation, and the guard that gates protected views.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryGraceBuffer is subtracted from a credential's expiry before it is
// treated as invalid, to absorb clock and network skew.
const ExpiryGraceBuffer = 5 * time.Second

var ErrInvalidToken = errors.New("invalid token")

// Credential is the session credential: the opaque bearer token plus the
// expiry and owner email decoded from its claims. Credentials are replaced
// wholesale, never mutated in place.
type Credential struct {
	Token      string
	ExpiresAt  time.Time
	OwnerEmail string
}

// ParseCredential decodes the expiry and email claims of a bearer token.
// The signature is deliberately not verified; only the server holds the
// key, and the server re-validates every request anyway.
func ParseCredential(token string) (*Credential, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	cred := &Credential{Token: token, ExpiresAt: exp.Time}
	if email, ok := claims["email"].(string); ok {
		cred.OwnerEmail = email
	}
	return cred, nil
}

// Expired reports whether the credential is past its buffer-adjusted
// expiry: true whenever now >= ExpiresAt - ExpiryGraceBuffer.
func (c *Credential) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Add(-ExpiryGraceBuffer))
}
