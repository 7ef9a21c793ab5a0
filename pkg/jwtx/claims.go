package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid after login or
// registration.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims is the claim set shared by session and identity tokens. Only the
// registered claims are used, the subject always carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds the claims for a session token bound to subject.
func NewSessionClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// NewIdentityClaims builds the claims released to relying parties as the
// id_token. It intentionally carries nothing but the subject.
func NewIdentityClaims(subject string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

// ValidateSession requires the claims only session tokens carry. An identity
// token signed by the same key has neither exp nor iss and is rejected.
func (c *Claims) ValidateSession(issuer string) error {
	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", ErrNotSession)
	}
	if c.Issuer == "" {
		return fmt.Errorf("%w: missing iss", ErrNotSession)
	}
	return c.ValidateIssuer(issuer)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
