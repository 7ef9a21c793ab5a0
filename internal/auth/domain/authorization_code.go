package domain

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// AuthorizationCode is a single-use grant minted on approval. Only the
// fingerprint of the code is stored; the access and identity tokens are
// precomputed so redemption never needs the session again.
type AuthorizationCode struct {
	ID          string
	CodeHash    string
	ClientID    string
	UserID      string
	RedirectURI string
	Scope       string // space separated, as requested
	AccessToken string
	IDToken     string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}

// Expired reports whether the code can no longer be redeemed at now.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Consumed reports whether the code has already been redeemed.
func (c AuthorizationCode) Consumed() bool {
	return c.UsedAt != nil
}

// HasScope reports whether scope is one of the code's scope tokens. The match
// is on whole tokens, so "openid" is not found in "openidconnect".
func (c AuthorizationCode) HasScope(scope string) bool {
	return HasScopeToken(c.Scope, scope)
}

// HasScopeToken reports whether want occurs as a token of the space
// separated list scopes.
func HasScopeToken(scopes, want string) bool {
	return slices.Contains(httpx.ParseSpaceDelimitedFields(scopes), want)
}
