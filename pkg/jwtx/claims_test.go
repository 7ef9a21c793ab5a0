package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "identity",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("identity"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("other")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now()

	t.Run("valid window", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "identity", time.Hour, now)
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "identity", time.Minute, now.Add(-time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "identity", time.Hour, now.Add(time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("leeway absorbs skew", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "identity", time.Hour, now.Add(10*time.Second))
		require.NoError(t, c.ValidateExpiryWithLeeway(time.Minute))
	})

	t.Run("no time claims", func(t *testing.T) {
		c := jwtx.NewIdentityClaims("u")
		require.NoError(t, c.ValidateExpiry())
	})
}

func TestNewSessionClaimsUsesDefaultTTL(t *testing.T) {
	now := time.Now()
	c := jwtx.NewSessionClaims("user-1", "identity", jwtx.DefaultSessionTTL, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, "identity", c.Issuer)
	require.Equal(t, now.Add(7*24*time.Hour).Unix(), c.ExpiresAt.Unix())
}

func TestValidateSession(t *testing.T) {
	now := time.Now()

	t.Run("session claims", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "identity", time.Hour, now)
		require.NoError(t, c.ValidateSession("identity"))
		require.NoError(t, c.ValidateSession(""))
	})

	t.Run("identity claims", func(t *testing.T) {
		c := jwtx.NewIdentityClaims("u")
		require.ErrorIs(t, c.ValidateSession("identity"), jwtx.ErrNotSession)
		require.ErrorIs(t, c.ValidateSession(""), jwtx.ErrNotSession)
	})

	t.Run("missing issuer", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "", time.Hour, now)
		require.ErrorIs(t, c.ValidateSession(""), jwtx.ErrNotSession)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "elsewhere", time.Hour, now)
		require.ErrorIs(t, c.ValidateSession("identity"), jwtx.ErrIssuer)
	})
}
