package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestApproveStoresBoundCode(t *testing.T) {
	f := newFixture(t)
	session := f.seededSession(t, "alice")

	code := f.approve(t, session, "  openid   profile ")
	require.Len(t, code, cryptox.OpaqueTokenLength)

	rec, err := f.store.AuthorizationCodes().GetAuthorizationCodeByHash(t.Context(), cryptox.FingerprintToken(code))
	require.NoError(t, err)

	user, err := f.store.Users().GetUserByUsername(t.Context(), "alice")
	require.NoError(t, err)

	require.Equal(t, demoClient.ClientID, rec.ClientID)
	require.Equal(t, demoClient.RedirectURI, rec.RedirectURI)
	require.Equal(t, "openid profile", rec.Scope)
	require.Equal(t, user.ID, rec.UserID)
	require.Len(t, rec.AccessToken, cryptox.OpaqueTokenLength)
	require.NotEqual(t, code, rec.AccessToken)
	require.Nil(t, rec.UsedAt)
	require.WithinDuration(t, f.now.Add(DefaultCodeTTL), rec.ExpiresAt, time.Millisecond)

	claims, err := jwtx.NewCommonRS256(f.keys.KeySet, "").Verify(rec.IDToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestApproveCodesAreUnique(t *testing.T) {
	f := newFixture(t)
	session := f.seededSession(t, "alice")

	seen := map[string]bool{}
	for range 20 {
		code := f.approve(t, session, "openid")
		require.False(t, seen[code])
		seen[code] = true
	}
}

func TestApproveRejectsBadSessions(t *testing.T) {
	f := newFixture(t)
	f.seededSession(t, "alice")

	expired, err := f.keys.Sign(jwtx.NewSessionClaims("u1", testIssuer, time.Minute, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	tests := []struct {
		name    string
		session string
		want    error
	}{
		{"missing", "", ErrSessionMissing},
		{"malformed", "garbage", ErrSessionMalformed},
		{"expired", expired, ErrSessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.authz.Approve(t.Context(), ApproveRequest{
				SessionToken: tt.session,
				ClientID:     demoClient.ClientID,
				RedirectURI:  demoClient.RedirectURI,
				Scope:        "openid",
			})
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("valid token for a user that does not exist", func(t *testing.T) {
		ghost, err := f.keys.Sign(jwtx.NewSessionClaims("01J00000000000000000000000", testIssuer, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = f.authz.Approve(t.Context(), ApproveRequest{
			SessionToken: ghost,
			ClientID:     demoClient.ClientID,
			RedirectURI:  demoClient.RedirectURI,
		})
		require.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestApproveClientChecks(t *testing.T) {
	f := newFixture(t)
	session := f.seededSession(t, "alice")

	approve := func(clientID, redirectURI, scope string) error {
		_, err := f.authz.Approve(t.Context(), ApproveRequest{
			SessionToken: session,
			ClientID:     clientID,
			RedirectURI:  redirectURI,
			Scope:        scope,
		})
		return err
	}

	t.Run("unknown client", func(t *testing.T) {
		err := approve("nope", demoClient.RedirectURI, "openid")
		require.ErrorIs(t, err, ErrUnknownClient)
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		require.Equal(t, KindInvalidRequest, KindOf(approve("", demoClient.RedirectURI, "openid")))
		require.Equal(t, KindInvalidRequest, KindOf(approve(demoClient.ClientID, "", "openid")))
	})

	t.Run("unregistered redirect_uri", func(t *testing.T) {
		err := approve(demoClient.ClientID, "https://evil.example/callback", "openid")
		require.ErrorIs(t, err, ErrRedirectNotRegistered)
	})

	t.Run("scope outside allowed set", func(t *testing.T) {
		err := approve(demoClient.ClientID, demoClient.RedirectURI, "openid admin")
		require.ErrorIs(t, err, ErrScopeNotAllowed)
	})

	t.Run("enforcement off accepts both", func(t *testing.T) {
		f.authz.EnforceRegistration = false
		t.Cleanup(func() { f.authz.EnforceRegistration = true })

		require.NoError(t, approve(demoClient.ClientID, "https://elsewhere.example/cb", "openid admin"))
	})
}

func TestApproveEmptyAllowedScopesAdmitsAny(t *testing.T) {
	f := newFixture(t)
	session := f.seededSession(t, "alice")

	open := demoClient
	open.ClientID = "open-app"
	open.AllowedScopes = ""
	require.NoError(t, f.clients.SeedClients(t.Context(), []ClientSeed{open}))

	_, err := f.authz.Approve(t.Context(), ApproveRequest{
		SessionToken: session,
		ClientID:     open.ClientID,
		RedirectURI:  open.RedirectURI,
		Scope:        "openid anything",
	})
	require.NoError(t, err)
}

func TestApproveRejectsIDTokenAsSession(t *testing.T) {
	// A verifier without an issuer check still has to tell the two token
	// kinds apart.
	noIssuer, err := jwtx.NewEphemeralKeyManager("", 2048)
	require.NoError(t, err)

	for name, km := range map[string]*jwtx.KeyManager{"issuer checked": testKeys(t), "issuer unchecked": noIssuer} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.keys = km
			f.sessions.Keys = km
			f.authz.Keys = km

			code := f.approve(t, f.seededSession(t, "alice"), "openid")
			resp, err := f.tokens.Exchange(t.Context(), exchangeFor(code))
			require.NoError(t, err)
			require.NotEmpty(t, resp.IDToken)

			_, err = f.authz.Approve(t.Context(), ApproveRequest{
				SessionToken: resp.IDToken,
				ClientID:     demoClient.ClientID,
				RedirectURI:  demoClient.RedirectURI,
				Scope:        "openid",
			})
			require.ErrorIs(t, err, ErrSessionInvalid)
			require.Equal(t, "Token invalid", err.Error())
		})
	}
}
