package service

import (
	"testing"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	f := newFixture(t)
	session := f.seededSession(t, "alice")

	user, err := f.store.Users().GetUserByUsername(t.Context(), "alice")
	require.NoError(t, err)

	redeem := func(scope string) string {
		resp, err := f.tokens.Exchange(t.Context(), exchangeFor(f.approve(t, session, scope)))
		require.NoError(t, err)
		return resp.AccessToken
	}

	t.Run("openid only", func(t *testing.T) {
		info, err := f.userinfo.UserInfo(t.Context(), redeem("openid"))
		require.NoError(t, err)
		require.Equal(t, user.ID, info.Subject)
		require.Empty(t, info.PreferredUsername)
		require.Empty(t, info.Email)
		require.Nil(t, info.EmailVerified)
	})

	t.Run("profile and email", func(t *testing.T) {
		info, err := f.userinfo.UserInfo(t.Context(), redeem("openid profile email"))
		require.NoError(t, err)
		require.Equal(t, "alice", info.PreferredUsername)
		require.Equal(t, "Nick alice", info.Nickname)
		require.Equal(t, "alice@example.com", info.Email)
		require.NotNil(t, info.EmailVerified)
		require.False(t, *info.EmailVerified)
	})

	t.Run("unredeemed code's token does not resolve", func(t *testing.T) {
		code := f.approve(t, session, "openid")
		rec, err := f.store.AuthorizationCodes().GetAuthorizationCodeByHash(t.Context(), cryptox.FingerprintToken(code))
		require.NoError(t, err)

		_, err = f.userinfo.UserInfo(t.Context(), rec.AccessToken)
		require.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.userinfo.UserInfo(t.Context(), "nope")
		require.ErrorIs(t, err, ErrInvalidAccessToken)

		_, err = f.userinfo.UserInfo(t.Context(), "")
		require.ErrorIs(t, err, ErrInvalidAccessToken)
	})
}
