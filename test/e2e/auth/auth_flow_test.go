package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestAuthorizationCodeFlow walks the complete flow a relying party sees:
// 1. Register a user and get a session
// 2. Look up the client for the consent screen
// 3. Approve and receive a code
// 4. Exchange the code for tokens
// 5. Resolve the access token at userinfo
func TestAuthorizationCodeFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	session := registerUser(t, client, "alice")

	info, err := client.GetClientInfo(t.Context(), demoClientID)
	require.NoError(t, err)
	require.Equal(t, "Demo App", info.AppName)
	require.Equal(t, demoRedirectURI, info.RedirectURI)
	require.Equal(t, demoScopes, info.AllowedScopes)

	code := approveDemo(t, client, session, demoScopes)
	t.Logf("Approved, got code")

	tok, err := client.ExchangeCode(t.Context(), demoExchange(code))
	require.NoError(t, err)
	assertTokenResponse(t, tok, demoScopes)
	require.NotEmpty(t, tok.IDToken, "openid scope should yield an id_token")

	user, err := client.GetUserInfo(t.Context(), tok.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, user.Subject)
	require.Equal(t, "alice", user.PreferredUsername)
	require.Equal(t, "Nick alice", user.Nickname)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.EmailVerified)
}

// TestLoginByUsernameOrEmail verifies both login identifiers resolve to the
// same account.
func TestLoginByUsernameOrEmail(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client, "bob")

	for _, login := range []string{"bob", "bob@example.com"} {
		resp, err := client.Login(t.Context(), authsdk.LoginRequest{Login: login, Password: testPassword})
		require.NoError(t, err, "login with %q", login)
		require.NotEmpty(t, resp.Token)
	}

	_, err := client.Login(t.Context(), authsdk.LoginRequest{Login: "bob", Password: "wrong"})
	assertAPIError(t, err, http.StatusUnauthorized, "Invalid credentials")

	_, err = client.Login(t.Context(), authsdk.LoginRequest{Login: "nobody", Password: testPassword})
	assertAPIError(t, err, http.StatusUnauthorized, "Invalid credentials")
}

// TestRegisterConflicts verifies duplicate usernames and emails are rejected.
func TestRegisterConflicts(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client, "carol")

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Username: "carol", Password: testPassword, Email: "carol@example.com",
	})
	assertAPIError(t, err, http.StatusConflict, "Username exists")

	_, err = client.Register(t.Context(), authsdk.RegisterRequest{
		Username: "carol2", Password: testPassword, Email: "carol@example.com",
	})
	assertAPIError(t, err, http.StatusConflict, "Email exists")
}

// TestScopeWithoutOpenID verifies no id_token is minted without openid.
func TestScopeWithoutOpenID(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	session := registerUser(t, client, "dave")

	tok, err := client.ExchangeCode(t.Context(), demoExchange(approveDemo(t, client, session, "profile")))
	require.NoError(t, err)
	assertTokenResponse(t, tok, "profile")
	require.Empty(t, tok.IDToken)

	user, err := client.GetUserInfo(t.Context(), tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "dave", user.PreferredUsername)
	require.Empty(t, user.Email, "email requires the email scope")
}
