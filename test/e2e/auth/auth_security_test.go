package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
)

// TestCodeIsSingleUse verifies a redeemed code cannot be exchanged again.
func TestCodeIsSingleUse(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	session := registerUser(t, client, "frank")
	code := approveDemo(t, client, session, "openid")

	_, err := client.ExchangeCode(t.Context(), demoExchange(code))
	if err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}

	_, err = client.ExchangeCode(t.Context(), demoExchange(code))
	assertAPIError(t, err, http.StatusNotFound, "Invalid code")
}

// TestExchangeBindings verifies every binding on the code is enforced and
// that a rejected attempt does not burn the code.
func TestExchangeBindings(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	session := registerUser(t, client, "grace")
	code := approveDemo(t, client, session, "openid")

	req := demoExchange(code)
	req.GrantType = "client_credentials"
	_, err := client.ExchangeCode(t.Context(), req)
	assertAPIError(t, err, http.StatusNotFound, "Unsupported grant_type")

	req = demoExchange(code)
	req.ClientID = "someone-else"
	_, err = client.ExchangeCode(t.Context(), req)
	assertAPIError(t, err, http.StatusForbidden, "invalid client_id")

	req = demoExchange(code)
	req.RedirectURI = "https://evil.example/callback"
	_, err = client.ExchangeCode(t.Context(), req)
	assertAPIError(t, err, http.StatusForbidden, "invalid redirect_uri")

	req = demoExchange(code)
	req.ClientSecret = "guess"
	_, err = client.ExchangeCode(t.Context(), req)
	assertAPIError(t, err, http.StatusForbidden, "invalid client_secret")

	if _, err := client.ExchangeCode(t.Context(), demoExchange(code)); err != nil {
		t.Fatalf("code should still be redeemable after rejected attempts: %v", err)
	}
}

// TestApproveRejections verifies consent is refused for bad sessions and
// unregistered clients, redirects, or scopes.
func TestApproveRejections(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	session := registerUser(t, client, "heidi")

	ok := authsdk.ApproveRequest{ClientID: demoClientID, RedirectURI: demoRedirectURI, Scope: "openid"}

	_, err := client.Approve(t.Context(), "", ok)
	assertAPIError(t, err, http.StatusUnauthorized, "Unauthorized")

	_, err = client.Approve(t.Context(), "garbage-token", ok)
	assertAPIError(t, err, http.StatusUnauthorized, "Token malformed")

	bad := ok
	bad.ClientID = "unknown-app"
	_, err = client.Approve(t.Context(), session, bad)
	assertAPIError(t, err, http.StatusNotFound, "Invalid client_id")

	bad = ok
	bad.RedirectURI = "https://evil.example/callback"
	_, err = client.Approve(t.Context(), session, bad)
	assertAPIError(t, err, http.StatusBadRequest, "redirect_uri not registered")

	bad = ok
	bad.Scope = "openid admin"
	_, err = client.Approve(t.Context(), session, bad)
	assertAPIError(t, err, http.StatusBadRequest, "scope not allowed")
}

// TestInvalidAccessToken verifies that userinfo rejects tokens it never issued.
func TestInvalidAccessToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	_, err := client.GetUserInfo(t.Context(), "invalid-token-12345")
	assertAPIError(t, err, http.StatusUnauthorized, "Invalid access token")
}

// TestUnknownClientInfo verifies the consent lookup for unknown clients.
func TestUnknownClientInfo(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	_, err := client.GetClientInfo(t.Context(), "unknown-app")
	assertAPIError(t, err, http.StatusNotFound, "Client not found")
}
