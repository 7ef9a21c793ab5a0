package auth_test

import (
	"net/url"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// TestJWKSVerification verifies that both the session token and the id_token
// can be checked using nothing but the published JWKS.
func TestJWKSVerification(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	session := registerUser(t, client, "erin")
	tok, err := client.ExchangeCode(t.Context(), demoExchange(approveDemo(t, client, session, "openid")))
	require.NoError(t, err)

	jwksResp, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwksResp.Keys, 1)

	key := jwksResp.Keys[0]
	require.Equal(t, "RSA", key.Kty)
	require.Equal(t, "sig", key.Use)
	require.Equal(t, "RS256", key.Alg)
	require.Equal(t, "main", key.Kid)

	keySet := jwtx.NewKeySet()
	require.NoError(t, keySet.ResetFromJWKS(jwtx.JWKS(*jwksResp)))

	sessionClaims, err := jwtx.NewCommonRS256(keySet, testIssuer).Verify(session)
	require.NoError(t, err, "Session token should verify")
	require.Equal(t, testIssuer, sessionClaims.Issuer)
	require.NotNil(t, sessionClaims.ExpiresAt)

	idClaims, err := jwtx.NewCommonRS256(keySet, "").Verify(tok.IDToken)
	require.NoError(t, err, "id_token should verify")
	require.Equal(t, sessionClaims.Subject, idClaims.Subject)
	require.Empty(t, idClaims.Issuer, "id_token carries only sub")
}

// TestDiscoveryDocument verifies endpoints are derived from the request host.
func TestDiscoveryDocument(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	doc, err := client.GetDiscovery(t.Context())
	require.NoError(t, err)

	u, err := url.Parse(baseURL)
	require.NoError(t, err)
	base := "https://" + u.Host

	require.Equal(t, testIssuer, doc.Issuer)
	require.Equal(t, base+"/#/authorize", doc.AuthorizationEndpoint)
	require.Equal(t, base+"/api/token", doc.TokenEndpoint)
	require.Equal(t, base+"/api/userinfo", doc.UserinfoEndpoint)
	require.Equal(t, base+"/.well-known/jwks.json", doc.JWKSURI)
	require.Contains(t, doc.IDTokenSigningAlgValuesSupported, "RS256")
}
