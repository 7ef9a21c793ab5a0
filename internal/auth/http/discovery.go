package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
)

// DiscoveryHandler godoc
//
//	@Summary		OpenID Provider configuration
//	@Description	Endpoint URLs are built from the request Host so the document is correct behind any hostname.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.DiscoveryResponse	"Provider metadata"
//	@Router			/.well-known/openid-configuration [get].
func DiscoveryHandler(issuer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := "https://" + r.Host

		httpx.WriteJSON(w, http.StatusOK, authsdk.DiscoveryResponse{
			Issuer:                           issuer,
			AuthorizationEndpoint:            base + "/#/authorize",
			TokenEndpoint:                    base + "/api/token",
			UserinfoEndpoint:                 base + "/api/userinfo",
			JWKSURI:                          base + "/.well-known/jwks.json",
			ResponseTypesSupported:           []string{"code"},
			GrantTypesSupported:              []string{"authorization_code"},
			SubjectTypesSupported:            []string{"public"},
			IDTokenSigningAlgValuesSupported: []string{jwtx.AlgorithmRS256},
			ScopesSupported:                  []string{"openid", "profile", "email"},
			TokenEndpointAuthMethods:         []string{"client_secret_post"},
			ClaimsSupported: []string{
				"sub", "preferred_username", "nickname", "picture", "website", "email", "email_verified",
			},
		})
	}
}
