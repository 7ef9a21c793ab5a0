package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// TokenHandler serves POST /api/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Redeems an authorization code. The id_token is included only when the code's scope contains openid.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(authorization_code)
//	@Param			code			formData	string					true	"Authorization code"
//	@Param			client_id		formData	string					true	"Client identifier"
//	@Param			client_secret	formData	string					true	"Client secret"
//	@Param			redirect_uri	formData	string					true	"Redirect URI the code was issued for"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, token_type, scope, expires_in, id_token"
//	@Failure		400				{object}	authsdk.ErrorResponse	"Malformed form body"
//	@Failure		403				{object}	authsdk.ErrorResponse	"invalid client_id / invalid redirect_uri / invalid client_secret"
//	@Failure		404				{object}	authsdk.ErrorResponse	"Unsupported grant_type / Invalid code / Invalid client_id"
//	@Failure		500				{object}	authsdk.ErrorResponse	"Internal server error"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/api/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		httpx.WriteDetail(w, http.StatusBadRequest, "Content-Type must be application/x-www-form-urlencoded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	resp, err := h.TokenService.Exchange(r.Context(), service.ExchangeRequest{
		GrantType:    strings.TrimSpace(r.PostForm.Get("grant_type")),
		Code:         strings.TrimSpace(r.PostForm.Get("code")),
		ClientID:     strings.TrimSpace(r.PostForm.Get("client_id")),
		ClientSecret: r.PostForm.Get("client_secret"),
		RedirectURI:  strings.TrimSpace(r.PostForm.Get("redirect_uri")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		Scope:       resp.Scope,
		ExpiresIn:   resp.ExpiresIn,
		IDToken:     resp.IDToken,
	})
}
