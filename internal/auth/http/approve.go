package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// ApproveHandler serves POST /api/approve_authorize. The consent page posts
// here once the user accepts; the session comes from the token cookie.
type ApproveHandler struct {
	AuthorizeService *service.AuthorizeService
}

// ServeHTTP godoc
//
//	@Summary		Approve an authorization request
//	@Description	Issues a single-use authorization code bound to the client, redirect_uri, scope and the signed-in user.
//	@Tags			OAuth2
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ApproveRequest	true	"Consent"
//	@Success		200		{object}	authsdk.ApproveResponse	"Authorization code"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body, redirect_uri not registered, scope not allowed"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Unauthorized / Token malformed / Token invalid / Token expired"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Invalid client_id"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/approve_authorize [post].
func (h *ApproveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var session string
	if c, err := r.Cookie(authsdk.SessionCookieName); err == nil {
		session = c.Value
	}

	var req authsdk.ApproveRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	code, err := h.AuthorizeService.Approve(r.Context(), service.ApproveRequest{
		SessionToken: session,
		ClientID:     req.ClientID,
		RedirectURI:  req.RedirectURI,
		Scope:        req.Scope,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ApproveResponse{Code: code})
}
