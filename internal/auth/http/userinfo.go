package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

type UserInfoHandler struct {
	UserInfoService *service.UserInfoService
}

// ServeHTTP handles the OpenID Connect UserInfo endpoint.
//
//	@Summary		Get user information
//	@Description	Returns the claims of the user an access token was issued for. profile adds preferred_username, nickname, picture and website; email adds email and email_verified.
//	@Tags			OAuth2
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfoResponse	"User claims"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid access token"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/api/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteBearerError(w, service.ErrInvalidAccessToken.Detail)
		return
	}

	info, err := h.UserInfoService.UserInfo(r.Context(), token)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthenticated {
			httpx.WriteBearerError(w, service.DetailOf(err))
			return
		}
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserInfoResponse{
		Subject:           info.Subject,
		PreferredUsername: info.PreferredUsername,
		Nickname:          info.Nickname,
		Picture:           info.Picture,
		Website:           info.Website,
		Email:             info.Email,
		EmailVerified:     info.EmailVerified,
	})
}
