package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

type ClientInfoHandler struct {
	ClientService *service.ClientService
}

// ServeHTTP godoc
//
//	@Summary		Get client information
//	@Description	Returns the public details of a registered client for the consent screen. The secret is never included.
//	@Tags			Clients
//	@Produce		json
//	@Param			client_id	path		string				true	"Client identifier"
//	@Success		200			{object}	authsdk.ClientInfo		"Client details"
//	@Failure		404			{object}	authsdk.ErrorResponse	"Client not found"
//	@Failure		500			{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/client/{client_id}/info [get].
func (h *ClientInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, err := h.ClientService.GetClientInfo(r.Context(), r.PathValue("client_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ClientInfo{
		ClientID:      info.ClientID,
		AppName:       info.AppName,
		AppDesc:       info.AppDesc,
		AppIconURL:    info.AppIconURL,
		RedirectURI:   info.RedirectURI,
		AllowedScopes: info.AllowedScopes,
	})
}
