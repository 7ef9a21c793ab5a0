package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
)

// SessionHandler serves registration and login. Both answer with the
// session token in the body and as the "token" cookie.
type SessionHandler struct {
	SessionService *service.SessionService
	CookieSecure   bool
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates an account and signs the user in. The username is checked for clashes before the email.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Account details"
//	@Success		200		{object}	authsdk.SessionResponse		"Session token (also set as the token cookie)"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Malformed body or missing field"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Username exists / Email exists"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/api/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	token, err := h.SessionService.Register(r.Context(), service.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Nickname: req.Nickname,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, token)
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Signs a user in by username or email.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.SessionResponse	"Session token (also set as the token cookie)"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body or missing field"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	token, err := h.SessionService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, token)
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, token string) {
	ttl := h.SessionService.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authsdk.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{Token: token})
}
