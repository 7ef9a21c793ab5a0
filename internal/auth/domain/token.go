package domain

const (
	// GrantTypeAuthorizationCode is the only grant the token endpoint accepts.
	GrantTypeAuthorizationCode = "authorization_code"

	// TokenTypeBearer is reported for every access token.
	TokenTypeBearer = "Bearer"

	// AccessTokenLifetime is the advisory expires_in, in seconds. Access
	// tokens are opaque and carry no expiry of their own.
	AccessTokenLifetime = 86400

	ScopeOpenID  = "openid"
	ScopeProfile = "profile"
	ScopeEmail   = "email"
)

// TokenResponse is what the token endpoint returns on a successful exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"Zx81kP0q..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	Scope       string `json:"scope" example:"openid profile"`
	ExpiresIn   int    `json:"expires_in" example:"86400"`
	IDToken     string `json:"id_token,omitempty" example:"eyJhbGciOiJSUzI1NiIs..."`
}

// UserInfo is the claim set released by the userinfo endpoint.
type UserInfo struct {
	Subject           string `json:"sub"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Nickname          string `json:"nickname,omitempty"`
	Picture           string `json:"picture,omitempty"`
	Website           string `json:"website,omitempty"`
	Email             string `json:"email,omitempty"`
	EmailVerified     *bool  `json:"email_verified,omitempty"`
}
