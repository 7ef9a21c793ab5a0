package authsdk

import (
	"github.com/aussiebroadwan/identity/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Invalid code"`
}

// ============================================================================
// Session Types
// ============================================================================

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse battery staple"`
	Email    string `json:"email" example:"alice@example.com"`
	Nickname string `json:"nickname,omitempty" example:"Alice"`
}

// LoginRequest authenticates with a username or an email address.
type LoginRequest struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// SessionResponse carries the session token. The same value is also set as
// the "token" cookie.
type SessionResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJSUzI1NiIs..."`
}

// ============================================================================
// Authorization Types
// ============================================================================

// ApproveRequest is the user's consent to a client.
type ApproveRequest struct {
	ClientID    string `json:"client_id" example:"demo-app"`
	RedirectURI string `json:"redirect_uri" example:"https://demo.example/callback"`
	Scope       string `json:"scope" example:"openid profile"`
}

// ApproveResponse carries the single-use authorization code.
type ApproveResponse struct {
	Code string `json:"code" example:"q8W0cM2x7PZs1HkR9bTn4LdVy6AeJf3u"`
}

// ClientInfo is the public view of a registered client.
type ClientInfo struct {
	ClientID      string `json:"client_id" example:"demo-app"`
	AppName       string `json:"app_name" example:"Demo App"`
	AppDesc       string `json:"app_desc" example:"An example relying party"`
	AppIconURL    string `json:"app_icon_url,omitempty" example:"https://demo.example/icon.png"`
	RedirectURI   string `json:"redirect_uri" example:"https://demo.example/callback"`
	AllowedScopes string `json:"allowed_scopes" example:"openid profile"`
}

// ============================================================================
// Token Types
// ============================================================================

// ExchangeRequest holds the token endpoint form fields. GrantType defaults
// to authorization_code.
type ExchangeRequest struct {
	GrantType    string
	Code         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// TokenResponse is returned from POST /api/token.
type TokenResponse struct {
	// AccessToken is an opaque bearer token accepted by /api/userinfo
	AccessToken string `json:"access_token" example:"Zx81kP0qLm2n3B4v5C6x7Z8a9S0d1F2g"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type" example:"Bearer"`

	// Scope is the space-delimited scope bound to the code
	Scope string `json:"scope" example:"openid profile"`

	// ExpiresIn is advisory, in seconds
	ExpiresIn int `json:"expires_in" example:"86400"`

	// IDToken is present only when scope contains openid
	IDToken string `json:"id_token,omitempty" example:"eyJhbGciOiJSUzI1NiIs..."`
}

// UserInfoResponse is returned from GET /api/userinfo. Which claims are
// present depends on the scope the access token was issued for.
type UserInfoResponse struct {
	Subject           string `json:"sub" example:"01JABCDEF0123456789XYZ0000"`
	PreferredUsername string `json:"preferred_username,omitempty" example:"alice"`
	Nickname          string `json:"nickname,omitempty" example:"Alice"`
	Picture           string `json:"picture,omitempty" example:"https://example.com/alice.png"`
	Website           string `json:"website,omitempty" example:"https://alice.example"`
	Email             string `json:"email,omitempty" example:"alice@example.com"`
	EmailVerified     *bool  `json:"email_verified,omitempty" example:"true"`
}

// ============================================================================
// Discovery Types
// ============================================================================

// DiscoveryResponse is the OpenID Provider metadata document.
type DiscoveryResponse struct {
	Issuer                           string   `json:"issuer" example:"https://id.example.com"`
	AuthorizationEndpoint            string   `json:"authorization_endpoint" example:"https://id.example.com/#/authorize"`
	TokenEndpoint                    string   `json:"token_endpoint" example:"https://id.example.com/api/token"`
	UserinfoEndpoint                 string   `json:"userinfo_endpoint" example:"https://id.example.com/api/userinfo"`
	JWKSURI                          string   `json:"jwks_uri" example:"https://id.example.com/.well-known/jwks.json"`
	ResponseTypesSupported           []string `json:"response_types_supported"`
	GrantTypesSupported              []string `json:"grant_types_supported"`
	SubjectTypesSupported            []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
	ScopesSupported                  []string `json:"scopes_supported"`
	TokenEndpointAuthMethods         []string `json:"token_endpoint_auth_methods_supported"`
	ClaimsSupported                  []string `json:"claims_supported"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates whether the signing key is loaded
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the JSON Web Key Set.
// This is returned from the GET /.well-known/jwks.json endpoint and contains
// public keys used to verify JWT signatures.
type JWKSResponse jwtx.JWKS
