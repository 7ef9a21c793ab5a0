package domain

import (
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// Client is a registered third-party application.
type Client struct {
	ID            string
	ClientID      string
	ClientSecret  string
	AppName       string
	AppDesc       string
	AppIconURL    string
	RedirectURI   string
	AllowedScopes string // space separated
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClientInfo is the public view of a Client shown on the consent screen.
type ClientInfo struct {
	ClientID      string `json:"client_id" example:"demo-app"`
	AppName       string `json:"app_name" example:"Demo App"`
	AppDesc       string `json:"app_desc" example:"An example relying party"`
	AppIconURL    string `json:"app_icon_url,omitempty" example:"https://example.com/icon.png"`
	RedirectURI   string `json:"redirect_uri" example:"https://example.com/callback"`
	AllowedScopes string `json:"allowed_scopes" example:"openid profile"`
}

// Info strips the secret from c.
func (c Client) Info() ClientInfo {
	return ClientInfo{
		ClientID:      c.ClientID,
		AppName:       c.AppName,
		AppDesc:       c.AppDesc,
		AppIconURL:    c.AppIconURL,
		RedirectURI:   c.RedirectURI,
		AllowedScopes: c.AllowedScopes,
	}
}

// AllowsScope reports whether every token of scope is in AllowedScopes. An
// empty allowed set admits any scope.
func (c Client) AllowsScope(scope string) bool {
	allowed := httpx.ParseSpaceDelimitedFields(c.AllowedScopes)
	if len(allowed) == 0 {
		return true
	}

	set := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}
	for _, s := range httpx.ParseSpaceDelimitedFields(scope) {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
