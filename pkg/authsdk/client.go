package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie the service sets on register and login.
const SessionCookieName = "token"

// SDKClient is a client for the identity service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
