package authsdk

import (
	"context"
	"net/http"
)

// Register creates an account and returns its first session token.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session token.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}
