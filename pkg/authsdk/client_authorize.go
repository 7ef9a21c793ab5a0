package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetClientInfo fetches what the consent screen shows about a client.
func (c *SDKClient) GetClientInfo(ctx context.Context, clientID string) (*ClientInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/client/"+url.PathEscape(clientID)+"/info", nil, nil)
	if err != nil {
		return nil, err
	}

	var info ClientInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

// Approve grants req on behalf of the user owning sessionToken and returns
// the authorization code to hand to the client's redirect_uri.
func (c *SDKClient) Approve(ctx context.Context, sessionToken string, req ApproveRequest) (*ApproveResponse, error) {
	cookie := (&http.Cookie{Name: SessionCookieName, Value: sessionToken}).String()

	var out ApproveResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/approve_authorize", req, &out, map[string]string{
		"Cookie": cookie,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
