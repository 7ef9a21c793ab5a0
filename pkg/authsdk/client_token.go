package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ExchangeCode redeems an authorization code at the token endpoint.
func (c *SDKClient) ExchangeCode(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	grantType := req.GrantType
	if grantType == "" {
		grantType = "authorization_code"
	}

	data := url.Values{
		"grant_type":    {grantType},
		"code":          {req.Code},
		"client_id":     {req.ClientID},
		"client_secret": {req.ClientSecret},
		"redirect_uri":  {req.RedirectURI},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token", strings.NewReader(data.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// GetUserInfo resolves an access token to the user's claims.
func (c *SDKClient) GetUserInfo(ctx context.Context, accessToken string) (*UserInfoResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/userinfo", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var info UserInfoResponse
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}
