/*
Package authsdk is a typed client for the identity service, plus the wire
types its HTTP API speaks.

# Overview

SDKClient talks to the public endpoints. There is no client side session
state; the session token returned by Register or Login is passed back in
explicitly.

	client := authsdk.NewSDKClient("https://id.example.com")

	// Sign in and approve a relying party on the user's behalf
	session, err := client.Login(ctx, authsdk.LoginRequest{Login: "alice", Password: pw})
	approved, err := client.Approve(ctx, session.Token, authsdk.ApproveRequest{
		ClientID:    "demo-app",
		RedirectURI: "https://demo.example/callback",
		Scope:       "openid profile",
	})

	// The relying party redeems the code
	tokens, err := client.ExchangeCode(ctx, authsdk.ExchangeRequest{
		Code:         approved.Code,
		ClientID:     "demo-app",
		ClientSecret: secret,
		RedirectURI:  "https://demo.example/callback",
	})
	info, err := client.GetUserInfo(ctx, tokens.AccessToken)

# Errors

Every non-2xx response is returned as an *APIError carrying the status code
and the server's detail string:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		// username or email already taken
	}
*/
package authsdk
