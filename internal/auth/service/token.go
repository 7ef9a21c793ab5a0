package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// TokenService redeems authorization codes.
type TokenService struct {
	Store   store.Store
	Metrics metrics.Recorder
	Clock   Clock
}

// ExchangeRequest holds the token endpoint form fields.
type ExchangeRequest struct {
	GrantType    string
	Code         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Exchange implements the authorization_code grant. The checks run in a
// fixed order and stop at the first failure:
//
//  1. grant_type
//  2. the code exists, is unused and unexpired
//  3. client_id and redirect_uri match the ones bound to the code
//  4. the client exists and the secret matches
//  5. the code is consumed atomically; losing a race reads as an invalid code
//
// The id_token is only released when the code's scope contains openid.
func (s *TokenService) Exchange(ctx context.Context, req ExchangeRequest) (resp domain.TokenResponse, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "TokenService.Exchange")
	defer func() { endSpan(span, err) }()
	defer func() { recorder(s.Metrics).RecordTokenExchange(exchangeResult(err), time.Since(start)) }()

	l := slogx.FromContext(ctx)
	span.SetAttributes(attribute.String("client.id", req.ClientID))

	if req.GrantType != domain.GrantTypeAuthorizationCode {
		return resp, ErrUnsupportedGrantType
	}
	if req.Code == "" {
		return resp, ErrInvalidCode
	}

	now := s.Clock.now()
	hash := cryptox.FingerprintToken(req.Code)

	code, err := s.Store.AuthorizationCodes().GetAuthorizationCodeByHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return resp, ErrInvalidCode
	}
	if err != nil {
		return resp, fmt.Errorf("get authorization code: %w", err)
	}
	if code.Consumed() {
		l.Warn("replayed authorization code", "client_id", code.ClientID, "code_id", code.ID)
		return resp, ErrInvalidCode
	}
	if code.Expired(now) {
		return resp, ErrInvalidCode
	}

	if req.ClientID != code.ClientID {
		return resp, ErrClientMismatch
	}
	if req.RedirectURI != code.RedirectURI {
		return resp, ErrRedirectMismatch
	}

	client, err := s.Store.Clients().GetClientByClientID(ctx, req.ClientID)
	if errors.Is(err, store.ErrNotFound) {
		return resp, ErrUnknownClient
	}
	if err != nil {
		return resp, fmt.Errorf("get client: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(req.ClientSecret), []byte(client.ClientSecret)) != 1 {
		return resp, ErrInvalidClientSecret
	}

	err = s.Store.AuthorizationCodes().ConsumeAuthorizationCode(ctx, hash, now)
	if errors.Is(err, store.ErrNotFound) {
		l.Warn("authorization code redeemed concurrently", "client_id", code.ClientID, "code_id", code.ID)
		return resp, ErrInvalidCode
	}
	if err != nil {
		return resp, fmt.Errorf("consume authorization code: %w", err)
	}

	resp = domain.TokenResponse{
		AccessToken: code.AccessToken,
		TokenType:   domain.TokenTypeBearer,
		Scope:       code.Scope,
		ExpiresIn:   domain.AccessTokenLifetime,
	}
	if code.HasScope(domain.ScopeOpenID) {
		resp.IDToken = code.IDToken
	}

	l.Info("authorization code redeemed", "client_id", code.ClientID, "user_id", code.UserID)
	return resp, nil
}

func exchangeResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrUnsupportedGrantType):
		return "unsupported_grant_type"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrClientMismatch), errors.Is(err, ErrRedirectMismatch):
		return "binding_mismatch"
	case errors.Is(err, ErrUnknownClient), errors.Is(err, ErrInvalidClientSecret):
		return "invalid_client"
	default:
		return metrics.ResultError
	}
}
