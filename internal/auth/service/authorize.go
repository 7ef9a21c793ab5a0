package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultCodeTTL bounds how long an approved code can wait for redemption.
const DefaultCodeTTL = 10 * time.Minute

// AuthorizeService turns a user's approval of a client into an authorization
// code.
type AuthorizeService struct {
	Store    store.Store
	Keys     *jwtx.KeyManager
	Sessions *SessionService
	CodeTTL  time.Duration

	// EnforceRegistration requires redirect_uri to match the registered one
	// exactly and scope to be a subset of the client's allowed scopes.
	EnforceRegistration bool

	Metrics metrics.Recorder
	Clock   Clock
}

// ApproveRequest is the consent the user gave on the authorize page.
type ApproveRequest struct {
	SessionToken string
	ClientID     string
	RedirectURI  string
	Scope        string
}

// Approve mints a single-use code bound to the client, redirect_uri, scope
// and the session's user. The access and identity tokens released on
// redemption are created now.
func (s *AuthorizeService) Approve(ctx context.Context, req ApproveRequest) (code string, err error) {
	ctx, span := tracer.Start(ctx, "AuthorizeService.Approve")
	defer func() { endSpan(span, err) }()
	defer func() { recorder(s.Metrics).RecordCodeIssued(approveResult(err)) }()

	l := slogx.FromContext(ctx)

	userID, err := s.Sessions.VerifySession(ctx, req.SessionToken)
	if err != nil {
		return "", err
	}

	clientID := strings.TrimSpace(req.ClientID)
	redirectURI := strings.TrimSpace(req.RedirectURI)
	scope := strings.Join(httpx.ParseSpaceDelimitedFields(req.Scope), " ")
	if clientID == "" {
		return "", invalidRequest("client_id is required")
	}
	if redirectURI == "" {
		return "", invalidRequest("redirect_uri is required")
	}

	span.SetAttributes(
		attribute.String("client.id", clientID),
		attribute.String("oauth.scope", scope),
	)

	client, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUnknownClient
	}
	if err != nil {
		return "", fmt.Errorf("get client: %w", err)
	}

	if s.EnforceRegistration {
		if redirectURI != client.RedirectURI {
			l.Warn("approve with unregistered redirect_uri", "client_id", clientID, "redirect_uri", redirectURI)
			return "", ErrRedirectNotRegistered
		}
		if !client.AllowsScope(scope) {
			l.Warn("approve with disallowed scope", "client_id", clientID, "scope", scope)
			return "", ErrScopeNotAllowed
		}
	}

	// A token can outlive its user.
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrSessionInvalid
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	code, err = cryptox.RandomAlphanumeric(cryptox.OpaqueTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	accessToken, err := cryptox.RandomAlphanumeric(cryptox.OpaqueTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	idToken, err := s.Keys.Sign(jwtx.NewIdentityClaims(userID))
	if err != nil {
		return "", fmt.Errorf("sign id token: %w", err)
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	now := s.Clock.now()

	err = s.Store.AuthorizationCodes().CreateAuthorizationCode(ctx, domain.AuthorizationCode{
		ID:          idx.NewAt(now).String(),
		CodeHash:    cryptox.FingerprintToken(code),
		ClientID:    client.ClientID,
		UserID:      userID,
		RedirectURI: redirectURI,
		Scope:       scope,
		AccessToken: accessToken,
		IDToken:     idToken,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	})
	if err != nil {
		l.Error("failed to store authorization code", "error", err, "client_id", clientID)
		return "", fmt.Errorf("store authorization code: %w", err)
	}

	l.Info("authorization code issued", "client_id", clientID, "user_id", userID, "scope", scope)
	return code, nil
}

func approveResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case KindOf(err) == KindInternal:
		return metrics.ResultError
	default:
		return metrics.ResultFailure
	}
}
