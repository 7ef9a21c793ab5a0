package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

// UserInfoService resolves access tokens to the claims their scope allows.
type UserInfoService struct {
	Store store.Store
}

// UserInfo returns the claims for accessToken. Only tokens of redeemed codes
// resolve.
func (s *UserInfoService) UserInfo(ctx context.Context, accessToken string) (info domain.UserInfo, err error) {
	ctx, span := tracer.Start(ctx, "UserInfoService.UserInfo")
	defer func() { endSpan(span, err) }()

	if accessToken == "" {
		return info, ErrInvalidAccessToken
	}

	code, err := s.Store.AuthorizationCodes().GetConsumedCodeByAccessToken(ctx, accessToken)
	if errors.Is(err, store.ErrNotFound) {
		return info, ErrInvalidAccessToken
	}
	if err != nil {
		return info, fmt.Errorf("get authorization code: %w", err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, code.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return info, ErrInvalidAccessToken
	}
	if err != nil {
		return info, fmt.Errorf("get user: %w", err)
	}

	info.Subject = user.ID
	if code.HasScope(domain.ScopeProfile) {
		info.PreferredUsername = user.Username
		info.Nickname = user.Nickname
		info.Picture = user.AvatarURL
		info.Website = user.Website
	}
	if code.HasScope(domain.ScopeEmail) {
		verified := user.Activated
		info.Email = user.Email
		info.EmailVerified = &verified
	}
	return info, nil
}
