package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SessionService registers and logs in users and checks the session tokens
// it hands out. Sessions are stateless signed tokens.
type SessionService struct {
	Store   store.Store
	Keys    *jwtx.KeyManager
	Hasher  PasswordHasher
	Issuer  string
	TTL     time.Duration // defaults to jwtx.DefaultSessionTTL
	Metrics metrics.Recorder
	Clock   Clock

	decoyOnce sync.Once
	decoy     string
}

// decoyPassword is hashed once so unknown logins can pay for a Verify.
const decoyPassword = "identity-login-decoy"

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Nickname string
}

// Register creates a user and returns a session token for it. The username
// clash is reported before the email clash.
func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (token string, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.Register")
	defer func() { endSpan(span, err) }()
	defer func() { recorder(s.Metrics).RecordSessionIssued("register", err == nil) }()

	l := slogx.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	nickname := strings.TrimSpace(req.Nickname)
	switch {
	case username == "":
		return "", invalidRequest("username is required")
	case req.Password == "":
		return "", invalidRequest("password is required")
	case email == "":
		return "", invalidRequest("email is required")
	}
	if nickname == "" {
		nickname = username
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		CanLogin:     true,
		JoinedAt:     now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := ensureAbsent(ctx, tx.Users().GetUserByUsername, username, ErrUsernameExists); err != nil {
			return err
		}
		if err := ensureAbsent(ctx, tx.Users().GetUserByEmail, email, ErrEmailExists); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		// Lost a race past the existence checks; the unique index decides.
		var uv *store.UniqueViolation
		if errors.As(err, &uv) {
			switch uv.Field {
			case "username":
				return "", ErrUsernameExists
			case "email":
				return "", ErrEmailExists
			}
		}
		if KindOf(err) != KindInternal {
			return "", err
		}
		l.Error("failed to create user", "error", err)
		return "", fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	l.Info("user registered", "user_id", user.ID)

	return s.issue(user.ID, now)
}

// Login authenticates login (a username or an email) and returns a session
// token. Every rejection looks the same to the caller.
func (s *SessionService) Login(ctx context.Context, login, password string) (token string, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.Login")
	defer func() { endSpan(span, err) }()
	defer func() { recorder(s.Metrics).RecordSessionIssued("login", err == nil) }()

	l := slogx.FromContext(ctx)

	login = strings.TrimSpace(login)
	if login == "" {
		return "", invalidRequest("login is required")
	}
	if password == "" {
		return "", invalidRequest("password is required")
	}

	user, err := s.Store.Users().GetUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		// Same hashing cost as a wrong password.
		_ = s.Hasher.Verify(s.decoyDigest(), password)
		l.Debug("login for unknown user")
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := s.Hasher.Verify(user.PasswordHash, password); err != nil {
		l.Debug("login with wrong password", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}
	if !user.CanLogin {
		l.Info("login for disabled user", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return s.issue(user.ID, s.Clock.now())
}

// VerifySession checks a session token and returns its subject.
func (s *SessionService) VerifySession(ctx context.Context, token string) (string, error) {
	_, span := tracer.Start(ctx, "SessionService.VerifySession", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	m := recorder(s.Metrics)

	if strings.TrimSpace(token) == "" {
		m.RecordSessionVerification("missing")
		return "", ErrSessionMissing
	}

	claims, err := s.Keys.Verify(token)
	if err == nil {
		err = claims.ValidateSession(s.Issuer)
	}
	if err == nil {
		_, err = idx.Parse(claims.Subject)
	}
	switch {
	case err == nil:
		m.RecordSessionVerification("valid")
		return claims.Subject, nil
	case errors.Is(err, jwtx.ErrMalformed):
		m.RecordSessionVerification("malformed")
		return "", ErrSessionMalformed
	case errors.Is(err, jwtx.ErrExpired):
		m.RecordSessionVerification("expired")
		return "", ErrSessionExpired
	default:
		m.RecordSessionVerification("invalid")
		return "", ErrSessionInvalid
	}
}

func (s *SessionService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.Hasher.Hash(decoyPassword)
	})
	return s.decoy
}

func (s *SessionService) issue(userID string, now time.Time) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, err := s.Keys.Sign(jwtx.NewSessionClaims(userID, s.Issuer, ttl, now))
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func ensureAbsent(
	ctx context.Context,
	get func(context.Context, string) (domain.User, error),
	key string,
	clash error,
) error {
	_, err := get(ctx, key)
	switch {
	case err == nil:
		return clash
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return err
	}
}
