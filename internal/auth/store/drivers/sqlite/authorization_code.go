package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

type authorizationCodesRepo struct {
	db dbtx
}

const codeColumns = `id, code_hash, client_id, user_id, redirect_uri, scope,
	access_token, id_token, expires_at, used_at, created_at`

func scanCode(row interface{ Scan(...any) error }) (domain.AuthorizationCode, error) {
	var (
		c                domain.AuthorizationCode
		expires, created int64
		used             sql.NullInt64
	)
	err := row.Scan(
		&c.ID, &c.CodeHash, &c.ClientID, &c.UserID, &c.RedirectURI, &c.Scope,
		&c.AccessToken, &c.IDToken, &expires, &used, &created,
	)
	if err != nil {
		return domain.AuthorizationCode{}, mapNotFound(err)
	}
	c.ExpiresAt = fromMillis(expires)
	c.UsedAt = fromNullMillis(used)
	c.CreatedAt = fromMillis(created)
	return c, nil
}

func (r *authorizationCodesRepo) CreateAuthorizationCode(ctx context.Context, c domain.AuthorizationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_codes (`+codeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CodeHash, c.ClientID, c.UserID, c.RedirectURI, c.Scope,
		c.AccessToken, c.IDToken, toMillis(c.ExpiresAt), toNullMillis(c.UsedAt), toMillis(c.CreatedAt),
	)
	return mapUnique(err)
}

func (r *authorizationCodesRepo) GetAuthorizationCodeByHash(ctx context.Context, hash string) (domain.AuthorizationCode, error) {
	return scanCode(r.db.QueryRowContext(ctx,
		`SELECT `+codeColumns+` FROM authorization_codes WHERE code_hash = ?`, hash))
}

func (r *authorizationCodesRepo) ConsumeAuthorizationCode(ctx context.Context, hash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE authorization_codes SET used_at = ? WHERE code_hash = ? AND used_at IS NULL`,
		toMillis(at), hash,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *authorizationCodesRepo) GetConsumedCodeByAccessToken(ctx context.Context, accessToken string) (domain.AuthorizationCode, error) {
	return scanCode(r.db.QueryRowContext(ctx,
		`SELECT `+codeColumns+` FROM authorization_codes
		 WHERE access_token = ? AND used_at IS NOT NULL`, accessToken))
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM authorization_codes WHERE used_at IS NULL AND expires_at <= ?`,
		toMillis(now),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
