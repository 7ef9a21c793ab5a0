package sqlite

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, password_hash, nickname,
	activated, read_only, can_login, shadow_banned,
	avatar_url, bio, birth, website, phone,
	joined_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u               domain.User
		joined, updated int64
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname,
		&u.Activated, &u.ReadOnly, &u.CanLogin, &u.ShadowBanned,
		&u.AvatarURL, &u.Bio, &u.Birth, &u.Website, &u.Phone,
		&joined, &updated,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.JoinedAt = fromMillis(joined)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Nickname,
		boolToInt(u.Activated), boolToInt(u.ReadOnly), boolToInt(u.CanLogin), boolToInt(u.ShadowBanned),
		u.AvatarURL, u.Bio, u.Birth, u.Website, u.Phone,
		toMillis(u.JoinedAt), toMillis(u.UpdatedAt),
	)
	return mapUnique(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, login string) (domain.User, error) {
	u, err := r.GetUserByUsername(ctx, login)
	if !errors.Is(err, store.ErrNotFound) {
		return u, err
	}
	return r.GetUserByEmail(ctx, login)
}

