package sqlite

import (
	"context"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

type clientsRepo struct {
	db dbtx
}

const clientColumns = `id, client_id, client_secret, app_name, app_desc, app_icon_url,
	redirect_uri, allowed_scopes, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (domain.Client, error) {
	var (
		c                domain.Client
		created, updated int64
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.ClientSecret, &c.AppName, &c.AppDesc, &c.AppIconURL,
		&c.RedirectURI, &c.AllowedScopes, &created, &updated,
	)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return c, nil
}

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	return scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = ?`, clientID))
}

func (r *clientsRepo) UpsertClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id) DO UPDATE SET
			client_secret  = excluded.client_secret,
			app_name       = excluded.app_name,
			app_desc       = excluded.app_desc,
			app_icon_url   = excluded.app_icon_url,
			redirect_uri   = excluded.redirect_uri,
			allowed_scopes = excluded.allowed_scopes,
			updated_at     = excluded.updated_at`,
		c.ID, c.ClientID, c.ClientSecret, c.AppName, c.AppDesc, c.AppIconURL,
		c.RedirectURI, c.AllowedScopes, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	return mapUnique(err)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY client_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
