package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

type ClientService struct {
	Store store.Store
	Clock Clock
}

// ClientSeed is a client as written in configuration.
type ClientSeed struct {
	ClientID      string `json:"client_id"`
	ClientSecret  string `json:"client_secret"`
	AppName       string `json:"app_name"`
	AppDesc       string `json:"app_desc"`
	AppIconURL    string `json:"app_icon_url"`
	RedirectURI   string `json:"redirect_uri"`
	AllowedScopes string `json:"allowed_scopes"`
}

// ParseClientSeeds decodes a JSON array of clients. Empty input is no
// clients.
func ParseClientSeeds(raw []byte) ([]ClientSeed, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var seeds []ClientSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse clients: %w", err)
	}
	for i, c := range seeds {
		if strings.TrimSpace(c.ClientID) == "" {
			return nil, fmt.Errorf("parse clients: entry %d has no client_id", i)
		}
		if strings.TrimSpace(c.RedirectURI) == "" {
			return nil, fmt.Errorf("parse clients: client %q has no redirect_uri", c.ClientID)
		}
	}
	return seeds, nil
}

// GetClientInfo returns the public view of a client for the consent screen.
func (s *ClientService) GetClientInfo(ctx context.Context, clientID string) (domain.ClientInfo, error) {
	client, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ClientInfo{}, ErrClientNotFound
	}
	if err != nil {
		return domain.ClientInfo{}, fmt.Errorf("get client: %w", err)
	}
	return client.Info(), nil
}

// ListClientIDs returns the client_id of every registered client in order.
func (s *ClientService) ListClientIDs(ctx context.Context) ([]string, error) {
	clients, err := s.Store.Clients().ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ClientID)
	}
	return ids, nil
}

// SeedClients upserts seeds by client_id in a single transaction. Running it
// twice with the same input changes nothing but updated_at.
func (s *ClientService) SeedClients(ctx context.Context, seeds []ClientSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, seed := range seeds {
			err := tx.Clients().UpsertClient(ctx, domain.Client{
				ID:            idx.NewAt(now).String(),
				ClientID:      strings.TrimSpace(seed.ClientID),
				ClientSecret:  seed.ClientSecret,
				AppName:       seed.AppName,
				AppDesc:       seed.AppDesc,
				AppIconURL:    seed.AppIconURL,
				RedirectURI:   strings.TrimSpace(seed.RedirectURI),
				AllowedScopes: strings.Join(httpx.ParseSpaceDelimitedFields(seed.AllowedScopes), " "),
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return fmt.Errorf("upsert client %q: %w", seed.ClientID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("seeded clients", "count", len(seeds))
	return nil
}
