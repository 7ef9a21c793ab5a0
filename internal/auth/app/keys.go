package app

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
)

// devKeyPEM is a published keypair for local development. Anything it signs
// can be forged by anyone.
//
//go:embed devkey.pem
var devKeyPEM []byte

// InitAuthKeys loads the signing key from the configuration, falling back to
// the development key outside production.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	pemBytes, source, err := signingKeyPEM(cfg)
	if err != nil {
		return nil, err
	}

	if source == "development" {
		if cfg.IsProd() {
			return nil, errors.New("refusing to start with the development signing key in prod")
		}
		logger.Warn("no signing key configured, using the development key; tokens can be forged",
			"hint", "set AUTH_PRIVATE_KEY or AUTH_PRIVATE_KEY_FILE")
	}

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		PrivateKeyPEM: pemBytes,
		Issuer:        cfg.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s signing key: %w", source, err)
	}

	logger.Info("signing key loaded",
		"source", source,
		"algorithm", km.Algorithm(),
		"kid", km.KID(),
		"issuer", cfg.Issuer,
	)
	return km, nil
}

func signingKeyPEM(cfg Config) ([]byte, string, error) {
	switch {
	case cfg.PrivateKey != "":
		// Single-line env values commonly carry escaped newlines.
		return []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")), "env", nil
	case cfg.PrivateKeyFile != "":
		b, err := os.ReadFile(filepath.Clean(cfg.PrivateKeyFile))
		if err != nil {
			return nil, "", fmt.Errorf("read signing key: %w", err)
		}
		return b, "file", nil
	default:
		return devKeyPEM, "development", nil
	}
}

// LoadClientSeeds collects client registrations from AUTH_CLIENTS and
// AUTH_CLIENTS_FILE. Inline entries come first.
func LoadClientSeeds(cfg Config) ([]service.ClientSeed, error) {
	seeds, err := service.ParseClientSeeds([]byte(cfg.ClientsJSON))
	if err != nil {
		return nil, fmt.Errorf("AUTH_CLIENTS: %w", err)
	}

	if cfg.ClientsFile != "" {
		b, err := os.ReadFile(filepath.Clean(cfg.ClientsFile))
		if err != nil {
			return nil, fmt.Errorf("read AUTH_CLIENTS_FILE: %w", err)
		}
		fromFile, err := service.ParseClientSeeds(b)
		if err != nil {
			return nil, fmt.Errorf("AUTH_CLIENTS_FILE: %w", err)
		}
		seeds = append(seeds, fromFile...)
	}

	return seeds, nil
}
