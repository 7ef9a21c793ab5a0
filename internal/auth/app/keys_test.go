package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

func TestInitAuthKeysSources(t *testing.T) {
	pemBytes, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	pkcs8, err := cryptox.GenerateRSAKeyPKCS8(cryptox.MinRSABits)
	require.NoError(t, err)
	pkcs8Path := filepath.Join(t.TempDir(), "key8.pem")
	require.NoError(t, os.WriteFile(pkcs8Path, pkcs8, 0o600))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"file", Config{Issuer: "identity", PrivateKeyFile: path}},
		{"pkcs8 file", Config{Issuer: "identity", PrivateKeyFile: pkcs8Path}},
		{"inline", Config{Issuer: "identity", PrivateKey: string(pemBytes)}},
		{"inline with escaped newlines", Config{Issuer: "identity", PrivateKey: strings.ReplaceAll(string(pemBytes), "\n", `\n`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := InitAuthKeys(tt.cfg, discard)
			require.NoError(t, err)
			require.Equal(t, jwtx.MainKeyID, km.KID())

			token, err := km.Sign(jwtx.NewSessionClaims("u", "identity", time.Hour, time.Now()))
			require.NoError(t, err)
			_, err = km.Verify(token)
			require.NoError(t, err)
		})
	}
}

func TestInitAuthKeysDevelopmentKey(t *testing.T) {
	a, err := InitAuthKeys(Config{Issuer: "identity", Env: "dev"}, discard)
	require.NoError(t, err)
	b, err := InitAuthKeys(Config{Issuer: "identity", Env: "dev"}, discard)
	require.NoError(t, err)

	an, _ := a.PublicKeyParams()
	bn, _ := b.PublicKeyParams()
	require.Equal(t, an, bn, "development key must be stable across restarts")

	_, err = InitAuthKeys(Config{Issuer: "identity", Env: "prod"}, discard)
	require.Error(t, err)
}

func TestInitAuthKeysErrors(t *testing.T) {
	_, err := InitAuthKeys(Config{PrivateKeyFile: filepath.Join(t.TempDir(), "missing.pem")}, discard)
	require.Error(t, err)

	_, err = InitAuthKeys(Config{PrivateKey: "not a key"}, discard)
	require.Error(t, err)
}

func TestLoadClientSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"client_id":"from-file","redirect_uri":"https://file.example/cb"}]`), 0o600))

	seeds, err := LoadClientSeeds(Config{
		ClientsJSON: `[{"client_id":"inline","redirect_uri":"https://inline.example/cb"}]`,
		ClientsFile: path,
	})
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	require.Equal(t, "inline", seeds[0].ClientID)
	require.Equal(t, "from-file", seeds[1].ClientID)

	seeds, err = LoadClientSeeds(Config{})
	require.NoError(t, err)
	require.Empty(t, seeds)

	_, err = LoadClientSeeds(Config{ClientsJSON: `[{"client_id":"x"}]`})
	require.Error(t, err)

	_, err = LoadClientSeeds(Config{ClientsFile: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
}
