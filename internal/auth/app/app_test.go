package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Issuer:                    "identity-test",
		SessionTTL:                time.Hour,
		CodeTTL:                   time.Minute,
		EnforceClientRegistration: true,
		ClientsJSON: `[{"client_id":"demo-app","client_secret":"demo-secret","app_name":"Demo",` +
			`"redirect_uri":"https://demo.example/callback","allowed_scopes":"openid profile email"}]`,
		DatabaseFile:         filepath.Join(dir, "auth.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 8080,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		MetricsEnabled:       true,
	}
}

func TestApplicationServesFlow(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	sdk := authsdk.NewSDKClient(srv.URL)

	session, err := sdk.Register(ctx, authsdk.RegisterRequest{Username: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)

	approved, err := sdk.Approve(ctx, session.Token, authsdk.ApproveRequest{
		ClientID:    "demo-app",
		RedirectURI: "https://demo.example/callback",
		Scope:       "openid email",
	})
	require.NoError(t, err)

	tok, err := sdk.ExchangeCode(ctx, authsdk.ExchangeRequest{
		Code:         approved.Code,
		ClientID:     "demo-app",
		ClientSecret: "demo-secret",
		RedirectURI:  "https://demo.example/callback",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok.IDToken)

	info, err := sdk.GetUserInfo(ctx, tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", info.Email)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	require.Contains(t, body.String(), "identity_token_exchanges_total")
}

func TestApplicationPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(first.Handler())
	_, err = authsdk.NewSDKClient(srv.URL).Register(ctx, authsdk.RegisterRequest{
		Username: "alice", Password: "pw", Email: "alice@example.com",
	})
	require.NoError(t, err)
	srv.Close()
	require.NoError(t, first.db.Close())

	second, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })
	srv = httptest.NewServer(second.Handler())
	t.Cleanup(srv.Close)

	// Reseeding the same clients must not fail, and the pepper must be reused.
	_, err = authsdk.NewSDKClient(srv.URL).Login(ctx, authsdk.LoginRequest{Login: "alice", Password: "pw"})
	require.NoError(t, err)
}

func TestNewRejectsBadClientSeeds(t *testing.T) {
	cfg := testConfig(t)
	cfg.ClientsJSON = `{"not":"an array"}`

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestRunReleasesResourcesWhenListenFails(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })

	cfg := testConfig(t)
	cfg.Port = taken.Addr().(*net.TCPAddr).Port

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	err = app.Run()
	require.ErrorContains(t, err, "server failed")

	require.Error(t, app.db.Ping(context.Background()), "database must be closed after a failed start")
	app.housekeepingService.Stop()
}

func TestRestartKeepsSeededClients(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, first.db.Close())

	cfg.ClientsJSON = ""
	second, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })

	ids, err := second.clientService.ListClientIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"demo-app"}, ids)
}
