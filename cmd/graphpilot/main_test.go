package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/memory"
	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/sqlstore"
	"github.com/ericfisherdev/graphpilot/internal/config"
)

// graphServer answers every request with a success body that satisfies both
// ack and create responses, and records the Authorization header it saw.
type graphServer struct {
	mu    sync.Mutex
	auths []string
}

func (g *graphServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.auths = append(g.auths, r.Header.Get("Authorization"))
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"success":true,"id":"100001_999","name":"Ada"}`))
}

func (g *graphServer) authorizations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.auths...)
}

func newTestConfig(t *testing.T, databaseURL string) (*config.Config, *graphServer) {
	t.Helper()

	gs := &graphServer{}
	srv := httptest.NewServer(gs)
	t.Cleanup(srv.Close)

	return &config.Config{
		DatabaseURL: databaseURL,
		GraphURL:    srv.URL,
		HTTPTimeout: 5 * time.Second,
		Username:    "default",
	}, gs
}

func runCommand(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	err := execute(context.Background(), cfg, args, strings.NewReader(""), &out)
	require.NoError(t, err)
	return out.String()
}

const sharedPost = "https://www.facebook.com/100001/posts/555"

func TestExecute_InMemoryActsWithEnvironmentToken(t *testing.T) {
	cfg, gs := newTestConfig(t, "")
	cfg.AccessToken = "ENV_TOKEN"

	out := runCommand(t, cfg, "share", sharedPost)

	assert.Contains(t, out, "1 succeeded, 0 failed")
	assert.Equal(t, []string{"Bearer ENV_TOKEN"}, gs.authorizations())
}

func TestExecute_InMemoryActsWithTokenFlag(t *testing.T) {
	cfg, gs := newTestConfig(t, "")

	out := runCommand(t, cfg, "follow", "https://www.facebook.com/profile.php?id=42", "--token", "FLAG_TOKEN")

	assert.Contains(t, out, "1 succeeded, 0 failed")
	assert.Equal(t, []string{"Bearer FLAG_TOKEN"}, gs.authorizations())
}

func TestExecute_TokenFlagOverridesEnvironment(t *testing.T) {
	cfg, gs := newTestConfig(t, "")
	cfg.AccessToken = "ENV_TOKEN"

	runCommand(t, cfg, "react", "post", sharedPost, "--token", "FLAG_TOKEN")

	assert.Equal(t, []string{"Bearer FLAG_TOKEN"}, gs.authorizations())
}

func TestExecute_InMemoryTokenDoesNotOutliveProcess(t *testing.T) {
	cfg, gs := newTestConfig(t, "")

	runCommand(t, cfg, "token", "set", "EAAB1234567890WXYZ")
	out := runCommand(t, cfg, "share", sharedPost)

	assert.Contains(t, out, "GRAPHPILOT_ACCESS_TOKEN")
	assert.Empty(t, gs.authorizations())
}

func TestExecute_DurableTokenIsReusedAcrossRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphpilot.db")
	cfg, gs := newTestConfig(t, "sqlite://"+dbPath)

	runCommand(t, cfg, "token", "set", "STORED_TOKEN")
	out := runCommand(t, cfg, "share", sharedPost)
	assert.Contains(t, out, "1 succeeded, 0 failed")

	out = runCommand(t, cfg, "activity")
	assert.Contains(t, out, "share")
	assert.Contains(t, out, "100001_555")

	assert.Equal(t, []string{"Bearer STORED_TOKEN"}, gs.authorizations())
}

func TestExecute_UsageErrorIsReturned(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	var out bytes.Buffer
	err := execute(context.Background(), cfg, []string{"share", sharedPost, "--count", "0"}, strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestOpenStorage_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("no database url selects memory", func(t *testing.T) {
		store, err := openStorage(ctx, &config.Config{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.close() })

		_, isMemory := store.credentials.(*memory.Store)
		assert.True(t, isMemory)
	})

	t.Run("sqlite url selects sqlstore", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "graphpilot.db")
		store, err := openStorage(ctx, &config.Config{DatabaseURL: "sqlite://" + dbPath})
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.close() })

		_, isSQL := store.credentials.(*sqlstore.CredentialRepo)
		assert.True(t, isSQL)
		_, isSQL = store.activities.(*sqlstore.ActivityRepo)
		assert.True(t, isSQL)
	})

	t.Run("short secret key is rejected", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "graphpilot.db")
		_, err := openStorage(ctx, &config.Config{DatabaseURL: "sqlite://" + dbPath, SecretKey: []byte("short")})
		assert.Error(t, err)
	})
}
