package e2e_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playerdb/internal/api"
	"github.com/mcoot/playerdb/internal/factory"
	"github.com/mcoot/playerdb/internal/storage/sqlstore"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "playerctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/playerctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application on a throwaway database
	app, err := factory.New(context.Background(), factory.Config{
		Store: sqlstore.Config{
			Driver:       sqlstore.DriverSQLite,
			DSN:          filepath.Join(t.TempDir(), "e2e.db"),
			CreateSchema: true,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
		Health:        app.Store,
	})

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(router, cfg, logger)
	require.NoError(t, server.Listen())

	// Start server
	go func() {
		if err := server.Start(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			_ = server.Shutdown(context.Background())
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type playerResponse struct {
	ID           int64  `json:"id"`
	Firstname    string `json:"firstname"`
	IsOK         bool   `json:"isok"`
	NbGame       int64  `json:"nbgame"`
	DateLastGame string `json:"datelastgame"`
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (r *cliRunner) create(t *testing.T, name, isok, nbgame, date string) playerResponse {
	t.Helper()

	output, err := r.run("player", "create", "--firstname", name, "--isok", isok, "--nbgame", nbgame, "--date", date)
	require.NoError(t, err, "output: %s", output)

	var p playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &p))
	return p
}

func firstnames(t *testing.T, output string) []string {
	t.Helper()

	var players []playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &players), "output: %s", output)

	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Firstname
	}
	return out
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health", "--wait", "2s")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_ReadCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	toto := cli.create(t, "Toto", "true", "3", "2020-01-01")
	cli.create(t, "Motor", "false", "0", "2018-04-20")
	cli.create(t, "Abc", "false", "7", "2019-06-15")

	output, err := cli.run("player", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"Toto", "Motor", "Abc"}, firstnames(t, output))

	output, err = cli.run("player", "get", fmt.Sprint(toto.ID))
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"Toto"}, firstnames(t, "["+output+"]"))

	output, err = cli.run("player", "column", "nbgame")
	require.NoError(t, err, "output: %s", output)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Equal(t, []map[string]any{{"nbgame": float64(3)}, {"nbgame": float64(0)}, {"nbgame": float64(7)}}, rows)

	output, err = cli.run("player", "search", "isok=0", "nbgame=7")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"Abc"}, firstnames(t, output))

	output, err = cli.run("player", "like", "ot")
	require.NoError(t, err, "output: %s", output)
	assert.ElementsMatch(t, []string{"Toto", "Motor"}, firstnames(t, output))

	output, err = cli.run("player", "begin", "Ab")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"Abc"}, firstnames(t, output))

	output, err = cli.run("player", "after", "2018-04-20")
	require.NoError(t, err, "output: %s", output)
	assert.ElementsMatch(t, []string{"Toto", "Abc"}, firstnames(t, output))

	output, err = cli.run("player", "desc")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"Toto", "Motor", "Abc"}, firstnames(t, output))
}

func TestCLI_WriteCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	zoe := cli.create(t, "Zoé", "true", "1", "2021-02-03")
	cli.create(t, "Motor", "false", "0", "2018-04-20")
	id := fmt.Sprint(zoe.ID)

	// Update
	output, err := cli.run("player", "update", id, "--firstname", "Zoey", "--isok", "1", "--nbgame", "2", "--date", "2022-01-01")
	require.NoError(t, err, "output: %s", output)
	var updated playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &updated))
	assert.Equal(t, playerResponse{ID: zoe.ID, Firstname: "Zoey", IsOK: true, NbGame: 2, DateLastGame: "2022-01-01"}, updated)

	// Toggle
	output, err = cli.run("player", "toggle", id)
	require.NoError(t, err, "output: %s", output)
	var toggled playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &toggled))
	assert.False(t, toggled.IsOK)

	// Purge inactive: both players are now inactive
	output, err = cli.run("player", "purge")
	require.NoError(t, err, "output: %s", output)
	var purged deleteResponse
	require.NoError(t, json.Unmarshal([]byte(output), &purged))
	assert.Equal(t, int64(2), purged.Deleted)

	output, err = cli.run("player", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Empty(t, firstnames(t, output))
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Validation errors are all reported
	output, err := cli.run("player", "create", "--firstname", "Z", "--nbgame", "abc", "--date", "yesterday")
	assert.Error(t, err)
	assert.Contains(t, output, "validation failed")
	assert.Contains(t, output, "firstname")
	assert.Contains(t, output, "nbgame")

	// Missing player
	output, err = cli.run("player", "delete", "9999")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Unknown search column
	output, err = cli.run("player", "search", "password=x")
	assert.Error(t, err)
	assert.Contains(t, output, "UNKNOWN_COLUMN")

	// Numeric but out of range id
	output, err = cli.run("player", "toggle", "99999999999999999999")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_ID")

	// Non-numeric ids match no route
	output, err = cli.run("player", "toggle", "abc")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_FOUND")
}
