package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orglink/internal/app"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/store"
	"orglink/internal/platform/config"
	"orglink/internal/platform/logger"
)

const adminToken = "secret-token"

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		Server:  config.Server{AdminToken: adminToken},
		Linkage: config.DefaultLinkage(),
	}
	src := store.NewInMemoryRegistrySource(
		models.Organization{ID: uuid.New(), OfficialName: "Environmental Protection Agency", Acronym: "EPA"},
		models.Organization{ID: uuid.New(), OfficialName: "Department of Homeland Security", Acronym: "DHS"},
	)
	a, err := app.New(context.Background(), cfg, logger.Discard(), app.WithRegistrySource(src))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	_, err = a.Service.RefreshCache(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--addr", srv.URL, "--token", adminToken}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	srv := startServer(t)

	out, err := runCLI(t, srv, "resolve", "epa", "--short", "EPA")
	require.NoError(t, err)
	assert.Contains(t, out, "via acronym")
	assert.Contains(t, out, "Environmental Protection Agency (EPA)")

	out, err = runCLI(t, srv, "resolve", "Bureau of Unknowns")
	require.NoError(t, err)
	assert.Contains(t, out, "no match")
}

func TestResolveCommandRequiresInput(t *testing.T) {
	srv := startServer(t)
	_, err := runCLI(t, srv, "resolve")
	require.Error(t, err)
}

func TestValidateCommandSuggests(t *testing.T) {
	srv := startServer(t)
	out, err := runCLI(t, srv, "validate", "Department of Homeland")
	require.NoError(t, err)
	assert.Contains(t, out, "Did you mean:")
	assert.Contains(t, out, "Department of Homeland Security")
}

func TestStatsAndCacheCommands(t *testing.T) {
	srv := startServer(t)

	out, err := runCLI(t, srv, "stats", "--target", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "(meets)")

	out, err = runCLI(t, srv, "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Ready: true")
	assert.Contains(t, out, "Acronyms:     2")

	out, err = runCLI(t, srv, "cache", "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "registry cache refreshed")
}

func TestUnmatchedCommand(t *testing.T) {
	srv := startServer(t)

	out, err := runCLI(t, srv, "unmatched")
	require.NoError(t, err)
	assert.Contains(t, out, "0 unmatched names")

	out, err = runCLI(t, srv, "unmatched", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
}

func TestWrongTokenSurfacesServerError(t *testing.T) {
	srv := startServer(t)
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--addr", srv.URL, "--token", "wrong", "stats"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestAliasesCheckCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  Office of Special Counsel: OSC\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"aliases", "check", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), ": ok,")
}
