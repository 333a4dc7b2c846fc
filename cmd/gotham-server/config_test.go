package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, cfg any) string {
	t.Helper()
	// LoadServerConfig only accepts paths under the working directory.
	t.Chdir(dir)
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadServerConfigBearerMode(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"listen_addr": ":9090",
		"auth": map[string]any{
			"mode":   "bearer",
			"tokens": map[string]string{"tok1": "cust1"},
		},
	})

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, "bearer", cfg.Auth.Mode)
	require.Equal(t, "cust1", cfg.Auth.Tokens["tok1"])
}

func TestLoadServerConfigRejectsEmptyBearerTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"listen_addr": ":9090",
		"auth":        map[string]any{"mode": "bearer"},
	})

	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestLoadServerConfigRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"listen_addr": ":9090",
		"auth":        map[string]any{"mode": "carrier-pigeon"},
	})

	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestLoadServerConfigRejectsPathEscape(t *testing.T) {
	_, err := LoadServerConfig("../../../etc/passwd")
	require.Error(t, err)
}

func TestDefaultConfigIsPassthrough(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, "passthrough", cfg.Auth.Mode)
	require.NoError(t, validateConfig(cfg))
}
