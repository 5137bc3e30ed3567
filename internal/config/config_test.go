package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "127.0.0.1:5000", cfg.HTTPServer.Addr)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
env: prod
http_server:
  address: "0.0.0.0:8082"
storage:
  backend: sqlite
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "0.0.0.0:8082", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoad_PartialFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "env: staging\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "127.0.0.1:5000", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http_server:\n  address: \"127.0.0.1:9000\"\n")
	t.Setenv("HTTP_SERVER_ADDR", "127.0.0.1:9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "storage:\n  backend: postgres\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, `unknown storage backend "postgres"`)
}
