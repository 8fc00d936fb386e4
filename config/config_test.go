package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://ca.kognitivloyalty.com/api", cfg.BaseURL)
	assert.Equal(t, "2025.3", cfg.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 20, cfg.MaxPages)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Token, "tokens only come from the environment")
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://staging.example.test/api
engine:
  per_page: 25
  page_delay: 250ms
server:
  listen: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.test/api", cfg.BaseURL)
	assert.Equal(t, 25, cfg.PerPage)
	assert.Equal(t, 250*time.Millisecond, cfg.PageDelay)
	assert.Equal(t, ":9090", cfg.Listen)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20, cfg.MaxPages)
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv("LOYALTY_API_TOKEN", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Token)
}

func TestLoad_TokenInConfigFileRejected(t *testing.T) {
	path := writeConfigFile(t, `
api:
  token: leaked-secret
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOYALTY_API_TOKEN")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  per_page: 0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per_page")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
