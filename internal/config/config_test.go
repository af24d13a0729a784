package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "chemebot", cfg.App.Name)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = 9090

[search]
max_results = 3

[llm]
model = "test-model"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	// untouched sections keep defaults
	assert.Equal(t, "0.0.0.0", cfg.App.Host)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("LLM_API_KEY", "sk-from-env")
	t.Setenv("SEARCH_MAX_RESULTS", "2")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	assert.Equal(t, 2, cfg.Search.MaxResults)
	assert.True(t, cfg.Cache.Enabled)
}

func TestHTTPAddrAndDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 8181
	assert.Equal(t, "127.0.0.1:8181", cfg.HTTPAddr())

	cfg.MySQL.User = "bot"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.DB = "qa"
	assert.Contains(t, cfg.MySQLDSN(), "bot:pw@tcp(127.0.0.1:3306)/qa?")
}
