package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 5000, cfg.Web.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.WebAddr())
	assert.Equal(t, 8, cfg.Import.Workers)

	// defaults must not be shared with the returned copy
	cfg.Web.AllowOrigins[0] = "http://changed"
	assert.Equal(t, "*", DefaultAppConfig.Web.AllowOrigins[0])
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "salesdash.yml")
	content := `
system:
  workdir: /tmp/salesdash
web:
  port: 8080
  allow_origins: ["http://localhost:3000"]
database:
  type: sqlite
  name: sales.db
import:
  workers: 2
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "sales.db", cfg.Database.Name)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Web.AllowOrigins)
	assert.Equal(t, 2, cfg.Import.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, 100000, cfg.Import.MaxRows)
	assert.Equal(t, "/tmp/salesdash/data", cfg.GetDataDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SALESDASH_WEB_PORT", "9090")
	t.Setenv("SALESDASH_DB_TYPE", "sqlite")
	t.Setenv("SALESDASH_DB_DEBUG", "true")
	t.Setenv("SALESDASH_IMPORT_WORKERS", "not-a-number")
	t.Setenv("SALESDASH_WEB_ALLOW_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SALESDASH_WEB_RATE_LIMIT", "2.5")
	t.Setenv("SALESDASH_WEB_METRICS", "1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, 8, cfg.Import.Workers)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Web.AllowOrigins)
	assert.Equal(t, 2.5, cfg.Web.RateLimit)
	assert.True(t, cfg.Web.Metrics)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
