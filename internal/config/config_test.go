package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, catalog.DefaultBaseURL, cfg.Catalog.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.Catalog.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, int64(catalog.DefaultMaxImageBytes), cfg.Catalog.MaxImageBytes)
	assert.Equal(t, 1, cfg.Render.Concurrency)
	assert.True(t, cfg.Render.FetchImages)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "flower", cfg.Search.DefaultKeyword)
}

func TestNewViper_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
catalog:
  timeout: 3s
render:
  concurrency: 4
  fetch_images: false
session:
  store: redis
  ttl: 1h
redis:
  addr: redis:6379
  db: 2
search:
  default_keyword: sunflower
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, catalog.DefaultBaseURL, cfg.Catalog.BaseURL, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Render.Concurrency)
	assert.False(t, cfg.Render.FetchImages)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "sunflower", cfg.Search.DefaultKeyword)
}

func TestNewViper_SearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art-explorer.yaml"), []byte("serve:\n  addr: \":9090\"\n"), 0o644))
	t.Chdir(dir)

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Serve.Addr)
}

func TestNewViper_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewViper_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ART_EXPLORER_CATALOG_TIMEOUT", "250ms")
	t.Setenv("ART_EXPLORER_LOG_LEVEL", "debug")
	t.Setenv("ART_EXPLORER_RENDER_CONCURRENCY", "6")
	t.Setenv("ART_EXPLORER_SESSION_STORE", "redis")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 6, cfg.Render.Concurrency)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"relative base url", func(c *Config) { c.Catalog.BaseURL = "/v1" }, "catalog.base_url"},
		{"empty base url", func(c *Config) { c.Catalog.BaseURL = "" }, "catalog.base_url"},
		{"blank user agent", func(c *Config) { c.Catalog.UserAgent = "  " }, "catalog.user_agent"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "catalog.timeout"},
		{"negative image cap", func(c *Config) { c.Catalog.MaxImageBytes = -1 }, "catalog.max_image_bytes"},
		{"zero concurrency", func(c *Config) { c.Render.Concurrency = 0 }, "render.concurrency"},
		{"too much concurrency", func(c *Config) { c.Render.Concurrency = 13 }, "render.concurrency"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown store", func(c *Config) { c.Session.Store = "sqlite" }, "session.store"},
		{"redis without addr", func(c *Config) { c.Session.Store = StoreRedis; c.Redis.Addr = "" }, "redis.addr"},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }, "session.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Render.Concurrency = 3
	cfg.Log.Level = "WARN"

	cc := cfg.CatalogClientConfig()
	assert.Equal(t, cfg.Catalog.BaseURL, cc.BaseURL)
	assert.Equal(t, cfg.Catalog.UserAgent, cc.UserAgent)
	assert.Equal(t, cfg.Catalog.Timeout, cc.Timeout)
	_, err := catalog.New(cc)
	assert.NoError(t, err)

	rc := cfg.RendererConfig()
	assert.Equal(t, 3, rc.Concurrency)
	assert.True(t, rc.FetchImages)

	lc := cfg.LoggingConfig(os.Stderr)
	assert.Equal(t, logging.LevelWarn, lc.Level)
	assert.True(t, lc.Pretty)
}
