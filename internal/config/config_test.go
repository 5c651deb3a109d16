package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pageroute/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func code(t *testing.T, err error) string {
	t.Helper()
	var ce *errors.Error
	require.True(t, stderrors.As(err, &ce), "expected coded error, got %v", err)
	return ce.Code
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, DefaultManifest, cfg.Manifest)
	assert.Equal(t, DefaultContentDir, cfg.Content.Dir)
	assert.Equal(t, CacheNone, cfg.Cache.Kind)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "pageroute:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "pageroute", cfg.Metrics.Namespace)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:3000", cfg.Address())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"manifest": "app/routes.yaml",
		"content": {"s3": {"bucket": "tmpl", "prefix": "site/"}},
		"cache": {"kind": "redis", "ttl": "30s", "redis": {"addr": "cache:6379"}},
		"server": {"host": "0.0.0.0", "port": 8080},
		"logging": {"level": "debug", "format": "json"},
		"metrics": {"enabled": false}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "app/routes.yaml"), cfg.ManifestPath())
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultContentDir), cfg.ContentDir())
	assert.True(t, cfg.UsesS3())
	assert.Equal(t, "site/", cfg.Content.S3.Prefix)
	assert.Equal(t, CacheRedis, cfg.Cache.Kind)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "pageroute", cfg.Metrics.Namespace)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"server": {"port": 8080}}`)
	t.Setenv("PAGEROUTE_SERVER_PORT", "9090")
	t.Setenv("PAGEROUTE_CACHE_KIND", "memory")
	t.Setenv("PAGEROUTE_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, CacheMemory, cfg.Cache.Kind)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, DefaultManifest, cfg.ManifestPath())
	assert.False(t, cfg.UsesS3())
}

func TestLoadFindsWorkingDirFile(t *testing.T) {
	path := writeConfig(t, `{"manifest": "other.json"}`)
	chdir(t, filepath.Dir(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "other.json", cfg.Manifest)
	assert.NotEmpty(t, cfg.Path())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, "C001", code(t, err))

	_, err = Load(writeConfig(t, `{not json`))
	assert.Equal(t, "C001", code(t, err))

	_, err = Load(writeConfig(t, `{"cache": {"kind": "disk"}}`))
	assert.Equal(t, "C002", code(t, err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory cache", func(c *Config) { c.Cache.Kind = CacheMemory }, true},
		{"empty manifest", func(c *Config) { c.Manifest = "" }, false},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"unknown cache", func(c *Config) { c.Cache.Kind = "disk" }, false},
		{"redis without addr", func(c *Config) { c.Cache.Kind = CacheRedis; c.Cache.Redis.Addr = "" }, false},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, false},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, "C002", code(t, err))
		})
	}
}
