package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "desi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
rules:
  source: dir
  dir: /srv/rules
cache:
  backend: redis
  redis_url: "redis://localhost:6379/0"
  ttl: "10m"
history:
  enabled: true
  path: /tmp/history.db
log:
  level: debug
  format: text
translator:
  target_lang: telugu
  tagger: context
ratelimit:
  requests_per_minute: 30
`

func TestLoadFile_YAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "default applies to unset field")
	assert.Equal(t, SourceDir, cfg.Rules.Source)
	assert.Equal(t, "/srv/rules", cfg.Rules.Dir)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "en", cfg.Translator.SourceLang)
	assert.Equal(t, "telugu", cfg.Translator.TargetLang)
	assert.Equal(t, TaggerContext, cfg.Translator.Tagger)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadFile_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("TRANSLATOR_TARGET_LANG", "tamil")

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "tamil", cfg.Translator.TargetLang)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SourceEmbedded, cfg.Rules.Source)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "hindi", cfg.Translator.TargetLang)
	assert.Equal(t, TaggerHeuristic, cfg.Translator.Tagger)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:     ServerConfig{Port: 8080, MaxBodyBytes: 1024},
			Rules:      RulesConfig{Source: SourceEmbedded},
			Cache:      CacheConfig{Backend: CacheMemory},
			Log:        LogConfig{Format: "json"},
			Translator: TranslatorConfig{SourceLang: "en", TargetLang: "hindi", Tagger: TaggerHeuristic, SubtitleWorkers: 4},
			RateLimit:  RateLimitConfig{Enabled: true, RequestsPerMinute: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown source", func(c *Config) { c.Rules.Source = "s3" }, "unknown source"},
		{"dir without path", func(c *Config) { c.Rules.Source = SourceDir }, "dir is required"},
		{"http without url", func(c *Config) { c.Rules.Source = SourceHTTP }, "url must be"},
		{"http ok", func(c *Config) { c.Rules.Source = SourceHTTP; c.Rules.URL = "https://rules.example.com/v1" }, ""},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }, "redis_url"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown backend"},
		{"history without path", func(c *Config) { c.History.Enabled = true }, "history"},
		{"unknown tagger", func(c *Config) { c.Translator.Tagger = "neural" }, "tagger"},
		{"same languages", func(c *Config) { c.Translator.TargetLang = "English" }, "must differ"},
		{"zero rate", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, "requests_per_minute"},
		{"rate limit off", func(c *Config) { c.RateLimit = RateLimitConfig{} }, ""},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDescription(t *testing.T) {
	text, err := Description()
	require.NoError(t, err)
	assert.Contains(t, text, "CACHE_BACKEND")
}
