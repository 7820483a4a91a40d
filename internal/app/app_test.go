package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/cache"
	"github.com/desitranslate/desi/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:     config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Rules:      config.RulesConfig{Source: config.SourceEmbedded},
		Cache:      config.CacheConfig{Backend: config.CacheMemory, TTL: time.Hour, MaxEntries: 100},
		History:    config.HistoryConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "history.db")},
		Log:        config.LogConfig{Level: "info", Format: "json"},
		Translator: config.TranslatorConfig{SourceLang: "en", TargetLang: "telugu", Tagger: config.TaggerContext, SubtitleWorkers: 2, ParallelThreshold: 5},
		RateLimit:  config.RateLimitConfig{Enabled: true, RequestsPerMinute: 600, Burst: 50, CleanupInterval: time.Minute},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf).Debug("hello", "k", "v")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "hello", m["msg"])
	assert.Equal(t, "DEBUG", m["level"])

	buf.Reset()
	newLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestRuleSource(t *testing.T) {
	assert.Equal(t, "embedded:dictionaries.json", RuleSource(config.RulesConfig{Source: config.SourceEmbedded}).Location("dictionaries.json"))
	assert.Equal(t, filepath.Join("/srv/rules", "idioms.json"), RuleSource(config.RulesConfig{Source: config.SourceDir, Dir: "/srv/rules"}).Location("idioms.json"))
	assert.Equal(t, "https://rules.example.com/v1/idioms.json",
		RuleSource(config.RulesConfig{Source: config.SourceHTTP, URL: "https://rules.example.com/v1/"}).Location("idioms.json"))
}

func TestNew_WiresComponents(t *testing.T) {
	a, err := New(testConfig(t), discard())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.History)
	require.IsType(t, &cache.InMemoryCache{}, a.Cache)

	tr, err := a.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "telugu", tr.TargetLang())
	assert.Equal(t, desi.TaggerContext, tr.TaggerName())

	res := tr.Translate(context.Background(), "water", "", "")
	assert.Equal(t, "నీళ్ళు", res.TranslatedText)

	// translations go through the configured cache
	keys, err := a.Cache.Keys()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)
}

func TestNew_NoCacheNoHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheNone
	cfg.History.Enabled = false

	a, err := New(cfg, discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Cache)
	assert.Nil(t, a.History)
}

func TestNew_BadRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache = config.CacheConfig{Backend: config.CacheRedis, RedisURL: "not a url"}

	_, err := New(cfg, discard())
	var cacheErr *desi.CacheError
	require.ErrorAs(t, err, &cacheErr)
}

func TestLoadRules_DirFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules = config.RulesConfig{Source: config.SourceDir, Dir: t.TempDir()}

	a, err := New(cfg, discard())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.LoadRules(context.Background())
	var loadErr *desi.RuleLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestServer_ReloadPicksUpRuleChanges(t *testing.T) {
	dir := t.TempDir()
	write := func(word string) {
		dict := `{"en_telugu": {"water": {"word": "` + word + `", "pos": "noun", "confidence": 0.9}}}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "dictionaries.json"), []byte(dict), 0o600))
	}
	write("నీరు")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_rules.json"), []byte(`{"word_order": {"telugu": {"order": "SOV"}}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "idioms.json"), []byte(`{"idioms": {}}`), 0o600))

	cfg := testConfig(t)
	cfg.Rules = config.RulesConfig{Source: config.SourceDir, Dir: dir}
	cfg.Cache.Backend = config.CacheNone

	a, err := New(cfg, discard())
	require.NoError(t, err)
	defer a.Close()

	tr, err := a.Reload(context.Background())
	require.NoError(t, err)
	h := a.Server(tr).Handler()

	translate := func() string {
		req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text":"water"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var res desi.TranslationResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		return res.TranslatedText
	}

	assert.Equal(t, "నీరు", translate())

	write("నీళ్ళు")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "నీళ్ళు", translate())

	// a broken table keeps the previous rules active
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dictionaries.json"), []byte(`{"en_telugu": `), 0o600))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "నీళ్ళు", translate())
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, discard()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
