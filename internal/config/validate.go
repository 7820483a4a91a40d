package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desitranslate/desi"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	if err := c.Rules.validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history: path is required when enabled")
	}
	if err := c.Translator.validate(); err != nil {
		return fmt.Errorf("translator: %w", err)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("ratelimit: requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log: format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

func (r *RulesConfig) validate() error {
	switch r.Source {
	case SourceEmbedded:
	case SourceDir:
		if r.Dir == "" {
			return fmt.Errorf("dir is required for source %q", SourceDir)
		}
	case SourceHTTP:
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("url must be an http(s) URL (got %q)", r.URL)
		}
	default:
		return fmt.Errorf("unknown source %q", r.Source)
	}
	if r.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", r.MaxRetries)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	switch c.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for backend %q", CacheRedis)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0 (got %s)", c.TTL)
	}
	return nil
}

func (t *TranslatorConfig) validate() error {
	if t.Tagger != TaggerHeuristic && t.Tagger != TaggerContext {
		return fmt.Errorf("tagger must be %q or %q (got %q)", TaggerHeuristic, TaggerContext, t.Tagger)
	}
	if desi.NormalizeLanguage(t.SourceLang) == desi.NormalizeLanguage(t.TargetLang) {
		return fmt.Errorf("source_lang and target_lang must differ (both %q)", t.SourceLang)
	}
	if t.SubtitleWorkers <= 0 {
		return fmt.Errorf("subtitle_workers must be > 0 (got %d)", t.SubtitleWorkers)
	}
	return nil
}
