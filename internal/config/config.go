package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Rules      RulesConfig      `yaml:"rules"`
	Cache      CacheConfig      `yaml:"cache"`
	History    HistoryConfig    `yaml:"history"`
	Log        LogConfig        `yaml:"log"`
	Translator TranslatorConfig `yaml:"translator"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
	AdminToken      string        `yaml:"admin_token"      env:"SERVER_ADMIN_TOKEN"`
}

// Rule sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
)

// RulesConfig selects where rule tables are read from.
type RulesConfig struct {
	Source       string        `yaml:"source"        env:"RULES_SOURCE"        env-default:"embedded"`
	Dir          string        `yaml:"dir"           env:"RULES_DIR"           env-default:"./rules"`
	URL          string        `yaml:"url"           env:"RULES_URL"`
	Timeout      time.Duration `yaml:"timeout"       env:"RULES_TIMEOUT"       env-default:"30s"`
	MaxRetries   int           `yaml:"max_retries"   env:"RULES_MAX_RETRIES"   env-default:"3"`
	InitialDelay time.Duration `yaml:"initial_delay" env:"RULES_INITIAL_DELAY" env-default:"500ms"`
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig selects the translation cache.
type CacheConfig struct {
	Backend    string        `yaml:"backend"     env:"CACHE_BACKEND"     env-default:"memory"`
	TTL        time.Duration `yaml:"ttl"         env:"CACHE_TTL"         env-default:"1h"`
	MaxEntries int           `yaml:"max_entries" env:"CACHE_MAX_ENTRIES" env-default:"10000"`
	RedisURL   string        `yaml:"redis_url"   env:"CACHE_REDIS_URL"`
	KeyPrefix  string        `yaml:"key_prefix"  env:"CACHE_KEY_PREFIX"  env-default:"desi:"`
}

// HistoryConfig holds translation history settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"HISTORY_ENABLED" env-default:"false"`
	Path    string `yaml:"path"    env:"HISTORY_PATH"    env-default:"./desi-history.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Tagger names.
const (
	TaggerHeuristic = "heuristic"
	TaggerContext   = "context"
)

// TranslatorConfig holds translation defaults.
type TranslatorConfig struct {
	SourceLang        string `yaml:"source_lang"        env:"TRANSLATOR_SOURCE_LANG"        env-default:"en"`
	TargetLang        string `yaml:"target_lang"        env:"TRANSLATOR_TARGET_LANG"        env-default:"hindi"`
	Tagger            string `yaml:"tagger"             env:"TRANSLATOR_TAGGER"             env-default:"heuristic"`
	SubtitleWorkers   int    `yaml:"subtitle_workers"   env:"TRANSLATOR_SUBTITLE_WORKERS"   env-default:"8"`
	ParallelThreshold int    `yaml:"parallel_threshold" env:"TRANSLATOR_PARALLEL_THRESHOLD" env-default:"5"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATELIMIT_ENABLED"             env-default:"true"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATELIMIT_REQUESTS_PER_MINUTE" env-default:"120"`
	Burst             int           `yaml:"burst"               env:"RATELIMIT_BURST"               env-default:"20"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATELIMIT_CLEANUP_INTERVAL"    env-default:"1m"`
}
