// Package app wires configuration into a running translator, cache, history
// store and HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/cache"
	"github.com/desitranslate/desi/internal/config"
	"github.com/desitranslate/desi/internal/server"
	"github.com/desitranslate/desi/processor"
	"github.com/desitranslate/desi/rules"
	"github.com/desitranslate/desi/store"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Source  rules.Source
	Cache   cache.ExportableCache // nil when caching is off
	History *store.History        // nil when history is off

	closers []func() error
}

// New builds the components named by cfg. It does not load rules.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Source: RuleSource(cfg.Rules)}

	c, closeCache, err := newCache(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	a.Cache = c
	if closeCache != nil {
		a.closers = append(a.closers, closeCache)
	}

	if cfg.History.Enabled {
		h, err := store.Open(cfg.History.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.History = h
		a.closers = append(a.closers, h.Close)
	}
	return a, nil
}

// RuleSource returns the rule source selected by cfg.
func RuleSource(cfg config.RulesConfig) rules.Source {
	switch cfg.Source {
	case config.SourceDir:
		return rules.Dir(cfg.Dir)
	case config.SourceHTTP:
		retry := desi.DefaultRetryConfig()
		retry.MaxRetries = cfg.MaxRetries
		if cfg.InitialDelay > 0 {
			retry.BaseDelay = cfg.InitialDelay
		}
		return rules.HTTP(cfg.URL, &http.Client{Timeout: cfg.Timeout}, retry)
	default:
		return rules.Embedded()
	}
}

func newCache(cfg config.CacheConfig, logger *slog.Logger) (cache.ExportableCache, func() error, error) {
	ttl := int(cfg.TTL / time.Second)
	switch cfg.Backend {
	case config.CacheMemory:
		return cache.NewBoundedCache(ttl, cfg.MaxEntries), nil, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       cfg.RedisURL,
			TTL:       ttl,
			KeyPrefix: cfg.KeyPrefix,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	default:
		return nil, nil, nil
	}
}

// LoadRules reads every rule table from the configured source.
func (a *App) LoadRules(ctx context.Context) (*desi.Rules, error) {
	start := time.Now()
	r, err := rules.Load(ctx, a.Source)
	if err != nil {
		return nil, err
	}
	stats := rules.Stats(r)
	a.Logger.Info("rules loaded",
		slog.String("source", a.Source.Location("")),
		slog.Int("words", stats.TotalWords),
		slog.Int("idioms", stats.Idioms),
		slog.Duration("duration", time.Since(start)),
	)
	return r, nil
}

// NewTranslator builds a translator over r with the configured defaults,
// cache and all content processors.
func (a *App) NewTranslator(r *desi.Rules) *desi.Translator {
	cfg := a.Config.Translator
	opts := []desi.TranslatorOption{
		desi.WithSourceLang(cfg.SourceLang),
		desi.WithTargetLang(cfg.TargetLang),
		desi.WithLogger(a.Logger),
		desi.WithSubtitleWorkers(cfg.SubtitleWorkers),
		desi.WithParallelThreshold(cfg.ParallelThreshold),
		desi.WithProcessor(processor.NewHTMLProcessor()),
		desi.WithProcessor(processor.NewSRTProcessor()),
		desi.WithProcessor(processor.NewVTTProcessor()),
	}
	if a.Cache != nil {
		opts = append(opts, desi.WithCache(a.Cache))
	}
	if cfg.Tagger == config.TaggerContext {
		opts = append(opts, desi.WithTagger(desi.NewContextTagger(r.Grammar)))
	}
	return desi.NewTranslator(r, opts...)
}

// Reload loads rules again and returns a fresh translator.
func (a *App) Reload(ctx context.Context) (*desi.Translator, error) {
	r, err := a.LoadRules(ctx)
	if err != nil {
		return nil, err
	}
	return a.NewTranslator(r), nil
}

// Server builds the HTTP API around tr.
func (a *App) Server(tr *desi.Translator) *server.Server {
	opts := []server.Option{
		server.WithLogger(a.Logger),
		server.WithReloader(a.Reload),
		server.WithMaxBodyBytes(a.Config.Server.MaxBodyBytes),
		server.WithAdminToken(a.Config.Server.AdminToken),
	}
	if a.History != nil {
		opts = append(opts, server.WithHistory(a.History))
	}
	if rl := a.Config.RateLimit; rl.Enabled {
		limiter := desi.NewKeyedRateLimiter(desi.RateLimitConfig{
			RequestsPerMinute: rl.RequestsPerMinute,
			BurstSize:         rl.Burst,
		})
		opts = append(opts, server.WithRateLimiter(limiter))
		a.closers = append(a.closers, startCleanup(limiter, rl.CleanupInterval))
	}
	return server.New(tr, opts...)
}

// startCleanup drops idle rate-limit buckets every interval until the
// returned stop function is called.
func startCleanup(limiter *desi.KeyedRateLimiter, interval time.Duration) func() error {
	if interval <= 0 {
		interval = time.Minute
	}
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				limiter.Cleanup(10 * interval)
			}
		}
	}()
	return func() error {
		close(stop)
		return nil
	}
}

// Close releases the cache connection, history database and background
// workers.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run loads configuration and serves the API until ctx is canceled. A rule
// load failure at startup is fatal.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return Serve(ctx, cfg, NewLogger(cfg.Log))
}

// Serve runs the HTTP API for cfg until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	tr, err := a.Reload(ctx)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.Server(tr).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("version", desi.FullVersion()),
			slog.String("tagger", tr.TaggerName()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
