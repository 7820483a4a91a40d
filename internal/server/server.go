// Package server exposes the translator over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/internal/server/middleware"
	"github.com/desitranslate/desi/store"
)

// ReloadFunc rebuilds the translator, typically from freshly loaded rules.
type ReloadFunc func(ctx context.Context) (*desi.Translator, error)

// History is the subset of the history store used by the handlers.
type History interface {
	Record(ctx context.Context, r store.Record) (store.Record, error)
	List(ctx context.Context, f store.Filter) ([]store.Record, error)
}

// Server serves the translation API. The active translator is swapped
// atomically on reload; in-flight requests finish on the one they started
// with.
type Server struct {
	translator atomic.Pointer[desi.Translator]
	reload     ReloadFunc
	history    History
	logger     *slog.Logger

	limiter      *desi.KeyedRateLimiter
	maxBodyBytes int64
	adminToken   string
}

// Option configures a Server.
type Option func(*Server)

// WithReloader enables POST /admin/reload.
func WithReloader(fn ReloadFunc) Option {
	return func(s *Server) { s.reload = fn }
}

// WithHistory records translations and enables GET /api/history.
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRateLimiter limits requests per client IP.
func WithRateLimiter(limiter *desi.KeyedRateLimiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithMaxBodyBytes bounds request bodies. Default 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithAdminToken requires the X-Admin-Token header on /admin routes.
func WithAdminToken(token string) Option {
	return func(s *Server) { s.adminToken = token }
}

// New creates a Server around tr.
func New(tr *desi.Translator, opts ...Option) *Server {
	s := &Server{maxBodyBytes: 1 << 20}
	s.translator.Store(tr)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Translator returns the active translator.
func (s *Server) Translator() *desi.Translator {
	return s.translator.Load()
}

// ErrReloadDisabled is returned by Reload when no ReloadFunc is configured.
var ErrReloadDisabled = errors.New("reload is not configured")

// Reload builds a new translator and swaps it in. On failure the current
// translator stays active.
func (s *Server) Reload(ctx context.Context) error {
	if s.reload == nil {
		return ErrReloadDisabled
	}
	tr, err := s.reload(ctx)
	if err != nil {
		return err
	}
	s.translator.Store(tr)
	return nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	mux.HandleFunc("POST /api/translate-detailed", s.handleTranslateDetailed)
	mux.HandleFunc("POST /api/translate-idiom", s.handleTranslateIdiom)
	mux.HandleFunc("POST /api/normalize-slang", s.handleNormalizeSlang)
	mux.HandleFunc("POST /api/translate-historical", s.handleTranslateHistorical)
	mux.HandleFunc("POST /api/translate-video", s.handleTranslateVideo)
	mux.HandleFunc("POST /api/translate-file", s.handleTranslateFile)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /admin/reload", s.handleReload)
	mux.HandleFunc("GET /health", s.handleHealth)

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}
	if s.limiter != nil {
		mws = append(mws, middleware.RateLimit(s.limiter))
	}
	return middleware.Chain(mws...)(mux)
}

// record stores a history entry. Failures are logged, never returned.
func (s *Server) record(ctx context.Context, r store.Record) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, r); err != nil {
		s.logger.WarnContext(ctx, "history record failed",
			slog.String("kind", r.Kind),
			slog.Any("error", err),
			slog.String("request_id", middleware.RequestIDFromContext(ctx)),
		)
	}
}
