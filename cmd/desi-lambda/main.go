// Package main is the AWS Lambda entry point for the translator.
//
// Configuration comes from the same environment variables as the HTTP
// server (RULES_SOURCE, CACHE_BACKEND, TRANSLATOR_TARGET_LANG, ...). Rules are
// loaded once per instance, during the cold start.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/desitranslate/desi/internal/app"
	"github.com/desitranslate/desi/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("building app", slog.Any("error", err))
		os.Exit(1)
	}
	defer a.Close()

	tr, err := a.Reload(context.Background())
	if err != nil {
		logger.Error("loading rules", slog.Any("error", err))
		os.Exit(1)
	}

	h := &handler{tr: tr, logger: logger}
	if a.History != nil {
		h.history = a.History
	}
	lambda.Start(h.handleRequest)
}

// handleRequest dispatches warmup pings before decoding a translation event.
func (h *handler) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	var req Event
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}
	return h.Handle(ctx, req)
}
