package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/store"
)

// Actions accepted in Event.Action. An empty action means ActionTranslate.
const (
	ActionTranslate  = "translate"
	ActionDetailed   = "translate-detailed"
	ActionIdiom      = "translate-idiom"
	ActionSlang      = "normalize-slang"
	ActionHistorical = "translate-historical"
	ActionVideo      = "translate-video"
	ActionFile       = "translate-file"
)

// Event is the input of a translation invocation.
type Event struct {
	Action     string   `json:"action"`
	Text       string   `json:"text,omitempty"`
	Idiom      string   `json:"idiom,omitempty"`
	Subtitles  []string `json:"subtitles,omitempty"`
	Content    string   `json:"content,omitempty"`
	Format     string   `json:"format,omitempty"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang,omitempty"`
}

// Response wraps the result of one action. Invalid events are reported in
// Error rather than as an invocation failure.
type Response struct {
	Action string `json:"action"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// VideoResult is the result of ActionVideo.
type VideoResult struct {
	TranslatedSubtitles []desi.SubtitleLine `json:"translated_subtitles"`
	Total               int                 `json:"total"`
	TargetLanguage      string              `json:"target_language"`
}

type historyRecorder interface {
	Record(ctx context.Context, r store.Record) (store.Record, error)
}

type handler struct {
	tr      *desi.Translator
	logger  *slog.Logger
	history historyRecorder // optional
}

// Handle runs the action named by req.
func (h *handler) Handle(ctx context.Context, req Event) (*Response, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		action = ActionTranslate
	}
	resp := &Response{Action: action}

	result, rec, err := h.dispatch(ctx, action, req)
	if err != nil {
		var perr *desi.ProcessorError
		if errors.As(err, &perr) || errors.Is(err, errInvalidEvent) {
			resp.Error = err.Error()
			return resp, nil
		}
		return nil, err
	}
	resp.Result = result

	if rec != nil && h.history != nil {
		if _, err := h.history.Record(ctx, *rec); err != nil {
			h.logger.Warn("recording history", slog.String("action", action), slog.Any("error", err))
		}
	}
	return resp, nil
}

var errInvalidEvent = errors.New("invalid event")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidEvent, fmt.Sprintf(format, args...))
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func (h *handler) dispatch(ctx context.Context, action string, req Event) (any, *store.Record, error) {
	switch action {
	case ActionTranslate:
		if err := requireText("text", req.Text); err != nil {
			return nil, nil, err
		}
		res := h.tr.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)
		rec := store.FromResult(store.KindTranslate, res)
		return res, &rec, nil

	case ActionDetailed:
		if err := requireText("text", req.Text); err != nil {
			return nil, nil, err
		}
		res := h.tr.TranslateDetailed(ctx, req.Text, req.SourceLang, req.TargetLang)
		rec := store.FromResult(store.KindDetailed, res.TranslationResult)
		return res, &rec, nil

	case ActionIdiom:
		phrase := req.Idiom
		if phrase == "" {
			phrase = req.Text
		}
		if err := requireText("idiom", phrase); err != nil {
			return nil, nil, err
		}
		target := h.target(req.TargetLang)
		res := h.tr.TranslateIdiom(phrase, target)
		if !res.Found {
			return res, nil, nil
		}
		return res, &store.Record{
			Kind:           store.KindIdiom,
			SourceText:     phrase,
			TranslatedText: res.Translation,
			SourceLang:     desi.English,
			TargetLang:     target,
			Confidence:     res.Confidence,
		}, nil

	case ActionSlang:
		if err := requireText("text", req.Text); err != nil {
			return nil, nil, err
		}
		res := h.tr.NormalizeSlang(req.Text)
		return res, lexicalRecord(store.KindSlang, req.Text, res.NormalizedText, res.Confidence), nil

	case ActionHistorical:
		if err := requireText("text", req.Text); err != nil {
			return nil, nil, err
		}
		res := h.tr.ModernizeHistorical(req.Text)
		return res, lexicalRecord(store.KindHistory, req.Text, res.ModernText, res.Confidence), nil

	case ActionVideo:
		if len(req.Subtitles) == 0 {
			return nil, nil, invalid("subtitles are required")
		}
		target := h.target(req.TargetLang)
		lines, err := h.tr.TranslateSubtitleBatch(ctx, req.Subtitles, target)
		if err != nil {
			return nil, nil, err
		}
		return VideoResult{TranslatedSubtitles: lines, Total: len(lines), TargetLanguage: target}, nil, nil

	case ActionFile:
		if err := requireText("content", req.Content); err != nil {
			return nil, nil, err
		}
		format := strings.ToLower(req.Format)
		if format == "" {
			format = "html"
		}
		res, err := h.tr.ProcessLang(ctx, req.Content, format, req.SourceLang, req.TargetLang)
		if err != nil {
			return nil, nil, err
		}
		return res, &store.Record{
			Kind:           store.KindFile,
			SourceText:     req.Content,
			TranslatedText: res.Content,
			SourceLang:     h.source(req.SourceLang),
			TargetLang:     h.target(req.TargetLang),
			Confidence:     res.Confidence,
		}, nil

	default:
		return nil, nil, invalid("unknown action %q", action)
	}
}

func lexicalRecord(kind, text, out string, confidence float64) *store.Record {
	return &store.Record{
		Kind:           kind,
		SourceText:     text,
		TranslatedText: out,
		SourceLang:     desi.English,
		TargetLang:     desi.English,
		Confidence:     confidence,
	}
}

func (h *handler) source(lang string) string {
	if lang == "" {
		return h.tr.SourceLang()
	}
	return desi.NormalizeLanguage(lang)
}

func (h *handler) target(lang string) string {
	if lang == "" {
		return h.tr.TargetLang()
	}
	return desi.NormalizeLanguage(lang)
}
