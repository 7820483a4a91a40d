package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/store"
)

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type idiomRequest struct {
	Idiom      string `json:"idiom"`
	TargetLang string `json:"target_lang"`
}

type textRequest struct {
	Text string `json:"text"`
}

type videoRequest struct {
	Subtitles  []string `json:"subtitles"`
	TargetLang string   `json:"target_lang"`
}

type videoResponse struct {
	TranslatedSubtitles []desi.SubtitleLine `json:"translated_subtitles"`
	Total               int                 `json:"total"`
	TargetLanguage      string              `json:"target_language"`
}

type fileRequest struct {
	Content    string `json:"content"`
	Format     string `json:"format"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type historyResponse struct {
	Records []store.Record `json:"records"`
	Count   int            `json:"count"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string    `json:"status"`
	Version        string    `json:"version"`
	Tagger         string    `json:"tagger"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	History        bool      `json:"history"`
	Timestamp      time.Time `json:"timestamp"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decode(w, r, &req) || !requireField(w, "text", req.Text) {
		return
	}
	res := s.Translator().Translate(r.Context(), req.Text, req.SourceLang, req.TargetLang)
	s.record(r.Context(), store.FromResult(store.KindTranslate, res))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranslateDetailed(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decode(w, r, &req) || !requireField(w, "text", req.Text) {
		return
	}
	res := s.Translator().TranslateDetailed(r.Context(), req.Text, req.SourceLang, req.TargetLang)
	s.record(r.Context(), store.FromResult(store.KindDetailed, res.TranslationResult))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranslateIdiom(w http.ResponseWriter, r *http.Request) {
	var req idiomRequest
	if !s.decode(w, r, &req) || !requireField(w, "idiom", req.Idiom) {
		return
	}
	tr := s.Translator()
	target := req.TargetLang
	if strings.TrimSpace(target) == "" {
		target = tr.TargetLang()
	}
	res := tr.TranslateIdiom(req.Idiom, target)
	if res.Found {
		s.record(r.Context(), store.Record{
			Kind:           store.KindIdiom,
			SourceText:     req.Idiom,
			TranslatedText: res.Translation,
			SourceLang:     desi.English,
			TargetLang:     desi.NormalizeLanguage(target),
			Confidence:     res.Confidence,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleNormalizeSlang(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) || !requireField(w, "text", req.Text) {
		return
	}
	res := s.Translator().NormalizeSlang(req.Text)
	s.record(r.Context(), store.Record{
		Kind:           store.KindSlang,
		SourceText:     req.Text,
		TranslatedText: res.NormalizedText,
		SourceLang:     desi.English,
		TargetLang:     desi.English,
		Confidence:     res.Confidence,
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranslateHistorical(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) || !requireField(w, "text", req.Text) {
		return
	}
	res := s.Translator().ModernizeHistorical(req.Text)
	s.record(r.Context(), store.Record{
		Kind:           store.KindHistory,
		SourceText:     req.Text,
		TranslatedText: res.ModernText,
		SourceLang:     desi.English,
		TargetLang:     desi.English,
		Confidence:     res.Confidence,
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranslateVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Subtitles) == 0 {
		writeError(w, http.StatusBadRequest, "subtitles is required")
		return
	}
	tr := s.Translator()
	target := req.TargetLang
	if strings.TrimSpace(target) == "" {
		target = tr.TargetLang()
	}
	lines, err := tr.TranslateSubtitleBatch(r.Context(), req.Subtitles, target)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.record(r.Context(), store.Record{
		Kind:           store.KindSubtitle,
		SourceText:     strings.Join(req.Subtitles, "\n"),
		TranslatedText: joinTranslated(lines),
		SourceLang:     desi.English,
		TargetLang:     desi.NormalizeLanguage(target),
	})
	writeJSON(w, http.StatusOK, videoResponse{
		TranslatedSubtitles: lines,
		Total:               len(lines),
		TargetLanguage:      desi.NormalizeLanguage(target),
	})
}

func joinTranslated(lines []desi.SubtitleLine) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Translated
	}
	return strings.Join(out, "\n")
}

func (s *Server) handleTranslateFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !s.decode(w, r, &req) || !requireField(w, "content", req.Content) {
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = "html"
	}

	res, err := s.Translator().ProcessLang(r.Context(), req.Content, format, req.SourceLang, req.TargetLang)
	if err != nil {
		var procErr *desi.ProcessorError
		if errors.As(err, &procErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record(r.Context(), store.Record{
		Kind:           store.KindFile,
		SourceText:     req.Content,
		TranslatedText: res.Content,
		SourceLang:     desi.NormalizeLanguage(orDefault(req.SourceLang, s.Translator().SourceLang())),
		TargetLang:     desi.NormalizeLanguage(orDefault(req.TargetLang, s.Translator().TargetLang())),
		Confidence:     res.Confidence,
		Mode:           format,
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	f := store.Filter{
		Kind:       r.URL.Query().Get("kind"),
		TargetLang: r.URL.Query().Get("target_lang"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be an integer in 1..1000")
			return
		}
		f.Limit = n
	}
	if f.TargetLang != "" {
		f.TargetLang = desi.NormalizeLanguage(f.TargetLang)
	}

	records, err := s.history.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Records: records, Count: len(records)})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.adminToken != "" && r.Header.Get("X-Admin-Token") != s.adminToken {
		writeError(w, http.StatusUnauthorized, "invalid admin token")
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		if errors.Is(err, ErrReloadDisabled) {
			writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "rule reload failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "failed", Error: err.Error()})
		return
	}
	s.logger.InfoContext(r.Context(), "rules reloaded")
	writeJSON(w, http.StatusOK, statusResponse{Status: "reloaded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	tr := s.Translator()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        desi.FullVersion(),
		Tagger:         tr.TaggerName(),
		SourceLanguage: tr.SourceLang(),
		TargetLanguage: tr.TargetLang(),
		History:        s.history != nil,
		Timestamp:      time.Now(),
	})
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func requireField(w http.ResponseWriter, name, value string) bool {
	if strings.TrimSpace(value) == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return false
	}
	return true
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
