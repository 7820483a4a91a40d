// Package store persists translation history in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/desitranslate/desi"
)

// Record kinds.
const (
	KindTranslate = "translate"
	KindDetailed  = "detailed"
	KindIdiom     = "idiom"
	KindSlang     = "slang"
	KindHistory   = "historical"
	KindSubtitle  = "subtitle"
	KindFile      = "file"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS translation_history (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	source_text     TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	source_lang     TEXT NOT NULL DEFAULT '',
	target_lang     TEXT NOT NULL DEFAULT '',
	confidence      REAL NOT NULL DEFAULT 0,
	mode            TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translation_history_created ON translation_history (created_at);
`

// Record is one stored translation.
type Record struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	Confidence     float64   `json:"confidence"`
	Mode           string    `json:"mode,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FromResult builds a record from a pipeline result.
func FromResult(kind string, r desi.TranslationResult) Record {
	return Record{
		Kind:           kind,
		SourceText:     r.OriginalText,
		TranslatedText: r.TranslatedText,
		SourceLang:     r.SourceLanguage,
		TargetLang:     r.TargetLanguage,
		Confidence:     r.Confidence,
		Mode:           string(r.Mode),
	}
}

// History is a SQLite-backed translation log. It is safe for concurrent use.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the history database at path. Use ":memory:" for
// a throwaway store.
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &History{db: db, now: time.Now}, nil
}

// Record stores r, assigning an ID and timestamp when they are unset, and
// returns the stored record.
func (h *History) Record(ctx context.Context, r Record) (Record, error) {
	if r.Kind == "" {
		return Record{}, errors.New("history record needs a kind")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = h.now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO translation_history
			(id, kind, source_text, translated_text, source_lang, target_lang, confidence, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.SourceText, r.TranslatedText, r.SourceLang, r.TargetLang,
		r.Confidence, r.Mode, r.CreatedAt.UnixNano())
	if err != nil {
		return Record{}, fmt.Errorf("inserting history record: %w", err)
	}
	return r, nil
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Kind       string
	TargetLang string
	Limit      int
}

// List returns the most recent records first.
func (h *History) List(ctx context.Context, f Filter) ([]Record, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, kind, source_text, translated_text, source_lang, target_lang, confidence, mode, created_at
		 FROM translation_history
		 WHERE (? = '' OR kind = ?) AND (? = '' OR target_lang = ?)
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		f.Kind, f.Kind, f.TargetLang, f.TargetLang, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.SourceText, &r.TranslatedText,
			&r.SourceLang, &r.TargetLang, &r.Confidence, &r.Mode, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns the record with the given ID, or sql.ErrNoRows.
func (h *History) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var created int64
	err := h.db.QueryRowContext(ctx,
		`SELECT id, kind, source_text, translated_text, source_lang, target_lang, confidence, mode, created_at
		 FROM translation_history WHERE id = ?`, id).
		Scan(&r.ID, &r.Kind, &r.SourceText, &r.TranslatedText,
			&r.SourceLang, &r.TargetLang, &r.Confidence, &r.Mode, &created)
	if err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}

// Count returns the number of stored records.
func (h *History) Count(ctx context.Context) (int, error) {
	var n int
	if err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM translation_history").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

// Prune deletes records older than cutoff and returns how many were removed.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := h.db.ExecContext(ctx,
		"DELETE FROM translation_history WHERE created_at < ?", cutoff.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}

// Ping checks the database connection.
func (h *History) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}
