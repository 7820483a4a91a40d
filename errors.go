package desi

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyTranslation is the fallback cause Validate reports when a pipeline
// result has no output text.
var ErrEmptyTranslation = errors.New("empty translation")

// TranslationError wraps the cause of a fallback result with the language
// pair being translated.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// RuleLoadError indicates that a rule table is missing or cannot be parsed.
// It is the only error that makes translation impossible.
type RuleLoadError struct {
	Table string // Logical table name: "dictionaries", "grammar_rules", ...
	Path  string // File or URL that was read, if any
	Cause error
}

func (e *RuleLoadError) Error() string {
	loc := e.Table
	if e.Path != "" {
		loc = fmt.Sprintf("%s (%s)", e.Table, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("rule load error: %s: %v", loc, e.Cause)
	}
	return fmt.Sprintf("rule load error: %s", loc)
}

func (e *RuleLoadError) Unwrap() error {
	return e.Cause
}

// SourceError indicates a rule source failure (HTTP status, transport error).
type SourceError struct {
	Message    string
	Cause      error
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Server-requested delay before the next attempt, if any
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("source error: %s", e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// PipelineError wraps a failure raised inside a pipeline stage.
type PipelineError struct {
	Stage string
	Cause error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failure in %s: %v", e.Stage, e.Cause)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// ReorderError indicates that a computed word order does not cover every
// token exactly once.
type ReorderError struct {
	Expected int
	Got      int
	Reason   string
}

func (e *ReorderError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("reorder inconsistency: %s (expected %d indices, got %d)", e.Reason, e.Expected, e.Got)
	}
	return fmt.Sprintf("reorder inconsistency: expected %d indices, got %d", e.Expected, e.Got)
}
