package desi

import (
	"errors"
	"testing"
)

func TestTranslationError(t *testing.T) {
	cause := errors.New("underlying error")
	err := &TranslationError{Message: "translation failed", Cause: cause}

	if err.Error() != "translation failed: underlying error" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	err2 := &TranslationError{Message: "simple error"}
	if err2.Error() != "simple error" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestRuleLoadError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &RuleLoadError{Table: "dictionaries", Path: "rules/dictionaries.json", Cause: cause}

	want := "rule load error: dictionaries (rules/dictionaries.json): unexpected end of JSON input"
	if err.Error() != want {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	bare := &RuleLoadError{Table: "idioms"}
	if bare.Error() != "rule load error: idioms" {
		t.Errorf("unexpected error message: %s", bare.Error())
	}
}

func TestSourceError(t *testing.T) {
	err := &SourceError{Message: "status 503", Retryable: true}

	if err.Error() != "source error: status 503" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !err.Retryable {
		t.Error("error should be retryable")
	}
}

func TestPipelineError(t *testing.T) {
	cause := errors.New("boom")
	err := &PipelineError{Stage: "tag", Cause: cause}

	if err.Error() != "pipeline failure in tag: boom" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	var pe *PipelineError
	wrapped := &TranslationError{Message: "translate", Cause: err}
	if !errors.As(wrapped, &pe) || pe.Stage != "tag" {
		t.Error("errors.As should find the PipelineError")
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", ContentType: "srt"}

	if err.Error() != "processor error (srt): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestReorderError(t *testing.T) {
	err := &ReorderError{Expected: 5, Got: 3}

	expected := "reorder inconsistency: expected 5 indices, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}

	withReason := &ReorderError{Expected: 3, Got: 4, Reason: "duplicate index 1"}
	if withReason.Error() != "reorder inconsistency: duplicate index 1 (expected 3 indices, got 4)" {
		t.Errorf("unexpected error message: %s", withReason.Error())
	}
}
