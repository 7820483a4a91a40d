package desi

import (
	"math"
	"strings"
)

// Fixed texts of validated and fallback results.
const (
	FallbackRule        = "Fallback: Word kept as-is due to translation failure"
	FallbackMeaning     = "Translation unavailable"
	FallbackWarning     = "System fallback mode activated"
	FallbackError       = "Translation failed - returned original text"
	PlaceholderRule     = "No explanation available"
	PlaceholderConf     = 0.3
	WarnConfidenceClamp = "Confidence adjusted to 0-100 range"
	WarnPlaceholders    = "Added placeholder explanations for missing entries"
	unknownLanguage     = "unknown"
	fallbackTrimCutset  = ".,!?;:"
)

// Outcome is what a pipeline run produced: a result, an error, or both.
type Outcome struct {
	Result *TranslationResult
	Err    error
}

// Validate turns any Outcome into a complete TranslationResult. It never
// fails: errors and empty output select the fallback result, anything else is
// repaired in place of missing or out-of-range fields.
func Validate(text, sourceLang, targetLang string, o Outcome) TranslationResult {
	if o.Err != nil || o.Result == nil || strings.TrimSpace(o.Result.TranslatedText) == "" {
		err := o.Err
		if err == nil {
			err = ErrEmptyTranslation
		}
		return Fallback(text, sourceLang, targetLang, err)
	}

	r := *o.Result
	r.OriginalText = text
	r.SourceLanguage = orUnknown(r.SourceLanguage, sourceLang)
	r.TargetLanguage = orUnknown(r.TargetLanguage, targetLang)
	r.Mode = ModeValidated
	r.Error = ""
	r.Warnings = append([]string{}, r.Warnings...)
	r.Explanations = append([]WordExplanation{}, r.Explanations...)
	if r.WordMappings == nil {
		r.WordMappings = []WordMapping{}
	}

	if math.IsNaN(r.Confidence) {
		r.Confidence = 0
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		r.Confidence = math.Min(100, math.Max(0, r.Confidence))
		r.Warnings = append(r.Warnings, WarnConfidenceClamp)
	}
	for i := range r.Explanations {
		r.Explanations[i].Confidence = clamp01(r.Explanations[i].Confidence)
	}

	// One explanation per source token. Translations may span several
	// words, so the translated text never sets the count.
	src := strings.Fields(text)
	if len(r.Explanations) < len(src) {
		for i := len(r.Explanations); i < len(src); i++ {
			orig := strings.Trim(src[i], fallbackTrimCutset)
			r.Explanations = append(r.Explanations, WordExplanation{
				Original:   orig,
				Translated: slotTranslation(r.WordMappings, i, orig),
				POS:        POSUnknown,
				Rule:       PlaceholderRule,
				Confidence: PlaceholderConf,
			})
		}
		r.Warnings = append(r.Warnings, WarnPlaceholders)
	}
	return r
}

// slotTranslation returns the translation mapped to source token i, or def.
func slotTranslation(mappings []WordMapping, i int, def string) string {
	for _, m := range mappings {
		if m.OriginalIndex == i && m.Translated != "" {
			return m.Translated
		}
	}
	return def
}

// Fallback returns the input unchanged with zero confidence and one
// placeholder explanation per whitespace-delimited token.
func Fallback(text, sourceLang, targetLang string, cause error) TranslationResult {
	fields := strings.Fields(text)
	explanations := make([]WordExplanation, len(fields))
	mappings := make([]WordMapping, len(fields))
	for i, f := range fields {
		w := strings.Trim(f, fallbackTrimCutset)
		explanations[i] = WordExplanation{
			Original:   w,
			Translated: w,
			POS:        POSUnknown,
			Rule:       FallbackRule,
			Meaning:    FallbackMeaning,
		}
		mappings[i] = WordMapping{WordExplanation: explanations[i], OriginalIndex: i, Route: RouteNone}
	}

	msg := FallbackError
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return TranslationResult{
		TranslatedText: text,
		OriginalText:   text,
		Explanations:   explanations,
		WordMappings:   mappings,
		SourceLanguage: orUnknown("", sourceLang),
		TargetLanguage: orUnknown("", targetLang),
		Mode:           ModeFallback,
		Error:          msg,
		Warnings:       []string{FallbackWarning},
	}
}

func orUnknown(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return unknownLanguage
}
