package processor

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults for cue post-processing.
const (
	DefaultMinCueDuration = 500 * time.Millisecond
	DefaultMaxCueChars    = 60
)

// sentenceBreaks are tried in order when splitting a long cue.
var sentenceBreaks = []string{"। ", ". "}

// MergeShort merges every cue shorter than min into the cue that follows
// it. The merged cue keeps the first index and start and takes the second
// end. The final cue is never merged.
func MergeShort(cues []Cue, min time.Duration) []Cue {
	out := make([]Cue, 0, len(cues))
	for i := 0; i < len(cues); i++ {
		c := cues[i]
		if c.Duration() < min && i+1 < len(cues) {
			next := cues[i+1]
			c.Text = strings.TrimSpace(c.Text + " " + next.Text)
			c.End = next.End
			if c.Translated != "" && next.Translated != "" {
				c.Translated = c.Translated + " " + next.Translated
			} else {
				c.Translated = ""
			}
			i++
		}
		out = append(out, c)
	}
	return out
}

// SplitLong splits cues whose output text exceeds maxChars runes at
// sentence boundaries (Devanagari danda first, then full stop). Pieces share
// the timing of their cue and the result is renumbered from 1. A single
// sentence longer than maxChars is kept whole.
func SplitLong(cues []Cue, maxChars int) []Cue {
	out := make([]Cue, 0, len(cues))
	for _, c := range cues {
		text := c.Output()
		if utf8.RuneCountInString(text) <= maxChars {
			out = append(out, c)
			continue
		}

		var chunk []string
		flush := func() {
			if len(chunk) == 0 {
				return
			}
			piece := c
			piece.Text = strings.Join(chunk, "\n")
			piece.Translated = piece.Text
			piece.ID = ""
			out = append(out, piece)
			chunk = nil
		}
		for _, sentence := range splitSentences(text) {
			candidate := strings.Join(append(chunk, sentence), "\n")
			if len(chunk) > 0 && utf8.RuneCountInString(candidate) > maxChars {
				flush()
			}
			chunk = append(chunk, sentence)
		}
		flush()
	}
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

// splitSentences splits on the first separator that occurs in text, keeping
// the sentence-final mark on each piece.
func splitSentences(text string) []string {
	for _, sep := range sentenceBreaks {
		if !strings.Contains(text, sep) {
			continue
		}
		parts := strings.Split(text, sep)
		mark := strings.TrimSpace(sep)
		for i := 0; i < len(parts)-1; i++ {
			parts[i] += mark
		}
		return parts
	}
	return []string{text}
}

// JSONFormat identifies subtitle JSON exports.
const JSONFormat = "desi_subtitle_json"

type jsonCue struct {
	Index          int     `json:"index"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	OriginalText   string  `json:"original_text"`
	TranslatedText *string `json:"translated_text"`
	Confidence     float64 `json:"confidence"`
}

type jsonExport struct {
	Metadata struct {
		TotalEntries int    `json:"total_entries"`
		Format       string `json:"format"`
		Version      string `json:"version"`
	} `json:"metadata"`
	Subtitles []jsonCue `json:"subtitles"`
}

// ToJSON exports cues with SRT timestamps. Untranslated cues have a null
// translated_text.
func ToJSON(cues []Cue) ([]byte, error) {
	var doc jsonExport
	doc.Metadata.TotalEntries = len(cues)
	doc.Metadata.Format = JSONFormat
	doc.Metadata.Version = "1.0"
	doc.Subtitles = make([]jsonCue, 0, len(cues))

	for _, c := range cues {
		jc := jsonCue{
			Index:        c.Index,
			StartTime:    FormatTimestamp(c.Start, ','),
			EndTime:      FormatTimestamp(c.End, ','),
			OriginalText: c.Text,
			Confidence:   c.Confidence,
		}
		if c.Translated != "" {
			tr := c.Translated
			jc.TranslatedText = &tr
		}
		doc.Subtitles = append(doc.Subtitles, jc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
