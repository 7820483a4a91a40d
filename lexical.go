package desi

import (
	"fmt"
	"sort"
	"strings"
)

// Fixed confidences of the lexical substitutions.
const (
	SlangConfidence      = 0.85
	HistoricalConfidence = 0.88
)

// IdiomResult is the outcome of an idiom lookup. A miss has zero confidence
// and an empty translation.
type IdiomResult struct {
	Original     string  `json:"original"`
	Meaning      string  `json:"meaning"`
	Translation  string  `json:"translation"`
	Explanation  string  `json:"explanation"`
	Example      string  `json:"example"`
	CulturalNote string  `json:"cultural_note"`
	Confidence   float64 `json:"confidence"`
	Found        bool    `json:"found"`
}

// SlangExplanation describes one token of a slang normalization.
type SlangExplanation struct {
	Original    string `json:"original"`
	Normalized  string `json:"normalized"`
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
}

// SlangResult is the outcome of NormalizeSlang.
type SlangResult struct {
	NormalizedText string             `json:"normalized_text"`
	Explanations   []SlangExplanation `json:"explanations"`
	Confidence     float64            `json:"confidence"`
}

// HistoricalExplanation describes one token of a modernization.
type HistoricalExplanation struct {
	Original    string `json:"original"`
	Modern      string `json:"modern"`
	Era         string `json:"era"`
	Explanation string `json:"explanation"`
}

// HistoricalResult is the outcome of ModernizeHistorical.
type HistoricalResult struct {
	ModernText   string                  `json:"modern_text"`
	Explanations []HistoricalExplanation `json:"explanations"`
	Confidence   float64                 `json:"confidence"`
}

// IdiomKey normalizes a phrase to the idiom table key form.
func IdiomKey(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), "_")
}

// LookupIdiom finds an idiom by key, then by the first entry (in key order)
// whose English phrase equals or contains the phrase.
func (t IdiomTable) LookupIdiom(phrase string) (IdiomEntry, bool) {
	if e, ok := t[IdiomKey(phrase)]; ok {
		return e, true
	}
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return IdiomEntry{}, false
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		english := strings.ToLower(strings.TrimSpace(t[k].English))
		if english != "" && strings.Contains(english, needle) {
			return t[k], true
		}
	}
	return IdiomEntry{}, false
}

// TranslateIdiom looks up phrase and returns its rendering in target.
func TranslateIdiom(idioms IdiomTable, phrase, target string) IdiomResult {
	e, ok := idioms.LookupIdiom(phrase)
	if !ok {
		return IdiomResult{
			Original:    phrase,
			Meaning:     "Idiom not found",
			Explanation: "This idiom is not in our database",
		}
	}

	lang := NormalizeLanguage(target)
	translation, ok := e.Translations[lang]
	if !ok {
		translation = e.Translations[lang+"_meaning"]
	}
	original := e.English
	if original == "" {
		original = phrase
	}
	confidence := e.Confidence
	if confidence == 0 {
		confidence = DefaultIdiomConfidence
	}
	return IdiomResult{
		Original:     original,
		Meaning:      e.Meaning,
		Translation:  translation,
		Explanation:  e.Explanation,
		Example:      e.Example,
		CulturalNote: e.CulturalNote,
		Confidence:   confidence,
		Found:        true,
	}
}

// substitution is one token of a lexical pass.
type substitution struct {
	raw         string // lowercased token as written
	replacement string // replacement with punctuation reattached
	hit         bool
	value       string // bare replacement text
}

// substitute replaces every token of the lowercased text found in table,
// keeping the token's punctuation around the replacement.
func substitute(text string, table LexicalTable) ([]substitution, string) {
	toks := Tokenize(strings.ToLower(text))
	subs := make([]substitution, toks.Len())
	out := make([]string, toks.Len())
	for i, w := range toks.Words {
		p := toks.Punct[i]
		s := substitution{raw: toks.Raw[i], replacement: toks.Raw[i]}
		if v, ok := table[p.Leading+w]; ok && p.Leading != "" {
			s.hit, s.value, s.replacement = true, v, v+p.Trailing
		} else if v, ok := table[w]; ok && w != "" {
			s.hit, s.value, s.replacement = true, v, p.Leading+v+p.Trailing
		}
		subs[i] = s
		out[i] = s.replacement
	}
	return subs, strings.Join(out, " ")
}

// NormalizeSlang expands SMS and chat abbreviations.
func NormalizeSlang(table LexicalTable, text string) SlangResult {
	subs, normalized := substitute(text, table)
	res := SlangResult{
		NormalizedText: normalized,
		Explanations:   make([]SlangExplanation, len(subs)),
		Confidence:     SlangConfidence,
	}
	for i, s := range subs {
		e := SlangExplanation{Original: s.raw, Normalized: s.replacement, Type: "normal", Explanation: "Proper English"}
		if s.hit {
			e.Type = "slang"
			e.Explanation = "Internet slang abbreviated form"
		}
		res.Explanations[i] = e
	}
	return res
}

// ModernizeHistorical replaces archaic English words with modern ones.
func ModernizeHistorical(table LexicalTable, text string) HistoricalResult {
	subs, modern := substitute(text, table)
	res := HistoricalResult{
		ModernText:   modern,
		Explanations: make([]HistoricalExplanation, len(subs)),
		Confidence:   HistoricalConfidence,
	}
	for i, s := range subs {
		e := HistoricalExplanation{Original: s.raw, Modern: s.replacement, Era: "Modern English", Explanation: "Already in modern form"}
		if s.hit {
			e.Era = "Middle/Early Modern English"
			e.Explanation = fmt.Sprintf("Old English term meaning '%s'", s.value)
		}
		res.Explanations[i] = e
	}
	return res
}
