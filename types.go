package desi

import "strings"

// POSTag is a coarse part-of-speech category.
type POSTag string

const (
	POSNoun         POSTag = "noun"
	POSVerb         POSTag = "verb"
	POSAdjective    POSTag = "adjective"
	POSAdverb       POSTag = "adverb"
	POSPronoun      POSTag = "pronoun"
	POSConjunction  POSTag = "conjunction"
	POSPreposition  POSTag = "preposition"
	POSInterjection POSTag = "interjection"
	POSDeterminer   POSTag = "determiner"
	POSUnknown      POSTag = "unknown"
)

var knownPOSTags = map[POSTag]bool{
	POSNoun: true, POSVerb: true, POSAdjective: true, POSAdverb: true,
	POSPronoun: true, POSConjunction: true, POSPreposition: true,
	POSInterjection: true, POSDeterminer: true, POSUnknown: true,
}

// ParsePOSTag maps s to a POSTag. The second return value reports whether s
// named a known category; unrecognized input yields POSUnknown.
func ParsePOSTag(s string) (POSTag, bool) {
	tag := POSTag(strings.ToLower(strings.TrimSpace(s)))
	if knownPOSTags[tag] {
		return tag, true
	}
	return POSUnknown, false
}

// IsNominal reports whether the tag can fill a subject or object slot.
func (p POSTag) IsNominal() bool {
	return p == POSNoun || p == POSPronoun
}

// Default values applied to rule records that omit optional fields.
const (
	DefaultEntryConfidence = 0.8
	DefaultEntryRule       = "Direct translation"
	DefaultIdiomConfidence = 0.9
)

// DictionaryEntry is a single bilingual dictionary record.
type DictionaryEntry struct {
	Word       string  `json:"word" yaml:"word"`
	POS        POSTag  `json:"pos" yaml:"pos"`
	Rule       string  `json:"rule" yaml:"rule"`
	Meaning    string  `json:"meaning,omitempty" yaml:"meaning,omitempty"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Dictionary maps a lowercased source word to its entry.
type Dictionary map[string]DictionaryEntry

// Dictionaries maps a "{source}_{target}" pair key to its dictionary.
type Dictionaries map[string]Dictionary

// PairKey builds the dictionary key for a language pair.
func PairKey(sourceLang, targetLang string) string {
	return sourceLang + "_" + targetLang
}

// LookupRoute records how a dictionary entry was found.
type LookupRoute string

const (
	RouteDirect  LookupRoute = "direct"
	RouteReverse LookupRoute = "reverse"
	RouteBridge  LookupRoute = "bridge"
	RouteNone    LookupRoute = "none"
)

// WordOrder is a clause word-order typology.
type WordOrder string

const (
	OrderSVO WordOrder = "SVO"
	OrderSOV WordOrder = "SOV"
	OrderVSO WordOrder = "VSO"
	OrderVOS WordOrder = "VOS"
	OrderOSV WordOrder = "OSV"
	OrderOVS WordOrder = "OVS"
)

// POSRule describes a part-of-speech category in the grammar table.
type POSRule struct {
	Description       string   `json:"description" yaml:"description"`
	EnglishIndicators []string `json:"english_indicators,omitempty" yaml:"english_indicators,omitempty"`
}

// Heuristics holds the suffix and closed-class lists used by the taggers.
type Heuristics struct {
	VerbSuffixes      []string `json:"verb_suffixes,omitempty" yaml:"verb_suffixes,omitempty"`
	NounSuffixes      []string `json:"noun_suffixes,omitempty" yaml:"noun_suffixes,omitempty"`
	AdjectiveSuffixes []string `json:"adjective_suffixes,omitempty" yaml:"adjective_suffixes,omitempty"`
	AdverbSuffixes    []string `json:"adverb_suffixes,omitempty" yaml:"adverb_suffixes,omitempty"`
	Pronouns          []string `json:"pronouns,omitempty" yaml:"pronouns,omitempty"`
	Conjunctions      []string `json:"conjunctions,omitempty" yaml:"conjunctions,omitempty"`
	Prepositions      []string `json:"prepositions,omitempty" yaml:"prepositions,omitempty"`
	Interjections     []string `json:"interjections,omitempty" yaml:"interjections,omitempty"`
	Determiners       []string `json:"determiners,omitempty" yaml:"determiners,omitempty"`
}

// GrammarRules holds word-order, auxiliary and tagging rules.
type GrammarRules struct {
	POSTags     map[POSTag]POSRule   `json:"pos_tags"`
	WordOrder   map[string]WordOrder `json:"word_order"`
	Auxiliaries []string             `json:"auxiliaries"`
	Heuristics  Heuristics           `json:"heuristics"`
}

// IdiomEntry is a structured idiom translation record.
type IdiomEntry struct {
	Key          string            `json:"key"`
	English      string            `json:"english"`
	Meaning      string            `json:"meaning"`
	Translations map[string]string `json:"translations"`
	Explanation  string            `json:"explanation,omitempty"`
	Example      string            `json:"example,omitempty"`
	CulturalNote string            `json:"cultural_note,omitempty"`
	Confidence   float64           `json:"confidence"`
}

// IdiomTable maps a normalized idiom key to its entry.
type IdiomTable map[string]IdiomEntry

// LexicalTable maps a source token to its replacement text.
type LexicalTable map[string]string

// WordExplanation explains the substitution made for one source token.
type WordExplanation struct {
	Original   string  `json:"original"`
	Translated string  `json:"translated"`
	POS        POSTag  `json:"pos"`
	Rule       string  `json:"rule"`
	Meaning    string  `json:"meaning"`
	Confidence float64 `json:"confidence"`
}

// WordMapping is a WordExplanation tied to its source position.
type WordMapping struct {
	WordExplanation
	OriginalIndex int         `json:"original_index"`
	Route         LookupRoute `json:"route"`
}

// ReorderingInfo describes a word-order transformation.
type ReorderingInfo struct {
	OriginalOrder     []int     `json:"original_order"`
	NewOrder          []int     `json:"new_order"`
	MergedAuxiliaries []int     `json:"merged_auxiliaries,omitempty"`
	SourceOrder       WordOrder `json:"source_order"`
	TargetOrder       WordOrder `json:"target_order"`
	Rule              string    `json:"rule"`
}

// Mode is the terminal state of a validated translation.
type Mode string

const (
	ModeValidated Mode = "validated"
	ModeFallback  Mode = "fallback"
)

// TranslationResult is the outcome of a translation request.
type TranslationResult struct {
	TranslatedText string            `json:"translated_text"`
	OriginalText   string            `json:"original_text"`
	Explanations   []WordExplanation `json:"explanations"`
	Confidence     float64           `json:"confidence"`
	WordMappings   []WordMapping     `json:"word_mappings"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	Reordering     *ReorderingInfo   `json:"reordering_info,omitempty"`
	Mode           Mode              `json:"mode"`
	Error          string            `json:"error,omitempty"`
	Warnings       []string          `json:"warnings"`
}

// TextNode represents a translatable unit of content.
type TextNode struct {
	ID       string            // Unique identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "html_text", "subtitle_cue", etc.
	Context  string            // Location hint (parent tag, cue timing)
	Metadata map[string]string // Additional info (parent tag, cue index, etc.)
}

// ProcessedContent is the result of a content translation.
type ProcessedContent struct {
	Content         string  `json:"content"`
	TranslatedCount int     `json:"translated_count"`
	CachedCount     int     `json:"cached_count"`
	TotalNodes      int     `json:"total_nodes"`
	Confidence      float64 `json:"confidence"` // Mean confidence over translated nodes
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
