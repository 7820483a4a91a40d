package desi

import (
	"fmt"
	"slices"
	"strings"
)

// WordAnalysis is the per-word record of a detailed translation.
type WordAnalysis struct {
	Original             string      `json:"original_word"`
	OriginalWithPunct    string      `json:"original_with_punct"`
	SourcePOS            POSTag      `json:"source_pos"`
	SourcePOSDescription string      `json:"source_pos_full"`
	SourceMeaning        string      `json:"source_meaning"`
	Translated           string      `json:"translated_word"`
	TargetPOS            POSTag      `json:"target_pos"`
	TargetPOSDescription string      `json:"target_pos_full"`
	TargetMeaning        string      `json:"target_meaning"`
	Rule                 string      `json:"rule"`
	Confidence           float64     `json:"confidence"`
	Route                LookupRoute `json:"route"`
}

// Analysis summarizes the grammatical reading of the source sentence.
type Analysis struct {
	Tense        string    `json:"tense"`
	Aspect       string    `json:"aspect"`
	Mood         string    `json:"mood"`
	Structure    Structure `json:"structure"`
	AnalysisType string    `json:"analysis_type"`
}

// DetailedResult is a TranslationResult with word-level linguistic analysis.
type DetailedResult struct {
	TranslationResult
	WordExplanations      []WordAnalysis `json:"word_explanations"`
	LinguisticExplanation string         `json:"linguistic_explanation"`
	Analysis              *Analysis      `json:"analysis,omitempty"`
	QualityScore          float64        `json:"quality_score"`
}

// Tense values.
const (
	TensePast           = "past"
	TensePresent        = "present"
	TenseFuture         = "future"
	TensePresentPerfect = "present_perfect"
)

// Marker phrases checked in order future, past, present.
var (
	futureMarkers = []string{"will", "shall", "going to", "about to", "would", "should"}
	pastMarkers   = []string{"was", "were", "did", "had", "have been", "had been", "was going", "were going"}
)

var pronounPersons = map[string]string{
	"i":    "first person singular",
	"you":  "second person",
	"he":   "third person masculine",
	"she":  "third person feminine",
	"it":   "third person neuter",
	"we":   "first person plural",
	"they": "third person plural",
}

var languageNotes = map[string]string{
	"hindi":  "Hindi: Verb conjugation changes based on subject gender (masculine/feminine), number (singular/plural), and tense. Postpositions may be used instead of prepositions.",
	"telugu": "Telugu: Agglutinative language where suffixes are added for tense, mood, and person. Word order is strictly SOV.",
	"tamil":  "Tamil: Highly inflected language with rich verb conjugations. Feminine/masculine distinction less prominent in verbs than in nouns.",
}

const standardExplanation = "Standard translation. Minimal grammatical transformation required."

// containsPhrase reports whether the space-joined words contain phrase as a
// whole-word sequence.
func containsPhrase(words []string, phrase string) bool {
	parts := strings.Fields(phrase)
	if len(parts) == 0 {
		return false
	}
	for i := 0; i+len(parts) <= len(words); i++ {
		if slices.Equal(words[i:i+len(parts)], parts) {
			return true
		}
	}
	return false
}

func containsAny(words []string, phrases []string) bool {
	for _, p := range phrases {
		if containsPhrase(words, p) {
			return true
		}
	}
	return false
}

// DetectTense returns "future", "past" or "present" from marker words.
func DetectTense(words []string) string {
	switch {
	case containsAny(words, futureMarkers):
		return TenseFuture
	case containsAny(words, pastMarkers):
		return TensePast
	default:
		return TensePresent
	}
}

// DetectAspect returns "perfect_continuous", "perfect", "continuous" or "simple".
func DetectAspect(words []string) string {
	hasIng := slices.ContainsFunc(words, func(w string) bool { return strings.HasSuffix(w, "ing") })
	perfect := containsAny(words, []string{"have", "has"})
	switch {
	case perfect && slices.Contains(words, "been") && hasIng:
		return "perfect_continuous"
	case perfect || slices.Contains(words, "had"):
		return "perfect"
	case containsAny(words, []string{"be", "being"}) || hasIng:
		return "continuous"
	default:
		return "simple"
	}
}

// DetectMood returns "imperative", "conditional", "subjunctive" or
// "indicative". A sentence opening with a main verb is imperative.
func DetectMood(words []string, tags []POSTag, g *grammarIndex) string {
	switch {
	case len(words) > 0 && len(tags) > 0 && tags[0] == POSVerb && !g.isAuxiliary(words[0]):
		return "imperative"
	case containsAny(words, []string{"would", "could", "should"}):
		return "conditional"
	case slices.Contains(words, "if"):
		return "subjunctive"
	default:
		return "indicative"
	}
}

// LinguisticExplanation describes the transformations applied when
// translating words into target, joined with " | ".
func LinguisticExplanation(words []string, target string, g GrammarRules, idx *grammarIndex) string {
	var parts []string
	target = NormalizeLanguage(target)
	name := target
	source := g.OrderOf(English)
	dest := g.OrderOf(target)

	if source != dest {
		if dest == OrderSOV {
			parts = append(parts, fmt.Sprintf("Word Order: English uses SVO (Subject-Verb-Object), but %s uses SOV (Subject-Object-Verb). Words are reordered: Object comes before Verb.", name))
		} else {
			parts = append(parts, fmt.Sprintf("Word Order: English uses %s order, %s uses %s order.", source, name, dest))
		}
	}

	var aux []string
	for _, w := range words {
		if idx.isAuxiliary(w) && !slices.Contains(aux, w) {
			aux = append(aux, w)
		}
	}
	if len(aux) > 0 {
		verb := "are"
		if len(aux) == 1 {
			verb = "is"
		}
		parts = append(parts, fmt.Sprintf("Auxiliary Verbs: The auxiliary verb(s) '%s' %s merged into the main verb. In %s, there's typically no separate auxiliary; the tense is shown in the main verb conjugation.", strings.Join(aux, ", "), verb, name))
	}

	switch {
	case containsAny(words, []string{"was", "were"}):
		parts = append(parts, fmt.Sprintf("Tense: PAST TENSE detected (marked by 'was'). Verbs conjugated to show past action in %s.", name))
	case containsAny(words, []string{"will", "shall"}):
		parts = append(parts, fmt.Sprintf("Tense: FUTURE TENSE detected (marked by 'will'). Verbs conjugated to show future action in %s.", name))
	case containsAny(words, []string{"have", "has"}):
		parts = append(parts, fmt.Sprintf("Tense: PRESENT PERFECT detected. Shows completed action with present relevance in %s.", name))
	default:
		parts = append(parts, fmt.Sprintf("Tense: PRESENT TENSE detected. Verbs use present form in %s.", name))
	}

	var pronouns, persons []string
	for _, w := range words {
		if person, ok := pronounPersons[w]; ok && !slices.Contains(pronouns, w) {
			pronouns = append(pronouns, w)
			persons = append(persons, person)
		}
	}
	if len(pronouns) > 0 {
		parts = append(parts, fmt.Sprintf("Subject: '%s' (%s). Affects verb conjugation and gender agreement in %s.", strings.Join(pronouns, ", "), strings.Join(persons, ", "), name))
	}

	if note, ok := languageNotes[target]; ok {
		parts = append(parts, note)
	}
	if len(parts) == 0 {
		return standardExplanation
	}
	return strings.Join(parts, " | ")
}

// analyzeWords builds the per-word records of a finished run.
func analyzeWords(r *pipelineRun, idx *grammarIndex) []WordAnalysis {
	out := make([]WordAnalysis, len(r.mappings))
	for i, m := range r.mappings {
		a := WordAnalysis{
			Original:             r.tokens.Words[i],
			OriginalWithPunct:    r.tokens.Raw[i],
			SourcePOS:            r.tags[i],
			SourcePOSDescription: idx.describe(r.tags[i]),
			SourceMeaning:        "word or phrase",
			Translated:           m.Translated,
			TargetPOS:            POSUnknown,
			TargetPOSDescription: idx.describe(POSUnknown),
			Rule:                 m.Rule,
			Confidence:           m.Confidence,
			Route:                m.Route,
		}
		if m.Route != RouteNone {
			a.TargetPOS = m.POS
			a.TargetPOSDescription = idx.describe(m.POS)
			a.TargetMeaning = m.Meaning
			if m.Meaning != "" {
				a.SourceMeaning = m.Meaning
			}
		}
		out[i] = a
	}
	return out
}
