package desi

import "math"

// Per-word confidence used for dictionary misses.
const MissConfidence = 0.5

// RuleNotFound is the rule label attached to words missing from every dictionary.
const RuleNotFound = "not found"

// Confidence weights.
const (
	weightCoverage    = 0.4
	weightGrammar     = 0.4
	weightReliability = 0.2
)

// Source reliability by lookup route.
var routeReliability = map[LookupRoute]float64{
	RouteDirect:  1.0,
	RouteBridge:  0.8,
	RouteReverse: 0.6,
}

// Grammar-match scores used by QualityScore.
const (
	grammarApplied    = 1.0
	grammarUnresolved = 0.6
	grammarAborted    = 0.5
)

// CalculateConfidence combines dictionary coverage, grammar-rule fit and
// source reliability (each 0-1) into a 0-1 score.
func CalculateConfidence(dictionaryCoverage, grammarMatch, sourceReliability float64) float64 {
	score := weightCoverage*dictionaryCoverage + weightGrammar*grammarMatch + weightReliability*sourceReliability
	return math.Min(1.0, math.Max(0.0, score))
}

// TranslateWord substitutes one word through lex. Misses keep the word
// unchanged with the heuristic tag.
func TranslateWord(word string, index int, lex Lexicon, tag POSTag) WordMapping {
	if lex != nil {
		if e, route, ok := lex.Lookup(word); ok {
			pos := e.POS
			if p, known := ParsePOSTag(string(pos)); !known || p == POSUnknown {
				pos = tag
			}
			rule := e.Rule
			if rule == "" {
				rule = DefaultEntryRule
			}
			if route == RouteReverse {
				rule += " (reverse lookup)"
			}
			return WordMapping{
				WordExplanation: WordExplanation{
					Original:   word,
					Translated: e.Word,
					POS:        pos,
					Rule:       rule,
					Meaning:    e.Meaning,
					Confidence: clamp01(e.Confidence),
				},
				OriginalIndex: index,
				Route:         route,
			}
		}
	}
	return WordMapping{
		WordExplanation: WordExplanation{
			Original:   word,
			Translated: word,
			POS:        tag,
			Rule:       RuleNotFound,
			Confidence: MissConfidence,
		},
		OriginalIndex: index,
		Route:         RouteNone,
	}
}

// AggregateConfidence is the mean per-word confidence on a 0-100 scale,
// rounded to two decimals. Every word weighs the same.
func AggregateConfidence(mappings []WordMapping) float64 {
	if len(mappings) == 0 {
		return 0
	}
	var sum float64
	for _, m := range mappings {
		sum += m.Confidence
	}
	return round2(sum / float64(len(mappings)) * 100)
}

// QualityScore rates a translation on a 0-100 scale from its mappings and the
// outcome of word-order transformation.
func QualityScore(mappings []WordMapping, grammarMatch float64) float64 {
	if len(mappings) == 0 {
		return 0
	}
	hits := 0
	var reliability float64
	for _, m := range mappings {
		if m.Route == RouteNone {
			continue
		}
		hits++
		reliability += routeReliability[m.Route]
	}
	coverage := float64(hits) / float64(len(mappings))
	source := MissConfidence
	if hits > 0 {
		source = reliability / float64(hits)
	}
	return round2(CalculateConfidence(coverage, grammarMatch, source) * 100)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
