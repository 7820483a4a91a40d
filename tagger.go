package desi

import "fmt"

// Tagger assigns one part-of-speech tag to every word of a sentence.
// Implementations never return POSUnknown.
type Tagger interface {
	Tag(words []string, lex Lexicon) []POSTag
	Name() string
}

// Tagger names accepted by NewTagger.
const (
	TaggerHeuristic = "heuristic"
	TaggerContext   = "context"
)

// NewTagger returns the tagger registered under name.
func NewTagger(name string, g GrammarRules) (Tagger, error) {
	switch name {
	case TaggerHeuristic, "":
		return NewHeuristicTagger(g), nil
	case TaggerContext:
		return NewContextTagger(g), nil
	default:
		return nil, fmt.Errorf("unknown tagger %q (want %q or %q)", name, TaggerHeuristic, TaggerContext)
	}
}

// HeuristicTagger tags each word independently: dictionary tag first, then
// suffix and closed-class heuristics, then noun.
type HeuristicTagger struct {
	idx *grammarIndex
}

// NewHeuristicTagger creates a HeuristicTagger for the given grammar rules.
func NewHeuristicTagger(g GrammarRules) *HeuristicTagger {
	return &HeuristicTagger{idx: newGrammarIndex(g)}
}

// Name returns "heuristic".
func (t *HeuristicTagger) Name() string {
	return TaggerHeuristic
}

// Tag implements Tagger.
func (t *HeuristicTagger) Tag(words []string, lex Lexicon) []POSTag {
	tags := make([]POSTag, len(words))
	for i, w := range words {
		tags[i] = t.TagWord(w, lex)
	}
	return tags
}

// TagWord tags a single word.
func (t *HeuristicTagger) TagWord(word string, lex Lexicon) POSTag {
	if tag, ok := dictionaryTag(word, lex); ok {
		return tag
	}
	return t.idx.guess(word)
}

// dictionaryTag returns the recognized tag stored in the word's entry.
func dictionaryTag(word string, lex Lexicon) (POSTag, bool) {
	if lex == nil {
		return "", false
	}
	e, _, ok := lex.Lookup(word)
	if !ok {
		return "", false
	}
	tag, known := ParsePOSTag(string(e.POS))
	if !known || tag == POSUnknown {
		return "", false
	}
	return tag, true
}
