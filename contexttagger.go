package desi

// ContextTagger tags in two passes. The first pass is the heuristic
// baseline; the second corrects heuristic guesses from their left neighbour:
//
//   - a modal or "to" before a noun makes it a verb ("can run", "to walk");
//   - a determiner or adjective before a main verb makes it a noun ("the meeting");
//   - "of" before a main verb makes it a noun ("word of warning").
//
// Dictionary tags are never overridden.
type ContextTagger struct {
	idx *grammarIndex
}

// NewContextTagger creates a ContextTagger for the given grammar rules.
func NewContextTagger(g GrammarRules) *ContextTagger {
	return &ContextTagger{idx: newGrammarIndex(g)}
}

// Name returns "context".
func (t *ContextTagger) Name() string {
	return TaggerContext
}

// Tag implements Tagger.
func (t *ContextTagger) Tag(words []string, lex Lexicon) []POSTag {
	tags := make([]POSTag, len(words))
	fromDict := make([]bool, len(words))

	for i, w := range words {
		if tag, ok := dictionaryTag(w, lex); ok {
			tags[i] = tag
			fromDict[i] = true
			continue
		}
		tags[i] = t.idx.guess(w)
	}

	for i := 1; i < len(words); i++ {
		if fromDict[i] {
			continue
		}
		prev, prevTag := words[i-1], tags[i-1]
		cur := tags[i]

		switch {
		case (modals[prev] || prev == "to") && cur == POSNoun:
			tags[i] = POSVerb
		case (prevTag == POSDeterminer || prevTag == POSAdjective) && cur == POSVerb && !t.idx.isAuxiliary(words[i]):
			tags[i] = POSNoun
		case prev == "of" && cur == POSVerb && !t.idx.isAuxiliary(words[i]):
			tags[i] = POSNoun
		}
	}
	return tags
}
