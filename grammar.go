package desi

import "strings"

// DefaultHeuristics are the tagging lists used when the grammar table omits them.
var DefaultHeuristics = Heuristics{
	VerbSuffixes:      []string{"ate", "ing", "ed", "en"},
	NounSuffixes:      []string{"tion", "ment", "ness", "ity"},
	AdjectiveSuffixes: []string{"ful", "less", "able", "ible", "ous", "ious"},
	AdverbSuffixes:    []string{"ly"},
	Pronouns:          []string{"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them"},
	Conjunctions:      []string{"and", "but", "or", "nor", "yet"},
	Prepositions:      []string{"in", "on", "at", "by", "to", "from", "with", "for"},
	Interjections:     []string{"hello", "hi", "bye", "wow", "oh", "ah"},
	Determiners:       []string{"a", "an", "the", "this", "that", "these", "those"},
}

// DefaultAuxiliaries is the auxiliary-verb list used when the grammar table omits one.
var DefaultAuxiliaries = []string{
	"is", "am", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did",
	"will", "would", "shall", "should", "can", "could", "may", "might", "must",
}

var modals = map[string]bool{
	"will": true, "would": true, "shall": true, "should": true,
	"can": true, "could": true, "may": true, "might": true, "must": true,
}

// grammarIndex is the lookup form of GrammarRules, built once per tagger or
// analyzer and read-only afterwards.
type grammarIndex struct {
	suffixes []suffixRule
	closed   map[string]POSTag
	aux      map[string]bool
	desc     map[POSTag]string
}

type suffixRule struct {
	tag      POSTag
	suffixes []string
}

func newGrammarIndex(g GrammarRules) *grammarIndex {
	h := g.Heuristics
	idx := &grammarIndex{
		suffixes: []suffixRule{
			{POSVerb, orDefault(h.VerbSuffixes, DefaultHeuristics.VerbSuffixes)},
			{POSNoun, orDefault(h.NounSuffixes, DefaultHeuristics.NounSuffixes)},
			{POSAdjective, orDefault(h.AdjectiveSuffixes, DefaultHeuristics.AdjectiveSuffixes)},
			{POSAdverb, orDefault(h.AdverbSuffixes, DefaultHeuristics.AdverbSuffixes)},
		},
		closed: make(map[string]POSTag),
		aux:    make(map[string]bool),
		desc:   make(map[POSTag]string),
	}

	// Earlier classes win when a word appears in more than one list.
	idx.addClosed(POSPronoun, orDefault(h.Pronouns, DefaultHeuristics.Pronouns), g.POSTags[POSPronoun].EnglishIndicators)
	idx.addClosed(POSConjunction, orDefault(h.Conjunctions, DefaultHeuristics.Conjunctions), g.POSTags[POSConjunction].EnglishIndicators)
	idx.addClosed(POSPreposition, orDefault(h.Prepositions, DefaultHeuristics.Prepositions), g.POSTags[POSPreposition].EnglishIndicators)
	idx.addClosed(POSInterjection, orDefault(h.Interjections, DefaultHeuristics.Interjections), g.POSTags[POSInterjection].EnglishIndicators)
	idx.addClosed(POSDeterminer, orDefault(h.Determiners, DefaultHeuristics.Determiners), g.POSTags[POSDeterminer].EnglishIndicators)

	for _, w := range orDefault(g.Auxiliaries, DefaultAuxiliaries) {
		idx.aux[strings.ToLower(w)] = true
	}
	idx.addClosed(POSVerb, orDefault(g.Auxiliaries, DefaultAuxiliaries), g.POSTags[POSVerb].EnglishIndicators)
	idx.addClosed(POSNoun, g.POSTags[POSNoun].EnglishIndicators)
	idx.addClosed(POSAdjective, g.POSTags[POSAdjective].EnglishIndicators)
	idx.addClosed(POSAdverb, g.POSTags[POSAdverb].EnglishIndicators)

	for tag, rule := range g.POSTags {
		if rule.Description != "" {
			idx.desc[tag] = rule.Description
		}
	}
	return idx
}

func (g *grammarIndex) addClosed(tag POSTag, lists ...[]string) {
	for _, list := range lists {
		for _, w := range list {
			w = strings.ToLower(w)
			if _, taken := g.closed[w]; !taken {
				g.closed[w] = tag
			}
		}
	}
}

// guess tags a word without a dictionary: suffixes, then closed classes,
// then noun.
func (g *grammarIndex) guess(word string) POSTag {
	w := strings.ToLower(word)
	if w == "" {
		return POSNoun
	}
	for _, rule := range g.suffixes {
		for _, s := range rule.suffixes {
			if strings.HasSuffix(w, s) {
				return rule.tag
			}
		}
	}
	if tag, ok := g.closed[w]; ok {
		return tag
	}
	return POSNoun
}

func (g *grammarIndex) isAuxiliary(word string) bool {
	return g.aux[strings.ToLower(word)]
}

// describe returns the grammar table's description for a tag.
func (g *grammarIndex) describe(tag POSTag) string {
	if d, ok := g.desc[tag]; ok {
		return d
	}
	if tag == POSUnknown {
		return "Unknown"
	}
	return string(tag)
}

func orDefault(list, def []string) []string {
	if len(list) == 0 {
		return def
	}
	return list
}
