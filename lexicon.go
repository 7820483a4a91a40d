package desi

import "strings"

// Lexicon looks words up in the dictionaries of one language pair.
type Lexicon interface {
	Lookup(word string) (DictionaryEntry, LookupRoute, bool)
}

// chainLexicon tries the direct pair, then the reverse pair, then the
// English bridge. The reverse route reuses the entry of a target-to-source
// table as-is, which is only an approximation for asymmetric dictionaries;
// callers see it through RouteReverse.
type chainLexicon struct {
	tables []routedTable
}

type routedTable struct {
	dict  Dictionary
	route LookupRoute
}

func newChainLexicon(d Dictionaries, sourceLang, targetLang string) *chainLexicon {
	src := NormalizeLanguage(sourceLang)
	tgt := NormalizeLanguage(targetLang)

	l := &chainLexicon{}
	if dict, ok := d[PairKey(src, tgt)]; ok {
		l.tables = append(l.tables, routedTable{dict, RouteDirect})
	}
	if src != tgt {
		if dict, ok := d[PairKey(tgt, src)]; ok {
			l.tables = append(l.tables, routedTable{dict, RouteReverse})
		}
	}
	if src != English {
		if dict, ok := d[PairKey(English, tgt)]; ok {
			l.tables = append(l.tables, routedTable{dict, RouteBridge})
		}
	}
	return l
}

// Lookup returns the first entry for word along the chain.
func (l *chainLexicon) Lookup(word string) (DictionaryEntry, LookupRoute, bool) {
	w := strings.ToLower(word)
	if w == "" {
		return DictionaryEntry{}, RouteNone, false
	}
	for _, t := range l.tables {
		if e, ok := t.dict[w]; ok {
			return e, t.route, true
		}
	}
	return DictionaryEntry{}, RouteNone, false
}
