// Package desi provides a rule-based, explainable English to Indian language
// translation engine.
//
// Desi translates text word by word using bilingual dictionaries, reorders
// clauses from Subject-Verb-Object to Subject-Object-Verb for languages that
// need it, and explains every substitution it makes. Every translation call
// returns a well-formed result: when the pipeline cannot produce one, the
// input is echoed back with zero confidence and a warning.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/desitranslate/desi"
//	    "github.com/desitranslate/desi/cache"
//	    "github.com/desitranslate/desi/rules"
//	)
//
//	func main() {
//	    r, err := rules.Load(context.Background(), rules.Embedded())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    t := desi.NewTranslator(r,
//	        desi.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    res := t.Translate(context.Background(), "I love you", "en", "hindi")
//	    fmt.Println(res.TranslatedText) // मैं तुम्हें प्यार करता हूँ
//	}
package desi

// Rules is the immutable rule bundle shared by every pipeline component.
// Once constructed it is never modified; concurrent readers need no locking.
type Rules struct {
	Dictionaries Dictionaries
	Grammar      GrammarRules
	Idioms       IdiomTable
	Slang        LexicalTable
	Historical   LexicalTable
}

// Lexicon returns the word lookup chain for a language pair.
func (r *Rules) Lexicon(sourceLang, targetLang string) Lexicon {
	return newChainLexicon(r.Dictionaries, sourceLang, targetLang)
}

// DirectLexicon looks words up in the sourceLang_targetLang table only.
func (r *Rules) DirectLexicon(sourceLang, targetLang string) Lexicon {
	l := &chainLexicon{}
	key := PairKey(NormalizeLanguage(sourceLang), NormalizeLanguage(targetLang))
	if dict, ok := r.Dictionaries[key]; ok {
		l.tables = append(l.tables, routedTable{dict, RouteDirect})
	}
	return l
}
