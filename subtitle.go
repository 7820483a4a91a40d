package desi

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Subtitle miss labels: untranslated words are usually names or numbers.
const (
	SubtitleMissMeaning = "Proper noun or special word"
	SubtitleMissPOS     = "proper_noun"
)

// SubtitleWord explains one word of a subtitle line.
type SubtitleWord struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Meaning    string `json:"meaning"`
	POS        string `json:"pos"`
}

// SubtitleLine is the word-by-word translation of one subtitle line.
type SubtitleLine struct {
	Original         string         `json:"original"`
	Translated       string         `json:"translated"`
	WordExplanations []SubtitleWord `json:"word_explanations"`
	WordsTranslated  int            `json:"words_translated"`
	TotalWords       int            `json:"total_words"`
}

// TranslateSubtitleLine substitutes every word of line through lex without
// reordering. Words missing from lex are kept as written.
func TranslateSubtitleLine(lex Lexicon, line string) SubtitleLine {
	toks := Tokenize(strings.ToLower(line))
	out := make([]string, toks.Len())
	res := SubtitleLine{
		Original:         line,
		WordExplanations: make([]SubtitleWord, toks.Len()),
	}
	for i, w := range toks.Words {
		e, _, ok := lex.Lookup(w)
		if !ok {
			out[i] = toks.Raw[i]
			res.WordExplanations[i] = SubtitleWord{Original: w, Translated: w, Meaning: SubtitleMissMeaning, POS: SubtitleMissPOS}
			continue
		}
		pos := string(e.POS)
		if pos == "" {
			pos = "word"
		}
		p := toks.Punct[i]
		out[i] = p.Leading + e.Word + p.Trailing
		res.WordExplanations[i] = SubtitleWord{Original: w, Translated: e.Word, Meaning: e.Meaning, POS: pos}
		if e.Word != w {
			res.WordsTranslated++
		}
	}
	res.Translated = strings.Join(out, " ")
	res.TotalWords = len(res.WordExplanations)
	return res
}

// TranslateSubtitleBatch translates lines independently and concurrently,
// returning them in input order. Only the en_<target> table is consulted.
// It fails only when ctx is canceled.
func (t *Translator) TranslateSubtitleBatch(ctx context.Context, lines []string, targetLang string) ([]SubtitleLine, error) {
	lex := t.rules.DirectLexicon(English, t.target(targetLang))
	out := make([]SubtitleLine, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.subtitleWorkers)
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = TranslateSubtitleLine(lex, line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
