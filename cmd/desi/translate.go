package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/store"
)

func newTranslateCmd(c *cli) *cobra.Command {
	var words bool
	cmd := &cobra.Command{
		Use:   "translate [TEXT...]",
		Short: "Translate a sentence",
		Long: `Translate a sentence from the source to the target language. The text is
taken from the arguments, or from stdin when there are none.`,
		Example: `  desi translate I love you
  echo "Drink water" | desi translate -t tamil`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(args)
			if err != nil {
				return err
			}
			tr, err := c.translator(cmd.Context())
			if err != nil {
				return err
			}

			res := tr.Translate(cmd.Context(), text, "", "")
			c.record(cmd.Context(), store.FromResult(store.KindTranslate, res))
			c.resultWarnings(res)
			return c.emit(res, func(w io.Writer) {
				fmt.Fprintln(w, res.TranslatedText)
				fmt.Fprintf(w, "confidence: %s (%s)\n", score(res.Confidence), res.Mode)
				if words {
					fmt.Fprintln(w)
					mappingTable(res.WordMappings).write(w)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&words, "words", "w", false, "show the word-by-word mapping")
	return cmd
}

func newDetailedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "detailed [TEXT...]",
		Short: "Translate with word-level linguistic analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(args)
			if err != nil {
				return err
			}
			tr, err := c.translator(cmd.Context())
			if err != nil {
				return err
			}

			res := tr.TranslateDetailed(cmd.Context(), text, "", "")
			c.record(cmd.Context(), store.FromResult(store.KindDetailed, res.TranslationResult))
			c.resultWarnings(res.TranslationResult)
			return c.emit(res, func(w io.Writer) {
				fmt.Fprintln(w, res.TranslatedText)
				fmt.Fprintln(w)

				t := newTable("WORD", "POS", "TRANSLATION", "TARGET POS", "CONF", "RULE")
				for _, wa := range res.WordExplanations {
					t.add(wa.Original, string(wa.SourcePOS), wa.Translated, string(wa.TargetPOS),
						fmt.Sprintf("%.2f", wa.Confidence), truncate(wa.Rule, 40))
				}
				t.write(w)

				if res.Analysis != nil {
					fmt.Fprintf(w, "\ntense: %s  aspect: %s  mood: %s\n",
						res.Analysis.Tense, res.Analysis.Aspect, res.Analysis.Mood)
				}
				if res.LinguisticExplanation != "" {
					fmt.Fprintf(w, "\n%s\n", res.LinguisticExplanation)
				}
				fmt.Fprintf(w, "\nconfidence: %s  quality: %s\n", score(res.Confidence), score(res.QualityScore))
			})
		},
	}
}

func newIdiomCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "idiom PHRASE...",
		Short:   "Look up an idiom",
		Example: `  desi idiom break the ice -t telugu`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.translator(cmd.Context())
			if err != nil {
				return err
			}

			phrase := strings.Join(args, " ")
			res := tr.TranslateIdiom(phrase, c.targetLang())
			if res.Found {
				c.record(cmd.Context(), store.Record{
					Kind:           store.KindIdiom,
					SourceText:     phrase,
					TranslatedText: res.Translation,
					SourceLang:     desi.English,
					TargetLang:     c.targetLang(),
					Confidence:     res.Confidence,
				})
			} else {
				c.warn("no idiom matches %q", phrase)
			}
			return c.emit(res, func(w io.Writer) {
				if !res.Found {
					return
				}
				fmt.Fprintln(w, res.Translation)
				fmt.Fprintf(w, "meaning: %s\n", res.Meaning)
				if res.Explanation != "" {
					fmt.Fprintf(w, "explanation: %s\n", res.Explanation)
				}
				if res.Example != "" {
					fmt.Fprintf(w, "example: %s\n", res.Example)
				}
				if res.CulturalNote != "" {
					fmt.Fprintf(w, "cultural note: %s\n", res.CulturalNote)
				}
				fmt.Fprintf(w, "confidence: %s\n", confidence(res.Confidence))
			})
		},
	}
}

func newSlangCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "slang [TEXT...]",
		Short: "Expand internet slang and abbreviations",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(args)
			if err != nil {
				return err
			}
			tr, err := c.translator(cmd.Context())
			if err != nil {
				return err
			}

			res := tr.NormalizeSlang(text)
			c.record(cmd.Context(), store.Record{
				Kind:           store.KindSlang,
				SourceText:     text,
				TranslatedText: res.NormalizedText,
				SourceLang:     desi.English,
				TargetLang:     desi.English,
				Confidence:     res.Confidence,
			})
			return c.emit(res, func(w io.Writer) {
				fmt.Fprintln(w, res.NormalizedText)
				if len(res.Explanations) == 0 {
					return
				}
				fmt.Fprintln(w)
				t := newTable("SLANG", "MEANING", "TYPE")
				for _, e := range res.Explanations {
					t.add(e.Original, e.Normalized, e.Type)
				}
				t.write(w)
			})
		},
	}
}

func newHistoricalCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "historical [TEXT...]",
		Short: "Modernize archaic English",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(args)
			if err != nil {
				return err
			}
			tr, err := c.translator(cmd.Context())
			if err != nil {
				return err
			}

			res := tr.ModernizeHistorical(text)
			c.record(cmd.Context(), store.Record{
				Kind:           store.KindHistory,
				SourceText:     text,
				TranslatedText: res.ModernText,
				SourceLang:     desi.English,
				TargetLang:     desi.English,
				Confidence:     res.Confidence,
			})
			return c.emit(res, func(w io.Writer) {
				fmt.Fprintln(w, res.ModernText)
				if len(res.Explanations) == 0 {
					return
				}
				fmt.Fprintln(w)
				t := newTable("ARCHAIC", "MODERN", "ERA")
				for _, e := range res.Explanations {
					t.add(e.Original, e.Modern, e.Era)
				}
				t.write(w)
			})
		},
	}
}

func (c *cli) resultWarnings(res desi.TranslationResult) {
	if res.Mode == desi.ModeFallback && res.Error != "" {
		c.warn("translation fell back: %s", res.Error)
	}
	for _, w := range res.Warnings {
		c.warn("%s", w)
	}
}

func mappingTable(mappings []desi.WordMapping) *table {
	t := newTable("#", "WORD", "TRANSLATION", "POS", "ROUTE", "CONF")
	for _, m := range mappings {
		t.add(fmt.Sprint(m.OriginalIndex), m.Original, m.Translated, string(m.POS),
			string(m.Route), fmt.Sprintf("%.2f", m.Confidence))
	}
	return t
}
