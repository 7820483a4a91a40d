package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/rules"
)

func newRulesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and edit the rule tables",
		Long: `Inspect the loaded rule tables, or edit the JSON tables of a rules
directory. Editing commands require --rules-dir.`,
	}
	cmd.AddCommand(
		newRulesStatsCmd(c),
		newRulesListCmd(c),
		newRulesAddWordCmd(c),
		newRulesAddIdiomCmd(c),
		newRulesBackupCmd(c),
		newRulesRestoreCmd(c),
	)
	return cmd
}

func (c *cli) rulesDir() (string, error) {
	dir := c.v.GetString("rules-dir")
	if dir == "" {
		return "", errors.New("--rules-dir is required to edit rules")
	}
	return dir, nil
}

func newRulesStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the entries of each table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := c.loadRules(cmd.Context())
			if err != nil {
				return err
			}
			stats := rules.Stats(r)
			return c.emit(stats, func(w io.Writer) {
				fmt.Fprintf(w, "Source: %s\n\n", c.ruleSource().Location(""))

				pairs := make([]string, 0, len(stats.WordsPerPair))
				for pair := range stats.WordsPerPair {
					pairs = append(pairs, pair)
				}
				sort.Strings(pairs)
				t := newTable("PAIR", "WORDS")
				for _, pair := range pairs {
					t.add(pair, fmt.Sprint(stats.WordsPerPair[pair]))
				}
				t.write(w)

				fmt.Fprintf(w, "\nTotal words:       %d\n", stats.TotalWords)
				fmt.Fprintf(w, "Idioms:            %d\n", stats.Idioms)
				fmt.Fprintf(w, "Slang terms:       %d\n", stats.SlangTerms)
				fmt.Fprintf(w, "Historical terms:  %d\n", stats.HistoricalTerms)
				fmt.Fprintf(w, "Target languages:  %s\n", strings.Join(stats.TargetLanguages, ", "))
			})
		},
	}
}

func newRulesListCmd(c *cli) *cobra.Command {
	var (
		pair   string
		idioms bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the words of a language pair, or the idioms",
		Example: `  desi rules list -t tamil
  desi rules list --pair en_telugu
  desi rules list --idioms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := c.loadRules(cmd.Context())
			if err != nil {
				return err
			}

			if idioms {
				list := rules.ListIdioms(r)
				return c.emit(list, func(w io.Writer) {
					target := c.targetLang()
					t := newTable("IDIOM", "MEANING", "TRANSLATION")
					for _, e := range list {
						t.add(e.Key, truncate(e.Meaning, 40), e.Translations[target])
					}
					t.write(w)
				})
			}

			if pair == "" {
				pair = desi.PairKey(c.sourceLang(), c.targetLang())
			}
			words, err := rules.ListWords(r, pair)
			if err != nil {
				return err
			}
			return c.emit(words, func(w io.Writer) {
				t := newTable("WORD", "TRANSLATION", "POS", "CONF", "MEANING")
				for _, e := range words {
					t.add(e.Source, e.Word, string(e.POS), confidence(e.Confidence), truncate(e.Meaning, 40))
				}
				t.write(w)
			})
		},
	}
	cmd.Flags().StringVar(&pair, "pair", "", "dictionary pair key (default: <source>_<target>)")
	cmd.Flags().BoolVar(&idioms, "idioms", false, "list idioms instead of words")
	return cmd
}

func newRulesAddWordCmd(c *cli) *cobra.Command {
	var (
		pair  string
		entry desi.DictionaryEntry
		pos   string
	)
	cmd := &cobra.Command{
		Use:     "add-word WORD TRANSLATION",
		Short:   "Add or replace a dictionary word",
		Example: `  desi rules add-word --rules-dir ./rules river नदी --pos noun --meaning "a large stream"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.rulesDir()
			if err != nil {
				return err
			}
			if pos != "" {
				tag, ok := desi.ParsePOSTag(pos)
				if !ok {
					return fmt.Errorf("unknown part of speech %q", pos)
				}
				entry.POS = tag
			}
			if pair == "" {
				pair = desi.PairKey(c.sourceLang(), c.targetLang())
			}
			entry.Word = args[1]
			if err := rules.AddWord(dir, pair, args[0], entry); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Added %q -> %q to %s\n", strings.ToLower(args[0]), args[1], pair)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&pair, "pair", "", "dictionary pair key (default: <source>_<target>)")
	f.StringVar(&pos, "pos", "", "part of speech (default noun)")
	f.StringVar(&entry.Meaning, "meaning", "", "English meaning")
	f.StringVar(&entry.Rule, "rule", "", "rule text shown in explanations")
	f.Float64Var(&entry.Confidence, "confidence", 0, "entry confidence (default 0.8)")
	return cmd
}

func newRulesAddIdiomCmd(c *cli) *cobra.Command {
	var entry desi.IdiomEntry
	cmd := &cobra.Command{
		Use:   "add-idiom PHRASE...",
		Short: "Add or replace an idiom",
		Example: `  desi rules add-idiom --rules-dir ./rules spill the beans \
      --meaning "reveal a secret" --translation hindi="राज़ खोलना"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.rulesDir()
			if err != nil {
				return err
			}
			phrase := strings.Join(args, " ")
			if entry.English == "" {
				entry.English = phrase
			}
			normalized := make(map[string]string, len(entry.Translations))
			for lang, text := range entry.Translations {
				normalized[desi.NormalizeLanguage(lang)] = text
			}
			entry.Translations = normalized

			if err := rules.AddIdiom(dir, phrase, entry); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Added idiom %s\n", desi.IdiomKey(phrase))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&entry.Meaning, "meaning", "", "what the idiom means (required)")
	f.StringToStringVar(&entry.Translations, "translation", nil, "translation per language, e.g. hindi=...")
	f.StringVar(&entry.Explanation, "explanation", "", "explanation")
	f.StringVar(&entry.Example, "example", "", "usage example")
	f.StringVar(&entry.CulturalNote, "cultural-note", "", "cultural note")
	f.Float64Var(&entry.Confidence, "confidence", 0, "confidence (default 0.9)")
	return cmd
}

func newRulesBackupCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [FILE]",
		Short: "Write dictionaries, grammar rules and idioms to one JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.rulesDir()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				return rules.Backup(dir, c.stdout)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating backup file: %w", err)
			}
			if err := rules.Backup(dir, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.stderr, "Backed up %s to %s\n", dir, args[0])
			return nil
		},
	}
}

func newRulesRestoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the tables of the rules directory with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.rulesDir()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0]) // #nosec G304 - CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer f.Close()

			if err := rules.Restore(dir, f); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Restored %s from %s\n", dir, args[0])
			return nil
		},
	}
}
