package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/cache"
	"github.com/desitranslate/desi/processor"
	"github.com/desitranslate/desi/rules"
	"github.com/desitranslate/desi/store"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

const rulesFetchTimeout = 30 * time.Second

// cli carries the state shared by all commands of one invocation.
type cli struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cache      *cache.InMemoryCache // set when --cache-file is given
	cacheDirty bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   desi.Name,
		Short: "Rule-based English to Indian language translation",
		Long: `desi translates English into Hindi, Telugu and Tamil with dictionary
lookup, part-of-speech tagging and SOV reordering. Every result explains
the substitution made for each word.`,
		Version:            desi.FullVersion(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  func(cmd *cobra.Command, _ []string) error { return c.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error { return c.teardown() },
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringP("source", "s", desi.English, "source language")
	pf.StringP("target", "t", "hindi", "target language (hindi, telugu, tamil, ...)")
	pf.String("rules-dir", "", "read rule tables from this directory instead of the built-in set")
	pf.String("rules-url", "", "fetch rule tables from this base URL")
	pf.String("tagger", desi.TaggerHeuristic, "part-of-speech tagger: heuristic or context")
	pf.StringP("output", "o", outputText, "output format: text, json or yaml")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("history", "", "record results in this SQLite database")
	pf.String("cache-file", "", "load the translation cache from this JSON file and save it afterwards")

	_ = c.v.BindPFlags(pf)
	c.v.SetEnvPrefix("DESI")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		newTranslateCmd(c),
		newDetailedCmd(c),
		newIdiomCmd(c),
		newSlangCmd(c),
		newHistoricalCmd(c),
		newSubtitleCmd(c),
		newRulesCmd(c),
		newCacheCmd(c),
		newServeCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	switch c.v.GetString("output") {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", c.v.GetString("output"))
	}
	if c.v.GetBool("no-color") {
		color.NoColor = true
	}

	path := c.v.GetString("cache-file")
	if path == "" {
		return nil
	}
	c.cache = cache.NewInMemoryCache(0)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := cache.NewImporter(c.cache).ImportFromFile(path); err != nil {
		return fmt.Errorf("loading cache file: %w", err)
	}
	return nil
}

func (c *cli) teardown() error {
	if c.cache == nil || !c.cacheDirty {
		return nil
	}
	meta := map[string]string{"target": desi.NormalizeLanguage(c.v.GetString("target"))}
	if err := cache.NewExporter(c.cache).ExportToFile(c.v.GetString("cache-file"), meta); err != nil {
		return fmt.Errorf("saving cache file: %w", err)
	}
	return nil
}

// ruleSource picks the rule source from --rules-dir, --rules-url or the
// embedded tables, in that order.
func (c *cli) ruleSource() rules.Source {
	if dir := c.v.GetString("rules-dir"); dir != "" {
		return rules.Dir(dir)
	}
	if u := c.v.GetString("rules-url"); u != "" {
		return rules.HTTP(u, &http.Client{Timeout: rulesFetchTimeout}, desi.DefaultRetryConfig())
	}
	return rules.Embedded()
}

func (c *cli) loadRules(ctx context.Context) (*desi.Rules, error) {
	return rules.Load(ctx, c.ruleSource())
}

func (c *cli) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func (c *cli) sourceLang() string { return desi.NormalizeLanguage(c.v.GetString("source")) }
func (c *cli) targetLang() string { return desi.NormalizeLanguage(c.v.GetString("target")) }

// translator loads the rules and builds a translator with the configured
// languages, tagger and cache.
func (c *cli) translator(ctx context.Context) (*desi.Translator, error) {
	r, err := c.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	opts := []desi.TranslatorOption{
		desi.WithSourceLang(c.sourceLang()),
		desi.WithTargetLang(c.targetLang()),
		desi.WithLogger(c.logger()),
		desi.WithProcessor(processor.NewHTMLProcessor()),
		desi.WithProcessor(processor.NewSRTProcessor()),
		desi.WithProcessor(processor.NewVTTProcessor()),
	}
	switch tagger := c.v.GetString("tagger"); tagger {
	case desi.TaggerHeuristic:
	case desi.TaggerContext:
		opts = append(opts, desi.WithTagger(desi.NewContextTagger(r.Grammar)))
	default:
		return nil, fmt.Errorf("unknown tagger %q (want heuristic or context)", tagger)
	}
	if c.cache != nil {
		opts = append(opts, desi.WithCache(c.cache))
		c.cacheDirty = true
	}
	return desi.NewTranslator(r, opts...), nil
}

// record appends recs to the --history database, if one is configured.
// Failures are reported as warnings.
func (c *cli) record(ctx context.Context, recs ...store.Record) {
	path := c.v.GetString("history")
	if path == "" {
		return
	}
	h, err := store.Open(path)
	if err != nil {
		c.warn("history: %v", err)
		return
	}
	defer h.Close()
	for _, rec := range recs {
		if _, err := h.Record(ctx, rec); err != nil {
			c.warn("history: %v", err)
			return
		}
	}
}

// readText joins args, or reads stdin when there are none.
func (c *cli) readText(args []string) (string, error) {
	var text string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(args, " ")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text given (pass it as arguments or on stdin)")
	}
	return text, nil
}
