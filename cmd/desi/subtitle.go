package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/processor"
	"github.com/desitranslate/desi/store"
)

type subtitleOptions struct {
	out            string
	format         string
	previous       string
	previousOutput string
	mergeShort     time.Duration
	splitLong      int
	quiet          bool
}

func newSubtitleCmd(c *cli) *cobra.Command {
	var opts subtitleOptions
	cmd := &cobra.Command{
		Use:   "subtitle FILE",
		Short: "Translate an SRT or WebVTT subtitle file",
		Long: `Translate every cue of an SRT or WebVTT file. The format is detected from
the WEBVTT header.

With --previous the file is compared with an earlier version of the same
subtitles. Alone, it reports which cues changed. Together with
--previous-output (the translation of that earlier version) only new and
modified cues are translated and the rest are reused.`,
		Example: `  desi subtitle movie.srt -t telugu --out movie.te.srt
  desi subtitle movie.vtt --format json
  desi subtitle movie.srt --previous movie.v1.srt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubtitle(cmd.Context(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.out, "out", "", "write the result to this file instead of stdout")
	f.StringVar(&opts.format, "format", "", "output format: srt, vtt or json (default: input format)")
	f.StringVar(&opts.previous, "previous", "", "earlier version of the source file")
	f.StringVar(&opts.previousOutput, "previous-output", "", "translation of the earlier version, reused for unchanged cues")
	f.DurationVar(&opts.mergeShort, "merge-short", 0, "merge cues shorter than this into the next cue (e.g. 500ms)")
	f.IntVar(&opts.splitLong, "split-long", 0, "split translated cues longer than this many characters at sentence ends")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the summary on stderr")
	return cmd
}

func readSubtitles(path string) (*processor.Subtitles, error) {
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	subs, err := processor.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return subs, nil
}

func (c *cli) runSubtitle(ctx context.Context, path string, opts subtitleOptions) error {
	outFormat := processor.Format(strings.ToLower(opts.format))
	switch outFormat {
	case "", processor.FormatSRT, processor.FormatVTT, "json":
	default:
		return fmt.Errorf("unknown subtitle format %q (want srt, vtt or json)", opts.format)
	}
	if opts.previousOutput != "" && opts.previous == "" {
		return errors.New("--previous-output needs --previous")
	}

	subs, err := readSubtitles(path)
	if err != nil {
		return err
	}
	if outFormat == "" {
		outFormat = subs.Format
	}
	nodes := processor.CueNodes(subs.Cues)

	// Translations reused from the previous version, keyed by source hash.
	reused := make(map[string]string)
	if opts.previous != "" {
		old, err := readSubtitles(opts.previous)
		if err != nil {
			return err
		}
		diff := desi.DiffNodes(processor.CueNodes(old.Cues), nodes)
		if opts.previousOutput == "" {
			return c.reportDiff(filepath.Base(path), filepath.Base(opts.previous), diff)
		}
		prevOut, err := readSubtitles(opts.previousOutput)
		if err != nil {
			return err
		}
		if len(prevOut.Cues) != len(old.Cues) {
			return fmt.Errorf("%s has %d cues but %s has %d",
				filepath.Base(opts.previousOutput), len(prevOut.Cues), filepath.Base(opts.previous), len(old.Cues))
		}
		unchanged := make(map[string]bool, len(diff.Unchanged))
		for _, n := range diff.Unchanged {
			unchanged[n.Hash] = true
		}
		for i, cue := range old.Cues {
			hash := desi.HashText(cue.Flat())
			if unchanged[hash] && strings.TrimSpace(prevOut.Cues[i].Text) != "" {
				reused[hash] = prevOut.Cues[i].Text
			}
		}
	}

	tr, err := c.translator(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	results := make(map[string]desi.TranslationResult, len(nodes))
	var recs []store.Record
	for _, n := range nodes {
		if _, ok := reused[n.Hash]; ok {
			continue
		}
		if _, ok := results[n.Hash]; ok {
			continue
		}
		res := tr.Translate(ctx, n.Text, "", "")
		if err := ctx.Err(); err != nil {
			return err
		}
		results[n.Hash] = res
		recs = append(recs, store.FromResult(store.KindSubtitle, res))
	}

	for i := range subs.Cues {
		hash := desi.HashText(subs.Cues[i].Flat())
		if text, ok := reused[hash]; ok {
			subs.Cues[i].Translated = text
			continue
		}
		if res, ok := results[hash]; ok {
			subs.Cues[i].Translated = res.TranslatedText
			subs.Cues[i].Confidence = res.Confidence
		}
	}

	cues := subs.Cues
	if opts.mergeShort > 0 {
		cues = processor.MergeShort(cues, opts.mergeShort)
	}
	if opts.splitLong > 0 {
		cues = processor.SplitLong(cues, opts.splitLong)
	}
	out := &processor.Subtitles{Format: subs.Format, Cues: cues}

	var rendered []byte
	if outFormat == "json" {
		if rendered, err = processor.ToJSON(cues); err != nil {
			return err
		}
		rendered = append(rendered, '\n')
	} else {
		rendered = []byte(out.Render(outFormat))
	}

	if opts.out != "" {
		if err := os.WriteFile(opts.out, rendered, 0o644); err != nil { // #nosec G306 - subtitle output is not sensitive
			return fmt.Errorf("writing output: %w", err)
		}
	} else if _, err := c.stdout.Write(rendered); err != nil {
		return err
	}
	c.record(ctx, recs...)

	if !opts.quiet {
		fmt.Fprintf(c.stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(c.stderr, "  Cues:        %d\n", len(subs.Cues))
		fmt.Fprintf(c.stderr, "  Translated:  %d\n", len(results))
		fmt.Fprintf(c.stderr, "  Reused:      %d\n", len(reused))
		fmt.Fprintf(c.stderr, "  Written:     %d\n", len(cues))
	}
	return nil
}

type diffReport struct {
	InputFile        string         `json:"input_file"`
	PreviousFile     string         `json:"previous_file"`
	Stats            desi.DiffStats `json:"stats"`
	NeedsTranslation []string       `json:"needs_translation"`
	Added            []string       `json:"added,omitempty"`
	Removed          []string       `json:"removed,omitempty"`
	Modified         []modifiedCue  `json:"modified,omitempty"`
}

type modifiedCue struct {
	Timing string `json:"timing"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

func (c *cli) reportDiff(input, previous string, diff *desi.DiffResult) error {
	report := diffReport{
		InputFile:        input,
		PreviousFile:     previous,
		Stats:            diff.Stats(),
		NeedsTranslation: []string{},
	}
	for _, n := range diff.NeedsTranslation() {
		report.NeedsTranslation = append(report.NeedsTranslation, n.Text)
	}
	for _, n := range diff.Added {
		report.Added = append(report.Added, n.Text)
	}
	for _, n := range diff.Removed {
		report.Removed = append(report.Removed, n.Text)
	}
	for _, m := range diff.Modified {
		report.Modified = append(report.Modified, modifiedCue{Timing: m.New.Context, Old: m.Old.Text, New: m.New.Text})
	}

	return c.emit(report, func(w io.Writer) {
		fmt.Fprintf(w, "Diff: %s vs %s\n\n", input, previous)
		fmt.Fprintf(w, "  Unchanged: %d\n", report.Stats.Unchanged)
		fmt.Fprintf(w, "  Added:     %d\n", report.Stats.Added)
		fmt.Fprintf(w, "  Removed:   %d\n", report.Stats.Removed)
		fmt.Fprintf(w, "  Modified:  %d\n\n", report.Stats.Modified)

		if !diff.HasChanges() {
			fmt.Fprintln(w, "No changes detected. All translations are up to date.")
			return
		}
		fmt.Fprintf(w, "Needs translation: %d cues\n\n", len(report.NeedsTranslation))
		for _, text := range report.Added {
			fmt.Fprintf(w, "  %s %q\n", color.GreenString("+"), truncate(text, 50))
		}
		for _, m := range report.Modified {
			fmt.Fprintf(w, "  %s %q -> %q\n", color.YellowString("~"), truncate(m.Old, 30), truncate(m.New, 30))
		}
		for _, text := range report.Removed {
			fmt.Fprintf(w, "  %s %q\n", color.RedString("-"), truncate(text, 50))
		}
	})
}
