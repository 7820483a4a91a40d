package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// emit writes v as JSON or YAML, or calls text for the text format.
func (c *cli) emit(v any, text func(w io.Writer)) error {
	switch c.v.GetString("output") {
	case outputJSON:
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case outputYAML:
		return writeYAML(c.stdout, v)
	default:
		text(c.stdout)
		return nil
	}
}

// writeYAML goes through JSON so field names match the json tags.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (c *cli) warn(format string, args ...any) {
	fmt.Fprintf(c.stderr, "%s %s\n", color.YellowString("warning:"), fmt.Sprintf(format, args...))
}

// confidence formats v, green when high, yellow when middling, red below 0.5.
func confidence(v float64) string {
	return shade(fmt.Sprintf("%.2f", v), v)
}

// score colors a 0-100 sentence score.
func score(v float64) string {
	return shade(fmt.Sprintf("%.1f", v), v/100)
}

func shade(s string, v float64) string {
	switch {
	case v >= 0.8:
		return color.GreenString(s)
	case v >= 0.5:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// table writes columns aligned by display width, so Devanagari, Telugu and
// Tamil cells line up with Latin ones.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	widths := make([]int, len(t.header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}

	line := func(row []string, style func(string, ...interface{}) string) {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(widths) && i < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			cells[i] = cell
		}
		fmt.Fprintln(w, style("%s", strings.TrimRight(strings.Join(cells, "  "), " ")))
	}
	line(t.header, color.New(color.Bold).Sprintf)
	for _, row := range t.rows {
		line(row, fmt.Sprintf)
	}
}

// truncate shortens s to width display columns.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
