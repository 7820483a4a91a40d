package processor

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desitranslate/desi"
)

// Format is a subtitle file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// Cue is one timed subtitle entry.
type Cue struct {
	Index      int           `json:"index"`
	ID         string        `json:"id,omitempty"` // WebVTT cue identifier
	Start      time.Duration `json:"-"`
	End        time.Duration `json:"-"`
	Text       string        `json:"original_text"` // lines joined with "\n"
	Translated string        `json:"translated_text,omitempty"`
	Confidence float64       `json:"confidence"`
}

// Duration returns End - Start.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Flat returns the cue text with its lines joined by single spaces, the form
// that is hashed and translated.
func (c Cue) Flat() string {
	return strings.Join(strings.Fields(c.Text), " ")
}

// Output returns the translated text, or the original when there is none.
func (c Cue) Output() string {
	if c.Translated != "" {
		return c.Translated
	}
	return c.Text
}

// Timing renders the cue time range in SRT notation.
func (c Cue) Timing() string {
	return FormatTimestamp(c.Start, ',') + " --> " + FormatTimestamp(c.End, ',')
}

// Subtitles is a parsed subtitle document.
type Subtitles struct {
	Format Format
	Cues   []Cue
}

// ParseTimestamp parses "HH:MM:SS,mmm", "HH:MM:SS.mmm" or the WebVTT short
// form "MM:SS.mmm".
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	main, frac, ok := strings.Cut(strings.Replace(s, ",", ".", 1), ".")
	if !ok || len(frac) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	fields := strings.Split(main, ":")
	if len(fields) == 2 {
		fields = append([]string{"0"}, fields...)
	}
	if len(fields) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var parts [4]int
	for i, f := range append(fields, frac) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		parts[i] = n
	}
	if parts[1] > 59 || parts[2] > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3])*time.Millisecond, nil
}

// FormatTimestamp renders d as HH:MM:SS<sep>mmm.
func FormatTimestamp(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d%c%03d",
		ms/3_600_000, ms/60_000%60, ms/1000%60, sep, ms%1000)
}

// parseTiming parses "start --> end [settings]". Settings are dropped.
func parseTiming(line string) (start, end time.Duration, err error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing --> in %q", line)
	}
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in %q", line)
	}
	if start, err = ParseTimestamp(left); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(fields[0]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// splitBlocks normalizes line endings and splits on blank lines.
func splitBlocks(content string) [][]string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t"))
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// Parse detects the format from a leading WEBVTT header.
func Parse(content string) (*Subtitles, error) {
	if strings.HasPrefix(strings.TrimPrefix(content, "\ufeff"), "WEBVTT") {
		return ParseVTT(content)
	}
	return ParseSRT(content)
}

// Render writes the document in the given format.
func (s *Subtitles) Render(format Format) string {
	var buf bytes.Buffer
	switch format {
	case FormatVTT:
		writeVTT(&buf, s.Cues)
	default:
		writeSRT(&buf, s.Cues)
	}
	return buf.String()
}

// SubtitleProcessor translates SRT or WebVTT content cue by cue.
type SubtitleProcessor struct {
	format Format
}

// NewSRTProcessor creates a processor for SRT content.
func NewSRTProcessor() *SubtitleProcessor {
	return &SubtitleProcessor{format: FormatSRT}
}

// NewVTTProcessor creates a processor for WebVTT content.
func NewVTTProcessor() *SubtitleProcessor {
	return &SubtitleProcessor{format: FormatVTT}
}

// ContentType returns "srt" or "vtt".
func (p *SubtitleProcessor) ContentType() string {
	return string(p.format)
}

func (p *SubtitleProcessor) parse(content string) (*Subtitles, error) {
	if p.format == FormatVTT {
		return ParseVTT(content)
	}
	return ParseSRT(content)
}

// Extract returns one node per cue with text. Node IDs are cue indices and
// the context is the cue timing.
func (p *SubtitleProcessor) Extract(content string) (interface{}, []desi.TextNode, error) {
	subs, err := p.parse(content)
	if err != nil {
		return nil, nil, &desi.ProcessorError{
			Message:     "failed to parse subtitles",
			Cause:       err,
			ContentType: p.ContentType(),
		}
	}
	return subs, CueNodes(subs.Cues), nil
}

// CueNodes converts cues to text nodes.
func CueNodes(cues []Cue) []desi.TextNode {
	nodes := make([]desi.TextNode, 0, len(cues))
	for _, c := range cues {
		flat := c.Flat()
		if flat == "" {
			continue
		}
		nodes = append(nodes, desi.TextNode{
			ID:       strconv.Itoa(c.Index),
			Text:     flat,
			Hash:     desi.HashText(flat),
			NodeType: NodeCue,
			Context:  c.Timing(),
			Metadata: map[string]string{"cue_id": c.ID},
		})
	}
	return nodes
}

// Apply sets the translation of every cue whose text has one and renders
// the document in the processor's format.
func (p *SubtitleProcessor) Apply(parsed interface{}, nodes []desi.TextNode, translations map[string]string) (string, error) {
	subs, ok := parsed.(*Subtitles)
	if !ok {
		return "", &desi.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: p.ContentType(),
		}
	}
	for i := range subs.Cues {
		if tr, ok := translations[desi.HashText(subs.Cues[i].Flat())]; ok {
			subs.Cues[i].Translated = tr
		}
	}
	return subs.Render(p.format), nil
}

var _ ContentProcessor = (*SubtitleProcessor)(nil)
