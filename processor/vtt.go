package processor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ParseVTT parses WebVTT content. The WEBVTT header is required; cue
// identifiers are kept, cue settings after the end time are dropped, and
// NOTE, STYLE and REGION blocks are skipped. Cues are numbered from 1.
func ParseVTT(content string) (*Subtitles, error) {
	blocks := splitBlocks(content)
	if len(blocks) == 0 || !strings.HasPrefix(blocks[0][0], "WEBVTT") {
		return nil, errors.New("missing WEBVTT header")
	}

	subs := &Subtitles{Format: FormatVTT}
	for _, lines := range blocks[1:] {
		timing := 0
		if !strings.Contains(lines[0], "-->") {
			if len(lines) < 2 || !strings.Contains(lines[1], "-->") {
				continue
			}
			timing = 1
		}
		if len(lines) <= timing+1 {
			continue
		}
		start, end, err := parseTiming(lines[timing])
		if err != nil {
			continue
		}
		cue := Cue{
			Index: len(subs.Cues) + 1,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[timing+1:], "\n"),
		}
		if timing == 1 {
			cue.ID = lines[0]
		}
		subs.Cues = append(subs.Cues, cue)
	}
	if len(subs.Cues) == 0 && len(blocks) > 1 {
		return nil, ErrNoCues
	}
	return subs, nil
}

func writeVTT(buf *bytes.Buffer, cues []Cue) {
	buf.WriteString("WEBVTT\n")
	for _, c := range cues {
		buf.WriteByte('\n')
		if c.ID != "" {
			buf.WriteString(c.ID + "\n")
		}
		fmt.Fprintf(buf, "%s --> %s\n%s\n",
			FormatTimestamp(c.Start, '.'), FormatTimestamp(c.End, '.'), c.Output())
	}
}
