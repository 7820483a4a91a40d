package processor

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoCues is returned when non-blank content holds no parseable cue.
var ErrNoCues = errors.New("no subtitle cues found")

// ParseSRT parses SubRip content. Blocks are an index line, a timing line and
// one or more text lines; malformed blocks are skipped.
func ParseSRT(content string) (*Subtitles, error) {
	subs := &Subtitles{Format: FormatSRT}
	blocks := splitBlocks(content)
	for _, lines := range blocks {
		if len(lines) < 3 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		start, end, err := parseTiming(lines[1])
		if err != nil {
			continue
		}
		subs.Cues = append(subs.Cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	if len(subs.Cues) == 0 && len(blocks) > 0 {
		return nil, ErrNoCues
	}
	return subs, nil
}

func writeSRT(buf *bytes.Buffer, cues []Cue) {
	for i, c := range cues {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "%d\n%s\n%s\n", c.Index, c.Timing(), c.Output())
	}
}
