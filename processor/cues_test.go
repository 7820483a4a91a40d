package processor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func cueAt(index int, startMs, endMs int, text string) Cue {
	return Cue{
		Index: index,
		Start: time.Duration(startMs) * time.Millisecond,
		End:   time.Duration(endMs) * time.Millisecond,
		Text:  text,
	}
}

func TestMergeShort(t *testing.T) {
	cues := []Cue{
		cueAt(1, 0, 300, "Hello"),
		cueAt(2, 300, 2000, "my friend"),
		cueAt(3, 2000, 4000, "Good morning"),
		cueAt(4, 4000, 4200, "Bye"), // last cue is never merged
	}
	cues[0].Translated = "नमस्ते"
	cues[1].Translated = "मेरे दोस्त"

	merged := MergeShort(cues, DefaultMinCueDuration)

	if len(merged) != 3 {
		t.Fatalf("got %d cues, want 3", len(merged))
	}
	first := merged[0]
	if first.Text != "Hello my friend" || first.End != 2*time.Second || first.Index != 1 {
		t.Errorf("merged cue = %+v", first)
	}
	if first.Translated != "नमस्ते मेरे दोस्त" {
		t.Errorf("Translated = %q", first.Translated)
	}
	if merged[2].Text != "Bye" {
		t.Errorf("last cue = %+v", merged[2])
	}
}

func TestMergeShort_DropsPartialTranslation(t *testing.T) {
	cues := []Cue{cueAt(1, 0, 100, "Hello"), cueAt(2, 100, 900, "friend")}
	cues[0].Translated = "नमस्ते"

	merged := MergeShort(cues, DefaultMinCueDuration)
	if merged[0].Translated != "" {
		t.Errorf("Translated = %q, want empty", merged[0].Translated)
	}
}

func TestSplitLong(t *testing.T) {
	long := cueAt(7, 1000, 5000, "")
	long.Translated = "मैं घर जाऊँगा। तुम स्कूल जाओगे। हम सब बहुत खुश हैं और कल फिर मिलेंगे।"
	short := cueAt(8, 5000, 6000, "Hello")

	out := SplitLong([]Cue{long, short}, 30)

	if len(out) < 3 {
		t.Fatalf("got %d cues: %+v", len(out), out)
	}
	for i, c := range out {
		if c.Index != i+1 {
			t.Errorf("cue %d has index %d", i, c.Index)
		}
	}
	if !strings.HasPrefix(out[0].Translated, "मैं घर जाऊँगा।") {
		t.Errorf("first piece = %q", out[0].Translated)
	}
	if out[0].Start != long.Start || out[0].End != long.End {
		t.Error("pieces should keep the cue timing")
	}
	last := out[len(out)-1]
	if last.Text != "Hello" {
		t.Errorf("short cue changed: %+v", last)
	}
}

func TestSplitLong_FullStops(t *testing.T) {
	c := cueAt(1, 0, 1000, "I love you. You love me. We are a happy family together.")

	out := SplitLong([]Cue{c}, 25)

	if len(out) != 2 {
		t.Fatalf("got %d pieces: %+v", len(out), out)
	}
	if out[0].Text != "I love you.\nYou love me." {
		t.Errorf("first piece = %q", out[0].Text)
	}
	if out[1].Text != "We are a happy family together." {
		t.Errorf("last piece = %q", out[1].Text)
	}
}

func TestSplitLong_SingleLongSentence(t *testing.T) {
	c := cueAt(1, 0, 1000, strings.Repeat("word ", 20))

	out := SplitLong([]Cue{c}, 10)
	if len(out) != 1 {
		t.Errorf("got %d pieces, want 1", len(out))
	}
}

func TestToJSON(t *testing.T) {
	cues := []Cue{cueAt(1, 1000, 2500, "Hello"), cueAt(2, 3000, 4000, "Water")}
	cues[0].Translated = "नमस्ते"
	cues[0].Confidence = 95

	data, err := ToJSON(cues)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var doc struct {
		Metadata struct {
			TotalEntries int    `json:"total_entries"`
			Format       string `json:"format"`
		} `json:"metadata"`
		Subtitles []map[string]any `json:"subtitles"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Metadata.TotalEntries != 2 || doc.Metadata.Format != JSONFormat {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	first := doc.Subtitles[0]
	if first["start_time"] != "00:00:01,000" || first["translated_text"] != "नमस्ते" {
		t.Errorf("first = %v", first)
	}
	if doc.Subtitles[1]["translated_text"] != nil {
		t.Errorf("untranslated cue should have null translated_text, got %v", doc.Subtitles[1]["translated_text"])
	}
}
