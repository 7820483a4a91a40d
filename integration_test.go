package desi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/cache"
	"github.com/desitranslate/desi/processor"
	"github.com/desitranslate/desi/rules"
)

// Integration tests using the bundled rule tables and real components

func loadRules(t testing.TB) *desi.Rules {
	t.Helper()
	r, err := rules.Load(context.Background(), rules.Embedded())
	if err != nil {
		t.Fatalf("loading embedded rules: %v", err)
	}
	return r
}

func TestIntegration_BasicTranslation(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t))

	tests := []struct {
		target   string
		expected string
	}{
		{"hi", "मैं तुम्हें प्यार करता हूँ"},
		{"telugu", "నేను నిన్ను ప్రేమిస్తున్నాను"},
		{"ta", "நான் உன்னை நேசிக்கிறேன்"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			res := tr.Translate(context.Background(), "I love you", "en", tt.target)
			if res.TranslatedText != tt.expected {
				t.Errorf("TranslatedText = %q, want %q", res.TranslatedText, tt.expected)
			}
			if res.Mode != desi.ModeValidated {
				t.Errorf("Mode = %q (%s)", res.Mode, res.Error)
			}
			if res.Reordering == nil || res.Reordering.TargetOrder != desi.OrderSOV {
				t.Errorf("Reordering = %+v", res.Reordering)
			}
		})
	}
}

func TestIntegration_UnknownWordsPassThrough(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t))

	res := tr.Translate(context.Background(), "Hello Zorblax", "en", "hindi")

	if !strings.Contains(res.TranslatedText, "नमस्ते") || !strings.Contains(res.TranslatedText, "Zorblax") {
		t.Errorf("TranslatedText = %q", res.TranslatedText)
	}
	if res.Confidence >= 100 {
		t.Errorf("Confidence = %v, want below 100 with an unknown word", res.Confidence)
	}
}

func TestIntegration_Detailed(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t))

	res := tr.TranslateDetailed(context.Background(), "I love you", "en", "hindi")

	if res.TranslatedText != "मैं तुम्हें प्यार करता हूँ" {
		t.Errorf("TranslatedText = %q", res.TranslatedText)
	}
	if len(res.WordExplanations) != 3 {
		t.Errorf("got %d word analyses, want 3", len(res.WordExplanations))
	}
}

func TestIntegration_LexicalTables(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t))

	if got := tr.TranslateIdiom("Break the ice", "hi"); got.Translation != "बातचीत शुरू करना" {
		t.Errorf("TranslateIdiom() = %+v", got)
	}
	if got := tr.NormalizeSlang("gr8 news"); got.NormalizedText != "great news" {
		t.Errorf("NormalizeSlang() = %+v", got)
	}
}

func TestIntegration_HTML(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t),
		desi.WithCache(cache.NewInMemoryCache(3600)),
		desi.WithProcessor(processor.NewHTMLProcessor()),
	)

	html := `<html><body><p>I love you</p><img alt="water" src="w.png"></body></html>`
	result, err := tr.ProcessHTML(context.Background(), html)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if !strings.Contains(result.Content, "मैं तुम्हें प्यार करता हूँ") {
		t.Errorf("expected translated paragraph, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, `alt="पानी"`) {
		t.Errorf("expected translated alt text, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, `lang="hi-IN"`) {
		t.Errorf("expected lang attribute, got: %s", result.Content)
	}
	if result.TranslatedCount != 2 || result.TotalNodes != 2 {
		t.Errorf("counts = %+v", result)
	}
}

func TestIntegration_CacheHit(t *testing.T) {
	c := cache.NewInMemoryCache(3600)
	tr := desi.NewTranslator(loadRules(t),
		desi.WithCache(c),
		desi.WithProcessor(processor.NewHTMLProcessor()),
	)

	html := `<p>Hello</p>`

	result1, err := tr.ProcessHTML(context.Background(), html)
	if err != nil {
		t.Fatal(err)
	}
	if result1.TranslatedCount != 1 || result1.CachedCount != 0 {
		t.Errorf("First call: expected 1 translated, 0 cached; got %d, %d",
			result1.TranslatedCount, result1.CachedCount)
	}

	result2, err := tr.ProcessHTML(context.Background(), html)
	if err != nil {
		t.Fatal(err)
	}
	if result2.TranslatedCount != 0 || result2.CachedCount != 1 {
		t.Errorf("Second call: expected 0 translated, 1 cached; got %d, %d",
			result2.TranslatedCount, result2.CachedCount)
	}
	if result1.Content != result2.Content {
		t.Errorf("cached output differs:\n%s\n%s", result1.Content, result2.Content)
	}

	// a different target language does not share entries
	other, err := tr.ProcessLang(context.Background(), html, "html", "en", "tamil")
	if err != nil {
		t.Fatal(err)
	}
	if other.CachedCount != 0 || !strings.Contains(other.Content, "வணக்கம்") {
		t.Errorf("tamil = %+v", other)
	}
}

func TestIntegration_IgnoredTags(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t), desi.WithProcessor(processor.NewHTMLProcessor()))

	html := `<div><p>water</p><script>var water = 1;</script><code>water</code><p data-no-translate>water</p></div>`
	result, err := tr.ProcessHTML(context.Background(), html)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if result.TotalNodes != 1 {
		t.Errorf("TotalNodes = %d, want 1", result.TotalNodes)
	}
	if !strings.Contains(result.Content, "var water = 1;") || !strings.Contains(result.Content, "<code>water</code>") {
		t.Errorf("ignored content changed: %s", result.Content)
	}
	if !strings.Contains(result.Content, "<p data-no-translate=\"\">water</p>") {
		t.Errorf("opted-out paragraph changed: %s", result.Content)
	}
}

func TestIntegration_RTLTarget(t *testing.T) {
	r := loadRules(t)
	r.Dictionaries["en_urdu"] = desi.Dictionary{
		"water": {Word: "پانی", POS: desi.POSNoun, Rule: desi.DefaultEntryRule, Confidence: 0.9},
	}
	tr := desi.NewTranslator(r, desi.WithTargetLang("ur"), desi.WithProcessor(processor.NewHTMLProcessor()))

	result, err := tr.ProcessHTML(context.Background(), `<html><head></head><body><p>water</p></body></html>`)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}
	if !strings.Contains(result.Content, `dir="rtl"`) || !strings.Contains(result.Content, "پانی") {
		t.Errorf("Content = %s", result.Content)
	}
}

func TestIntegration_Subtitles(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t),
		desi.WithCache(cache.NewInMemoryCache(3600)),
		desi.WithProcessor(processor.NewSRTProcessor()),
		desi.WithProcessor(processor.NewVTTProcessor()),
	)

	srt := "1\n00:00:01,000 --> 00:00:02,500\nI love you\n\n2\n00:00:03,000 --> 00:00:04,000\nwater\n"
	result, err := tr.Process(context.Background(), srt, "srt")
	if err != nil {
		t.Fatalf("Process(srt) failed: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,500\nमैं तुम्हें प्यार करता हूँ\n\n2\n00:00:03,000 --> 00:00:04,000\nपानी\n"
	if result.Content != want {
		t.Errorf("Content = %q, want %q", result.Content, want)
	}

	vtt := "WEBVTT\n\n00:01.000 --> 00:02.000\nwater\n"
	result, err = tr.ProcessLang(context.Background(), vtt, "vtt", "en", "telugu")
	if err != nil {
		t.Fatalf("Process(vtt) failed: %v", err)
	}
	if result.Content != "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nనీళ్ళు\n" {
		t.Errorf("Content = %q", result.Content)
	}
}

func TestIntegration_SubtitleBatch(t *testing.T) {
	tr := desi.NewTranslator(loadRules(t))

	lines, err := tr.TranslateSubtitleBatch(context.Background(), []string{"hello friend", "", "good morning"}, "hindi")
	if err != nil {
		t.Fatalf("TranslateSubtitleBatch() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0].Translated, "नमस्ते") {
		t.Errorf("line 0 = %+v", lines[0])
	}
}
