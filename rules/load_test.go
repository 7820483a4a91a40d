package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desitranslate/desi"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// minimalDir writes the three required tables.
func minimalDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "dictionaries.json", `{"en_hindi": {"water": {"word": "पानी", "pos": "noun", "confidence": 0.95}}}`)
	writeFile(t, dir, "grammar_rules.json", `{"word_order": {"hindi": {"order": "SOV"}}}`)
	writeFile(t, dir, "idioms.json", `{"idioms": {}}`)
	return dir
}

func TestLoad_Embedded(t *testing.T) {
	r, err := Load(context.Background(), Embedded())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, pair := range []string{"en_hindi", "en_telugu", "en_tamil"} {
		if len(r.Dictionaries[pair]) == 0 {
			t.Errorf("pair %s is empty", pair)
		}
	}
	if _, ok := r.Dictionaries["metadata"]; ok {
		t.Error("metadata should not be decoded as a language pair")
	}

	water := r.Dictionaries["en_hindi"]["water"]
	if water.Word != "पानी" || water.POS != desi.POSNoun {
		t.Errorf("en_hindi water = %+v", water)
	}
	if !r.Grammar.UsesSOV("telugu") || r.Grammar.UsesSOV("en") {
		t.Error("unexpected word orders")
	}
	if len(r.Grammar.Auxiliaries) == 0 {
		t.Error("expected auxiliaries")
	}
	if r.Idioms["break_the_ice"].Translations["hindi"] == "" {
		t.Error("expected hindi translation of break_the_ice")
	}
	if r.Slang["gr8"] != "great" {
		t.Errorf("slang gr8 = %q", r.Slang["gr8"])
	}
	if r.Historical["'tis"] != "it is" {
		t.Errorf("historical 'tis = %q", r.Historical["'tis"])
	}
}

func TestDefault(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Error("Default() should return the shared rules")
	}
	if len(a.Dictionaries["en_hindi"]) == 0 {
		t.Error("Default() has no en_hindi dictionary")
	}
}

func TestLoad_Dir(t *testing.T) {
	dir := minimalDir(t)

	r, err := Load(context.Background(), Dir(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if r.Dictionaries["en_hindi"]["water"].Word != "पानी" {
		t.Errorf("unexpected dictionaries: %+v", r.Dictionaries)
	}
	// optional tables come from the embedded defaults
	if r.Slang["brb"] != "be right back" {
		t.Errorf("expected embedded slang, got %q", r.Slang["brb"])
	}
	if len(r.Historical) == 0 {
		t.Error("expected embedded historical table")
	}
}

func TestLoad_ComprehensiveWins(t *testing.T) {
	dir := minimalDir(t)
	writeFile(t, dir, "dictionaries_comprehensive.json", `{"en_hindi": {"water": {"word": "जल"}}}`)

	r, err := Load(context.Background(), Dir(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := r.Dictionaries["en_hindi"]["water"].Word; got != "जल" {
		t.Errorf("water = %q, want जल", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dictionaries.yaml", `
en_tamil:
  book:
    word: புத்தகம்
    pos: noun
    confidence: 0.9
`)
	writeFile(t, dir, "grammar_rules.yml", `
word_order:
  tamil:
    order: sov
auxiliary_verb_rules:
  english_auxiliaries: [Will, is]
`)
	writeFile(t, dir, "idioms.yaml", `
idioms:
  Piece Of Cake:
    english: a piece of cake
    meaning: something very easy
    tamil: மிகவும் எளிது
`)
	writeFile(t, dir, "slang.yaml", "entries:\n  gr8: great\n")

	r, err := Load(context.Background(), Dir(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if r.Dictionaries["en_tamil"]["book"].Word != "புத்தகம்" {
		t.Errorf("unexpected dictionaries: %+v", r.Dictionaries)
	}
	if r.Grammar.WordOrder["tamil"] != desi.OrderSOV {
		t.Errorf("tamil order = %q", r.Grammar.WordOrder["tamil"])
	}
	if len(r.Grammar.Auxiliaries) != 2 || r.Grammar.Auxiliaries[0] != "will" {
		t.Errorf("auxiliaries = %v", r.Grammar.Auxiliaries)
	}
	if r.Idioms["piece_of_cake"].Translations["tamil"] != "மிகவும் எளிது" {
		t.Errorf("idioms = %+v", r.Idioms)
	}
	if len(r.Slang) != 1 {
		t.Errorf("slang = %v, want only the file's entries", r.Slang)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	dir := minimalDir(t)
	os.Remove(filepath.Join(dir, "idioms.json"))

	_, err := Load(context.Background(), Dir(dir))

	var loadErr *desi.RuleLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected RuleLoadError, got %v", err)
	}
	if loadErr.Table != TableIdioms {
		t.Errorf("Table = %q, want %q", loadErr.Table, TableIdioms)
	}
	if !errors.Is(err, ErrTableMissing) {
		t.Error("expected ErrTableMissing cause")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := minimalDir(t)
	writeFile(t, dir, "grammar_rules.json", `{"word_order": `)

	_, err := Load(context.Background(), Dir(dir))

	var loadErr *desi.RuleLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected RuleLoadError, got %v", err)
	}
	if loadErr.Table != TableGrammar {
		t.Errorf("Table = %q", loadErr.Table)
	}
	if loadErr.Path != filepath.Join(dir, "grammar_rules.json") {
		t.Errorf("Path = %q", loadErr.Path)
	}
}

func TestDecodeDictionaries_Defaults(t *testing.T) {
	data := []byte(`{
		"metadata": "v2",
		"en_hindi": {
			"Water": {"word": "पानी", "pos": "Noun"},
			"run": {"word": "दौड़ना", "pos": "gerund", "rule": "Verb root", "confidence": 1.7},
			"odd": {"word": "अजीब", "confidence": -0.2},
			"ghost": {"pos": "noun"}
		}
	}`)

	dicts, err := decodeDictionaries(data)
	if err != nil {
		t.Fatalf("decodeDictionaries() error = %v", err)
	}
	if len(dicts) != 1 {
		t.Fatalf("got %d pairs, want 1", len(dicts))
	}
	d := dicts["en_hindi"]

	water := d["water"]
	if water.POS != desi.POSNoun || water.Rule != desi.DefaultEntryRule || water.Confidence != desi.DefaultEntryConfidence {
		t.Errorf("water = %+v", water)
	}
	if run := d["run"]; run.POS != desi.POSUnknown || run.Confidence != 1 || run.Rule != "Verb root" {
		t.Errorf("run = %+v", run)
	}
	if odd := d["odd"]; odd.Confidence != 0 || odd.POS != desi.POSUnknown {
		t.Errorf("odd = %+v", odd)
	}
	if _, ok := d["ghost"]; ok {
		t.Error("entries without a target word should be skipped")
	}
}

func TestDecodeIdioms(t *testing.T) {
	flat := []byte(`{
		"under the weather": {
			"english_meaning": "feeling ill",
			"telugu_meaning": "ఆరోగ్యం బాగాలేదు",
			"translations": {"hi": "तबीयत ठीक न होना"},
			"origin": "nautical",
			"confidence": 0.87
		}
	}`)

	table, err := decodeIdioms(flat)
	if err != nil {
		t.Fatalf("decodeIdioms() error = %v", err)
	}

	e, ok := table["under_the_weather"]
	if !ok {
		t.Fatalf("key not normalized: %v", table)
	}
	if e.English != "under the weather" {
		t.Errorf("English = %q", e.English)
	}
	if e.Meaning != "feeling ill" || e.CulturalNote != "nautical" || e.Confidence != 0.87 {
		t.Errorf("entry = %+v", e)
	}
	if e.Translations["hindi"] != "तबीयत ठीक न होना" {
		t.Errorf("hindi = %q", e.Translations["hindi"])
	}
	if e.Translations["telugu_meaning"] != "ఆరోగ్యం బాగాలేదు" {
		t.Errorf("telugu_meaning = %q", e.Translations["telugu_meaning"])
	}

	res := desi.TranslateIdiom(table, "under the weather", "te")
	if res.Translation != "ఆరోగ్యం బాగాలేదు" {
		t.Errorf("TranslateIdiom() translation = %q", res.Translation)
	}
}

func TestDecodeIdioms_DefaultConfidence(t *testing.T) {
	table, err := decodeIdioms([]byte(`{"idioms": {"spill_the_beans": {"meaning": "reveal a secret"}}}`))
	if err != nil {
		t.Fatalf("decodeIdioms() error = %v", err)
	}
	if got := table["spill_the_beans"].Confidence; got != desi.DefaultIdiomConfidence {
		t.Errorf("Confidence = %v, want %v", got, desi.DefaultIdiomConfidence)
	}
}

func TestDecodeLexical(t *testing.T) {
	table, err := decodeLexical([]byte(`{"metadata": {"v": 1}, "U": "you", "n": 3}`))
	if err != nil {
		t.Fatalf("decodeLexical() error = %v", err)
	}
	if len(table) != 1 || table["u"] != "you" {
		t.Errorf("table = %v", table)
	}
}
