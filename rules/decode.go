package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desitranslate/desi"
)

// metadataKey is ignored wherever it appears at the top level of a table.
const metadataKey = "metadata"

// normalize converts YAML input to JSON so one decoder serves both formats.
func normalize(name string, data []byte) ([]byte, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
	return data, nil
}

// rawEntry is a dictionary record as stored. Confidence is a pointer so an
// absent value can be told apart from an explicit zero.
type rawEntry struct {
	Word       string   `json:"word"`
	POS        string   `json:"pos"`
	Rule       string   `json:"rule"`
	Meaning    string   `json:"meaning"`
	Confidence *float64 `json:"confidence"`
}

func (r rawEntry) entry() desi.DictionaryEntry {
	pos, _ := desi.ParsePOSTag(r.POS)
	e := desi.DictionaryEntry{
		Word:       r.Word,
		POS:        pos,
		Rule:       r.Rule,
		Meaning:    r.Meaning,
		Confidence: desi.DefaultEntryConfidence,
	}
	if e.Rule == "" {
		e.Rule = desi.DefaultEntryRule
	}
	if r.Confidence != nil {
		e.Confidence = clamp(*r.Confidence)
	}
	return e
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// isObject reports whether raw holds a JSON object.
func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeDictionaries decodes {"<src>_<tgt>": {"<word>": entry}}. Non-object
// pair values and records without a target word are skipped.
func decodeDictionaries(data []byte) (desi.Dictionaries, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	dicts := make(desi.Dictionaries, len(top))
	for pair, raw := range top {
		if pair == metadataKey || !isObject(raw) {
			continue
		}
		var records map[string]rawEntry
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("pair %s: %w", pair, err)
		}
		dict := make(desi.Dictionary, len(records))
		for word, rec := range records {
			if rec.Word == "" {
				continue
			}
			dict[strings.ToLower(strings.TrimSpace(word))] = rec.entry()
		}
		dicts[strings.ToLower(pair)] = dict
	}
	return dicts, nil
}

type grammarFile struct {
	POSTags   map[string]desi.POSRule `json:"pos_tags"`
	WordOrder map[string]struct {
		Order string `json:"order"`
	} `json:"word_order"`
	AuxiliaryVerbRules struct {
		EnglishAuxiliaries []string `json:"english_auxiliaries"`
	} `json:"auxiliary_verb_rules"`
	POSHeuristics desi.Heuristics `json:"pos_heuristics"`
}

func decodeGrammar(data []byte) (desi.GrammarRules, error) {
	var f grammarFile
	if err := json.Unmarshal(data, &f); err != nil {
		return desi.GrammarRules{}, err
	}

	g := desi.GrammarRules{
		POSTags:     make(map[desi.POSTag]desi.POSRule, len(f.POSTags)),
		WordOrder:   make(map[string]desi.WordOrder, len(f.WordOrder)),
		Auxiliaries: lowerAll(f.AuxiliaryVerbRules.EnglishAuxiliaries),
		Heuristics:  f.POSHeuristics,
	}
	for name, rule := range f.POSTags {
		tag, ok := desi.ParsePOSTag(name)
		if !ok {
			continue
		}
		g.POSTags[tag] = rule
	}
	for lang, wo := range f.WordOrder {
		order := desi.WordOrder(strings.ToUpper(strings.TrimSpace(wo.Order)))
		if order == "" {
			continue
		}
		g.WordOrder[strings.ToLower(lang)] = order
	}
	return g, nil
}

func lowerAll(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// idiomFields are the non-translation fields of an idiom record.
var idiomFields = map[string]bool{
	"english":         true,
	"meaning":         true,
	"english_meaning": true,
	"explanation":     true,
	"example":         true,
	"cultural_note":   true,
	"origin":          true,
	"confidence":      true,
	"translations":    true,
}

// decodeIdioms accepts {"idioms": {key: record}} and, as written by older
// tooling, a flat {key: record} object.
func decodeIdioms(data []byte) (desi.IdiomTable, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	records := top
	if inner, ok := top["idioms"]; ok && isObject(inner) {
		records = nil
		if err := json.Unmarshal(inner, &records); err != nil {
			return nil, fmt.Errorf("idioms: %w", err)
		}
	}

	table := make(desi.IdiomTable, len(records))
	for key, raw := range records {
		if key == metadataKey || !isObject(raw) {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("idiom %s: %w", key, err)
		}
		e := idiomEntry(fields)
		e.Key = desi.IdiomKey(key)
		if e.English == "" {
			e.English = strings.ReplaceAll(e.Key, "_", " ")
		}
		table[e.Key] = e
	}
	return table, nil
}

func idiomEntry(fields map[string]any) desi.IdiomEntry {
	str := func(k string) string {
		s, _ := fields[k].(string)
		return s
	}

	e := desi.IdiomEntry{
		English:      str("english"),
		Meaning:      str("meaning"),
		Explanation:  str("explanation"),
		Example:      str("example"),
		CulturalNote: str("cultural_note"),
		Confidence:   desi.DefaultIdiomConfidence,
		Translations: make(map[string]string),
	}
	if e.Meaning == "" {
		e.Meaning = str("english_meaning")
	}
	if e.CulturalNote == "" {
		e.CulturalNote = str("origin")
	}
	if c, ok := fields["confidence"].(float64); ok {
		e.Confidence = clamp(c)
	}

	if nested, ok := fields["translations"].(map[string]any); ok {
		for lang, v := range nested {
			if s, ok := v.(string); ok {
				e.Translations[desi.NormalizeLanguage(lang)] = s
			}
		}
	}
	for k, v := range fields {
		s, ok := v.(string)
		if !ok || idiomFields[k] {
			continue
		}
		if base, found := strings.CutSuffix(k, "_meaning"); found {
			e.Translations[desi.NormalizeLanguage(base)+"_meaning"] = s
			continue
		}
		e.Translations[desi.NormalizeLanguage(k)] = s
	}
	return e
}

// decodeLexical accepts {"entries": {token: text}} or a flat object.
func decodeLexical(data []byte) (desi.LexicalTable, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	records := top
	if inner, ok := top["entries"]; ok && isObject(inner) {
		records = nil
		if err := json.Unmarshal(inner, &records); err != nil {
			return nil, fmt.Errorf("entries: %w", err)
		}
	}

	table := make(desi.LexicalTable, len(records))
	for token, raw := range records {
		var s string
		if token == metadataKey || json.Unmarshal(raw, &s) != nil {
			continue
		}
		table[strings.ToLower(token)] = s
	}
	return table, nil
}
