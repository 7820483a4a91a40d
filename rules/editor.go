package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desitranslate/desi"
)

// editableFile returns the JSON file Load would read for table in dir, or
// the plain "<table>.json" when none exists yet.
func editableFile(dir, table string) (string, error) {
	for _, name := range Candidates(table) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			if filepath.Ext(name) != ".json" {
				return "", fmt.Errorf("%s: only JSON tables can be edited", p)
			}
			return p, nil
		}
	}
	return filepath.Join(dir, table+".json"), nil
}

func readObject(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path) // #nosec G304 - rules directory is operator-provided
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, err
	}
	obj := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return obj, nil
}

// writeJSON writes v through a temporary file so a failed write never leaves
// a truncated table behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".desi-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// AddWord adds or replaces a dictionary entry for word in the pair table
// ("en_hindi") of the rules directory.
func AddWord(dir, pair, word string, entry desi.DictionaryEntry) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || entry.Word == "" {
		return errors.New("word and translation are required")
	}
	if entry.POS == "" {
		entry.POS = desi.POSNoun
	}
	if entry.Rule == "" {
		entry.Rule = desi.DefaultEntryRule
	}
	if entry.Confidence == 0 {
		entry.Confidence = desi.DefaultEntryConfidence
	}

	path, err := editableFile(dir, TableDictionaries)
	if err != nil {
		return err
	}
	top, err := readObject(path)
	if err != nil {
		return err
	}

	words := make(map[string]json.RawMessage)
	if raw, ok := top[pair]; ok {
		if err := json.Unmarshal(raw, &words); err != nil {
			return fmt.Errorf("pair %s: %w", pair, err)
		}
	}
	if words[word], err = json.Marshal(entry); err != nil {
		return err
	}
	if top[pair], err = json.Marshal(words); err != nil {
		return err
	}
	return writeJSON(path, top)
}

// AddIdiom adds or replaces an idiom. Translations are stored as per-language
// fields of the record.
func AddIdiom(dir, key string, entry desi.IdiomEntry) error {
	key = desi.IdiomKey(key)
	if key == "" || entry.Meaning == "" {
		return errors.New("idiom key and meaning are required")
	}

	path, err := editableFile(dir, TableIdioms)
	if err != nil {
		return err
	}
	top, err := readObject(path)
	if err != nil {
		return err
	}

	record := map[string]any{
		"english": entry.English,
		"meaning": entry.Meaning,
	}
	if record["english"] == "" {
		record["english"] = strings.ReplaceAll(key, "_", " ")
	}
	for lang, text := range entry.Translations {
		record[lang] = text
	}
	optional := map[string]string{
		"explanation":   entry.Explanation,
		"example":       entry.Example,
		"cultural_note": entry.CulturalNote,
	}
	for k, v := range optional {
		if v != "" {
			record[k] = v
		}
	}
	if entry.Confidence > 0 {
		record["confidence"] = entry.Confidence
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Keep the file's layout: wrapped under "idioms" unless it is a flat table.
	if raw, ok := top["idioms"]; ok || len(top) == 0 {
		idioms := make(map[string]json.RawMessage)
		if ok {
			if err := json.Unmarshal(raw, &idioms); err != nil {
				return fmt.Errorf("idioms: %w", err)
			}
		}
		idioms[key] = recordJSON
		if top["idioms"], err = json.Marshal(idioms); err != nil {
			return err
		}
	} else {
		top[key] = recordJSON
	}
	return writeJSON(path, top)
}

// WordListing is one row of ListWords.
type WordListing struct {
	Source string
	desi.DictionaryEntry
}

// ListWords returns the entries of a pair table sorted by source word.
func ListWords(r *desi.Rules, pair string) ([]WordListing, error) {
	dict, ok := r.Dictionaries[pair]
	if !ok {
		return nil, fmt.Errorf("language pair %s not found", pair)
	}
	out := make([]WordListing, 0, len(dict))
	for word, e := range dict {
		out = append(out, WordListing{Source: word, DictionaryEntry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

// ListIdioms returns all idioms sorted by key.
func ListIdioms(r *desi.Rules) []desi.IdiomEntry {
	out := make([]desi.IdiomEntry, 0, len(r.Idioms))
	for _, e := range r.Idioms {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Statistics summarizes a rule set.
type Statistics struct {
	WordsPerPair    map[string]int `json:"words_per_pair" yaml:"words_per_pair"`
	TotalWords      int            `json:"total_words" yaml:"total_words"`
	GrammarRules    map[string]int `json:"grammar_rules" yaml:"grammar_rules"`
	Idioms          int            `json:"idioms" yaml:"idioms"`
	SlangTerms      int            `json:"slang_terms" yaml:"slang_terms"`
	HistoricalTerms int            `json:"historical_terms" yaml:"historical_terms"`
	TargetLanguages []string       `json:"target_languages" yaml:"target_languages"`
}

// Stats counts the entries of each table.
func Stats(r *desi.Rules) Statistics {
	s := Statistics{
		WordsPerPair: make(map[string]int, len(r.Dictionaries)),
		GrammarRules: map[string]int{
			"pos_tags":             len(r.Grammar.POSTags),
			"word_order":           len(r.Grammar.WordOrder),
			"auxiliary_verb_rules": len(r.Grammar.Auxiliaries),
		},
		Idioms:          len(r.Idioms),
		SlangTerms:      len(r.Slang),
		HistoricalTerms: len(r.Historical),
	}

	targets := make(map[string]bool)
	for pair, dict := range r.Dictionaries {
		s.WordsPerPair[pair] = len(dict)
		s.TotalWords += len(dict)
		if _, tgt, ok := strings.Cut(pair, "_"); ok {
			targets[tgt] = true
		}
	}
	for lang := range targets {
		s.TargetLanguages = append(s.TargetLanguages, lang)
	}
	sort.Strings(s.TargetLanguages)
	return s
}

// backupTables are the tables carried by Backup and Restore.
var backupTables = []string{TableDictionaries, TableGrammar, TableIdioms}

// Backup writes the dictionaries, grammar rules and idioms of dir to w as a
// single JSON document.
func Backup(dir string, w io.Writer) error {
	bundle := make(map[string]json.RawMessage, len(backupTables))
	for _, table := range backupTables {
		path, err := editableFile(dir, table)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path) // #nosec G304 - rules directory is operator-provided
		if err != nil {
			return fmt.Errorf("reading %s: %w", table, err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("%s is not valid JSON", path)
		}
		bundle[table] = data
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(bundle)
}

// Restore replaces the tables of dir with those of a Backup document. The
// document is validated before any file is written.
func Restore(dir string, r io.Reader) error {
	var bundle map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return fmt.Errorf("decoding backup: %w", err)
	}

	decoders := map[string]func([]byte) error{
		TableDictionaries: func(b []byte) error { _, err := decodeDictionaries(b); return err },
		TableGrammar:      func(b []byte) error { _, err := decodeGrammar(b); return err },
		TableIdioms:       func(b []byte) error { _, err := decodeIdioms(b); return err },
	}
	for _, table := range backupTables {
		raw, ok := bundle[table]
		if !ok {
			return fmt.Errorf("backup has no %s table", table)
		}
		if err := decoders[table](raw); err != nil {
			return &desi.RuleLoadError{Table: table, Path: "backup", Cause: err}
		}
	}

	for _, table := range backupTables {
		path, err := editableFile(dir, table)
		if err != nil {
			return err
		}
		if err := writeJSON(path, bundle[table]); err != nil {
			return fmt.Errorf("writing %s: %w", table, err)
		}
	}
	return nil
}
