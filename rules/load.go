// Package rules loads the dictionary, grammar, idiom and lexical tables that
// drive desi translations.
//
// Tables are read from a Source: the defaults compiled into the binary, a
// directory, or an HTTP base URL. For each table the first existing file
// among "<name>_comprehensive.json", "<name>.json", "<name>.yaml" and
// "<name>.yml" is used.
package rules

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/desitranslate/desi"
)

// Table names.
const (
	TableDictionaries = "dictionaries"
	TableGrammar      = "grammar_rules"
	TableIdioms       = "idioms"
	TableSlang        = "slang"
	TableHistorical   = "historical"
)

// ErrTableMissing is the cause of a RuleLoadError for a required table that
// no candidate file provides.
var ErrTableMissing = errors.New("no rule file found")

// Candidates returns the file names tried for a table, in order.
func Candidates(table string) []string {
	return []string{
		table + "_comprehensive.json",
		table + ".json",
		table + ".yaml",
		table + ".yml",
	}
}

// readTable returns the first candidate file of table, normalized to JSON.
// found is false when no candidate exists.
func readTable(ctx context.Context, src Source, table string) (data []byte, location string, found bool, err error) {
	for _, name := range Candidates(table) {
		raw, err := src.ReadFile(ctx, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		location = src.Location(name)
		if err != nil {
			return nil, location, true, err
		}
		data, err = normalize(name, raw)
		return data, location, true, err
	}
	return nil, "", false, nil
}

func loadTable[T any](ctx context.Context, src Source, table string, decode func([]byte) (T, error)) (T, bool, error) {
	var zero T
	data, location, found, err := readTable(ctx, src, table)
	if err != nil {
		return zero, found, &desi.RuleLoadError{Table: table, Path: location, Cause: err}
	}
	if !found {
		return zero, false, nil
	}
	v, err := decode(data)
	if err != nil {
		return zero, true, &desi.RuleLoadError{Table: table, Path: location, Cause: err}
	}
	return v, true, nil
}

// Load reads all rule tables from src. Dictionaries, grammar rules and idioms
// are required; the slang and historical tables fall back to the embedded
// defaults when src does not provide them.
func Load(ctx context.Context, src Source) (*desi.Rules, error) {
	r := &desi.Rules{}
	var err error
	var found bool

	if r.Dictionaries, found, err = loadTable(ctx, src, TableDictionaries, decodeDictionaries); err != nil {
		return nil, err
	} else if !found {
		return nil, &desi.RuleLoadError{Table: TableDictionaries, Cause: ErrTableMissing}
	}

	if r.Grammar, found, err = loadTable(ctx, src, TableGrammar, decodeGrammar); err != nil {
		return nil, err
	} else if !found {
		return nil, &desi.RuleLoadError{Table: TableGrammar, Cause: ErrTableMissing}
	}

	if r.Idioms, found, err = loadTable(ctx, src, TableIdioms, decodeIdioms); err != nil {
		return nil, err
	} else if !found {
		return nil, &desi.RuleLoadError{Table: TableIdioms, Cause: ErrTableMissing}
	}

	if r.Slang, found, err = loadTable(ctx, src, TableSlang, decodeLexical); err != nil {
		return nil, err
	} else if !found {
		r.Slang = Default().Slang
	}

	if r.Historical, found, err = loadTable(ctx, src, TableHistorical, decodeLexical); err != nil {
		return nil, err
	} else if !found {
		r.Historical = Default().Historical
	}

	return r, nil
}

var (
	defaultOnce  sync.Once
	defaultRules *desi.Rules
)

// Default returns the embedded rules. The returned value is shared and must
// not be modified. It panics if the embedded tables do not decode.
func Default() *desi.Rules {
	defaultOnce.Do(func() {
		src := Embedded()
		ctx := context.Background()
		r := &desi.Rules{}
		var err error
		if r.Dictionaries, _, err = loadTable(ctx, src, TableDictionaries, decodeDictionaries); err != nil {
			panic(err)
		}
		if r.Grammar, _, err = loadTable(ctx, src, TableGrammar, decodeGrammar); err != nil {
			panic(err)
		}
		if r.Idioms, _, err = loadTable(ctx, src, TableIdioms, decodeIdioms); err != nil {
			panic(err)
		}
		if r.Slang, _, err = loadTable(ctx, src, TableSlang, decodeLexical); err != nil {
			panic(err)
		}
		if r.Historical, _, err = loadTable(ctx, src, TableHistorical, decodeLexical); err != nil {
			panic(err)
		}
		defaultRules = r
	})
	return defaultRules
}
