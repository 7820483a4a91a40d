package desi

import (
	"fmt"
	"log/slog"
)

// Pipeline stage names reported in PipelineError.
const (
	StageTokenize    = "tokenize"
	StageTag         = "tag"
	StageAnalyze     = "analyze"
	StageTranslate   = "translate"
	StageReorder     = "reorder"
	StageReconstruct = "reconstruct"
)

// pipeline runs the rule-based translation stages for one language pair.
// It holds no mutable state and is safe for concurrent use.
type pipeline struct {
	rules    *Rules
	tagger   Tagger
	analyzer *StructureAnalyzer
	logger   *slog.Logger
}

// pipelineRun holds the intermediate values of one run.
type pipelineRun struct {
	tokens       Tokens
	tags         []POSTag
	structure    Structure
	mappings     []WordMapping
	order        []int
	reordering   *ReorderingInfo
	sov          bool
	grammarMatch float64
	text         string
}

// runStage executes fn, converting both returned errors and panics into a
// *PipelineError for the named stage.
func runStage(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PipelineError{Stage: name, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &PipelineError{Stage: name, Cause: err}
	}
	return nil
}

// run translates text from src to tgt. Languages must already be normalized.
func (p *pipeline) run(text, src, tgt string) (*pipelineRun, error) {
	r := &pipelineRun{}
	lex := p.rules.Lexicon(src, tgt)

	stages := []struct {
		name string
		fn   func() error
	}{
		{StageTokenize, func() error {
			r.tokens = Tokenize(text)
			return nil
		}},
		{StageTag, func() error {
			r.tags = p.tagger.Tag(r.tokens.Words, lex)
			if len(r.tags) != r.tokens.Len() {
				return fmt.Errorf("tagger %s returned %d tags for %d words", p.tagger.Name(), len(r.tags), r.tokens.Len())
			}
			return nil
		}},
		{StageAnalyze, func() error {
			r.structure = p.analyzer.Analyze(r.tokens.Words, r.tags)
			return nil
		}},
		{StageTranslate, func() error {
			r.mappings = make([]WordMapping, r.tokens.Len())
			for i, w := range r.tokens.Surface {
				r.mappings[i] = TranslateWord(w, i, lex, r.tags[i])
			}
			return nil
		}},
		{StageReorder, func() error {
			p.reorder(r, src, tgt)
			return nil
		}},
		{StageReconstruct, func() error {
			words := make([]string, len(r.order))
			for i, idx := range r.order {
				words[i] = r.mappings[idx].Translated
			}
			r.text = Reconstruct(words, r.tokens.Punct)
			return nil
		}},
	}

	for _, s := range stages {
		if err := runStage(s.name, s.fn); err != nil {
			return r, err
		}
	}
	return r, nil
}

// reorder applies the target word order. An aborted reorder keeps the source
// order and every token, auxiliaries included.
func (p *pipeline) reorder(r *pipelineRun, src, tgt string) {
	n := r.tokens.Len()
	r.order = identityOrder(n)
	r.grammarMatch = grammarApplied
	r.sov = p.rules.Grammar.UsesSOV(tgt)
	if !r.sov {
		return
	}
	if !r.structure.Complete() {
		r.grammarMatch = grammarUnresolved
		return
	}

	order, err := Reorder(n, r.structure)
	if err != nil {
		r.grammarMatch = grammarAborted
		p.logger.Debug("reorder aborted", "error", err, "target", tgt)
		return
	}
	r.order = order
	r.reordering = &ReorderingInfo{
		OriginalOrder:     identityOrder(n),
		NewOrder:          order,
		MergedAuxiliaries: append([]int{}, r.structure.Auxiliaries...),
		SourceOrder:       p.rules.Grammar.OrderOf(src),
		TargetOrder:       OrderSOV,
		Rule:              fmt.Sprintf("SVO to SOV transformation for %s", tgt),
	}
}

// outcome packages a run for Validate. Failures are wrapped in a
// TranslationError naming the language pair.
func (r *pipelineRun) outcome(err error, src, tgt string) Outcome {
	if err != nil {
		return Outcome{Err: translationFailure(err, src, tgt)}
	}
	return Outcome{Result: r.result(src, tgt)}
}

func translationFailure(err error, src, tgt string) error {
	return &TranslationError{Message: fmt.Sprintf("translating %s to %s", src, tgt), Cause: err}
}

// result converts a finished run into an unvalidated TranslationResult.
func (r *pipelineRun) result(src, tgt string) *TranslationResult {
	if r == nil {
		return nil
	}
	explanations := make([]WordExplanation, len(r.mappings))
	for i, m := range r.mappings {
		explanations[i] = m.WordExplanation
	}
	mappings := make([]WordMapping, 0, len(r.order))
	for _, idx := range r.order {
		mappings = append(mappings, r.mappings[idx])
	}
	return &TranslationResult{
		TranslatedText: r.text,
		Explanations:   explanations,
		Confidence:     AggregateConfidence(r.mappings),
		WordMappings:   mappings,
		SourceLanguage: src,
		TargetLanguage: tgt,
		Reordering:     r.reordering,
	}
}
