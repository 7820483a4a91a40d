package desi

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Translator is the main translation engine. It is safe for concurrent use;
// its rules are never modified after construction.
type Translator struct {
	rules             *Rules
	sourceLang        string
	targetLang        string
	cache             TranslationCache
	logger            *slog.Logger
	tagger            Tagger
	detailedTagger    Tagger
	processors        map[string]ContentProcessor
	subtitleWorkers   int
	parallelThreshold int

	basic    *pipeline
	detailed *pipeline
	idx      *grammarIndex
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithSourceLang sets the default source language.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = NormalizeLanguage(lang)
	}
}

// WithTargetLang sets the default target language.
func WithTargetLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.targetLang = NormalizeLanguage(lang)
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithTagger sets the tagger used by Translate.
func WithTagger(tagger Tagger) TranslatorOption {
	return func(t *Translator) {
		t.tagger = tagger
	}
}

// WithDetailedTagger sets the tagger used by TranslateDetailed.
func WithDetailedTagger(tagger Tagger) TranslatorOption {
	return func(t *Translator) {
		t.detailedTagger = tagger
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// WithSubtitleWorkers limits concurrent lines in TranslateSubtitleBatch.
func WithSubtitleWorkers(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.subtitleWorkers = n
		}
	}
}

// WithParallelThreshold sets the node count from which Process looks up the
// cache concurrently.
func WithParallelThreshold(n int) TranslatorOption {
	return func(t *Translator) {
		t.parallelThreshold = n
	}
}

// NewTranslator creates a Translator over rules. Defaults: English to Hindi,
// heuristic tagger for Translate, context tagger for TranslateDetailed.
func NewTranslator(rules *Rules, opts ...TranslatorOption) *Translator {
	t := &Translator{
		rules:             rules,
		sourceLang:        English,
		targetLang:        "hindi",
		processors:        make(map[string]ContentProcessor),
		subtitleWorkers:   8,
		parallelThreshold: 5,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.tagger == nil {
		t.tagger = NewHeuristicTagger(rules.Grammar)
	}
	if t.detailedTagger == nil {
		t.detailedTagger = NewContextTagger(rules.Grammar)
	}
	t.idx = newGrammarIndex(rules.Grammar)
	t.basic = &pipeline{
		rules:    rules,
		tagger:   t.tagger,
		analyzer: NewStructureAnalyzer(rules.Grammar, StructureBasic),
		logger:   t.logger,
	}
	t.detailed = &pipeline{
		rules:    rules,
		tagger:   t.detailedTagger,
		analyzer: NewStructureAnalyzer(rules.Grammar, StructureRich),
		logger:   t.logger,
	}
	return t
}

// Translate translates text from sourceLang to targetLang. Empty language
// arguments select the translator defaults. It never fails: pipeline errors
// yield a fallback result that echoes the input.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) TranslationResult {
	src, tgt := t.source(sourceLang), t.target(targetLang)
	if err := ctx.Err(); err != nil {
		return Fallback(text, src, tgt, translationFailure(err, src, tgt))
	}

	key := CacheKeyExtended(HashText(text), src, tgt, "text")
	var cached TranslationResult
	if t.cacheGet(key, &cached) {
		cached.OriginalText = text
		return cached
	}

	res := t.translate(t.basic, text, src, tgt)
	if res.Mode == ModeValidated {
		t.cacheSet(key, res)
	}
	return res
}

// translate runs p and validates its outcome.
func (t *Translator) translate(p *pipeline, text, src, tgt string) TranslationResult {
	run, err := p.run(text, src, tgt)
	res := Validate(text, src, tgt, run.outcome(err, src, tgt))
	if res.Mode == ModeFallback && strings.TrimSpace(text) != "" {
		t.logger.Warn("translation fell back", "error", res.Error, "source", src, "target", tgt)
	}
	return res
}

// TranslateDetailed translates text and adds word-level analysis, the
// linguistic explanation and a quality score. It never fails.
func (t *Translator) TranslateDetailed(ctx context.Context, text, sourceLang, targetLang string) DetailedResult {
	src, tgt := t.source(sourceLang), t.target(targetLang)
	if err := ctx.Err(); err != nil {
		return DetailedResult{TranslationResult: Fallback(text, src, tgt, translationFailure(err, src, tgt)), WordExplanations: []WordAnalysis{}}
	}

	key := CacheKeyExtended(HashText(text), src, tgt, "detailed")
	var cached DetailedResult
	if t.cacheGet(key, &cached) {
		cached.OriginalText = text
		return cached
	}

	run, err := t.detailed.run(text, src, tgt)
	res := DetailedResult{
		TranslationResult: Validate(text, src, tgt, run.outcome(err, src, tgt)),
		WordExplanations:  []WordAnalysis{},
	}
	if res.Mode == ModeFallback {
		if strings.TrimSpace(text) != "" {
			t.logger.Warn("detailed translation fell back", "error", res.Error, "source", src, "target", tgt)
		}
		return res
	}

	res.WordExplanations = analyzeWords(run, t.idx)
	res.LinguisticExplanation = LinguisticExplanation(run.tokens.Words, tgt, t.rules.Grammar, t.idx)
	res.Analysis = &Analysis{
		Tense:        DetectTense(run.tokens.Words),
		Aspect:       DetectAspect(run.tokens.Words),
		Mood:         DetectMood(run.tokens.Words, run.tags, t.idx),
		Structure:    run.structure,
		AnalysisType: run.structure.AnalysisType(),
	}
	res.QualityScore = QualityScore(run.mappings, run.grammarMatch)
	t.cacheSet(key, res)
	return res
}

// TranslateIdiom looks up an idiom and renders it in targetLang.
func (t *Translator) TranslateIdiom(phrase, targetLang string) IdiomResult {
	return TranslateIdiom(t.rules.Idioms, phrase, t.target(targetLang))
}

// NormalizeSlang expands chat abbreviations in text.
func (t *Translator) NormalizeSlang(text string) SlangResult {
	return NormalizeSlang(t.rules.Slang, text)
}

// ModernizeHistorical rewrites archaic English words in text.
func (t *Translator) ModernizeHistorical(text string) HistoricalResult {
	return ModernizeHistorical(t.rules.Historical, text)
}

// Process translates content of the specified type into the default target
// language.
func (t *Translator) Process(ctx context.Context, content string, contentType string) (*ProcessedContent, error) {
	return t.ProcessLang(ctx, content, contentType, t.sourceLang, t.targetLang)
}

// ProcessHTML is a convenience method for processing HTML content.
func (t *Translator) ProcessHTML(ctx context.Context, html string) (*ProcessedContent, error) {
	return t.Process(ctx, html, "html")
}

// ProcessLang translates content of the specified type between the given
// languages. Every text node goes through Translate's pipeline.
func (t *Translator) ProcessLang(ctx context.Context, content, contentType, sourceLang, targetLang string) (*ProcessedContent, error) {
	src, tgt := t.source(sourceLang), t.target(targetLang)

	// Skip if source == target
	if src == tgt {
		return &ProcessedContent{Content: content}, nil
	}

	processor, ok := t.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	batch, err := t.translateBatch(ctx, nodes, src, tgt)
	if err != nil {
		return nil, err
	}

	result, err := processor.Apply(parsed, nodes, batch.translations)
	if err != nil {
		return nil, err
	}

	if contentType == "html" {
		result = setHTMLAttributes(result, tgt)
	}

	return &ProcessedContent{
		Content:         result,
		TranslatedCount: batch.translated,
		CachedCount:     batch.cached,
		TotalNodes:      len(nodes),
		Confidence:      batch.confidence(),
	}, nil
}

type batchResult struct {
	translations  map[string]string
	cached        int
	translated    int
	confidenceSum float64
}

func (b *batchResult) confidence() float64 {
	if b.translated == 0 {
		return 0
	}
	return round2(b.confidenceSum / float64(b.translated))
}

// translateBatch translates nodes, using the cache where possible and
// translating each distinct text once.
func (t *Translator) translateBatch(ctx context.Context, nodes []TextNode, src, tgt string) (*batchResult, error) {
	b := &batchResult{translations: make(map[string]string)}

	var misses []TextNode
	if t.cache != nil && len(nodes) >= t.parallelThreshold {
		var err error
		b.translations, misses, err = ParallelCacheLookup(ctx, t.cache, nodes, src, tgt)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			if _, ok := b.translations[node.Hash]; ok {
				b.cached++
			}
		}
	} else {
		seen := make(map[string]bool)
		for _, node := range nodes {
			if t.cache != nil {
				if cached, ok := t.cache.Get(CacheKey(node.Hash, src, tgt)); ok {
					b.translations[node.Hash] = cached
					b.cached++
					continue
				}
			}
			if !seen[node.Hash] {
				misses = append(misses, node)
				seen[node.Hash] = true
			}
		}
	}

	for _, node := range misses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := t.translate(t.basic, node.Text, src, tgt)
		b.translations[node.Hash] = res.TranslatedText
		b.translated++
		b.confidenceSum += res.Confidence
		if res.Mode == ModeValidated && t.cache != nil {
			if err := t.cache.Set(CacheKey(node.Hash, src, tgt), res.TranslatedText); err != nil {
				t.logger.Warn("cache set failed", "error", err)
			}
		}
	}
	return b, nil
}

func (t *Translator) cacheGet(key string, v any) bool {
	if t.cache == nil {
		return false
	}
	raw, ok := t.cache.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		t.logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (t *Translator) cacheSet(key string, v any) {
	if t.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := t.cache.Set(key, string(data)); err != nil {
		t.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag.
func setHTMLAttributes(html, targetLang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(targetLang))
		htmlTag.SetAttr("dir", GetDirection(targetLang))
	}

	result, err := doc.Html()
	if err != nil {
		return html
	}

	return result
}

func (t *Translator) source(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return t.sourceLang
	}
	return NormalizeLanguage(lang)
}

func (t *Translator) target(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return t.targetLang
	}
	return NormalizeLanguage(lang)
}

// Rules returns the rule bundle the translator was built with.
func (t *Translator) Rules() *Rules {
	return t.rules
}

// SourceLang returns the default source language.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// TargetLang returns the default target language.
func (t *Translator) TargetLang() string {
	return t.targetLang
}

// TaggerName returns the name of the tagger used by Translate.
func (t *Translator) TaggerName() string {
	return t.tagger.Name()
}
