package desi

import (
	"context"
	"strings"
	"testing"
)

func TestTranslateDetailed(t *testing.T) {
	tr := NewTranslator(testRules())

	res := tr.TranslateDetailed(context.Background(), "I will go.", "en", "hindi")

	if res.Mode != ModeValidated {
		t.Fatalf("Mode = %q, error %q", res.Mode, res.Error)
	}
	if res.TranslatedText != "मैं जाऊँगा." {
		t.Errorf("TranslatedText = %q", res.TranslatedText)
	}
	if len(res.WordExplanations) != 3 {
		t.Fatalf("got %d word explanations, want 3", len(res.WordExplanations))
	}

	goWord := res.WordExplanations[2]
	if goWord.Original != "go" || goWord.OriginalWithPunct != "go." || goWord.Translated != "जाऊँगा" {
		t.Errorf("word analysis = %+v", goWord)
	}
	if goWord.SourcePOSDescription != "Verb - action or state" || goWord.TargetPOS != POSVerb {
		t.Errorf("word analysis = %+v", goWord)
	}

	if res.Analysis == nil {
		t.Fatal("Analysis is nil")
	}
	if res.Analysis.Tense != TenseFuture || res.Analysis.Aspect != "simple" || res.Analysis.Mood != "indicative" {
		t.Errorf("Analysis = %+v", res.Analysis)
	}
	if res.Analysis.AnalysisType != "SVO" {
		t.Errorf("AnalysisType = %q", res.Analysis.AnalysisType)
	}
	if res.QualityScore != 100 {
		t.Errorf("QualityScore = %v, want 100", res.QualityScore)
	}

	for _, want := range []string{"Word Order", "'will' is merged", "FUTURE TENSE", "first person singular", "Hindi:"} {
		if !strings.Contains(res.LinguisticExplanation, want) {
			t.Errorf("LinguisticExplanation missing %q: %s", want, res.LinguisticExplanation)
		}
	}
}

func TestTranslateDetailed_MissesAndQuality(t *testing.T) {
	tr := NewTranslator(testRules())

	res := tr.TranslateDetailed(context.Background(), "Ravi eat water", "en", "hindi")

	ravi := res.WordExplanations[0]
	if ravi.TargetPOS != POSUnknown || ravi.TargetPOSDescription != "Unknown" || ravi.SourceMeaning != "word or phrase" {
		t.Errorf("miss analysis = %+v", ravi)
	}
	if res.WordExplanations[2].SourceMeaning != "a clear liquid" {
		t.Errorf("hit analysis = %+v", res.WordExplanations[2])
	}
	// rich mode takes "ravi" as subject: 2/3 coverage, reorder applied
	if res.QualityScore != 86.67 {
		t.Errorf("QualityScore = %v, want 86.67", res.QualityScore)
	}
}

func TestTranslateDetailed_Cached(t *testing.T) {
	c := newMockCache()
	tr := NewTranslator(testRules(), WithCache(c))

	first := tr.TranslateDetailed(context.Background(), "I love you", "en", "hindi")
	second := tr.TranslateDetailed(context.Background(), "I love you", "en", "hindi")

	if c.sets != 1 {
		t.Errorf("sets = %d, want 1", c.sets)
	}
	if second.LinguisticExplanation != first.LinguisticExplanation || second.Analysis == nil {
		t.Errorf("cached detailed result lost fields: %+v", second)
	}
}

func TestTranslateDetailed_Fallback(t *testing.T) {
	tr := NewTranslator(testRules(), WithDetailedTagger(panicTagger{}))

	res := tr.TranslateDetailed(context.Background(), "I love you", "en", "hindi")
	if res.Mode != ModeFallback || res.Analysis != nil || res.WordExplanations == nil {
		t.Errorf("got %+v", res)
	}
}

func TestDetectTense(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"i will go", TenseFuture},
		{"we are going to eat", TenseFuture},
		{"she was here", TensePast},
		{"they had been there", TensePast},
		{"i eat rice", TensePresent},
		{"washington is big", TensePresent},
	}

	for _, tt := range tests {
		if got := DetectTense(strings.Fields(tt.text)); got != tt.want {
			t.Errorf("DetectTense(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectAspect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"i have been waiting", "perfect_continuous"},
		{"she has eaten", "perfect"},
		{"they had left", "perfect"},
		{"we are eating", "continuous"},
		{"i eat", "simple"},
	}

	for _, tt := range tests {
		if got := DetectAspect(strings.Fields(tt.text)); got != tt.want {
			t.Errorf("DetectAspect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectMood(t *testing.T) {
	idx := newGrammarIndex(GrammarRules{})

	tests := []struct {
		words []string
		tags  []POSTag
		want  string
	}{
		{[]string{"go", "home"}, []POSTag{POSVerb, POSNoun}, "imperative"},
		{[]string{"will", "you", "go"}, []POSTag{POSVerb, POSPronoun, POSVerb}, "indicative"},
		{[]string{"i", "would", "go"}, []POSTag{POSPronoun, POSVerb, POSVerb}, "conditional"},
		{[]string{"if", "i", "were", "you"}, []POSTag{POSNoun, POSPronoun, POSVerb, POSPronoun}, "subjunctive"},
		{nil, nil, "indicative"},
	}

	for _, tt := range tests {
		if got := DetectMood(tt.words, tt.tags, idx); got != tt.want {
			t.Errorf("DetectMood(%v) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestLinguisticExplanation(t *testing.T) {
	g := testRules().Grammar
	idx := newGrammarIndex(g)

	got := LinguisticExplanation([]string{"they", "were", "happy"}, "telugu", g, idx)
	for _, want := range []string{"Word Order", "PAST TENSE", "third person plural", "Telugu:"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
	if strings.Count(got, " | ") != 4 {
		t.Errorf("expected five parts: %s", got)
	}

	svo := LinguisticExplanation([]string{"dogs", "run"}, "french", g, idx)
	if svo != "Tense: PRESENT TENSE detected. Verbs use present form in french." {
		t.Errorf("got %q", svo)
	}
}
