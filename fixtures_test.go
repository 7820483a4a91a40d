package desi

import (
	"strings"
	"sync"
)

func entry(word string, pos POSTag, conf float64) DictionaryEntry {
	return DictionaryEntry{Word: word, POS: pos, Rule: DefaultEntryRule, Confidence: conf}
}

// testRules is a small rule bundle shared by the package tests.
func testRules() *Rules {
	return &Rules{
		Dictionaries: Dictionaries{
			"en_hindi": {
				"i":       entry("मैं", POSPronoun, 0.95),
				"love":    entry("प्यार करता हूँ", POSVerb, 0.9),
				"you":     entry("तुम्हें", POSPronoun, 0.95),
				"go":      entry("जाऊँगा", POSVerb, 0.85),
				"will":    entry("गा", POSVerb, 0.7),
				"hello":   entry("नमस्ते", POSInterjection, 0.95),
				"water":   {Word: "पानी", POS: POSNoun, Rule: DefaultEntryRule, Meaning: "a clear liquid", Confidence: 0.95},
				"good":    entry("अच्छा", POSAdjective, 0.9),
				"morning": entry("सुबह", POSNoun, 0.9),
				"eat":     entry("खाता हूँ", POSVerb, 0.85),
				"food":    entry("खाना", POSNoun, 0.9),
			},
			"en_telugu": {
				"i":    entry("నేను", POSPronoun, 0.95),
				"love": entry("ప్రేమిస్తున్నాను", POSVerb, 0.9),
				"you":  entry("నిన్ను", POSPronoun, 0.95),
			},
			"tamil_en": {
				"book": entry("புத்தகம்", POSNoun, 0.8),
			},
		},
		Grammar: GrammarRules{
			POSTags: map[POSTag]POSRule{
				POSNoun:    {Description: "Noun - person, place, thing"},
				POSVerb:    {Description: "Verb - action or state"},
				POSPronoun: {Description: "Pronoun - replaces a noun"},
			},
			WordOrder: map[string]WordOrder{
				"english": OrderSVO,
				"hindi":   OrderSOV,
				"telugu":  OrderSOV,
				"tamil":   OrderSOV,
			},
		},
		Idioms: IdiomTable{
			"break_the_ice": {
				Key:          "break_the_ice",
				English:      "break the ice",
				Meaning:      "to start a conversation in a social setting",
				Translations: map[string]string{"hindi": "बातचीत शुरू करना", "telugu_meaning": "సంభాషణ ప్రారంభించడం"},
				Explanation:  "Used when easing tension among strangers",
				Confidence:   0.92,
			},
			"piece_of_cake": {
				Key:          "piece_of_cake",
				English:      "a piece of cake",
				Meaning:      "something very easy",
				Translations: map[string]string{"hindi": "बाएँ हाथ का खेल"},
			},
		},
		Slang: LexicalTable{
			"u":   "you",
			"r":   "are",
			"gr8": "great",
			"brb": "be right back",
		},
		Historical: LexicalTable{
			"thou": "you",
			"art":  "are",
			"'tis": "it is",
			"hath": "has",
			"o'er": "over",
		},
	}
}

// panicTagger fails on every input.
type panicTagger struct{}

func (panicTagger) Tag([]string, Lexicon) []POSTag { panic("tagger exploded") }
func (panicTagger) Name() string { return "panic" }

// shortTagger returns too few tags.
type shortTagger struct{}

func (shortTagger) Tag([]string, Lexicon) []POSTag { return nil }
func (shortTagger) Name() string { return "short" }

// mockCache is a map-backed cache that counts accesses.
type mockCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (c *mockCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	val, ok := c.data[key]
	return val, ok
}

func (c *mockCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

// mockHTMLProcessor treats every text between '>' and '<' as a node.
type mockHTMLProcessor struct{}

func (p *mockHTMLProcessor) Extract(content string) (interface{}, []TextNode, error) {
	var nodes []TextNode
	for i, part := range strings.Split(content, ">") {
		idx := strings.Index(part, "<")
		if idx <= 0 {
			continue
		}
		text := strings.TrimSpace(part[:idx])
		if text == "" {
			continue
		}
		hash := HashText(text)
		nodes = append(nodes, TextNode{
			ID:       hash[:8] + "-" + string(rune('a'+i)),
			Text:     text,
			Hash:     hash,
			NodeType: "html_text",
		})
	}
	return content, nodes, nil
}

func (p *mockHTMLProcessor) Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error) {
	result := parsed.(string)
	for _, node := range nodes {
		if translated, ok := translations[node.Hash]; ok {
			result = strings.ReplaceAll(result, ">"+node.Text+"<", ">"+translated+"<")
		}
	}
	return result, nil
}

func (p *mockHTMLProcessor) ContentType() string {
	return "html"
}
