package desi

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	trailingPunct = ".,!?;:'\""
	leadingPunct  = "'\"("
)

// Punctuation is the punctuation stripped from one token.
type Punctuation struct {
	Leading  string `json:"leading,omitempty"`
	Trailing string `json:"trailing,omitempty"`
}

// Tokens is a whitespace-tokenized sentence with its punctuation map.
type Tokens struct {
	Words   []string      // lowercased, punctuation stripped
	Surface []string      // punctuation stripped, original case
	Raw     []string      // tokens as written
	Punct   []Punctuation // indexed by token position
}

// Len returns the number of tokens.
func (t Tokens) Len() int {
	return len(t.Words)
}

// Tokenize splits text on whitespace and separates leading and trailing
// punctuation from every token. Input is NFC-normalized first so that
// dictionary keys match regardless of how combining marks were typed.
func Tokenize(text string) Tokens {
	fields := strings.Fields(norm.NFC.String(text))
	t := Tokens{
		Words:   make([]string, 0, len(fields)),
		Surface: make([]string, 0, len(fields)),
		Raw:     fields,
		Punct:   make([]Punctuation, 0, len(fields)),
	}
	for _, f := range fields {
		core, p := SplitPunctuation(f)
		t.Words = append(t.Words, strings.ToLower(core))
		t.Surface = append(t.Surface, core)
		t.Punct = append(t.Punct, p)
	}
	return t
}

// SplitPunctuation strips the maximal trailing run of .,!?;:'" and then the
// maximal leading run of '"( from token.
func SplitPunctuation(token string) (string, Punctuation) {
	core := strings.TrimRight(token, trailingPunct)
	trailing := token[len(core):]
	word := strings.TrimLeft(core, leadingPunct)
	leading := core[:len(core)-len(word)]
	return word, Punctuation{Leading: leading, Trailing: trailing}
}

// Reconstruct joins words with single spaces, reattaching punctuation by
// output position. When fewer words than punctuation slots remain, the
// trailing punctuation of the dropped positions goes to the last word.
func Reconstruct(words []string, punct []Punctuation) string {
	out := make([]string, len(words))
	for i, w := range words {
		var p Punctuation
		if i < len(punct) {
			p = punct[i]
		}
		if i == len(words)-1 {
			for j := len(words); j < len(punct); j++ {
				p.Trailing += punct[j].Trailing
			}
		}
		out[i] = p.Leading + w + p.Trailing
	}
	return strings.Join(out, " ")
}
