package processor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/desitranslate/desi"
)

// noTranslateAttr marks an element whose subtree is left as is.
const noTranslateAttr = "data-no-translate"

// TranslatableAttrs are the attributes whose values are user-visible text.
var TranslatableAttrs = []string{"alt", "title", "placeholder", "aria-label"}

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
	attrs       map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return NewHTMLProcessorWithIgnoredTags(nil)
}

// NewHTMLProcessorWithIgnoredTags creates an HTML processor skipping the
// given tags. A nil list uses desi.IgnoredTags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := desi.IgnoredTags
	if tags != nil {
		ignored = make(map[string]bool, len(tags))
		for _, tag := range tags {
			ignored[strings.ToLower(tag)] = true
		}
	}
	attrs := make(map[string]bool, len(TranslatableAttrs))
	for _, a := range TranslatableAttrs {
		attrs[a] = true
	}
	return &HTMLProcessor{ignoredTags: ignored, attrs: attrs}
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// skip reports whether the subtree rooted at n is excluded.
func (p *HTMLProcessor) skip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == noTranslateAttr {
			return true
		}
	}
	return false
}

// visit walks the translatable parts of the tree. onText receives text
// nodes with non-blank content; onAttr receives translatable attributes.
func (p *HTMLProcessor) visit(n *html.Node, onText func(*html.Node), onAttr func(*html.Node, *html.Attribute)) {
	if p.skip(n) {
		return
	}
	switch n.Type {
	case html.TextNode:
		if hasLetter(n.Data) {
			onText(n)
		}
	case html.ElementNode:
		for i := range n.Attr {
			if p.attrs[n.Attr[i].Key] && hasLetter(n.Attr[i].Val) {
				onAttr(n, &n.Attr[i])
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.visit(c, onText, onAttr)
	}
}

// Extract parses HTML and returns one node per distinct text, in document
// order. Text made only of digits, symbols or punctuation is not extracted.
func (p *HTMLProcessor) Extract(content string) (interface{}, []desi.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &desi.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []desi.TextNode
	seen := make(map[string]bool)
	add := func(text, nodeType, context string, meta map[string]string) {
		hash := desi.HashText(text)
		if seen[hash] {
			return
		}
		seen[hash] = true
		nodes = append(nodes, desi.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     strings.TrimSpace(text),
			Hash:     hash,
			NodeType: nodeType,
			Context:  context,
			Metadata: meta,
		})
	}

	for _, root := range doc.Nodes {
		p.visit(root,
			func(n *html.Node) {
				meta := map[string]string{}
				if n.Parent != nil {
					meta["parent_tag"] = n.Parent.Data
				}
				add(n.Data, NodeHTMLText, elementPath(n.Parent), meta)
			},
			func(n *html.Node, a *html.Attribute) {
				add(a.Val, NodeHTMLAttr, elementPath(n)+"@"+a.Key, map[string]string{
					"parent_tag": n.Data,
					"attribute":  a.Key,
				})
			},
		)
	}

	return doc, nodes, nil
}

// Apply writes translations (keyed by text hash) into the document returned
// by Extract and serializes it.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []desi.TextNode, translations map[string]string) (string, error) {
	doc, ok := parsed.(*goquery.Document)
	if !ok {
		return "", &desi.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "html",
		}
	}

	for _, root := range doc.Nodes {
		p.visit(root,
			func(n *html.Node) {
				if translated, ok := translations[desi.HashText(n.Data)]; ok {
					n.Data = preserveWhitespace(n.Data, translated)
				}
			},
			func(_ *html.Node, a *html.Attribute) {
				if translated, ok := translations[desi.HashText(a.Val)]; ok {
					a.Val = translated
				}
			},
		)
	}

	out, err := doc.Html()
	if err != nil {
		return "", &desi.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return out, nil
}

// elementPath locates n as "main > ul > li[2]": the element chain below
// <body>, with a 1-based position among same-tag siblings when it is not
// the first. The path is stable across edits that do not move the element,
// so DiffNodes can pair an edited text with its previous version.
func elementPath(n *html.Node) string {
	var parts []string
	for ; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if n.Data == "body" || n.Data == "html" {
			break
		}
		part := n.Data
		if pos := sameTagPosition(n); pos > 1 {
			part = fmt.Sprintf("%s[%d]", n.Data, pos)
		}
		parts = append(parts, part)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func sameTagPosition(n *html.Node) int {
	pos := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			pos++
		}
	}
	return pos
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	trimmedLeft := strings.TrimLeft(original, " \t\n\r")
	leading := original[:len(original)-len(trimmedLeft)]
	trailing := trimmedLeft[len(strings.TrimRight(trimmedLeft, " \t\n\r")):]
	return leading + translated + trailing
}

var _ ContentProcessor = (*HTMLProcessor)(nil)
