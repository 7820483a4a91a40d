// Package processor extracts translatable text from documents and writes
// translations back: HTML pages and SRT or WebVTT subtitle files.
package processor

import "github.com/desitranslate/desi"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = desi.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = desi.TextNode

// Node types produced by the processors.
const (
	NodeHTMLText = "html_text"
	NodeHTMLAttr = "html_attr"
	NodeCue      = "subtitle_cue"
)
