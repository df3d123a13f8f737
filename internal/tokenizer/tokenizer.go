// Package tokenizer produces builder events from markdown source using
// goldmark.
package tokenizer

import (
	"iter"
	"sync"

	"github.com/samsaffron/mdast/internal/event"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Options selects the syntax extensions.
type Options struct {
	GFM  bool // tables, strikethrough, task lists, bare autolinks
	Math bool // $inline$ and $$display$$ TeX spans
}

var (
	mu      sync.Mutex
	engines = make(map[Options]goldmark.Markdown)
)

// engine returns the shared goldmark instance for opts. goldmark parsers
// are safe for concurrent use once configured.
func engine(opts Options) goldmark.Markdown {
	mu.Lock()
	defer mu.Unlock()
	if md, ok := engines[opts]; ok {
		return md
	}
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Math {
		exts = append(exts, MathExtension)
	}
	md := goldmark.New(goldmark.WithExtensions(exts...))
	engines[opts] = md
	return md
}

// Tokenizer turns markdown source into an event stream.
type Tokenizer struct {
	md goldmark.Markdown
}

// New returns a Tokenizer for the given syntax options.
func New(opts Options) *Tokenizer {
	return &Tokenizer{md: engine(opts)}
}

// Parse returns the goldmark document for src.
func (t *Tokenizer) Parse(src []byte) ast.Node {
	return t.md.Parser().Parse(text.NewReader(src))
}

// Events parses src and yields its events in document order. Parsing
// happens when the sequence is ranged over; breaking out of the range stops
// the walk.
func (t *Tokenizer) Events(src []byte) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		doc := t.Parse(src)
		w := walker{src: src, yield: yield}
		_ = ast.Walk(doc, w.visit)
	}
}
