// Package markdown parses markdown text into a document tree and renders
// it as canonical JSON.
package markdown

import (
	"sync"

	"github.com/samsaffron/mdast/internal/builder"
	"github.com/samsaffron/mdast/internal/serialize"
	"github.com/samsaffron/mdast/internal/tokenizer"
	"github.com/samsaffron/mdast/pkg/node"
)

// Options toggles syntax extensions. A nil field means enabled.
type Options struct {
	// GFM enables tables, strikethrough, task lists and bare autolinks.
	GFM *bool `json:"gfm,omitempty" mapstructure:"gfm"`
	// Math enables $inline$ and $$display$$ spans.
	Math *bool `json:"math,omitempty" mapstructure:"math"`
}

// Bool returns a pointer to v, for filling Options.
func Bool(v bool) *bool {
	return &v
}

func (o Options) tokenizer() tokenizer.Options {
	return tokenizer.Options{
		GFM:  o.GFM == nil || *o.GFM,
		Math: o.Math == nil || *o.Math,
	}
}

// Parser holds reusable parse state. It is not safe for concurrent use;
// the package-level functions draw parsers from a pool instead.
type Parser struct {
	b   *builder.Builder
	buf []byte
}

// NewParser returns a ready Parser.
func NewParser() *Parser {
	return &Parser{b: builder.New()}
}

// Tree parses text into a document tree.
func (p *Parser) Tree(text string, opts Options) *node.Container {
	return p.b.Build(tokenizer.New(opts.tokenizer()).Events([]byte(text)))
}

// Parse parses text with every extension enabled and returns its JSON.
func (p *Parser) Parse(text string) string {
	return p.ParseWithOptions(text, Options{})
}

// ParseWithOptions parses text with the given extensions and returns its
// JSON.
func (p *Parser) ParseWithOptions(text string, opts Options) string {
	p.buf = serialize.Append(p.buf[:0], p.Tree(text, opts))
	return string(p.buf)
}

var parsers = sync.Pool{
	New: func() any { return NewParser() },
}

// Parse parses text with every extension enabled and returns its JSON.
func Parse(text string) string {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions parses text with the given extensions and returns its
// JSON.
func ParseWithOptions(text string, opts Options) string {
	p := parsers.Get().(*Parser)
	defer parsers.Put(p)
	return p.ParseWithOptions(text, opts)
}

// Tree parses text into a document tree.
func Tree(text string, opts Options) *node.Container {
	p := parsers.Get().(*Parser)
	defer parsers.Put(p)
	return p.Tree(text, opts)
}

// Encode renders a tree as canonical JSON.
func Encode(n node.Node) string {
	return serialize.Encode(n)
}

// Decode rebuilds a tree from its canonical JSON.
func Decode(json string) (*node.Container, error) {
	return serialize.Decode([]byte(json))
}
