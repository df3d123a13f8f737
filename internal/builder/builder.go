// Package builder turns a stream of markdown events into a document tree.
package builder

import (
	"iter"

	"github.com/samsaffron/mdast/internal/event"
	"github.com/samsaffron/mdast/pkg/node"
)

// Builder assembles a tree from events. The zero value is ready to use.
// A Builder may be reused for sequential builds but must not be shared
// between goroutines.
type Builder struct {
	root    *node.Container
	stack   []node.Node
	pending []byte

	// muted counts nodes opened inside a code span, image or html block.
	// Their enter and leave events are dropped and only their text is kept.
	muted int
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Build consumes events and returns the finished document. Malformed input
// (unbalanced leaves, truncated streams) never fails: extra leaves are
// ignored and nodes still open at the end are closed.
func (b *Builder) Build(events iter.Seq[event.Event]) *node.Container {
	b.reset()
	for ev := range events {
		b.handle(ev)
	}
	return b.finish()
}

func (b *Builder) reset() {
	b.root = node.NewDocument()
	clear(b.stack)
	b.stack = append(b.stack[:0], b.root)
	b.pending = b.pending[:0]
	b.muted = 0
}

func (b *Builder) handle(ev event.Event) {
	switch {
	case ev.Type.IsEnter():
		b.enter(ev.Kind, ev.Detail)
	case ev.Type.IsLeave():
		b.leave(ev.Kind)
	case ev.Type == event.Text:
		b.text(ev.Category, ev.Bytes)
	}
}

func (b *Builder) top() node.Node {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) enter(kind node.Kind, detail event.Detail) {
	if kind == node.KindDocument {
		return
	}
	if opaque(b.top()) {
		if !leafOnly(kind) {
			b.muted++
		}
		return
	}

	b.flush()
	n := newNode(kind, detail)
	b.top().(node.Branch).Append(n)
	if !leafOnly(kind) {
		b.stack = append(b.stack, n)
	}
}

func (b *Builder) leave(kind node.Kind) {
	if kind == node.KindDocument || leafOnly(kind) {
		return
	}
	if b.muted > 0 {
		b.muted--
		return
	}

	switch n := b.top().(type) {
	case *node.CodeInline:
		n.Content = b.take()
	case *node.Image:
		n.Alt = b.take()
	case *node.Literal:
		n.Content = b.take()
	default:
		b.flush()
	}

	if len(b.stack) > 1 {
		b.stack[len(b.stack)-1] = nil
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *Builder) text(cat event.Category, p []byte) {
	if cat == event.NullChar {
		b.pending = append(b.pending, 0)
		return
	}
	if len(p) == 0 {
		return
	}

	switch cat {
	case event.Break, event.SoftBreak:
		if opaque(b.top()) {
			b.pending = append(b.pending, '\n')
			return
		}
		b.flush()
		kind := node.KindLineBreak
		if cat == event.SoftBreak {
			kind = node.KindSoftBreak
		}
		b.top().(node.Branch).Append(&node.Leaf{Type: kind})

	case event.HTML:
		if opaque(b.top()) {
			b.pending = append(b.pending, p...)
			return
		}
		b.flush()
		b.top().(node.Branch).Append(&node.Literal{Type: node.KindHTMLInline, Content: string(p)})

	default:
		b.pending = append(b.pending, p...)
	}
}

// flush moves pending text into a text child of the top node.
func (b *Builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	parent, ok := b.top().(node.Branch)
	if !ok {
		return
	}
	parent.Append(node.NewText(string(b.pending)))
	b.pending = b.pending[:0]
}

func (b *Builder) take() string {
	s := string(b.pending)
	b.pending = b.pending[:0]
	return s
}

func (b *Builder) finish() *node.Container {
	b.muted = 0
	for len(b.stack) > 1 {
		b.leave(b.top().Kind())
	}
	b.flush()
	root := b.root
	b.root = nil
	b.stack[0] = nil
	b.stack = b.stack[:0]
	return root
}

// leafOnly kinds are attached without being pushed, and their leave
// events are ignored.
func leafOnly(kind node.Kind) bool {
	switch kind {
	case node.KindHorizontalRule, node.KindLineBreak, node.KindSoftBreak,
		node.KindText, node.KindHTMLInline:
		return true
	}
	return false
}
