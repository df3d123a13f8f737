package tokenizer

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the goldmark node kind for $...$ and $$...$$ spans.
var KindMath = ast.NewNodeKind("Math")

// Math is an inline TeX span. Its children are raw text segments, one per
// source line, in the same shape goldmark uses for code spans.
type Math struct {
	ast.BaseInline
	Display bool
}

func (n *Math) Kind() ast.NodeKind { return KindMath }

func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": fmt.Sprintf("%v", n.Display),
	}, nil)
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse recognises $inline$ and $$display$$. An inline opener must be
// followed by a non-space; an inline closer must follow a non-space and
// must not be followed by a digit, so "$5 and $10" stays text.
func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, startSegment := block.PeekLine()
	opener := 0
	for ; opener < len(line) && line[opener] == '$'; opener++ {
	}
	block.Advance(opener)
	literal := ast.NewTextSegment(startSegment.WithStop(startSegment.Start + opener))
	if opener > 2 {
		return literal
	}
	if opener == 1 && (opener >= len(line) || isMathSpace(line[opener])) {
		return literal
	}

	l, pos := block.Position()
	node := &Math{Display: opener == 2}
	prev := byte('$')
	for {
		line, segment := block.PeekLine()
		if line == nil {
			block.SetPosition(l, pos)
			return literal
		}
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c == '\\' && i+1 < len(line) {
				prev = line[i+1]
				i++
				continue
			}
			if c != '$' {
				prev = c
				continue
			}
			start := i
			for ; i < len(line) && line[i] == '$'; i++ {
			}
			run := i - start
			if run == opener && p.closes(opener, prev, line, i) {
				segment = segment.WithStop(segment.Start + start)
				if !segment.IsEmpty() {
					node.AppendChild(node, ast.NewRawTextSegment(segment))
				}
				if !node.HasChildren() && opener == 1 {
					block.SetPosition(l, pos)
					return literal
				}
				block.Advance(i)
				return node
			}
			prev = '$'
			i--
		}
		node.AppendChild(node, ast.NewRawTextSegment(segment))
		block.AdvanceLine()
		prev = '\n'
	}
}

func (p *mathParser) closes(opener int, prev byte, line []byte, next int) bool {
	if opener == 2 {
		return true
	}
	if isMathSpace(prev) || prev == '$' {
		return false
	}
	return next >= len(line) || line[next] < '0' || line[next] > '9'
}

func isMathSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type mathExtension struct{}

// MathExtension adds $ and $$ TeX spans to a goldmark parser.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 500),
	))
}
