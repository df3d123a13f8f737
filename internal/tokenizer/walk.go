package tokenizer

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/samsaffron/mdast/internal/event"
	"github.com/samsaffron/mdast/pkg/node"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// walker converts a goldmark AST into events as ast.Walk visits it.
type walker struct {
	src     []byte
	yield   func(event.Event) bool
	stopped bool
}

func (w *walker) emit(ev event.Event) bool {
	if w.stopped {
		return false
	}
	if !w.yield(ev) {
		w.stopped = true
		return false
	}
	return true
}

func (w *walker) run(cat event.Category, b []byte) bool {
	if len(b) == 0 {
		return !w.stopped
	}
	return w.emit(event.Event{Type: event.Text, Category: cat, Bytes: b})
}

func (w *walker) status(s ast.WalkStatus) (ast.WalkStatus, error) {
	if w.stopped {
		return ast.WalkStop, nil
	}
	return s, nil
}

func (w *walker) block(kind node.Kind, d event.Detail, entering bool) {
	if entering {
		w.emit(event.Enter(kind, d))
	} else {
		w.emit(event.Leave(kind))
	}
}

func (w *walker) span(kind node.Kind, d event.Detail, entering bool) {
	if entering {
		w.emit(event.EnterSpanOf(kind, d))
	} else {
		w.emit(event.LeaveSpanOf(kind))
	}
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Document:
		w.block(node.KindDocument, nil, entering)
	case *ast.Paragraph:
		w.block(node.KindParagraph, nil, entering)
	case *ast.TextBlock:
		// Tight list items carry their inlines without a paragraph.
	case *ast.Heading:
		w.block(node.KindHeading, event.HeadingDetail{Level: n.Level}, entering)
	case *ast.ThematicBreak:
		w.block(node.KindHorizontalRule, nil, entering)
	case *ast.Blockquote:
		w.block(node.KindBlockquote, nil, entering)
	case *ast.List:
		w.block(node.KindList, event.ListDetail{Ordered: n.IsOrdered(), Start: n.Start}, entering)
	case *ast.ListItem:
		w.block(node.KindListItem, taskDetail(n), entering)

	case *ast.FencedCodeBlock:
		if !entering {
			w.block(node.KindCodeBlock, nil, false)
			break
		}
		w.block(node.KindCodeBlock, event.CodeBlockDetail{Lang: resolve(n.Language(w.src))}, true)
		w.lines(n.Lines(), event.Code)
		return w.status(ast.WalkSkipChildren)
	case *ast.CodeBlock:
		if !entering {
			w.block(node.KindCodeBlock, nil, false)
			break
		}
		w.block(node.KindCodeBlock, event.CodeBlockDetail{}, true)
		w.lines(n.Lines(), event.Code)
		return w.status(ast.WalkSkipChildren)
	case *ast.HTMLBlock:
		if !entering {
			w.block(node.KindHTMLBlock, nil, false)
			break
		}
		w.block(node.KindHTMLBlock, nil, true)
		w.lines(n.Lines(), event.HTML)
		if n.HasClosure() {
			w.run(event.HTML, n.ClosureLine.Value(w.src))
		}
		return w.status(ast.WalkSkipChildren)

	case *ast.Emphasis:
		kind := node.KindItalic
		if n.Level >= 2 {
			kind = node.KindBold
		}
		w.span(kind, nil, entering)
	case *ast.Link:
		w.span(node.KindLink, event.LinkDetail{Href: resolve(n.Destination), Title: resolve(n.Title)}, entering)
	case *ast.Image:
		// The builder flattens whatever is nested here into the alt text.
		w.span(node.KindImage, event.LinkDetail{Href: resolve(n.Destination), Title: resolve(n.Title)}, entering)
	case *ast.AutoLink:
		if !entering {
			w.span(node.KindLink, nil, false)
			break
		}
		w.span(node.KindLink, event.LinkDetail{Href: autoLinkHref(n, w.src)}, true)
		w.run(event.Normal, n.Label(w.src))
		return w.status(ast.WalkSkipChildren)
	case *ast.CodeSpan:
		if !entering {
			w.span(node.KindCodeInline, nil, false)
			break
		}
		w.span(node.KindCodeInline, nil, true)
		w.run(event.Code, w.rawText(n))
		return w.status(ast.WalkSkipChildren)
	case *Math:
		kind := node.KindMathInline
		if n.Display {
			kind = node.KindMathBlock
		}
		if !entering {
			w.span(kind, nil, false)
			break
		}
		w.span(kind, nil, true)
		v := w.rawText(n)
		if n.Display {
			v = bytes.TrimSpace(v)
		}
		w.run(event.Math, v)
		return w.status(ast.WalkSkipChildren)
	case *ast.RawHTML:
		if entering {
			w.run(event.HTML, w.join(n.Segments))
		}
	case *ast.Text:
		if entering {
			w.text(n)
		}
	case *ast.String:
		if entering {
			cat := event.Normal
			if n.IsCode() {
				cat = event.Code
			}
			w.run(cat, n.Value)
		}

	case *extast.Strikethrough:
		w.span(node.KindStrikethrough, nil, entering)
	case *extast.TaskCheckBox:
		// Reported through the list item detail.
	case *extast.Table:
		w.block(node.KindTable, nil, entering)
	case *extast.TableHeader:
		if entering {
			w.block(node.KindTableHead, nil, true)
			w.block(node.KindTableRow, nil, true)
		} else {
			w.block(node.KindTableRow, nil, false)
			w.block(node.KindTableHead, nil, false)
		}
	case *extast.TableRow:
		if entering {
			if _, ok := n.PreviousSibling().(*extast.TableRow); !ok {
				w.block(node.KindTableBody, nil, true)
			}
			w.block(node.KindTableRow, nil, true)
		} else {
			w.block(node.KindTableRow, nil, false)
			if n.NextSibling() == nil {
				w.block(node.KindTableBody, nil, false)
			}
		}
	case *extast.TableCell:
		_, header := n.Parent().(*extast.TableHeader)
		w.block(node.KindTableCell, event.CellDetail{Header: header, Align: align(n.Alignment)}, entering)
	}
	return w.status(ast.WalkContinue)
}

func (w *walker) lines(lines *text.Segments, cat event.Category) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if !w.run(cat, seg.Value(w.src)) {
			return
		}
	}
}

// join concatenates segments so multi-line raw HTML stays one run.
func (w *walker) join(segs *text.Segments) []byte {
	var buf []byte
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf = append(buf, seg.Value(w.src)...)
	}
	return buf
}

// rawText joins the raw text children of a code or math span, turning
// line endings into spaces.
func (w *walker) rawText(n ast.Node) []byte {
	var buf []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		v := t.Segment.Value(w.src)
		if len(v) > 0 && v[len(v)-1] == '\n' {
			buf = append(buf, v[:len(v)-1]...)
			buf = append(buf, ' ')
			continue
		}
		buf = append(buf, v...)
	}
	return buf
}

func (w *walker) text(n *ast.Text) {
	v := n.Segment.Value(w.src)
	if n.IsRaw() {
		w.run(event.Normal, v)
	} else {
		w.inline(v)
	}
	if !n.HardLineBreak() && !n.SoftLineBreak() || !hasFollowing(n) {
		return
	}
	if n.HardLineBreak() {
		w.run(event.Break, []byte{'\n'})
	} else {
		w.run(event.SoftBreak, []byte{'\n'})
	}
}

// inline splits text into plain runs, decoded entity references and NUL
// characters, dropping the backslash of escaped punctuation.
func (w *walker) inline(v []byte) {
	n := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '\\':
			if i+1 < len(v) && util.IsPunct(v[i+1]) {
				if !w.run(event.Normal, v[n:i]) {
					return
				}
				n = i + 1
				i++
			}
		case 0:
			if !w.run(event.Normal, v[n:i]) || !w.run(event.NullChar, v[i:i+1]) {
				return
			}
			n = i + 1
		case '&':
			decoded, size := entity(v[i:])
			if size == 0 {
				continue
			}
			if !w.run(event.Normal, v[n:i]) || !w.run(event.Entity, decoded) {
				return
			}
			n = i + size
			i += size - 1
		}
	}
	w.run(event.Normal, v[n:])
}

// entity decodes the character reference at the start of b and reports
// how many bytes it spans, or 0 if b does not start with one.
func entity(b []byte) ([]byte, int) {
	if len(b) < 3 || b[0] != '&' {
		return nil, 0
	}
	if b[1] == '#' {
		start, base, limit, pred := 2, 10, 7, util.IsNumeric
		if b[2] == 'x' || b[2] == 'X' {
			start, base, limit, pred = 3, 16, 6, util.IsHexDecimal
		}
		end, ok := util.ReadWhile(b, [2]int{start, len(b)}, pred)
		if !ok || end >= len(b) || b[end] != ';' || end-start > limit {
			return nil, 0
		}
		v, err := strconv.ParseUint(string(b[start:end]), base, 32)
		if err != nil {
			return nil, 0
		}
		return utf8.AppendRune(nil, util.ToValidRune(rune(v))), end + 1
	}
	end, ok := util.ReadWhile(b, [2]int{1, len(b)}, util.IsAlphaNumeric)
	if !ok || end >= len(b) || b[end] != ';' {
		return nil, 0
	}
	e, found := util.LookUpHTML5EntityByName(string(b[1:end]))
	if !found {
		return nil, 0
	}
	return e.Characters, end + 1
}

// hasFollowing reports whether any inline content comes after n within its
// block. A break at the very end of a block is dropped.
func hasFollowing(n ast.Node) bool {
	for ; n != nil; n = n.Parent() {
		if n.NextSibling() != nil {
			return true
		}
		if p := n.Parent(); p == nil || p.Type() != ast.TypeInline {
			return false
		}
	}
	return false
}

func taskDetail(li *ast.ListItem) event.Detail {
	if first := li.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
			mark := byte(' ')
			if box.IsChecked {
				mark = 'x'
			}
			return event.ListItemDetail{IsTask: true, TaskMark: mark}
		}
	}
	return event.ListItemDetail{}
}

func align(a extast.Alignment) node.Align {
	switch a {
	case extast.AlignLeft:
		return node.AlignLeft
	case extast.AlignCenter:
		return node.AlignCenter
	case extast.AlignRight:
		return node.AlignRight
	}
	return node.AlignDefault
}

// resolve applies backslash escapes and character references to a link
// destination, title or info string.
func resolve(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func autoLinkHref(n *ast.AutoLink, src []byte) string {
	url := n.URL(src)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		return "mailto:" + string(url)
	}
	return string(url)
}
