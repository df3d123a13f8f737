package serialize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samsaffron/mdast/pkg/node"
)

// ErrNotDocument is returned when the top-level value is not a document.
var ErrNotDocument = errors.New("root node is not a document")

type wireNode struct {
	Type     string     `json:"type"`
	Content  *string    `json:"content"`
	Level    *int       `json:"level"`
	Href     *string    `json:"href"`
	Title    *string    `json:"title"`
	Alt      *string    `json:"alt"`
	Language *string    `json:"language"`
	Ordered  *bool      `json:"ordered"`
	Start    *int       `json:"start"`
	Checked  *bool      `json:"checked"`
	IsHeader *bool      `json:"isHeader"`
	Align    *string    `json:"align"`
	Children []wireNode `json:"children"`
}

// Decode parses the canonical JSON form back into a tree. Strings are
// decoded by encoding/json, so invalid UTF-8 in the input comes back as
// U+FFFD.
func Decode(data []byte) (*node.Container, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	n, err := w.toNode()
	if err != nil {
		return nil, err
	}
	root, ok := n.(*node.Container)
	if !ok || root.Type != node.KindDocument {
		return nil, ErrNotDocument
	}
	return root, nil
}

func (w *wireNode) toNode() (node.Node, error) {
	kind, ok := node.ParseKind(w.Type)
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", w.Type)
	}

	var n node.Node
	switch kind {
	case node.KindText, node.KindHTMLInline, node.KindHTMLBlock:
		n = &node.Literal{Type: kind, Content: str(w.Content)}
	case node.KindHorizontalRule, node.KindLineBreak, node.KindSoftBreak:
		n = &node.Leaf{Type: kind}
	case node.KindHeading:
		level := 0
		if w.Level != nil {
			level = *w.Level
		}
		n = &node.Heading{Level: level}
	case node.KindLink:
		n = &node.Link{Href: str(w.Href), Title: str(w.Title)}
	case node.KindImage:
		n = &node.Image{Href: str(w.Href), Title: str(w.Title), Alt: str(w.Alt)}
	case node.KindCodeInline:
		n = &node.CodeInline{Content: str(w.Content)}
	case node.KindCodeBlock:
		n = &node.CodeBlock{Language: str(w.Language)}
	case node.KindList:
		l := &node.List{Ordered: w.Ordered != nil && *w.Ordered}
		if l.Ordered && w.Start != nil {
			l.Start = *w.Start
		}
		n = l
	case node.KindTaskListItem:
		n = &node.TaskListItem{Checked: w.Checked != nil && *w.Checked}
	case node.KindTableCell:
		c := &node.TableCell{Header: w.IsHeader != nil && *w.IsHeader}
		if w.Align != nil {
			a, ok := node.ParseAlign(*w.Align)
			if !ok {
				return nil, fmt.Errorf("unknown alignment %q", *w.Align)
			}
			c.Align = a
		}
		n = c
	default:
		n = &node.Container{Type: kind}
	}

	if len(w.Children) == 0 {
		return n, nil
	}
	parent, ok := n.(node.Branch)
	if !ok {
		return nil, fmt.Errorf("%s node cannot have children", w.Type)
	}
	for i := range w.Children {
		c, err := w.Children[i].toNode()
		if err != nil {
			return nil, err
		}
		parent.Append(c)
	}
	return n, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
