package builder

import (
	"github.com/samsaffron/mdast/internal/event"
	"github.com/samsaffron/mdast/pkg/node"
)

// newNode maps an enter event's kind and detail to a fresh node. It never
// looks at builder state. A detail of the wrong type is treated as missing.
func newNode(kind node.Kind, detail event.Detail) node.Node {
	switch kind {
	case node.KindHeading:
		d, _ := detail.(event.HeadingDetail)
		return &node.Heading{Level: clampLevel(d.Level)}

	case node.KindList:
		d, _ := detail.(event.ListDetail)
		if !d.Ordered {
			return &node.List{}
		}
		return &node.List{Ordered: true, Start: d.Start}

	case node.KindListItem, node.KindTaskListItem:
		d, ok := detail.(event.ListItemDetail)
		if (ok && d.IsTask) || (!ok && kind == node.KindTaskListItem) {
			return &node.TaskListItem{Checked: d.TaskMark == 'x' || d.TaskMark == 'X'}
		}
		return &node.Container{Type: node.KindListItem}

	case node.KindCodeBlock:
		d, _ := detail.(event.CodeBlockDetail)
		return &node.CodeBlock{Language: d.Lang}

	case node.KindLink:
		d, _ := detail.(event.LinkDetail)
		return &node.Link{Href: d.Href, Title: d.Title}

	case node.KindImage:
		d, _ := detail.(event.LinkDetail)
		return &node.Image{Href: d.Href, Title: d.Title}

	case node.KindTableCell:
		d, _ := detail.(event.CellDetail)
		return &node.TableCell{Header: d.Header, Align: d.Align}

	case node.KindCodeInline:
		return &node.CodeInline{}

	case node.KindText, node.KindHTMLInline, node.KindHTMLBlock:
		return &node.Literal{Type: kind}

	case node.KindHorizontalRule, node.KindLineBreak, node.KindSoftBreak:
		return &node.Leaf{Type: kind}
	}
	return &node.Container{Type: kind}
}

func clampLevel(l int) int {
	switch {
	case l < 1:
		return 1
	case l > 6:
		return 6
	}
	return l
}

// opaque reports whether n collects its text into an attribute instead of
// owning children.
func opaque(n node.Node) bool {
	switch v := n.(type) {
	case *node.CodeInline, *node.Image:
		return true
	case *node.Literal:
		return v.Type == node.KindHTMLBlock
	}
	return false
}
