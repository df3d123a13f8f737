// Package node defines the document tree produced by the markdown builder.
//
// Every node kind has its own Go type carrying only the attributes that are
// meaningful for it. Container kinds without attributes share Container.
package node

// Kind identifies the variant of a node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindBold
	KindItalic
	KindStrikethrough
	KindLink
	KindImage
	KindCodeInline
	KindCodeBlock
	KindBlockquote
	KindHorizontalRule
	KindLineBreak
	KindSoftBreak
	KindTable
	KindTableHead
	KindTableBody
	KindTableRow
	KindTableCell
	KindList
	KindListItem
	KindTaskListItem
	KindMathInline
	KindMathBlock
	KindHTMLBlock
	KindHTMLInline

	kindCount
)

var kindNames = [kindCount]string{
	KindDocument:       "document",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindText:           "text",
	KindBold:           "bold",
	KindItalic:         "italic",
	KindStrikethrough:  "strikethrough",
	KindLink:           "link",
	KindImage:          "image",
	KindCodeInline:     "code_inline",
	KindCodeBlock:      "code_block",
	KindBlockquote:     "blockquote",
	KindHorizontalRule: "horizontal_rule",
	KindLineBreak:      "line_break",
	KindSoftBreak:      "soft_break",
	KindTable:          "table",
	KindTableHead:      "table_head",
	KindTableBody:      "table_body",
	KindTableRow:       "table_row",
	KindTableCell:      "table_cell",
	KindList:           "list",
	KindListItem:       "list_item",
	KindTaskListItem:   "task_list_item",
	KindMathInline:     "math_inline",
	KindMathBlock:      "math_block",
	KindHTMLBlock:      "html_block",
	KindHTMLInline:     "html_inline",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a wire name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Align is the horizontal alignment of a table cell.
type Align uint8

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the wire name, or "" for AlignDefault.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

// ParseAlign is the inverse of Align.String.
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "":
		return AlignDefault, true
	case "left":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	}
	return AlignDefault, false
}

// Node is implemented by every tree variant.
type Node interface {
	Kind() Kind
}

// Branch is a node that owns an ordered list of children.
type Branch interface {
	Node
	Append(child Node)
	ChildNodes() []Node
}

// Children is embedded by every variant that can own child nodes.
type Children struct {
	Nodes []Node
}

// Append adds child as the last child.
func (c *Children) Append(child Node) {
	c.Nodes = append(c.Nodes, child)
}

// ChildNodes returns the children in document order.
func (c *Children) ChildNodes() []Node {
	return c.Nodes
}

// Container is an attribute-less container: document, paragraph, emphasis,
// blockquote, table structure, list_item and math.
type Container struct {
	Type Kind
	Children
}

func (n *Container) Kind() Kind { return n.Type }

// NewDocument returns an empty document root.
func NewDocument() *Container {
	return &Container{Type: KindDocument}
}

type Heading struct {
	Level int
	Children
}

func (*Heading) Kind() Kind { return KindHeading }

// Link carries an optional destination and title; "" means absent.
type Link struct {
	Href  string
	Title string
	Children
}

func (*Link) Kind() Kind { return KindLink }

// Image never has children. Its description is flattened into Alt.
type Image struct {
	Href  string
	Title string
	Alt   string
}

func (*Image) Kind() Kind { return KindImage }

type CodeInline struct {
	Content string
}

func (*CodeInline) Kind() Kind { return KindCodeInline }

// CodeBlock holds its body as text children. Language "" means absent.
type CodeBlock struct {
	Language string
	Children
}

func (*CodeBlock) Kind() Kind { return KindCodeBlock }

// List is bulleted unless Ordered; Start only applies to ordered lists.
type List struct {
	Ordered bool
	Start   int
	Children
}

func (*List) Kind() Kind { return KindList }

type TaskListItem struct {
	Checked bool
	Children
}

func (*TaskListItem) Kind() Kind { return KindTaskListItem }

type TableCell struct {
	Header bool
	Align  Align
	Children
}

func (*TableCell) Kind() Kind { return KindTableCell }

// Literal is a content-only node: text, html_inline or html_block.
type Literal struct {
	Type    Kind
	Content string
}

func (n *Literal) Kind() Kind { return n.Type }

// Leaf is a node with neither attributes nor children: horizontal_rule,
// line_break and soft_break.
type Leaf struct {
	Type Kind
}

func (n *Leaf) Kind() Kind { return n.Type }

// NewText returns a text node.
func NewText(s string) *Literal {
	return &Literal{Type: KindText, Content: s}
}
