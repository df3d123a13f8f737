// Package serialize converts document trees to and from their canonical
// JSON form.
//
// Field order is fixed: type, content, level, href, title, alt, language,
// ordered, start, checked, isHeader, align, children. Attributes a kind
// does not carry are omitted, as is an empty children array.
package serialize

import (
	"strconv"

	"github.com/samsaffron/mdast/pkg/node"
)

// Encode returns the canonical JSON text for the tree rooted at n.
func Encode(n node.Node) string {
	return string(Append(make([]byte, 0, 256), n))
}

// Append appends the canonical JSON text for n to dst.
func Append(dst []byte, n node.Node) []byte {
	dst = append(dst, `{"type":"`...)
	dst = append(dst, n.Kind().String()...)
	dst = append(dst, '"')

	var children []node.Node
	switch v := n.(type) {
	case *node.Container:
		children = v.Nodes
	case *node.Literal:
		dst = appendField(dst, "content", v.Content)
	case *node.Leaf:
	case *node.Heading:
		dst = appendInt(dst, "level", v.Level)
		children = v.Nodes
	case *node.Link:
		dst = appendOptional(dst, "href", v.Href)
		dst = appendOptional(dst, "title", v.Title)
		children = v.Nodes
	case *node.Image:
		dst = appendOptional(dst, "href", v.Href)
		dst = appendOptional(dst, "title", v.Title)
		dst = appendField(dst, "alt", v.Alt)
	case *node.CodeInline:
		dst = appendField(dst, "content", v.Content)
	case *node.CodeBlock:
		dst = appendOptional(dst, "language", v.Language)
		children = v.Nodes
	case *node.List:
		dst = appendBool(dst, "ordered", v.Ordered)
		if v.Ordered {
			dst = appendInt(dst, "start", v.Start)
		}
		children = v.Nodes
	case *node.TaskListItem:
		dst = appendBool(dst, "checked", v.Checked)
		children = v.Nodes
	case *node.TableCell:
		dst = appendBool(dst, "isHeader", v.Header)
		if v.Align != node.AlignDefault {
			dst = appendField(dst, "align", v.Align.String())
		}
		children = v.Nodes
	default:
		if b, ok := n.(node.Branch); ok {
			children = b.ChildNodes()
		}
	}

	if len(children) > 0 {
		dst = append(dst, `,"children":[`...)
		for i, c := range children {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = Append(dst, c)
		}
		dst = append(dst, ']')
	}
	return append(dst, '}')
}

func appendKey(dst []byte, key string) []byte {
	dst = append(dst, ',', '"')
	dst = append(dst, key...)
	return append(dst, '"', ':')
}

func appendField(dst []byte, key, val string) []byte {
	return AppendString(appendKey(dst, key), val)
}

func appendOptional(dst []byte, key, val string) []byte {
	if val == "" {
		return dst
	}
	return appendField(dst, key, val)
}

func appendInt(dst []byte, key string, v int) []byte {
	return strconv.AppendInt(appendKey(dst, key), int64(v), 10)
}

func appendBool(dst []byte, key string, v bool) []byte {
	return strconv.AppendBool(appendKey(dst, key), v)
}

const hexDigits = "0123456789abcdef"

// AppendString appends s as a quoted JSON string. Only the quote, the
// backslash and bytes below 0x20 are escaped; everything else, including
// non-ASCII and invalid UTF-8, is copied through unchanged.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
