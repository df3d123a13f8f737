// Package event defines the token stream that feeds the tree builder.
package event

import "github.com/samsaffron/mdast/pkg/node"

// Type is one of the five event shapes.
type Type uint8

const (
	EnterContainer Type = iota
	LeaveContainer
	EnterSpan
	LeaveSpan
	Text
)

func (t Type) String() string {
	switch t {
	case EnterContainer:
		return "enter"
	case LeaveContainer:
		return "leave"
	case EnterSpan:
		return "enter_span"
	case LeaveSpan:
		return "leave_span"
	case Text:
		return "text"
	}
	return "unknown"
}

// IsEnter reports whether t opens a node.
func (t Type) IsEnter() bool { return t == EnterContainer || t == EnterSpan }

// IsLeave reports whether t closes a node.
func (t Type) IsLeave() bool { return t == LeaveContainer || t == LeaveSpan }

// Category classifies a text event.
type Category uint8

const (
	Normal Category = iota
	Entity
	NullChar
	Code
	Math
	HTML
	Break
	SoftBreak
)

func (c Category) String() string {
	switch c {
	case Normal:
		return "normal"
	case Entity:
		return "entity"
	case NullChar:
		return "nullchar"
	case Code:
		return "code"
	case Math:
		return "math"
	case HTML:
		return "html"
	case Break:
		return "br"
	case SoftBreak:
		return "softbr"
	}
	return "unknown"
}

// Event is a single token. Kind and Detail are set for enter and leave
// events; Category and Bytes for text events.
type Event struct {
	Type     Type
	Kind     node.Kind
	Detail   Detail
	Category Category
	Bytes    []byte
}

// Detail is the per-kind payload carried by an enter event.
type Detail interface {
	detail()
}

type ListDetail struct {
	Ordered bool
	Start   int
}

// ListItemDetail marks a task item when IsTask is set; TaskMark is the
// character found between the brackets.
type ListItemDetail struct {
	IsTask   bool
	TaskMark byte
}

type HeadingDetail struct {
	Level int
}

type CodeBlockDetail struct {
	Lang string
}

// LinkDetail is shared by links and images.
type LinkDetail struct {
	Href  string
	Title string
}

type CellDetail struct {
	Header bool
	Align  node.Align
}

func (ListDetail) detail()      {}
func (ListItemDetail) detail()  {}
func (HeadingDetail) detail()   {}
func (CodeBlockDetail) detail() {}
func (LinkDetail) detail()      {}
func (CellDetail) detail()      {}

// Enter opens a block container.
func Enter(k node.Kind, d Detail) Event {
	return Event{Type: EnterContainer, Kind: k, Detail: d}
}

// Leave closes a block container.
func Leave(k node.Kind) Event {
	return Event{Type: LeaveContainer, Kind: k}
}

// EnterSpanOf opens an inline span.
func EnterSpanOf(k node.Kind, d Detail) Event {
	return Event{Type: EnterSpan, Kind: k, Detail: d}
}

// LeaveSpanOf closes an inline span.
func LeaveSpanOf(k node.Kind) Event {
	return Event{Type: LeaveSpan, Kind: k}
}

// TextOf is a text run of category c.
func TextOf(c Category, s string) Event {
	return Event{Type: Text, Category: c, Bytes: []byte(s)}
}
