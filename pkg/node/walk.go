package node

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if b, ok := n.(Branch); ok {
		for _, c := range b.ChildNodes() {
			walk(c, depth+1, fn)
		}
	}
}

// Stats summarises a tree.
type Stats struct {
	Nodes    int
	MaxDepth int
	ByKind   map[Kind]int
}

// Collect counts the nodes of the tree rooted at n.
func Collect(n Node) Stats {
	s := Stats{ByKind: make(map[Kind]int)}
	Walk(n, func(n Node, depth int) bool {
		s.Nodes++
		s.ByKind[n.Kind()]++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		return true
	})
	return s
}

// PlainText concatenates the textual content below n: text and code
// contents, image alt text, and a newline for each break.
func PlainText(n Node) string {
	var buf []byte
	Walk(n, func(n Node, _ int) bool {
		switch v := n.(type) {
		case *Literal:
			if v.Type == KindText {
				buf = append(buf, v.Content...)
			}
		case *CodeInline:
			buf = append(buf, v.Content...)
		case *Image:
			buf = append(buf, v.Alt...)
		case *Leaf:
			if v.Type == KindLineBreak || v.Type == KindSoftBreak {
				buf = append(buf, '\n')
			}
		}
		return true
	})
	return string(buf)
}
