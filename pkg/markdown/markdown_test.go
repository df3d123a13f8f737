package markdown

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/samsaffron/mdast/pkg/node"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  `{"type":"document"}`,
		},
		{
			name:  "paragraph",
			input: "Hello world",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"Hello world"}]}]}`,
		},
		{
			name:  "heading",
			input: "# Hello World",
			want:  `{"type":"document","children":[{"type":"heading","level":1,"children":[{"type":"text","content":"Hello World"}]}]}`,
		},
		{
			name:  "inline code",
			input: "`code`",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"code_inline","content":"code"}]}]}`,
		},
		{
			name:  "image",
			input: "![alt](src)",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"image","href":"src","alt":"alt"}]}]}`,
		},
		{
			name:  "bullet list",
			input: "- Item 1\n- Item 2",
			want: `{"type":"document","children":[{"type":"list","ordered":false,"children":[` +
				`{"type":"list_item","children":[{"type":"text","content":"Item 1"}]},` +
				`{"type":"list_item","children":[{"type":"text","content":"Item 2"}]}]}]}`,
		},
		{
			name:  "ordered list",
			input: "3. three\n4. four",
			want: `{"type":"document","children":[{"type":"list","ordered":true,"start":3,"children":[` +
				`{"type":"list_item","children":[{"type":"text","content":"three"}]},` +
				`{"type":"list_item","children":[{"type":"text","content":"four"}]}]}]}`,
		},
		{
			name:  "unchecked task",
			input: "- [ ] x",
			want:  `{"type":"document","children":[{"type":"list","ordered":false,"children":[{"type":"task_list_item","checked":false,"children":[{"type":"text","content":"x"}]}]}]}`,
		},
		{
			name:  "checked task",
			input: "- [x] x",
			want:  `{"type":"document","children":[{"type":"list","ordered":false,"children":[{"type":"task_list_item","checked":true,"children":[{"type":"text","content":"x"}]}]}]}`,
		},
		{
			name:  "tight item with inline code",
			input: "- call `Series A` now",
			want: `{"type":"document","children":[{"type":"list","ordered":false,"children":[{"type":"list_item","children":[` +
				`{"type":"text","content":"call "},{"type":"code_inline","content":"Series A"},{"type":"text","content":" now"}]}]}]}`,
		},
		{
			name:  "soft break",
			input: "a\nb",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"a"},{"type":"soft_break"},{"type":"text","content":"b"}]}]}`,
		},
		{
			name:  "hard break",
			input: "a\\\nb",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"a"},{"type":"line_break"},{"type":"text","content":"b"}]}]}`,
		},
		{
			name:  "emphasis",
			input: "*a* **b** ~~c~~",
			want: `{"type":"document","children":[{"type":"paragraph","children":[` +
				`{"type":"italic","children":[{"type":"text","content":"a"}]},{"type":"text","content":" "},` +
				`{"type":"bold","children":[{"type":"text","content":"b"}]},{"type":"text","content":" "},` +
				`{"type":"strikethrough","children":[{"type":"text","content":"c"}]}]}]}`,
		},
		{
			name:  "link with title",
			input: `[t](http://x.test "T")`,
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"link","href":"http://x.test","title":"T","children":[{"type":"text","content":"t"}]}]}]}`,
		},
		{
			name:  "entity coalesced with text",
			input: "fish &amp; chips",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"fish & chips"}]}]}`,
		},
		{
			name:  "escaped punctuation",
			input: `\*literal\*`,
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"*literal*"}]}]}`,
		},
		{
			name:  "fenced code",
			input: "```js\nlet x = \"y\";\n```",
			want:  `{"type":"document","children":[{"type":"code_block","language":"js","children":[{"type":"text","content":"let x = \"y\";\n"}]}]}`,
		},
		{
			name:  "blockquote and rule",
			input: "> quoted\n\n---",
			want: `{"type":"document","children":[{"type":"blockquote","children":[{"type":"paragraph","children":[{"type":"text","content":"quoted"}]}]},` +
				`{"type":"horizontal_rule"}]}`,
		},
		{
			name:  "inline html",
			input: "a <b>x</b>",
			want: `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"a "},` +
				`{"type":"html_inline","content":"<b>"},{"type":"text","content":"x"},{"type":"html_inline","content":"</b>"}]}]}`,
		},
		{
			name:  "inline math",
			input: "area $\\pi r^2$ here",
			want: `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"area "},` +
				`{"type":"math_inline","children":[{"type":"text","content":"\\pi r^2"}]},{"type":"text","content":" here"}]}]}`,
		},
		{
			name:  "prices are not math",
			input: "$5 and $10",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"$5 and $10"}]}]}`,
		},
		{
			name:  "table",
			input: "| a | b |\n|:-:|---|\n| 1 | 2 |",
			want: `{"type":"document","children":[{"type":"table","children":[` +
				`{"type":"table_head","children":[{"type":"table_row","children":[` +
				`{"type":"table_cell","isHeader":true,"align":"center","children":[{"type":"text","content":"a"}]},` +
				`{"type":"table_cell","isHeader":true,"children":[{"type":"text","content":"b"}]}]}]},` +
				`{"type":"table_body","children":[{"type":"table_row","children":[` +
				`{"type":"table_cell","isHeader":false,"align":"center","children":[{"type":"text","content":"1"}]},` +
				`{"type":"table_cell","isHeader":false,"children":[{"type":"text","content":"2"}]}]}]}]}]}`,
		},
		{
			name:  "null byte",
			input: "a\x00b",
			want:  `{"type":"document","children":[{"type":"paragraph","children":[{"type":"text","content":"a\u0000b"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWithOptions(t *testing.T) {
	const input = "~~del~~ $x$\n\n| a |\n|---|\n| 1 |"

	tests := []struct {
		name      string
		opts      Options
		wantKinds []node.Kind
		noKinds   []node.Kind
	}{
		{
			name:      "defaults enable everything",
			opts:      Options{},
			wantKinds: []node.Kind{node.KindStrikethrough, node.KindMathInline, node.KindTable},
		},
		{
			name:      "both on",
			opts:      Options{GFM: Bool(true), Math: Bool(true)},
			wantKinds: []node.Kind{node.KindStrikethrough, node.KindMathInline, node.KindTable},
		},
		{
			name:      "gfm only",
			opts:      Options{GFM: Bool(true), Math: Bool(false)},
			wantKinds: []node.Kind{node.KindStrikethrough, node.KindTable},
			noKinds:   []node.Kind{node.KindMathInline},
		},
		{
			name:      "math only",
			opts:      Options{GFM: Bool(false), Math: Bool(true)},
			wantKinds: []node.Kind{node.KindMathInline},
			noKinds:   []node.Kind{node.KindStrikethrough, node.KindTable},
		},
		{
			name:    "both off",
			opts:    Options{GFM: Bool(false), Math: Bool(false)},
			noKinds: []node.Kind{node.KindStrikethrough, node.KindMathInline, node.KindTable},
		},
		{
			name:      "math omitted defaults on",
			opts:      Options{GFM: Bool(false)},
			wantKinds: []node.Kind{node.KindMathInline},
			noKinds:   []node.Kind{node.KindTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseWithOptions(input, tt.opts)
			tree, err := Decode(out)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			stats := node.Collect(tree)
			for _, k := range tt.wantKinds {
				if stats.ByKind[k] == 0 {
					t.Errorf("missing %s in %s", k, out)
				}
			}
			for _, k := range tt.noKinds {
				if stats.ByKind[k] != 0 {
					t.Errorf("unexpected %s in %s", k, out)
				}
			}
		})
	}

	if got, want := Parse(input), ParseWithOptions(input, Options{}); got != want {
		t.Errorf("Parse and ParseWithOptions with defaults differ:\n%s\n%s", got, want)
	}
}

func hostileInputs() map[string]string {
	var nested strings.Builder
	for i := 0; i < 50; i++ {
		nested.WriteString(strings.Repeat("  ", i))
		nested.WriteString("- level\n")
	}
	return map[string]string{
		"unmatched brackets": strings.Repeat("[", 100),
		"unmatched parens":   strings.Repeat("](", 100),
		"null bytes":         "a\x00b\x00\x00c",
		"long token":         strings.Repeat("a", 100000),
		"many headings":      strings.Repeat("# heading\n", 1000),
		"nested lists":       nested.String(),
		"many code spans":    strings.Repeat("`x` ", 1000),
		"long url":           "[l](http://example.com/" + strings.Repeat("a", 10000) + ")",
		"unicode":            "héllo 世界 🎉 **ñ** `ü`",
		"unterminated fence": "```go\nfunc main() {\n",
		"unterminated link":  "[text](http://example.com",
		"emphasis soup":      strings.Repeat("*_~", 300),
		"deep quotes":        strings.Repeat(">", 200) + " q",
		"dollar soup":        strings.Repeat("$", 101) + " $$ $ $x",
		"control chars":      "\x01\x02\x1b[31mred\x1b[0m\r\n",
		"html soup":          "<div><span><a href='x'>" + strings.Repeat("<i>", 100),
		"crlf":               "line one\r\nline two\r\n\r\n- item\r\n",
	}
}

func TestParseHostileInput(t *testing.T) {
	for name, input := range hostileInputs() {
		t.Run(name, func(t *testing.T) {
			out := Parse(input)
			if !json.Valid([]byte(out)) {
				t.Fatalf("Parse() produced invalid JSON: %.200s", out)
			}
			tree, err := Decode(out)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if tree.Kind() != node.KindDocument {
				t.Fatalf("root kind = %s", tree.Kind())
			}
			if again := Encode(tree); again != out {
				t.Errorf("re-encoding is not byte-identical")
			}
		})
	}
}

func TestParserReuse(t *testing.T) {
	p := NewParser()
	want := Parse("Hello **world**")
	for i := 0; i < 1000; i++ {
		if got := p.Parse("Hello **world**"); got != want {
			t.Fatalf("iteration %d: got %s, want %s", i, got, want)
		}
	}

	// A failed-looking parse must not leak into the next one.
	p.Parse("[[[ `unterminated *emph")
	if got := p.Parse("x"); got != Parse("x") {
		t.Errorf("state leaked between parses: %s", got)
	}
}

func TestParseConcurrent(t *testing.T) {
	inputs := []string{"# a", "- [x] b", "| c |\n|---|\n| d |", "$e$", "plain f"}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = Parse(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				idx := (g + i) % len(inputs)
				if got := Parse(inputs[idx]); got != want[idx] {
					select {
					case errs <- got:
					default:
					}
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent parse mismatch: %s", got)
	}
}

func TestTree(t *testing.T) {
	tree := Tree("# Title\n\nSome *text* and ![pic](p.png)", Options{})
	if got := node.PlainText(tree); got != "TitleSome text and pic" {
		t.Errorf("PlainText() = %q", got)
	}
	if got := Encode(tree); got != Parse("# Title\n\nSome *text* and ![pic](p.png)") {
		t.Errorf("Encode(Tree()) differs from Parse(): %s", got)
	}
}
