package cmd

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/samsaffron/mdast/pkg/markdown"
)

func TestStreamDocuments(t *testing.T) {
	const text = "# title\n\nbody"

	var out bytes.Buffer
	r := iotest.OneByteReader(strings.NewReader(text))
	if err := streamDocuments(r, &out, markdown.Options{}, 4096, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(text) {
		t.Fatalf("got %d lines, want one per byte (%d)", len(lines), len(text))
	}
	if lines[0] != markdown.Parse("#") {
		t.Errorf("first line = %s", lines[0])
	}
	if last := lines[len(lines)-1]; last != markdown.Parse(text) {
		t.Errorf("last line = %s, want %s", last, markdown.Parse(text))
	}
}

func TestStreamDocumentsFinal(t *testing.T) {
	var out bytes.Buffer
	r := iotest.HalfReader(strings.NewReader("- [x] done\n- [ ] todo\n"))
	if err := streamDocuments(r, &out, markdown.Options{}, 3, true); err != nil {
		t.Fatal(err)
	}
	if want := markdown.Parse("- [x] done\n- [ ] todo\n") + "\n"; out.String() != want {
		t.Errorf("final output = %q, want %q", out.String(), want)
	}
}

func TestStreamDocumentsReadError(t *testing.T) {
	var out bytes.Buffer
	r := iotest.TimeoutReader(strings.NewReader("abc"))
	if err := streamDocuments(r, &out, markdown.Options{}, 1, true); err == nil {
		t.Fatal("expected read error")
	}
}

func TestWriteStats(t *testing.T) {
	var out bytes.Buffer
	inputs := []input{{name: "x.md", text: "# a\n\n*b* c"}}
	if err := writeStats(&out, inputs, markdown.Options{}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"KIND", "heading", "italic", "paragraph", "total", "max depth"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "# x.md") {
		t.Errorf("single input should not print a header:\n%s", got)
	}
}
