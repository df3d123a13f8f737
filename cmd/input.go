package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samsaffron/mdast/internal/config"
	"golang.org/x/term"
)

// stdinName stands for standard input in argument lists.
const stdinName = "-"

type input struct {
	name string
	text string
}

// expandInputs resolves file arguments and ** globs into a de-duplicated
// list of paths, keeping argument order and sorting the matches of each
// pattern.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if arg == stdinName {
			add(arg)
			continue
		}
		if _, err := os.Stat(arg); err == nil {
			add(arg)
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

// readInputs loads every argument, or stdin when there are none.
func readInputs(args []string, stdin io.Reader) ([]input, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}
	paths, err := expandInputs(args)
	if err != nil {
		return nil, err
	}

	inputs := make([]input, 0, len(paths))
	for _, p := range paths {
		var data []byte
		if p == stdinName {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		inputs = append(inputs, input{name: p, text: string(data)})
	}
	return inputs, nil
}

// resolvePretty decides between indented and single-line output. Explicit
// flags win over the configured mode; "auto" indents only for terminals.
func resolvePretty(mode string, w io.Writer, pretty, compact bool) bool {
	switch {
	case compact:
		return false
	case pretty:
		return true
	}
	switch mode {
	case config.PrettyAlways:
		return true
	case config.PrettyNever:
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeJSON writes doc followed by a newline, indented when pretty is set.
func writeJSON(w io.Writer, doc string, pretty bool, indent int) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(doc), "", strings.Repeat(" ", indent)); err == nil {
			buf.WriteByte('\n')
			_, err = w.Write(buf.Bytes())
			return err
		}
	}
	_, err := io.WriteString(w, doc+"\n")
	return err
}
