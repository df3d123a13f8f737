package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/samsaffron/mdast/pkg/markdown"
	"github.com/spf13/cobra"
)

var (
	streamGFM   bool
	streamMath  bool
	streamChunk int
	streamFinal bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Re-parse stdin as it arrives and print a JSON line per change",
	Long: `Accumulate stdin into a parse session. Every chunk read triggers a
re-parse of the whole text so far and prints the tree as one line of JSON.
Useful for rendering markdown that is still being generated.

Examples:
  some-llm "explain goroutines" | mdast stream
  mdast stream --final < notes.md       # only the last tree`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
	addSyntaxFlags(streamCmd, &streamGFM, &streamMath)
	streamCmd.Flags().IntVar(&streamChunk, "chunk", 4096, "Maximum bytes read per update")
	streamCmd.Flags().BoolVar(&streamFinal, "final", false, "Print only the tree of the complete input")
}

func runStream(cmd *cobra.Command, args []string) error {
	if streamChunk <= 0 {
		return fmt.Errorf("--chunk must be positive, got %d", streamChunk)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := syntaxOptions(cmd, cfg, streamGFM, streamMath)
	return streamDocuments(cmd.InOrStdin(), cmd.OutOrStdout(), opts, streamChunk, streamFinal)
}

// streamDocuments feeds r into a session chunk by chunk. Unless final is
// set, every change writes the current tree to w as a JSON line.
func streamDocuments(r io.Reader, w io.Writer, opts markdown.Options, chunk int, final bool) error {
	bw := bufio.NewWriter(w)
	s := markdown.NewSession(markdown.WithSyntax(opts))

	var writeErr error
	if !final {
		remove := s.AddListener(func() {
			if writeErr != nil {
				return
			}
			if _, writeErr = fmt.Fprintln(bw, s.Parse()); writeErr == nil {
				writeErr = bw.Flush()
			}
		})
		defer remove()
	}

	buf := make([]byte, chunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.Write(buf[:n])
		}
		if writeErr != nil {
			return fmt.Errorf("write output: %w", writeErr)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}

	if final {
		if _, err := fmt.Fprintln(bw, s.Parse()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
