package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samsaffron/mdast/pkg/markdown"
	"github.com/samsaffron/mdast/pkg/node"
	"github.com/spf13/cobra"
)

var (
	statsGFM  bool
	statsMath bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [files or globs...]",
	Short: "Count the nodes of each kind in markdown input",
	Long: `Parse markdown and print how many nodes of each kind the tree holds,
followed by the total and the maximum depth.

Examples:
  mdast stats README.md
  mdast stats 'docs/**/*.md'`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addSyntaxFlags(statsCmd, &statsGFM, &statsMath)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := syntaxOptions(cmd, cfg, statsGFM, statsMath)

	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return writeStats(cmd.OutOrStdout(), inputs, opts)
}

func writeStats(w io.Writer, inputs []input, opts markdown.Options) error {
	p := markdown.NewParser()
	for i, in := range inputs {
		if len(inputs) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", in.name)
		}
		st := node.Collect(p.Tree(in.text, opts))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tCOUNT")
		for _, k := range node.Kinds() {
			if n := st.ByKind[k]; n > 0 {
				fmt.Fprintf(tw, "%s\t%d\n", k, n)
			}
		}
		fmt.Fprintf(tw, "total\t%d\n", st.Nodes)
		fmt.Fprintf(tw, "max depth\t%d\n", st.MaxDepth)
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
