package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/samsaffron/mdast/internal/cache"
	"github.com/samsaffron/mdast/internal/config"
	"github.com/samsaffron/mdast/pkg/markdown"
	"github.com/spf13/cobra"
)

var (
	parseGFM     bool
	parseMath    bool
	parsePretty  bool
	parseCompact bool
	parseNoCache bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [files or globs...]",
	Short: "Print the JSON document tree of markdown input",
	Long: `Parse markdown and print its document tree as JSON.

Reads stdin when no files are given. Patterns support ** (quote them so
the shell does not expand them). Several inputs produce one JSON value
each; in pretty mode every value is preceded by a "# path" line.

Examples:
  mdast parse README.md
  mdast parse 'docs/**/*.md' --compact
  mdast parse notes.md --math=false
  cat notes.md | mdast parse --pretty`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addSyntaxFlags(parseCmd, &parseGFM, &parseMath)
	parseCmd.Flags().BoolVarP(&parsePretty, "pretty", "p", false, "Indent the JSON output")
	parseCmd.Flags().BoolVarP(&parseCompact, "compact", "c", false, "Print each document on a single line")
	parseCmd.Flags().BoolVar(&parseNoCache, "no-cache", false, "Bypass the result cache")
	parseCmd.MarkFlagsMutuallyExclusive("pretty", "compact")
}

// addSyntaxFlags registers --gfm and --math, which override the config
// only when given.
func addSyntaxFlags(c *cobra.Command, gfm, math *bool) {
	c.Flags().BoolVar(gfm, "gfm", true, "Enable GFM tables, task lists, strikethrough and autolinks")
	c.Flags().BoolVar(math, "math", true, "Enable $inline$ and $$display$$ math")
}

func syntaxOptions(c *cobra.Command, cfg *config.Config, gfm, math bool) markdown.Options {
	opts := cfg.ParserOptions()
	if c.Flags().Changed("gfm") {
		opts.GFM = markdown.Bool(gfm)
	}
	if c.Flags().Changed("math") {
		opts.Math = markdown.Bool(math)
	}
	return opts
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := syntaxOptions(cmd, cfg, parseGFM, parseMath)

	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cacheCfg := cfg.Cache
	if parseNoCache {
		cacheCfg.Enabled = false
	}
	store, err := cache.NewStore(cacheCfg)
	if err != nil {
		slog.Warn("cache unavailable, parsing without it", "error", err)
		store = &cache.NoopStore{}
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	pretty := resolvePretty(cfg.Output.Pretty, out, parsePretty, parseCompact)
	return emitDocuments(cmd.Context(), out, store, inputs, opts, pretty, cfg.Output.Indent)
}

// emitDocuments parses each input and writes its JSON to w.
func emitDocuments(ctx context.Context, w io.Writer, store cache.Store, inputs []input, opts markdown.Options, pretty bool, indent int) error {
	p := markdown.NewParser()
	for _, in := range inputs {
		doc, hit := cache.Parse(ctx, store, p, in.text, opts)
		slog.Debug("parsed input", "name", in.name, "bytes", len(in.text), "cached", hit)

		if pretty && len(inputs) > 1 {
			if _, err := fmt.Fprintf(w, "# %s\n", in.name); err != nil {
				return err
			}
		}
		if err := writeJSON(w, doc, pretty, indent); err != nil {
			return fmt.Errorf("write %s: %w", in.name, err)
		}
	}
	return nil
}
