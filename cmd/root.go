package cmd

import (
	"log/slog"
	"os"

	"github.com/samsaffron/mdast/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	configFile string
	debugLog   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/mdast/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Emit debug logs on stderr")
}

var rootCmd = &cobra.Command{
	Use:   "mdast",
	Short: "Parse markdown into a JSON document tree",
	Long: `mdast parses CommonMark (with GFM tables, task lists, strikethrough
and $math$ extensions) into a document tree and prints it as JSON.

Examples:
  mdast parse README.md                  # one file
  mdast parse 'docs/**/*.md' --compact   # many files, one line each
  echo '# hi' | mdast parse              # stdin
  some-llm | mdast stream                # re-parse as chunks arrive
  mdast stats README.md                  # node counts per kind

  mdast config                           # view configuration`,
	Version:           Version,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: setupLogging,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if debugLog {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", configFile, "gfm", cfg.Parser.GFM, "math", cfg.Parser.Math, "cache", cfg.Cache.Enabled)
	return cfg, nil
}
