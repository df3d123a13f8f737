package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samsaffron/mdast/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the parse result cache",
	Long: `The cache stores JSON results keyed by a digest of the input and
parser options. Enable it with cache.enabled: true in the config file.

Examples:
  mdast cache stats
  mdast cache clear`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and hit counts",
	Args:  cobra.NoArgs,
	RunE:  cacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached result",
	Args:  cobra.NoArgs,
	RunE:  cacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openCache opens the cache database even when caching is disabled, so a
// stale database can still be inspected. It returns nil when none exists.
func openCache() (*cache.SQLiteStore, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	path, err := cache.GetDBPath(cfg.Cache)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, path, nil
	}
	cfg.Cache.Enabled = true
	store, err := cache.NewSQLiteStore(cfg.Cache)
	if err != nil {
		return nil, path, fmt.Errorf("open cache: %w", err)
	}
	return store, path, nil
}

func cacheStats(cmd *cobra.Command, args []string) error {
	store, path, err := openCache()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if store == nil {
		fmt.Fprintf(out, "No cache database at %s\n", path)
		return nil
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "path\t%s\n", path)
	fmt.Fprintf(tw, "entries\t%d\n", st.Entries)
	fmt.Fprintf(tw, "bytes\t%d\n", st.Bytes)
	fmt.Fprintf(tw, "hits\t%d\n", st.Hits)
	return tw.Flush()
}

func cacheClear(cmd *cobra.Command, args []string) error {
	store, path, err := openCache()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No cache database at %s\n", path)
		return nil
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached results\n", n)
	return nil
}
