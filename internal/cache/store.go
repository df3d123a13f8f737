// Package cache stores rendered JSON keyed by a digest of the markdown
// source and the parser options.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samsaffron/mdast/pkg/markdown"
	"github.com/zeebo/blake3"
)

// Store is the interface for parse result persistence.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, json string) error
	Stats(ctx context.Context) (Stats, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

// Stats describes the cache contents.
type Stats struct {
	Entries int64
	Bytes   int64
	Hits    int64
}

// Config holds cache configuration.
type Config struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`         // Master switch
	MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries"` // Keep at most N results (0=unlimited)
	Path       string `mapstructure:"path" yaml:"path"`               // Override database location
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		MaxEntries: 1000,
	}
}

// NewStore creates a new Store based on the configuration.
// If caching is disabled, returns a no-op store.
func NewStore(cfg Config) (Store, error) {
	if !cfg.Enabled {
		return &NoopStore{}, nil
	}
	return NewSQLiteStore(cfg)
}

// GetCacheDir returns the XDG cache directory for mdast.
// Uses $XDG_CACHE_HOME if set, otherwise ~/.cache
func GetCacheDir() (string, error) {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "mdast"), nil
}

// GetDBPath returns the database location for cfg.
func GetDBPath(cfg Config) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	dir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// keyVersion changes whenever the JSON produced for the same input may
// change, so stale results are never served.
const keyVersion = "mdast-v1"

// Key derives the cache key for text parsed with opts.
func Key(text string, opts markdown.Options) string {
	h := blake3.New()
	h.Write([]byte(keyVersion))
	h.Write([]byte{0, flag(opts.GFM), flag(opts.Math), 0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func flag(b *bool) byte {
	if b == nil || *b {
		return '1'
	}
	return '0'
}
