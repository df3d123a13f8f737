package cache

import (
	"context"
	"log/slog"

	"github.com/samsaffron/mdast/pkg/markdown"
)

// Parse returns the JSON for text, serving it from s when present and
// storing it otherwise. Store failures are logged and never fail the parse.
func Parse(ctx context.Context, s Store, p *markdown.Parser, text string, opts markdown.Options) (json string, hit bool) {
	key := Key(text, opts)

	json, hit, err := s.Get(ctx, key)
	if err != nil {
		slog.Warn("cache lookup failed", "key", key, "error", err)
	}
	if hit {
		return json, true
	}

	json = p.ParseWithOptions(text, opts)
	if err := s.Put(ctx, key, json); err != nil {
		slog.Warn("cache store failed", "key", key, "error", err)
	}
	return json, false
}
