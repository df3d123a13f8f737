package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// Schema for the cache database. used_seq orders entries by last use for
// pruning.
const schema = `
CREATE TABLE IF NOT EXISTS results (
    key TEXT PRIMARY KEY,
    json TEXT NOT NULL,
    size INTEGER NOT NULL,
    hits INTEGER NOT NULL DEFAULT 0,
    used_seq INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_results_used_seq ON results(used_seq DESC);
`

// NewSQLiteStore opens (creating if needed) the cache database.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	dbPath, err := GetDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("get db path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, cfg: cfg}, nil
}

// Get returns the cached JSON for key and records the hit.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var json string
	err := s.db.QueryRowContext(ctx, "SELECT json FROM results WHERE key = ?", key).Scan(&json)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE results
		SET hits = hits + 1,
		    used_seq = (SELECT COALESCE(MAX(used_seq), 0) + 1 FROM results)
		WHERE key = ?`, key)
	if err != nil {
		return "", false, fmt.Errorf("touch result: %w", err)
	}
	return json, true, nil
}

// Put stores json under key, then prunes the least recently used entries
// beyond MaxEntries.
func (s *SQLiteStore) Put(ctx context.Context, key, json string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (key, json, size, used_seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(used_seq), 0) + 1 FROM results))
		ON CONFLICT(key) DO UPDATE SET
		    json = excluded.json,
		    size = excluded.size,
		    used_seq = excluded.used_seq`,
		key, json, len(json))
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return s.prune(ctx)
}

func (s *SQLiteStore) prune(ctx context.Context) error {
	if s.cfg.MaxEntries <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM results WHERE key IN (
			SELECT key FROM results
			ORDER BY used_seq DESC
			LIMIT -1 OFFSET ?
		)`, s.cfg.MaxEntries)
	if err != nil {
		return fmt.Errorf("enforce max entries: %w", err)
	}
	return nil
}

// Stats reports entry count, stored bytes and total hits.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(SUM(hits), 0) FROM results",
	).Scan(&st.Entries, &st.Bytes, &st.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM results")
	if err != nil {
		return 0, fmt.Errorf("clear results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		slog.Warn("cache clear: rows affected unavailable", "error", err)
		return 0, nil
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
