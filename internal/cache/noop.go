package cache

import "context"

// NoopStore is a no-op implementation of Store used when caching is disabled.
// It silently discards all writes and misses on every read.
type NoopStore struct{}

func (s *NoopStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (s *NoopStore) Put(ctx context.Context, key, json string) error {
	return nil
}

func (s *NoopStore) Stats(ctx context.Context) (Stats, error) {
	return Stats{}, nil
}

func (s *NoopStore) Clear(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *NoopStore) Close() error {
	return nil
}
