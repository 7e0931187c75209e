package phrasecache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/db"
)

type mockPhraser struct {
	phrases []string
	err     error
	calls   int
}

func (m *mockPhraser) Phrases(_ context.Context, _ string) ([]string, error) {
	m.calls++
	return m.phrases, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestExtractor(t *testing.T, inner *mockPhraser) (*CachedExtractor, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_phrase_cache_total"}, []string{"result"})
	return New(inner, ms, "test:", time.Hour, counter, zap.NewNop()), ms, counter
}
