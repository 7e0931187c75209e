package phrasecache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPhrases_CacheMiss(t *testing.T) {
	inner := &mockPhraser{phrases: []string{"butter chicken"}}
	ce, ms, counter := newTestExtractor(t, inner)

	var stored []byte
	var storedTTL time.Duration
	var storedKey string
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		storedKey, stored, storedTTL = key, value, ttl
		return nil
	}

	got, err := ce.Phrases(context.Background(), "Tell me about Butter Chicken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "butter chicken" {
		t.Fatalf("unexpected phrases %v", got)
	}
	if string(stored) != `["butter chicken"]` || storedTTL != time.Hour {
		t.Errorf("unexpected cache put %s ttl=%v", stored, storedTTL)
	}
	if !strings.HasPrefix(storedKey, "test:phrases:") {
		t.Errorf("unexpected key %q", storedKey)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss counter = %v", v)
	}
}

func TestPhrases_CacheHit(t *testing.T) {
	inner := &mockPhraser{phrases: []string{"wrong"}}
	ce, ms, counter := newTestExtractor(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`["paneer tikka","naan"]`), nil
	}

	got, err := ce.Phrases(context.Background(), "paneer tikka and naan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1] != "naan" {
		t.Errorf("expected cached phrases, got %v", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit counter = %v", v)
	}
}

func TestPhrases_KeyIgnoresCaseAndSpace(t *testing.T) {
	ce, _, _ := newTestExtractor(t, &mockPhraser{})
	if ce.cacheKey("  Mango LASSI ") != ce.cacheKey("mango lassi") {
		t.Error("expected equal keys for normalized text")
	}
}

func TestPhrases_InnerErrorNotCached(t *testing.T) {
	inner := &mockPhraser{err: errors.New("rate limited")}
	ce, ms, _ := newTestExtractor(t, inner)
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Fatal("error result must not be cached")
		return nil
	}

	if _, err := ce.Phrases(context.Background(), "pizza"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPhrases_StoreFailureFallsThrough(t *testing.T) {
	inner := &mockPhraser{phrases: []string{"pizza"}}
	ce, ms, _ := newTestExtractor(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("timeout") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("timeout") }

	got, err := ce.Phrases(context.Background(), "pizza")
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestPhrases_CorruptEntryRefetches(t *testing.T) {
	inner := &mockPhraser{phrases: []string{"pizza"}}
	ce, ms, _ := newTestExtractor(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{not json"), nil }

	if _, err := ce.Phrases(context.Background(), "pizza"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call after corrupt entry, got %d", inner.calls)
	}
}

func TestPhrases_EmptyResultCachedAsArray(t *testing.T) {
	ce, ms, _ := newTestExtractor(t, &mockPhraser{})
	var stored string
	ms.setFn = func(_ context.Context, _ string, v []byte, _ time.Duration) error {
		stored = string(v)
		return nil
	}
	_, _ = ce.Phrases(context.Background(), "hello")
	if stored != "[]" {
		t.Errorf("stored %q, want []", stored)
	}
}
