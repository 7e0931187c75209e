// Package phrasecache memoizes dish phrase extraction in a key-value store.
package phrasecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/db"
)

// DefaultTTL bounds how long a cached phrase list is reused.
const DefaultTTL = 24 * time.Hour

// phraser is the wrapped extractor.
type phraser interface {
	Phrases(ctx context.Context, text string) ([]string, error)
}

// store is the consumer interface for the phrase cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExtractor caches phrase lists keyed by a hash of the normalized text.
type CachedExtractor struct {
	inner      phraser
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); nil disables counting.
func New(
	inner phraser,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExtractor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedExtractor{
		inner:      inner,
		store:      s,
		prefix:     prefix + "phrases:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Phrases returns cached phrases or asks the inner extractor.
// Cache failures degrade to a direct call; inner errors are never cached.
func (c *CachedExtractor) Phrases(ctx context.Context, text string) ([]string, error) {
	key := c.cacheKey(text)

	if phrases, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return phrases, nil
	}
	c.incCache("miss")

	phrases, err := c.inner.Phrases(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract phrases: %w", err)
	}

	c.putToCache(ctx, key, phrases)
	return phrases, nil
}

func (c *CachedExtractor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExtractor) cacheKey(text string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedExtractor) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached phrases", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var phrases []string
	if err := json.Unmarshal(data, &phrases); err != nil {
		c.logger.Warn("Failed to parse cached phrases", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return phrases, true
}

func (c *CachedExtractor) putToCache(ctx context.Context, key string, phrases []string) {
	if phrases == nil {
		phrases = []string{}
	}
	data, err := json.Marshal(phrases)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache phrases", zap.String("key", key), zap.Error(err))
	}
}
