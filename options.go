package dinebot

import (
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver    string // "memory", "redis" or "postgres"
	addrs     []string
	password  string
	dsn       string
	keyPrefix string

	items    []Item
	dataFile string

	restaurant          restaurant.Info
	botName             string
	fallbacks           []string
	similarityThreshold float64
	detailConfidence    float64
	phrases             PhraseExtractor
	noPhrases           bool

	logger *zap.Logger
}

// WithRedis stores the menu in Redis.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithPostgres stores the menu in PostgreSQL. The menu_items table is created if missing.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	}
}

// WithKeyPrefix sets the Redis key prefix (default "dinebot:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithItems seeds the store with items when it is empty.
func WithItems(items ...Item) Option {
	return func(c *clientConfig) {
		c.items = append(c.items, items...)
	}
}

// WithDataFile seeds the store from a menu JSON file when it is empty.
func WithDataFile(path string) Option {
	return func(c *clientConfig) {
		c.dataFile = path
	}
}

// WithRestaurant sets the restaurant profile the bot answers with.
func WithRestaurant(info Restaurant) Option {
	return func(c *clientConfig) {
		c.restaurant = info
	}
}

// WithBotName sets the name used in greetings.
func WithBotName(name string) Option {
	return func(c *clientConfig) {
		c.botName = name
	}
}

// WithFallbacks replaces the replies to messages that are not understood.
func WithFallbacks(phrases ...string) Option {
	return func(c *clientConfig) {
		c.fallbacks = append([]string(nil), phrases...)
	}
}

// WithSimilarityThreshold sets the minimum fuzzy score for a dish name match.
func WithSimilarityThreshold(t float64) Option {
	return func(c *clientConfig) {
		c.similarityThreshold = t
	}
}

// WithDetailConfidence sets the confidence an item detail answer must exceed.
func WithDetailConfidence(t float64) Option {
	return func(c *clientConfig) {
		c.detailConfidence = t
	}
}

// WithPhraseExtractor replaces the built-in heuristic dish phrase extractor.
// Passing nil disables phrase extraction.
func WithPhraseExtractor(p PhraseExtractor) Option {
	return func(c *clientConfig) {
		c.phrases = p
		c.noPhrases = p == nil
	}
}

// WithLogger sets the zap logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
