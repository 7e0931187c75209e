// Package dinebot embeds the DineBot restaurant assistant in-process.
//
//	bot, err := dinebot.New(dinebot.WithDataFile("data/menu.json"))
//	if err != nil { ... }
//	defer bot.Close()
//	reply, err := bot.Chat(ctx, "show me vegetarian starters")
package dinebot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/db/postgres"
	dbRedis "github.com/goldenspoon/dinebot/internal/db/redis"
	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/response"
	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
	"github.com/goldenspoon/dinebot/internal/nlp/fuzzy"
	"github.com/goldenspoon/dinebot/internal/nlp/intent"
	"github.com/goldenspoon/dinebot/internal/nlp/phrase"
	menurepo "github.com/goldenspoon/dinebot/internal/repository/menu"
	"github.com/goldenspoon/dinebot/internal/repository/menumem"
	"github.com/goldenspoon/dinebot/internal/repository/menusql"
	"github.com/goldenspoon/dinebot/internal/usecase/chat"
	"github.com/goldenspoon/dinebot/internal/usecase/seed"
)

const (
	driverMemory   = "memory"
	driverRedis    = "redis"
	driverPostgres = "postgres"

	defaultReadinessTimeout = 10 * time.Second
)

type (
	// Item is a menu item.
	Item = menu.Item
	// ItemAttrs are the fields of a new item.
	ItemAttrs = menu.Attrs
	// MenuFilter narrows Menu listings.
	MenuFilter = menu.Filter
	// Reply is the answer to a chat message.
	Reply = response.Envelope
	// Restaurant is the restaurant profile.
	Restaurant = restaurant.Info
	// PhraseExtractor finds candidate dish phrases in a message.
	PhraseExtractor = intent.PhraseExtractor
)

// ErrItemNotFound is returned by Client.Item for unknown names.
var ErrItemNotFound = domain.ErrItemNotFound

// NewItem validates attrs and creates an Item.
func NewItem(attrs ItemAttrs) (Item, error) {
	return menu.New(attrs)
}

// store is the union of what the chat service reads and the seeder writes.
type store interface {
	chat.MenuReader
	seed.MenuWriter
}

// Client is the DineBot entry point.
type Client struct {
	store  store
	ping   func(context.Context) error
	close  func()
	chat   *chat.Service
	logger *zap.Logger
}

// New creates a Client, connects the configured store and seeds it if empty.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:    driverMemory,
		keyPrefix: menurepo.DefaultKeyPrefix,
		botName:   "DineBot",
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	ctx := context.Background()
	c, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := c.seed(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}

	c.chat = buildChat(c.store, cfg)
	return c, nil
}

func connect(ctx context.Context, cfg *clientConfig) (*Client, error) {
	switch cfg.driver {
	case driverMemory:
		m := menumem.New()
		return &Client{store: m, ping: m.Ping, close: func() {}, logger: cfg.logger}, nil

	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, fmt.Errorf("dinebot: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("dinebot: redis not ready: %w", err)
		}
		return &Client{
			store:  menurepo.New(s, cfg.keyPrefix),
			ping:   s.Ping,
			close:  s.Close,
			logger: cfg.logger,
		}, nil

	case driverPostgres:
		pg, err := postgres.Open(postgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("dinebot: open postgres: %w", err)
		}
		if err := pg.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			pg.Close()
			return nil, fmt.Errorf("dinebot: postgres not ready: %w", err)
		}
		repo := menusql.New(pg.SQL())
		if err := repo.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("dinebot: %w", err)
		}
		return &Client{store: repo, ping: pg.Ping, close: pg.Close, logger: cfg.logger}, nil

	default:
		return nil, fmt.Errorf("dinebot: unknown driver %q", cfg.driver)
	}
}

func (c *Client) seed(ctx context.Context, cfg *clientConfig) error {
	seeder := seed.New(c.store, true, c.logger)

	items := cfg.items
	if cfg.dataFile != "" {
		loaded, err := seeder.LoadFile(cfg.dataFile)
		if err != nil {
			return fmt.Errorf("dinebot: %w", err)
		}
		items = append(items, loaded...)
	}
	if len(items) == 0 {
		return nil
	}

	if _, err := seeder.Seed(ctx, items); err != nil {
		return fmt.Errorf("dinebot: seed: %w", err)
	}
	return nil
}

func buildChat(s store, cfg *clientConfig) *chat.Service {
	var phrases intent.PhraseExtractor = phrase.NewHeuristic()
	switch {
	case cfg.noPhrases:
		phrases = nil
	case cfg.phrases != nil:
		phrases = cfg.phrases
	}

	threshold := cfg.similarityThreshold
	if threshold <= 0 {
		threshold = fuzzy.DefaultThreshold
	}

	return chat.New(s, intent.NewExtractor(phrases, cfg.logger), fuzzy.NewMatcher(threshold), chat.Config{
		Restaurant:       cfg.restaurant,
		Greetings:        chat.DefaultGreetings(cfg.restaurant.Name, cfg.botName),
		Fallbacks:        cfg.fallbacks,
		DetailConfidence: cfg.detailConfidence,
	}, cfg.logger)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Chat answers a free-text message.
func (c *Client) Chat(ctx context.Context, message string) (Reply, error) {
	return c.chat.Handle(ctx, message)
}

// Menu lists items matching f, ordered by category then name.
func (c *Client) Menu(ctx context.Context, f MenuFilter) ([]Item, error) {
	return c.chat.ListItems(ctx, f)
}

// Item looks up an item by exact name, ignoring case.
func (c *Client) Item(ctx context.Context, name string) (Item, error) {
	return c.chat.ItemDetails(ctx, name)
}

// Categories lists the distinct menu categories, sorted.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return c.chat.Categories(ctx)
}

// Restaurant returns a copy of the restaurant profile.
func (c *Client) Restaurant() Restaurant {
	return c.chat.RestaurantInfo()
}
