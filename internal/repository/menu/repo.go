// Package menu stores menu items as Redis hashes.
package menu

import (
	"context"
	"fmt"

	"github.com/goldenspoon/dinebot/internal/db"
	"github.com/goldenspoon/dinebot/internal/domain"
	dommenu "github.com/goldenspoon/dinebot/internal/domain/menu"
)

// DefaultKeyPrefix namespaces every key written by the service.
const DefaultKeyPrefix = "dinebot:"

// store is the consumer interface for menu hashes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements chat.MenuReader and seed.MenuWriter.
// Items live at <prefix>item:<lowercased name>, so name lookups are a single HGETALL.
type Repo struct {
	store  store
	prefix string
}

// New creates a menu repository. An empty prefix falls back to DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// AllItems returns every item ordered by category, then name.
func (r *Repo) AllItems(ctx context.Context) ([]dommenu.Item, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	dommenu.SortByCategoryName(items)
	return items, nil
}

// ItemByName looks an item up by case-insensitive exact name.
func (r *Repo) ItemByName(ctx context.Context, name string) (dommenu.Item, error) {
	key := r.itemKey(name)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dommenu.Item{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return dommenu.Item{}, domain.ErrItemNotFound
	}
	return parseHashFields(m)
}

// ItemsByCategory returns the items of a category ordered by name.
func (r *Repo) ItemsByCategory(ctx context.Context, category string) ([]dommenu.Item, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := dommenu.InCategory(items, category)
	dommenu.SortByName(out)
	return out, nil
}

// Search returns the items whose name or description contains keyword.
func (r *Repo) Search(ctx context.Context, keyword string) ([]dommenu.Item, error) {
	items, err := r.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dommenu.Item, 0, len(items))
	for _, it := range items {
		if it.MatchesKeyword(keyword) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Categories returns the distinct categories, sorted.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return dommenu.Categories(items), nil
}

// Count returns the number of stored items.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.itemPattern())
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", r.itemPattern(), err)
	}
	return len(keys), nil
}

// SaveAll writes items in one pipelined round-trip. Existing items with the same name are overwritten.
func (r *Repo) SaveAll(ctx context.Context, items []dommenu.Item) error {
	batch := make([]db.HashSetItem, 0, len(items))
	for _, it := range items {
		fields, err := buildHashFields(it)
		if err != nil {
			return fmt.Errorf("item %q: %w", it.Name(), err)
		}
		batch = append(batch, db.HashSetItem{Key: r.itemKey(it.Name()), Fields: fields})
	}
	if err := r.store.HSetMulti(ctx, batch); err != nil {
		return fmt.Errorf("save %d items: %w", len(batch), err)
	}
	return nil
}

func (r *Repo) load(ctx context.Context) ([]dommenu.Item, error) {
	keys, err := r.store.Scan(ctx, r.itemPattern())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.itemPattern(), err)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %d items: %w", len(keys), err)
	}

	items := make([]dommenu.Item, 0, len(hashes))
	for _, m := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(m) == 0 {
			continue
		}
		it, err := parseHashFields(m)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *Repo) itemKey(name string) string {
	return r.prefix + "item:" + dommenu.NameKey(name)
}

func (r *Repo) itemPattern() string {
	return r.prefix + "item:*"
}
