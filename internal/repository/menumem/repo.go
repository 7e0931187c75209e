// Package menumem keeps the menu in process memory.
package menumem

import (
	"context"
	"sync"

	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

// Repo is a mutex-guarded menu keyed by lowercased name.
type Repo struct {
	mu    sync.RWMutex
	items map[string]menu.Item
}

// New creates a repository holding items. Later duplicates replace earlier ones.
func New(items ...menu.Item) *Repo {
	r := &Repo{items: make(map[string]menu.Item, len(items))}
	for _, it := range items {
		r.items[it.Key()] = it
	}
	return r
}

// AllItems returns every item ordered by category, then name.
func (r *Repo) AllItems(_ context.Context) ([]menu.Item, error) {
	out := r.snapshot()
	menu.SortByCategoryName(out)
	return out, nil
}

// ItemByName looks an item up by case-insensitive exact name.
func (r *Repo) ItemByName(_ context.Context, name string) (menu.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[menu.NameKey(name)]
	if !ok {
		return menu.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

// ItemsByCategory returns the items of a category ordered by name.
func (r *Repo) ItemsByCategory(_ context.Context, category string) ([]menu.Item, error) {
	out := menu.InCategory(r.snapshot(), category)
	menu.SortByName(out)
	return out, nil
}

// Search returns the items whose name or description contains keyword.
func (r *Repo) Search(ctx context.Context, keyword string) ([]menu.Item, error) {
	all, _ := r.AllItems(ctx)
	out := make([]menu.Item, 0, len(all))
	for _, it := range all {
		if it.MatchesKeyword(keyword) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Categories returns the distinct categories, sorted.
func (r *Repo) Categories(_ context.Context) ([]string, error) {
	return menu.Categories(r.snapshot()), nil
}

// Count returns the number of items.
func (r *Repo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// SaveAll adds or replaces items.
func (r *Repo) SaveAll(_ context.Context, items []menu.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		r.items[it.Key()] = it
	}
	return nil
}

// Ping always succeeds.
func (r *Repo) Ping(_ context.Context) error { return nil }

func (r *Repo) snapshot() []menu.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]menu.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	return out
}
