package chat

import (
	"context"

	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/query"
)

// MenuReader is the read-only view of the menu store.
type MenuReader interface {
	AllItems(ctx context.Context) ([]menu.Item, error)
	// ItemByName matches case-insensitively and returns domain.ErrItemNotFound on a miss.
	ItemByName(ctx context.Context, name string) (menu.Item, error)
	// ItemsByCategory matches case-insensitively, ordered by name.
	ItemsByCategory(ctx context.Context, category string) ([]menu.Item, error)
	// Search matches a substring of name or description, ordered by category then name.
	Search(ctx context.Context, keyword string) ([]menu.Item, error)
	// Categories returns distinct categories, sorted.
	Categories(ctx context.Context) ([]string, error)
}

// Understander turns text into an intent with entities.
type Understander interface {
	Process(ctx context.Context, text string) query.Result
	ExtractInfoType(text string) query.InfoType
}
