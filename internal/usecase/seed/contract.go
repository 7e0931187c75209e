package seed

import (
	"context"

	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

// MenuWriter is the write side of a menu store.
type MenuWriter interface {
	Count(ctx context.Context) (int, error)
	SaveAll(ctx context.Context, items []menu.Item) error
}
