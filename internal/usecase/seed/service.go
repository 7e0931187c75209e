// Package seed loads the menu dataset into an empty store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

// DefaultBatchSize is the number of items written per SaveAll call.
const DefaultBatchSize = 100

// Result describes what a seeding run did.
type Result struct {
	Loaded   int
	Existing int
	Skipped  bool
}

// Service seeds a menu store.
type Service struct {
	writer        MenuWriter
	validateVegan bool
	batchSize     int
	logger        *zap.Logger
}

// New creates a seeder. With validateVegan set, vegan items not flagged vegetarian are rejected.
func New(w MenuWriter, validateVegan bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{writer: w, validateVegan: validateVegan, batchSize: DefaultBatchSize, logger: logger}
}

// WithBatchSize configures the write batch size.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

type dataset struct {
	MenuItems []record `json:"menu_items"`
}

type record struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	IsVegetarian    bool     `json:"is_vegetarian"`
	IsVegan         bool     `json:"is_vegan"`
	SpiceLevel      string   `json:"spice_level"`
	PreparationTime int      `json:"preparation_time"`
}

// Decode parses a {"menu_items": [...]} document into validated items.
// Names must be unique ignoring case.
func (s *Service) Decode(r io.Reader) ([]menu.Item, error) {
	var ds dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode menu dataset: %w", err)
	}

	items := make([]menu.Item, 0, len(ds.MenuItems))
	seen := make(map[string]bool, len(ds.MenuItems))
	for i, rec := range ds.MenuItems {
		it, err := menu.New(menu.Attrs{
			Name:            rec.Name,
			Category:        rec.Category,
			Price:           rec.Price,
			Description:     rec.Description,
			Ingredients:     rec.Ingredients,
			Vegetarian:      rec.IsVegetarian,
			Vegan:           rec.IsVegan,
			SpiceLevel:      menu.SpiceLevel(rec.SpiceLevel),
			PreparationTime: rec.PreparationTime,
		})
		if err != nil {
			return nil, fmt.Errorf("menu_items[%d]: %w", i, err)
		}
		if !it.DietConsistent() {
			if s.validateVegan {
				return nil, fmt.Errorf("menu_items[%d]: %w",
					i, domain.NewItemValidation(it.Name(), "vegan item must be vegetarian"))
			}
			s.logger.Warn("Vegan item not flagged vegetarian", zap.String("item", it.Name()))
		}
		if seen[it.Key()] {
			return nil, fmt.Errorf("menu_items[%d]: %w", i, domain.NewItemValidation(it.Name(), "duplicate name"))
		}
		seen[it.Key()] = true
		items = append(items, it)
	}
	return items, nil
}

// LoadFile reads and decodes a dataset file.
func (s *Service) LoadFile(path string) ([]menu.Item, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open menu dataset: %w", err)
	}
	defer f.Close()
	return s.Decode(f)
}

// Seed writes items when the store is empty. A non-empty store is left untouched.
func (s *Service) Seed(ctx context.Context, items []menu.Item) (Result, error) {
	if res, done, err := s.checkEmpty(ctx); done || err != nil {
		return res, err
	}
	return s.write(ctx, items)
}

// SeedFile loads a dataset file and seeds it. A missing file returns an error wrapping os.ErrNotExist.
func (s *Service) SeedFile(ctx context.Context, path string) (Result, error) {
	if res, done, err := s.checkEmpty(ctx); done || err != nil {
		return res, err
	}

	items, err := s.LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Menu dataset not found", zap.String("path", path))
		}
		return Result{}, err
	}
	return s.write(ctx, items)
}

// checkEmpty reports done when the store already holds items.
func (s *Service) checkEmpty(ctx context.Context) (Result, bool, error) {
	n, err := s.writer.Count(ctx)
	if err != nil {
		return Result{}, false, fmt.Errorf("count menu items: %w", err)
	}
	if n > 0 {
		s.logger.Info("Menu store already populated, skipping seed", zap.Int("items", n))
		return Result{Existing: n, Skipped: true}, true, nil
	}
	return Result{}, false, nil
}

func (s *Service) write(ctx context.Context, items []menu.Item) (Result, error) {
	for start := 0; start < len(items); start += s.batchSize {
		end := min(start+s.batchSize, len(items))
		if err := s.writer.SaveAll(ctx, items[start:end]); err != nil {
			return Result{Loaded: start}, fmt.Errorf("save items %d-%d: %w", start, end-1, err)
		}
	}

	s.logger.Info("Menu seeded", zap.Int("items", len(items)))
	return Result{Loaded: len(items)}, nil
}
