// Package menusql stores menu items in a Postgres menu_items table.
package menusql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goldenspoon/dinebot/internal/db"
	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

const columns = `name, category, price, description, ingredients, vegetarian, vegan, spice_level, preparation_time`

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS menu_items (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	description TEXT,
	ingredients TEXT,
	vegetarian BOOLEAN DEFAULT FALSE,
	vegan BOOLEAN DEFAULT FALSE,
	spice_level TEXT,
	preparation_time INTEGER
)`
	categoryIndexSQL = `CREATE INDEX IF NOT EXISTS idx_category ON menu_items(category)`
	nameIndexSQL     = `CREATE INDEX IF NOT EXISTS idx_name ON menu_items(name)`

	selectAllSQL        = `SELECT ` + columns + ` FROM menu_items ORDER BY category, name`
	selectByNameSQL     = `SELECT ` + columns + ` FROM menu_items WHERE LOWER(name) = LOWER($1)`
	selectByCategorySQL = `SELECT ` + columns + ` FROM menu_items WHERE LOWER(category) = LOWER($1) ORDER BY name`
	searchSQL           = `SELECT ` + columns + ` FROM menu_items WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $1 ORDER BY category, name`
	categoriesSQL       = `SELECT DISTINCT category FROM menu_items ORDER BY category`
	countSQL            = `SELECT COUNT(*) FROM menu_items`
	insertSQL           = `INSERT INTO menu_items (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

// Repo implements chat.MenuReader and seed.MenuWriter over database/sql.
type Repo struct {
	db *sql.DB
}

// New creates a Postgres menu repository.
func New(conn *sql.DB) *Repo {
	return &Repo{db: conn}
}

// EnsureSchema creates the table and its indexes if missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{schemaSQL, categoryIndexSQL, nameIndexSQL} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpCreate, Err: err}
		}
	}
	return nil
}

// AllItems returns every item ordered by category, then name.
func (r *Repo) AllItems(ctx context.Context) ([]menu.Item, error) {
	return r.query(ctx, selectAllSQL)
}

// ItemByName finds an item by case-insensitive exact name.
func (r *Repo) ItemByName(ctx context.Context, name string) (menu.Item, error) {
	row := r.db.QueryRowContext(ctx, selectByNameSQL, name)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return menu.Item{}, domain.ErrItemNotFound
		}
		return menu.Item{}, fmt.Errorf("item %q: %w", name, err)
	}
	return it, nil
}

// ItemsByCategory returns the items of a category ordered by name.
func (r *Repo) ItemsByCategory(ctx context.Context, category string) ([]menu.Item, error) {
	return r.query(ctx, selectByCategorySQL, category)
}

// Search matches keyword against name and description.
func (r *Repo) Search(ctx context.Context, keyword string) ([]menu.Item, error) {
	return r.query(ctx, searchSQL, "%"+escapeLike(strings.ToLower(keyword))+"%")
}

// Categories returns the distinct categories, sorted.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, categoriesSQL)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// Count returns the number of stored items.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return n, nil
}

// SaveAll inserts items in a single transaction.
func (r *Repo) SaveAll(ctx context.Context, items []menu.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	defer stmt.Close()

	for _, it := range items {
		ingredients, err := json.Marshal(nonNil(it.Ingredients()))
		if err != nil {
			return fmt.Errorf("marshal ingredients of %q: %w", it.Name(), err)
		}
		_, err = stmt.ExecContext(ctx,
			it.Name(), it.Category(), it.Price(), it.Description(), string(ingredients),
			it.Vegetarian(), it.Vegan(), string(it.SpiceLevel()), it.PreparationTime(),
		)
		if err != nil {
			return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("item %q: %w", it.Name(), err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]menu.Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	items := make([]menu.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (menu.Item, error) {
	var (
		a           menu.Attrs
		description sql.NullString
		ingredients sql.NullString
		spice       sql.NullString
		prep        sql.NullInt64
		vegetarian  sql.NullBool
		vegan       sql.NullBool
	)
	err := s.Scan(&a.Name, &a.Category, &a.Price, &description, &ingredients,
		&vegetarian, &vegan, &spice, &prep)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return menu.Item{}, err
		}
		return menu.Item{}, &db.Error{Op: db.OpSelect, Err: err}
	}

	a.Description = description.String
	a.Vegetarian = vegetarian.Bool
	a.Vegan = vegan.Bool
	a.SpiceLevel = menu.SpiceLevel(spice.String)
	a.PreparationTime = int(prep.Int64)
	if ingredients.Valid && ingredients.String != "" {
		if err := json.Unmarshal([]byte(ingredients.String), &a.Ingredients); err != nil {
			return menu.Item{}, fmt.Errorf("decode ingredients of %q: %w", a.Name, err)
		}
	}
	return menu.Reconstruct(a), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes wildcard characters in user input literal.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
