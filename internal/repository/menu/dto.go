package menu

import (
	"encoding/json"
	"fmt"
	"strconv"

	dommenu "github.com/goldenspoon/dinebot/internal/domain/menu"
)

const (
	fieldName        = "name"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldDescription = "description"
	fieldIngredients = "ingredients"
	fieldVegetarian  = "vegetarian"
	fieldVegan       = "vegan"
	fieldSpiceLevel  = "spice_level"
	fieldPrepTime    = "preparation_time"
)

// buildHashFields flattens an item for HSET. Ingredients are stored as a JSON array.
func buildHashFields(it dommenu.Item) (map[string]string, error) {
	ingredients := it.Ingredients()
	if ingredients == nil {
		ingredients = []string{}
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return nil, fmt.Errorf("marshal ingredients: %w", err)
	}
	return map[string]string{
		fieldName:        it.Name(),
		fieldCategory:    it.Category(),
		fieldPrice:       strconv.FormatFloat(it.Price(), 'f', -1, 64),
		fieldDescription: it.Description(),
		fieldIngredients: string(raw),
		fieldVegetarian:  strconv.FormatBool(it.Vegetarian()),
		fieldVegan:       strconv.FormatBool(it.Vegan()),
		fieldSpiceLevel:  string(it.SpiceLevel()),
		fieldPrepTime:    strconv.Itoa(it.PreparationTime()),
	}, nil
}

// parseHashFields rebuilds an item from a stored hash.
func parseHashFields(m map[string]string) (dommenu.Item, error) {
	a := dommenu.Attrs{
		Name:        m[fieldName],
		Category:    m[fieldCategory],
		Description: m[fieldDescription],
		SpiceLevel:  dommenu.SpiceLevel(m[fieldSpiceLevel]),
	}

	var err error
	if a.Price, err = strconv.ParseFloat(m[fieldPrice], 64); err != nil {
		return dommenu.Item{}, fmt.Errorf("item %q: price: %w", a.Name, err)
	}
	if v := m[fieldPrepTime]; v != "" {
		if a.PreparationTime, err = strconv.Atoi(v); err != nil {
			return dommenu.Item{}, fmt.Errorf("item %q: preparation time: %w", a.Name, err)
		}
	}
	a.Vegetarian, _ = strconv.ParseBool(m[fieldVegetarian])
	a.Vegan, _ = strconv.ParseBool(m[fieldVegan])
	if v := m[fieldIngredients]; v != "" {
		if err := json.Unmarshal([]byte(v), &a.Ingredients); err != nil {
			return dommenu.Item{}, fmt.Errorf("item %q: ingredients: %w", a.Name, err)
		}
	}
	return dommenu.Reconstruct(a), nil
}
