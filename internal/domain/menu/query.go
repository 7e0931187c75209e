package menu

import (
	"sort"
	"strings"
)

// SortByCategoryName orders items by category, then name (in place).
func SortByCategoryName(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].category != items[b].category {
			return items[a].category < items[b].category
		}
		return items[a].name < items[b].name
	})
}

// SortByName orders items by name (in place).
func SortByName(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].name < items[b].name
	})
}

// InCategory returns the items whose category equals category, ignoring case.
func InCategory(items []Item, category string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.category, category) {
			out = append(out, it)
		}
	}
	return out
}

// MatchesKeyword reports whether keyword occurs in the name or description, ignoring case.
func (i Item) MatchesKeyword(keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(i.name), kw) ||
		strings.Contains(strings.ToLower(i.description), kw)
}

// Categories returns the distinct categories of items, sorted.
func Categories(items []Item) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0)
	for _, it := range items {
		if !seen[it.category] {
			seen[it.category] = true
			out = append(out, it.category)
		}
	}
	sort.Strings(out)
	return out
}

// Filter selects items by dietary flags. A false flag does not filter.
type Filter struct {
	Category   string
	Vegetarian bool
	Vegan      bool
}

// Apply returns the items matching f, preserving order.
func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Category != "" && !strings.EqualFold(it.category, f.Category) {
			continue
		}
		if f.Vegetarian && !it.vegetarian {
			continue
		}
		if f.Vegan && !it.vegan {
			continue
		}
		out = append(out, it)
	}
	return out
}
