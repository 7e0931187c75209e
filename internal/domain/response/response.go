// Package response defines the reply produced for one chat message.
package response

import (
	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/query"
	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
)

// Kind tags the shape of Data.
type Kind string

const (
	KindItemDetail   Kind = "item_detail"
	KindItemList     Kind = "item_list"
	KindCandidates   Kind = "candidates"
	KindPriceQuote   Kind = "price_quote"
	KindPriceRange   Kind = "price_range"
	KindCategoryList Kind = "category_list"
	KindRestaurant   Kind = "restaurant"
)

// Data is the structured payload of a reply. The set of variants is closed.
type Data interface {
	Kind() Kind
	sealed()
}

// Envelope is the reply to one chat message.
type Envelope struct {
	Response        string       `json:"response"`
	Data            Data         `json:"data,omitempty"`
	Count           *int         `json:"count,omitempty"`
	Suggestions     []string     `json:"suggestions,omitempty"`
	MatchedItem     string       `json:"matched_item,omitempty"`
	MatchConfidence *float64     `json:"match_confidence,omitempty"`
	Intent          query.Intent `json:"intent"`
	Confidence      float64      `json:"confidence"`
}

// ItemView is the full JSON shape of a menu item.
type ItemView struct {
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

// NewItemView projects an item into its full JSON shape.
func NewItemView(it menu.Item) ItemView {
	ingredients := it.Ingredients()
	if ingredients == nil {
		ingredients = []string{}
	}
	return ItemView{
		Name:            it.Name(),
		Category:        it.Category(),
		Price:           it.Price(),
		Description:     it.Description(),
		Ingredients:     ingredients,
		IsVegetarian:    it.Vegetarian(),
		IsVegan:         it.Vegan(),
		SpiceLevel:      string(it.SpiceLevel()),
		PreparationTime: it.PreparationTime(),
	}
}

// NewItemViews projects a list of items.
func NewItemViews(items []menu.Item) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = NewItemView(it)
	}
	return out
}

// ItemSummary is the display projection of an item used in listings.
type ItemSummary struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Vegetarian  bool    `json:"vegetarian"`
	Vegan       bool    `json:"vegan"`
	SpiceLevel  string  `json:"spice_level"`
}

// ItemDetail carries one fully described item.
type ItemDetail struct{ ItemView }

// ItemList carries display summaries. An empty list encodes as [].
type ItemList []ItemSummary

// Candidates carries the items of a disambiguation prompt.
type Candidates []ItemView

// PriceQuote carries the price of one item.
type PriceQuote struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// PriceRange carries aggregate price statistics.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// CategoryList carries the known categories.
type CategoryList struct {
	Categories []string `json:"categories"`
}

// Restaurant carries the restaurant profile.
type Restaurant struct{ restaurant.Info }

func (ItemDetail) Kind() Kind   { return KindItemDetail }
func (ItemList) Kind() Kind     { return KindItemList }
func (Candidates) Kind() Kind   { return KindCandidates }
func (PriceQuote) Kind() Kind   { return KindPriceQuote }
func (PriceRange) Kind() Kind   { return KindPriceRange }
func (CategoryList) Kind() Kind { return KindCategoryList }
func (Restaurant) Kind() Kind   { return KindRestaurant }

func (ItemDetail) sealed()   {}
func (ItemList) sealed()     {}
func (Candidates) sealed()   {}
func (PriceQuote) sealed()   {}
func (PriceRange) sealed()   {}
func (CategoryList) sealed() {}
func (Restaurant) sealed()   {}
