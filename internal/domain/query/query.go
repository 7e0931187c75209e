// Package query holds the outcome of understanding a single chat message.
package query

// Intent is the coarse category of a user request.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentPriceQuery     Intent = "price_query"
	IntentCategoryQuery  Intent = "category_query"
	IntentRestaurantInfo Intent = "restaurant_info"
	IntentItemDetails    Intent = "item_details"
	IntentMenuList       Intent = "menu_list"
	IntentUnknown        Intent = "unknown"
)

// InfoType selects which restaurant facts a restaurant_info request wants.
type InfoType string

const (
	InfoHours   InfoType = "hours"
	InfoAddress InfoType = "address"
	InfoContact InfoType = "contact"
	InfoGeneral InfoType = "general"
)

// Price preferences.
const (
	PriceLow  = "low"
	PriceHigh = "high"
)

// Entities are the facts extracted from a message. Zero values mean "not detected".
type Entities struct {
	Category        string   `json:"category,omitempty"`
	Vegetarian      *bool    `json:"vegetarian,omitempty"`
	Vegan           *bool    `json:"vegan,omitempty"`
	SpiceLevel      string   `json:"spice_level,omitempty"`
	PricePreference string   `json:"price_preference,omitempty"`
	PotentialItems  []string `json:"potential_items,omitempty"`
}

// HasCategory reports whether a category was detected.
func (e Entities) HasCategory() bool { return e.Category != "" }

// WantsVegetarian reports whether a vegetarian=true cue survived extraction.
func (e Entities) WantsVegetarian() bool { return e.Vegetarian != nil && *e.Vegetarian }

// WantsVegan reports whether a vegan=true cue was detected.
func (e Entities) WantsVegan() bool { return e.Vegan != nil && *e.Vegan }

// Result is the understanding of one message.
type Result struct {
	Intent        Intent   `json:"intent"`
	Confidence    float64  `json:"confidence"`
	Entities      Entities `json:"entities"`
	OriginalQuery string   `json:"original_query"`
}
