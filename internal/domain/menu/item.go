package menu

import (
	"strings"

	"github.com/goldenspoon/dinebot/internal/domain"
)

// SpiceLevel is the heat of a dish. The set is open; these are the seeded values.
type SpiceLevel string

const (
	// SpiceNone marks a dish without heat.
	SpiceNone SpiceLevel = "none"
	// SpiceMild marks a mildly spiced dish.
	SpiceMild SpiceLevel = "mild"
	// SpiceMedium marks a medium spiced dish.
	SpiceMedium SpiceLevel = "medium"
	// SpiceHot marks a hot dish.
	SpiceHot SpiceLevel = "hot"
)

// Item is a menu item (immutable value object). Name is the business key.
type Item struct {
	name            string
	category        string
	price           float64
	description     string
	ingredients     []string
	vegetarian      bool
	vegan           bool
	spiceLevel      SpiceLevel
	preparationTime int
}

// Attrs carries the raw fields used to build an Item.
type Attrs struct {
	Name            string
	Category        string
	Price           float64
	Description     string
	Ingredients     []string
	Vegetarian      bool
	Vegan           bool
	SpiceLevel      SpiceLevel
	PreparationTime int
}

// New validates and creates an Item.
// Vegan without vegetarian is accepted here; see DietConsistent.
func New(a Attrs) (Item, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return Item{}, domain.NewItemValidation(a.Name, "name is required")
	}
	if strings.TrimSpace(a.Category) == "" {
		return Item{}, domain.NewItemValidation(name, "category is required")
	}
	if a.Price < 0 {
		return Item{}, domain.NewItemValidation(name, "price must be non-negative")
	}
	if a.PreparationTime <= 0 {
		return Item{}, domain.NewItemValidation(name, "preparation time must be positive")
	}
	spice := a.SpiceLevel
	if spice == "" {
		spice = SpiceNone
	}

	return Item{
		name:            name,
		category:        strings.TrimSpace(a.Category),
		price:           a.Price,
		description:     a.Description,
		ingredients:     cloneStrings(a.Ingredients),
		vegetarian:      a.Vegetarian,
		vegan:           a.Vegan,
		spiceLevel:      SpiceLevel(strings.ToLower(string(spice))),
		preparationTime: a.PreparationTime,
	}, nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(a Attrs) Item {
	return Item{
		name:            a.Name,
		category:        a.Category,
		price:           a.Price,
		description:     a.Description,
		ingredients:     a.Ingredients,
		vegetarian:      a.Vegetarian,
		vegan:           a.Vegan,
		spiceLevel:      a.SpiceLevel,
		preparationTime: a.PreparationTime,
	}
}

// Name returns the item name.
func (i Item) Name() string { return i.name }

// Category returns the item category.
func (i Item) Category() string { return i.category }

// Price returns the item price.
func (i Item) Price() float64 { return i.price }

// Description returns the item description.
func (i Item) Description() string { return i.description }

// Ingredients returns the ordered ingredient list.
func (i Item) Ingredients() []string { return i.ingredients }

// Vegetarian reports whether the item is vegetarian.
func (i Item) Vegetarian() bool { return i.vegetarian }

// Vegan reports whether the item is vegan.
func (i Item) Vegan() bool { return i.vegan }

// SpiceLevel returns the spice level.
func (i Item) SpiceLevel() SpiceLevel { return i.spiceLevel }

// PreparationTime returns the preparation time in minutes.
func (i Item) PreparationTime() int { return i.preparationTime }

// Attrs returns a copy of the item fields.
func (i Item) Attrs() Attrs {
	return Attrs{
		Name:            i.name,
		Category:        i.category,
		Price:           i.price,
		Description:     i.description,
		Ingredients:     cloneStrings(i.ingredients),
		Vegetarian:      i.vegetarian,
		Vegan:           i.vegan,
		SpiceLevel:      i.spiceLevel,
		PreparationTime: i.preparationTime,
	}
}

// DietConsistent reports whether the vegan flag implies the vegetarian flag.
func (i Item) DietConsistent() bool {
	return !i.vegan || i.vegetarian
}

// Key returns the case-folded business key.
func (i Item) Key() string { return NameKey(i.name) }

// NameKey folds a name into its lookup key.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
