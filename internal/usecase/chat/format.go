package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/response"
)

const (
	detailPrefix = "🍽️ "
	priceMarker  = " - ₹"
)

var errBadDetailHeader = errors.New("malformed item detail header")

// FormatItem strips an item down to its display fields.
func FormatItem(it menu.Item) response.ItemSummary {
	return response.ItemSummary{
		Name:        it.Name(),
		Price:       it.Price(),
		Category:    it.Category(),
		Description: it.Description(),
		Vegetarian:  it.Vegetarian(),
		Vegan:       it.Vegan(),
		SpiceLevel:  string(it.SpiceLevel()),
	}
}

// FormatItems projects items for listings. The result is never nil.
func FormatItems(items []menu.Item) response.ItemList {
	out := make(response.ItemList, 0, len(items))
	for _, it := range items {
		out = append(out, FormatItem(it))
	}
	return out
}

// FormatItemDetails renders the multi-line description of a single item.
func FormatItemDetails(it menu.Item) string {
	var tags strings.Builder
	if it.Vegetarian() {
		tags.WriteString("🥬 Vegetarian")
	} else {
		tags.WriteString("🍖 Non-Vegetarian")
	}
	if it.Vegan() {
		tags.WriteString(" | 🌱 Vegan")
	}
	if s := it.SpiceLevel(); s != menu.SpiceNone && s != "" {
		tags.WriteString(" | 🌶️ " + titleCase(string(s)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s%s\n", detailPrefix, it.Name(), priceMarker, FormatPrice(it.Price()))
	b.WriteString(tags.String())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "📝 %s\n\n", it.Description())
	fmt.Fprintf(&b, "🥘 Ingredients: %s\n", strings.Join(it.Ingredients(), ", "))
	fmt.Fprintf(&b, "⏱️ Prep time: ~%d minutes", it.PreparationTime())
	return b.String()
}

// ParseDetailHeader reads the item name and price back from FormatItemDetails output.
func ParseDetailHeader(text string) (string, float64, error) {
	header, _, _ := strings.Cut(text, "\n")
	rest, ok := strings.CutPrefix(header, detailPrefix)
	if !ok {
		return "", 0, errBadDetailHeader
	}
	i := strings.LastIndex(rest, priceMarker)
	if i < 0 {
		return "", 0, errBadDetailHeader
	}
	price, err := strconv.ParseFloat(rest[i+len(priceMarker):], 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", errBadDetailHeader, err)
	}
	return rest[:i], price, nil
}

// FormatPrice prints a price without trailing zeros.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsLetter(r) {
			if startOfWord {
				r = unicode.ToUpper(r)
			} else {
				r = unicode.ToLower(r)
			}
			startOfWord = false
		} else {
			startOfWord = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
