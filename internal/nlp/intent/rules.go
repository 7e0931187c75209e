package intent

import (
	"regexp"

	"github.com/goldenspoon/dinebot/internal/domain/query"
)

// rule classifies text as intent when any of its patterns matches.
type rule struct {
	intent     query.Intent
	confidence float64
	patterns   []*regexp.Regexp
}

func (r rule) matches(text string) bool {
	for _, p := range r.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// cascade is evaluated top to bottom and the first matching rule wins.
// The order is part of the contract: "how much is the spicy chicken" matches
// both price and details cues and must classify as a price query.
var cascade = []rule{
	{
		intent:     query.IntentGreeting,
		confidence: 0.9,
		patterns:   patterns(`\b(hi|hello|hey|greetings|good morning|good evening)\b`),
	},
	{
		intent:     query.IntentPriceQuery,
		confidence: 0.85,
		patterns: patterns(
			`\b(price|cost|how much|expensive|cheap)`,
			`\bhow much.*cost`,
			`\bprice.*(?:of|for)`,
		),
	},
	{
		intent:     query.IntentCategoryQuery,
		confidence: 0.85,
		patterns: patterns(
			`\b(appetizer|starter|main course|dessert|beverage|drink)`,
			`\bshow.*(category|type)`,
			`\b(?:list|show).*(?:appetizer|starter|main|dessert|beverage)`,
		),
	},
	{
		intent:     query.IntentRestaurantInfo,
		confidence: 0.85,
		patterns: patterns(
			`\b(address|location|where|situated)`,
			`\b(timing|hours|open|close|when)`,
			`\b(contact|phone|email|call)`,
			`\b(about|info).*restaurant`,
			`\brestaurant.*(?:info|detail|about)`,
		),
	},
	{
		intent:     query.IntentItemDetails,
		confidence: 0.8,
		patterns: patterns(
			`\b(tell|what|about|info|details|describe)`,
			`\b(ingredient|contain|made of|recipe)`,
			`\b(vegetarian|vegan|spicy|spice level)`,
		),
	},
	{
		intent:     query.IntentMenuList,
		confidence: 0.85,
		patterns: patterns(
			`\b(show|display|list|what|tell).*(menu|items|dishes|food)`,
			`\bwhat.*(?:have|available|serve)`,
			`\bmenu\b`,
		),
	},
}

const (
	// shortQueryTokens is the longest utterance assumed to name a dish.
	shortQueryTokens     = 3
	shortQueryConfidence = 0.6
	unknownConfidence    = 0.3
)

// infoRules pick the restaurant facts a message asks for, first match wins.
var infoRules = []struct {
	info    query.InfoType
	pattern *regexp.Regexp
}{
	{query.InfoHours, regexp.MustCompile(`\b(timing|hours|open|close|when)`)},
	{query.InfoAddress, regexp.MustCompile(`\b(address|location|where|situated)`)},
	{query.InfoContact, regexp.MustCompile(`\b(contact|phone|email|call)`)},
}

// categoryKeywords are scanned in order; the first one present wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"appetizer", "appetizer"},
	{"starter", "appetizer"},
	{"main course", "main course"},
	{"dessert", "dessert"},
	{"beverage", "beverage"},
	{"drink", "beverage"},
}

var (
	vegetarianRe    = regexp.MustCompile(`\b(vegetarian|veg)\b`)
	veganRe         = regexp.MustCompile(`\bvegan\b`)
	nonVegetarianRe = regexp.MustCompile(`\b(non-veg|non veg|chicken|meat)\b`)
	hotRe           = regexp.MustCompile(`\b(spicy|hot|chili)\b`)
	mildRe          = regexp.MustCompile(`\b(mild|less spicy|not spicy)\b`)
	lowPriceRe      = regexp.MustCompile(`\b(cheap|affordable|budget|low price)\b`)
	highPriceRe     = regexp.MustCompile(`\b(expensive|premium|costly)\b`)
)
