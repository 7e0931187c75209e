// Package fuzzy finds the menu item whose name best matches free text.
package fuzzy

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

// DefaultThreshold is the minimum similarity (0-1) for a match to be reported.
const DefaultThreshold = 0.65

// Match is a reported fuzzy hit.
type Match struct {
	Item       menu.Item
	Confidence float64 // score/100, in [threshold, 1]
}

// Matcher scores item names against a query. Safe for concurrent use.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher. Out-of-range thresholds fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured similarity threshold (0-1).
func (m *Matcher) Threshold() float64 { return m.threshold }

// Match finds the best item using the configured threshold.
func (m *Matcher) Match(query string, items []menu.Item) (Match, bool) {
	return MatchThreshold(query, items, m.threshold)
}

// MatchThreshold finds the highest scoring item. Ties keep the first item seen.
// The result is absent unless the best score reaches threshold*100.
func MatchThreshold(query string, items []menu.Item, threshold float64) (Match, bool) {
	q := strings.ToLower(query)

	bestIdx := -1
	bestScore := 0
	for i, it := range items {
		score := PartialRatio(q, strings.ToLower(it.Name()))
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || float64(bestScore) < threshold*100 {
		return Match{}, false
	}
	return Match{Item: items[bestIdx], Confidence: float64(bestScore) / 100}, true
}

// PartialRatio scores 0-100 how well the shorter string appears inside the longer one.
// The shorter string is slid over every same-length window of the longer one and the
// best normalized Levenshtein similarity wins.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		d := levenshtein.ComputeDistance(s, string(long[i:i+len(short)]))
		sim := 1 - float64(d)/float64(len(short))
		if sim > best {
			best = sim
			if best == 1 {
				break
			}
		}
	}
	return int(math.Round(best * 100))
}
