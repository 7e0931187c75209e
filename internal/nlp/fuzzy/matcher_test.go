package fuzzy

import (
	"math"
	"testing"

	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

func items(names ...string) []menu.Item {
	out := make([]menu.Item, len(names))
	for i, n := range names {
		out[i] = menu.Reconstruct(menu.Attrs{Name: n, Category: "Main Course", PreparationTime: 10})
	}
	return out
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"pizza", "margherita pizza", 100},
		{"margherita pizza", "pizza", 100},
		{"abc", "abc", 100},
		{"", "abc", 0},
		{"", "", 0},
		{"pizzza", "margherita pizza", 67},
		{"xyz", "abc", 0},
	}
	for _, tc := range tests {
		if got := PartialRatio(tc.a, tc.b); got != tc.want {
			t.Errorf("PartialRatio(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMatch_SubstringOfLongQuery(t *testing.T) {
	m := NewMatcher(0.65)
	got, ok := m.Match("how much is the butter chicken", items("Paneer Tikka", "Butter Chicken", "Mango Lassi"))
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Item.Name() != "Butter Chicken" {
		t.Errorf("matched %q", got.Item.Name())
	}
	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", got.Confidence)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	m := NewMatcher(0.65)
	list := items("Margherita Pizza", "Garlic Bread")
	upper, okUpper := m.Match("PIZZA", list)
	lower, okLower := m.Match("pizza", list)
	if okUpper != okLower || upper.Item.Name() != lower.Item.Name() || upper.Confidence != lower.Confidence {
		t.Errorf("case changed the result: %+v vs %+v", upper, lower)
	}
}

func TestMatch_TiesKeepFirstSeen(t *testing.T) {
	m := NewMatcher(0.65)
	got, ok := m.Match("tikka", items("Paneer Tikka", "Chicken Tikka"))
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Item.Name() != "Paneer Tikka" {
		t.Errorf("expected first-seen item, got %q", got.Item.Name())
	}
}

func TestMatch_BelowThresholdIsAbsent(t *testing.T) {
	m := NewMatcher(0.65)
	got, ok := m.Match("qwxz", items("Margherita Pizza", "Garlic Bread"))
	if ok {
		t.Fatalf("expected no match, got %+v", got)
	}
	if got.Confidence != 0 || got.Item.Name() != "" {
		t.Errorf("absent match should be zero value, got %+v", got)
	}
}

func TestMatch_ConfidenceWithinBounds(t *testing.T) {
	list := items("Margherita Pizza", "Garlic Bread", "Mango Lassi")
	for _, threshold := range []float64{0.3, 0.5, 0.65, 0.9} {
		for _, q := range []string{"pizzza", "garlic", "lassi please", "bread", "mango"} {
			got, ok := MatchThreshold(q, list, threshold)
			if !ok {
				continue
			}
			if got.Confidence < threshold || got.Confidence > 1 {
				t.Errorf("MatchThreshold(%q, %.2f) confidence %v out of range", q, threshold, got.Confidence)
			}
		}
	}
}

func TestMatch_Typo(t *testing.T) {
	got, ok := MatchThreshold("pizzza", items("Margherita Pizza"), 0.65)
	if !ok {
		t.Fatal("expected typo to match")
	}
	if math.Abs(got.Confidence-0.67) > 1e-9 {
		t.Errorf("confidence = %v, want 0.67", got.Confidence)
	}
}

func TestMatch_EmptyCandidates(t *testing.T) {
	if _, ok := NewMatcher(0.65).Match("pizza", nil); ok {
		t.Error("expected no match on empty candidates")
	}
}

func TestNewMatcher_DefaultThreshold(t *testing.T) {
	if got := NewMatcher(0).Threshold(); got != DefaultThreshold {
		t.Errorf("threshold = %v, want %v", got, DefaultThreshold)
	}
	if got := NewMatcher(1.5).Threshold(); got != DefaultThreshold {
		t.Errorf("threshold = %v, want %v", got, DefaultThreshold)
	}
}
