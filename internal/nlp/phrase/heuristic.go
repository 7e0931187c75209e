// Package phrase finds candidate dish names in free text without external services.
package phrase

import (
	"context"
	"strings"
	"unicode"
)

// stopwords break a message into chunks. Besides function words they include the
// request vocabulary the intent rules already consume, so "price of paneer tikka"
// yields only "paneer tikka".
var stopwords = toSet(
	// function words
	"a", "an", "the", "is", "are", "was", "be", "do", "does", "did", "can", "could",
	"would", "will", "should", "i", "me", "my", "we", "us", "our", "you", "your",
	"it", "its", "this", "that", "these", "those", "there", "here", "of", "for",
	"in", "on", "at", "to", "from", "with", "without", "and", "or", "but", "any",
	"some", "please", "thanks", "thank", "like", "want", "get", "give", "have",
	"has", "much", "many", "how", "what", "which", "who", "whats", "about", "more",
	"all", "also", "just", "very", "really", "so", "if", "not", "no", "yes",
	// request vocabulary
	"tell", "show", "list", "display", "describe", "info", "details", "detail",
	"price", "prices", "cost", "costs", "expensive", "cheap", "menu", "items",
	"item", "dish", "dishes", "food", "available", "serve", "recipe", "ingredient",
	"ingredients", "contain", "contains", "made", "spicy", "spice", "level",
	"vegetarian", "vegan", "veg", "hi", "hello", "hey",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Heuristic chunks text into runs of content words.
type Heuristic struct{}

// NewHeuristic creates the in-process phrase extractor.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Phrases returns maximal runs of non-stopword tokens, in order of appearance, deduplicated.
func (h *Heuristic) Phrases(_ context.Context, text string) ([]string, error) {
	return Chunk(text), nil
}

// Chunk splits text into lowercase content-word phrases.
func Chunk(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	var (
		out  []string
		run  []string
		seen = make(map[string]bool)
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		p := strings.Join(run, " ")
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		tok = strings.Trim(tok, "'")
		if tok == "" {
			continue
		}
		if _, stop := stopwords[strings.ReplaceAll(tok, "'", "")]; stop {
			flush()
			continue
		}
		run = append(run, tok)
	}
	flush()
	return out
}
