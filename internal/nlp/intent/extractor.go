// Package intent turns a chat message into an intent and the entities it mentions.
package intent

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain/query"
)

// DefaultPhraseTimeout bounds a single phrase extraction call.
const DefaultPhraseTimeout = 2 * time.Second

// PhraseExtractor finds candidate dish phrases in text (consumer-side interface).
type PhraseExtractor interface {
	Phrases(ctx context.Context, text string) ([]string, error)
}

// Extractor classifies messages and extracts entities.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	phrases PhraseExtractor
	timeout time.Duration
	logger  *zap.Logger
}

// NewExtractor creates an extractor. phrases may be nil.
func NewExtractor(phrases PhraseExtractor, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		phrases: phrases,
		timeout: DefaultPhraseTimeout,
		logger:  logger,
	}
}

// WithPhraseTimeout sets the upper bound for phrase extraction.
func (e *Extractor) WithPhraseTimeout(d time.Duration) *Extractor {
	if d > 0 {
		e.timeout = d
	}
	return e
}

// Normalize trims and lowercases a message.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify returns the intent of text and a fixed confidence for the rule that fired.
func (e *Extractor) Classify(text string) (query.Intent, float64) {
	return classify(Normalize(text))
}

func classify(text string) (query.Intent, float64) {
	for _, r := range cascade {
		if r.matches(text) {
			return r.intent, r.confidence
		}
	}
	if len(strings.Fields(text)) <= shortQueryTokens {
		return query.IntentItemDetails, shortQueryConfidence
	}
	return query.IntentUnknown, unknownConfidence
}

// ExtractInfoType picks which restaurant facts text asks for.
func (e *Extractor) ExtractInfoType(text string) query.InfoType {
	return InfoTypeOf(text)
}

// InfoTypeOf picks which restaurant facts text asks for.
func InfoTypeOf(text string) query.InfoType {
	t := Normalize(text)
	for _, r := range infoRules {
		if r.pattern.MatchString(t) {
			return r.info
		}
	}
	return query.InfoGeneral
}

// ExtractEntities scans text for entity cues. Phrase extraction failures are logged and skipped.
func (e *Extractor) ExtractEntities(ctx context.Context, text string) query.Entities {
	t := Normalize(text)
	ent := scanEntities(t)
	ent.PotentialItems = e.potentialItems(ctx, t)
	return ent
}

// Process classifies text and extracts its entities.
func (e *Extractor) Process(ctx context.Context, text string) query.Result {
	t := Normalize(text)
	intent, confidence := classify(t)
	ent := scanEntities(t)
	ent.PotentialItems = e.potentialItems(ctx, t)
	return query.Result{
		Intent:        intent,
		Confidence:    confidence,
		Entities:      ent,
		OriginalQuery: t,
	}
}

// scanEntities applies the keyword rules in a fixed order; later rules overwrite earlier ones.
func scanEntities(text string) query.Entities {
	var ent query.Entities

	for _, c := range categoryKeywords {
		if strings.Contains(text, c.keyword) {
			ent.Category = c.category
			break
		}
	}

	if vegetarianRe.MatchString(text) {
		ent.Vegetarian = boolPtr(true)
	}
	if veganRe.MatchString(text) {
		ent.Vegan = boolPtr(true)
	}
	if nonVegetarianRe.MatchString(text) {
		ent.Vegetarian = boolPtr(false)
	}

	if hotRe.MatchString(text) {
		ent.SpiceLevel = "hot"
	}
	if mildRe.MatchString(text) {
		ent.SpiceLevel = "mild"
	}

	if lowPriceRe.MatchString(text) {
		ent.PricePreference = query.PriceLow
	}
	if highPriceRe.MatchString(text) {
		ent.PricePreference = query.PriceHigh
	}

	return ent
}

func (e *Extractor) potentialItems(ctx context.Context, text string) []string {
	if e.phrases == nil || text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	phrases, err := e.phrases.Phrases(ctx, text)
	if err != nil {
		e.logger.Warn("phrase extraction failed", zap.Error(err))
		return nil
	}

	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
