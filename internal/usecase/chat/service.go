// Package chat answers free-text restaurant questions.
package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/query"
	"github.com/goldenspoon/dinebot/internal/domain/response"
	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
	"github.com/goldenspoon/dinebot/internal/logger"
	"github.com/goldenspoon/dinebot/internal/metrics"
	"github.com/goldenspoon/dinebot/internal/nlp/fuzzy"
)

const (
	// DefaultDetailConfidence is the fuzzy confidence an item_details answer must exceed.
	DefaultDetailConfidence = 0.6
	// maxCandidates caps a disambiguation prompt.
	maxCandidates = 5

	tracerName = "github.com/goldenspoon/dinebot/internal/usecase/chat"
)

const (
	msgNoMatchingItems = "Sorry, I couldn't find any items matching your criteria."
	msgItemNotFound    = "I couldn't find that item. Try asking about specific dishes like 'pizza' or 'chicken tikka'."
	msgNoPricing       = "I couldn't find pricing for that."
	msgCompleteMenu    = "Here's our complete menu:"
)

var (
	greetingSuggestions = []string{"Show me the menu", "What are your timings?", "Tell me about desserts"}
	notFoundSuggestions = []string{"Show menu", "What are your appetizers?", "Tell me about desserts"}
	unknownSuggestions  = []string{"Show me the menu", "What are your timings?", "Tell me about your location"}
)

// Config holds the immutable text and thresholds the service answers with.
type Config struct {
	Restaurant       restaurant.Info
	Greetings        []string
	Fallbacks        []string
	DetailConfidence float64
}

// DefaultGreetings builds the greeting templates for a restaurant and bot name.
func DefaultGreetings(restaurantName, botName string) []string {
	return []string{
		fmt.Sprintf("Hello! Welcome to %s. How can I help you today?", restaurantName),
		fmt.Sprintf("Hi there! I'm %s, your virtual assistant. Ask me about our menu!", botName),
		"Greetings! Looking for something delicious? I can help you explore our menu.",
	}
}

// DefaultFallbacks are the replies to messages nobody understood.
func DefaultFallbacks() []string {
	return []string{
		"I'm sorry, I didn't quite understand that. Could you rephrase your question?",
		"I'm not sure about that. Try asking about our menu, prices, or restaurant info!",
		"Hmm, I couldn't find information on that. Ask me about dishes, timings, or location!",
	}
}

// MenuFilter narrows direct menu listings.
type MenuFilter = menu.Filter

// Service dispatches understood messages to intent handlers.
// It holds only immutable state and is safe for concurrent use.
type Service struct {
	menu    MenuReader
	nlp     Understander
	matcher *fuzzy.Matcher
	cfg     Config
	choose  func(n int) int
	tracer  trace.Tracer
	logger  *zap.Logger
}

// New creates a chat service.
func New(reader MenuReader, nlp Understander, matcher *fuzzy.Matcher, cfg Config, logger *zap.Logger) *Service {
	if cfg.DetailConfidence <= 0 || cfg.DetailConfidence > 1 {
		cfg.DetailConfidence = DefaultDetailConfidence
	}
	if len(cfg.Greetings) == 0 {
		cfg.Greetings = DefaultGreetings(cfg.Restaurant.Name, "DineBot")
	}
	if len(cfg.Fallbacks) == 0 {
		cfg.Fallbacks = DefaultFallbacks()
	}
	if matcher == nil {
		matcher = fuzzy.NewMatcher(fuzzy.DefaultThreshold)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Restaurant = cfg.Restaurant.Clone()
	cfg.Greetings = append([]string(nil), cfg.Greetings...)
	cfg.Fallbacks = append([]string(nil), cfg.Fallbacks...)

	return &Service{
		menu:    reader,
		nlp:     nlp,
		matcher: matcher,
		cfg:     cfg,
		choose:  rand.IntN,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}
}

// WithChooser replaces the random source used to pick greeting and fallback text.
// choose(n) must return a value in [0, n).
func (s *Service) WithChooser(choose func(n int) int) *Service {
	if choose != nil {
		s.choose = choose
	}
	return s
}

// WithTracer replaces the OpenTelemetry tracer.
func (s *Service) WithTracer(t trace.Tracer) *Service {
	if t != nil {
		s.tracer = t
	}
	return s
}

// Handle understands text and builds the reply. Only store failures produce an error.
func (s *Service) Handle(ctx context.Context, text string) (response.Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "chat.Handle")
	defer span.End()

	res := s.nlp.Process(ctx, text)
	span.SetAttributes(
		attribute.String("chat.intent", string(res.Intent)),
		attribute.Float64("chat.confidence", res.Confidence),
	)

	env, err := s.dispatch(ctx, text, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat handler failed")
		metrics.ChatErrorsTotal.WithLabelValues(string(res.Intent)).Inc()
		s.logger.Error("Chat handler failed",
			zap.String("intent", string(res.Intent)),
			zap.Error(err),
		)
		return response.Envelope{}, fmt.Errorf("handle %s: %w", res.Intent, err)
	}

	env.Intent = res.Intent
	env.Confidence = res.Confidence

	metrics.ChatIntentsTotal.WithLabelValues(string(res.Intent)).Inc()
	metrics.ChatConfidence.WithLabelValues(string(res.Intent)).Observe(res.Confidence)

	logger.AddFields(ctx,
		zap.String("intent", string(res.Intent)),
		zap.Float64("confidence", res.Confidence),
	)
	logger.FromContext(ctx).Debug("chat",
		zap.String("query", res.OriginalQuery),
		zap.String("intent", string(res.Intent)),
		zap.Float64("confidence", res.Confidence),
		zap.String("matched_item", env.MatchedItem),
	)

	return env, nil
}

func (s *Service) dispatch(ctx context.Context, text string, res query.Result) (response.Envelope, error) {
	switch res.Intent {
	case query.IntentGreeting:
		return s.greeting(), nil
	case query.IntentMenuList:
		return s.menuList(ctx, res.Entities)
	case query.IntentItemDetails:
		return s.itemDetails(ctx, text, res.Entities)
	case query.IntentPriceQuery:
		return s.priceQuery(ctx, text, res.Entities)
	case query.IntentCategoryQuery:
		return s.categoryQuery(ctx, res.Entities)
	case query.IntentRestaurantInfo:
		return s.restaurantInfo(text), nil
	default:
		return s.unknown(), nil
	}
}

func (s *Service) greeting() response.Envelope {
	return response.Envelope{
		Response:    s.pick(s.cfg.Greetings),
		Suggestions: clone(greetingSuggestions),
	}
}

func (s *Service) menuList(ctx context.Context, ent query.Entities) (response.Envelope, error) {
	var (
		items []menu.Item
		label string
		err   error
	)
	if ent.HasCategory() {
		items, err = s.menu.ItemsByCategory(ctx, ent.Category)
		label = fmt.Sprintf("Here are our %s items:", titleCase(ent.Category))
	} else {
		items, err = s.menu.AllItems(ctx)
		label = msgCompleteMenu
	}
	if err != nil {
		return response.Envelope{}, fmt.Errorf("list items: %w", err)
	}

	if ent.WantsVegetarian() {
		items = menu.Filter{Vegetarian: true}.Apply(items)
		label += " (Vegetarian options)"
	}
	if ent.WantsVegan() {
		items = menu.Filter{Vegan: true}.Apply(items)
		label += " (Vegan options)"
	}

	if len(items) == 0 {
		return response.Envelope{Response: msgNoMatchingItems, Data: response.ItemList{}}, nil
	}
	return listEnvelope(label, items), nil
}

func (s *Service) itemDetails(ctx context.Context, text string, ent query.Entities) (response.Envelope, error) {
	all, err := s.menu.AllItems(ctx)
	if err != nil {
		return response.Envelope{}, fmt.Errorf("all items: %w", err)
	}

	if m, ok := s.matcher.Match(text, all); ok && m.Confidence > s.cfg.DetailConfidence {
		conf := m.Confidence
		return response.Envelope{
			Response:        FormatItemDetails(m.Item),
			Data:            response.ItemDetail{ItemView: response.NewItemView(m.Item)},
			MatchedItem:     m.Item.Name(),
			MatchConfidence: &conf,
		}, nil
	}

	for _, phrase := range ent.PotentialItems {
		hits, err := s.menu.Search(ctx, phrase)
		if err != nil {
			return response.Envelope{}, fmt.Errorf("search %q: %w", phrase, err)
		}
		switch {
		case len(hits) == 1:
			return response.Envelope{
				Response:    FormatItemDetails(hits[0]),
				Data:        response.ItemDetail{ItemView: response.NewItemView(hits[0])},
				MatchedItem: hits[0].Name(),
			}, nil
		case len(hits) > 1:
			return disambiguation(hits), nil
		}
	}

	return response.Envelope{
		Response:    msgItemNotFound,
		Suggestions: clone(notFoundSuggestions),
	}, nil
}

func disambiguation(hits []menu.Item) response.Envelope {
	if len(hits) > maxCandidates {
		hits = hits[:maxCandidates]
	}
	names := make([]string, len(hits))
	for i, it := range hits {
		names[i] = it.Name()
	}
	return response.Envelope{
		Response: fmt.Sprintf("I found multiple items. Did you mean: %s?", strings.Join(names, ", ")),
		Data:     response.Candidates(response.NewItemViews(hits)),
	}
}

func (s *Service) priceQuery(ctx context.Context, text string, ent query.Entities) (response.Envelope, error) {
	all, err := s.menu.AllItems(ctx)
	if err != nil {
		return response.Envelope{}, fmt.Errorf("all items: %w", err)
	}

	if m, ok := s.matcher.Match(text, all); ok {
		it := m.Item
		return response.Envelope{
			Response: fmt.Sprintf("%s costs ₹%s.", it.Name(), FormatPrice(it.Price())),
			Data:     response.PriceQuote{Name: it.Name(), Price: it.Price(), Category: it.Category()},
		}, nil
	}

	items := all
	if ent.HasCategory() {
		if items, err = s.menu.ItemsByCategory(ctx, ent.Category); err != nil {
			return response.Envelope{}, fmt.Errorf("items by category: %w", err)
		}
	}
	if len(items) == 0 {
		return response.Envelope{Response: msgNoPricing}, nil
	}

	stats := PriceStats(items)
	var scope string
	if ent.HasCategory() {
		scope = " for " + ent.Category
	}
	return response.Envelope{
		Response: fmt.Sprintf("Our prices%s range from ₹%s to ₹%s (Average: ₹%.0f).",
			scope, FormatPrice(stats.Min), FormatPrice(stats.Max), stats.Average),
		Data: response.PriceRange{
			Min:     stats.Min,
			Max:     stats.Max,
			Average: math.Round(stats.Average*100) / 100,
		},
	}, nil
}

// PriceStats computes min, max and mean price. items must not be empty.
func PriceStats(items []menu.Item) response.PriceRange {
	r := response.PriceRange{Min: items[0].Price(), Max: items[0].Price()}
	var sum float64
	for _, it := range items {
		p := it.Price()
		r.Min = math.Min(r.Min, p)
		r.Max = math.Max(r.Max, p)
		sum += p
	}
	r.Average = sum / float64(len(items))
	return r
}

func (s *Service) categoryQuery(ctx context.Context, ent query.Entities) (response.Envelope, error) {
	if ent.HasCategory() {
		items, err := s.menu.ItemsByCategory(ctx, ent.Category)
		if err != nil {
			return response.Envelope{}, fmt.Errorf("items by category: %w", err)
		}
		if len(items) > 0 {
			return listEnvelope(fmt.Sprintf("Here are our %s items:", titleCase(ent.Category)), items), nil
		}
	}

	cats, err := s.menu.Categories(ctx)
	if err != nil {
		return response.Envelope{}, fmt.Errorf("categories: %w", err)
	}
	if cats == nil {
		cats = []string{}
	}
	return response.Envelope{
		Response: fmt.Sprintf("We have these categories: %s. Which would you like to explore?", strings.Join(cats, ", ")),
		Data:     response.CategoryList{Categories: cats},
	}, nil
}

func (s *Service) restaurantInfo(text string) response.Envelope {
	info := s.cfg.Restaurant
	var msg string
	switch s.nlp.ExtractInfoType(text) {
	case query.InfoHours:
		msg = fmt.Sprintf("⏰ Opening Hours:\nWeekdays: %s\nWeekends: %s\nClosed on: %s",
			info.OpeningHours.Weekday, info.OpeningHours.Weekend, info.OpeningHours.Closed)
	case query.InfoAddress:
		msg = fmt.Sprintf("📍 Location:\n%s\n%s", info.Name, info.Address)
	case query.InfoContact:
		msg = fmt.Sprintf("📞 Contact Us:\nPhone: %s\nEmail: %s", info.Phone, info.Email)
	default:
		msg = fmt.Sprintf("🍽️ %s\n📍 %s\n📞 %s\n⏰ Open %s (Closed %s)\n🍴 Cuisines: %s\n💺 Seating: %d people\n✨ Facilities: %s",
			info.Name, info.Address, info.Phone,
			info.OpeningHours.Weekday, info.OpeningHours.Closed,
			strings.Join(info.CuisineTypes, ", "),
			info.SeatingCapacity,
			strings.Join(info.Facilities, ", "),
		)
	}
	return response.Envelope{
		Response: msg,
		Data:     response.Restaurant{Info: info.Clone()},
	}
}

func (s *Service) unknown() response.Envelope {
	return response.Envelope{
		Response:    s.pick(s.cfg.Fallbacks),
		Suggestions: clone(unknownSuggestions),
	}
}

// ListItems returns items for direct menu browsing.
func (s *Service) ListItems(ctx context.Context, f MenuFilter) ([]menu.Item, error) {
	var (
		items []menu.Item
		err   error
	)
	if f.Category != "" {
		items, err = s.menu.ItemsByCategory(ctx, f.Category)
	} else {
		items, err = s.menu.AllItems(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return MenuFilter{Vegetarian: f.Vegetarian, Vegan: f.Vegan}.Apply(items), nil
}

// ItemDetails looks an item up by exact name, ignoring case.
func (s *Service) ItemDetails(ctx context.Context, name string) (menu.Item, error) {
	it, err := s.menu.ItemByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return menu.Item{}, err
		}
		return menu.Item{}, fmt.Errorf("item by name: %w", err)
	}
	return it, nil
}

// RestaurantInfo returns the configured restaurant profile.
func (s *Service) RestaurantInfo() restaurant.Info {
	return s.cfg.Restaurant.Clone()
}

// Categories lists the distinct menu categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.menu.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func (s *Service) pick(options []string) string {
	return options[s.choose(len(options))]
}

func listEnvelope(label string, items []menu.Item) response.Envelope {
	n := len(items)
	return response.Envelope{
		Response: label,
		Data:     FormatItems(items),
		Count:    &n,
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
