// Package openai extracts dish phrases with an OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/metrics"
)

const systemPrompt = `You extract food and dish names from restaurant customer messages.
Reply with a JSON object {"phrases": [...]} listing every dish, drink or food noun phrase
mentioned in the message, lowercased, in the order they appear. Reply {"phrases": []} if there are none.`

// DefaultModel is used when Config.Model is empty.
const DefaultModel = openai.GPT4oMini

// PhraseExtractor finds candidate dish names via chat completions in JSON mode.
type PhraseExtractor struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewPhraseExtractor creates an OpenAI-compatible phrase extractor.
func NewPhraseExtractor(cfg *Config) *PhraseExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PhraseExtractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		user:     cfg.User,
		provider: provider,
		logger:   logger,
	}
}

type phraseReply struct {
	Phrases []string `json:"phrases"`
}

// Phrases implements intent.PhraseExtractor.
func (p *PhraseExtractor) Phrases(ctx context.Context, text string) ([]string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
		User:           p.user,
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		p.fail("api_error")
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		p.fail("empty_response")
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrPhraseProviderError)
	}

	var reply phraseReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		p.fail("bad_json")
		p.logger.Debug("Unparseable phrase reply", zap.String("content", resp.Choices[0].Message.Content))
		return nil, fmt.Errorf("decode phrases: %w: %w", domain.ErrPhraseProviderError, err)
	}

	metrics.PhraseRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
	metrics.PhraseRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())

	out := make([]string, 0, len(reply.Phrases))
	for _, ph := range reply.Phrases {
		if ph = strings.ToLower(strings.TrimSpace(ph)); ph != "" {
			out = append(out, ph)
		}
	}
	return out, nil
}

func (p *PhraseExtractor) fail(errorType string) {
	metrics.PhraseRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
	metrics.PhraseErrorsTotal.WithLabelValues(p.provider, p.model, errorType).Inc()
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *PhraseExtractor) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrPhraseProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrPhraseProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", wrap, err)
}

// extractDetail pulls the "detail" field out of a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
