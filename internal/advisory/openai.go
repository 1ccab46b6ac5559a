package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4"

// OpenAIConfig contains configuration for the OpenAI advisor.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key. If empty, uses OPENAI_API_KEY.
	APIKey string
	// Model is the chat model to use.
	Model string
	// BaseURL overrides the API endpoint (e.g. an OpenAI-compatible gateway).
	BaseURL string
	// Temperature is the sampling temperature.
	Temperature float32
}

// OpenAI asks an OpenAI chat model to review records.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	tracker     *TokenTracker
	logger      *slog.Logger
}

var _ validation.Advisor = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI advisor.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: cfg.Temperature,
		tracker:     NewTokenTracker(),
		logger:      slog.Default().With("component", "advisory", "provider", "openai"),
	}, nil
}

// Model returns the configured model name.
func (o *OpenAI) Model() string {
	return o.model
}

// Tracker returns the token tracker for this advisor.
func (o *OpenAI) Tracker() *TokenTracker {
	return o.tracker
}

// Advise sends rec to the model and parses its verdict.
func (o *OpenAI) Advise(ctx context.Context, rec models.Record) (*validation.Advice, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(rec)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai advisory request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrMalformedReply)
	}
	o.tracker.Add(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))

	o.logger.Debug("advisory reply received",
		"model", o.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return ParseAdvice(resp.Choices[0].Message.Content)
}
