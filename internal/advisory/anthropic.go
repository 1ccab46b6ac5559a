package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// AnthropicConfig contains configuration for the Anthropic advisor.
type AnthropicConfig struct {
	// Model is the Claude model to use. Defaults to Sonnet 4.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// BaseURL overrides the API endpoint.
	BaseURL string
	// Temperature is the sampling temperature.
	Temperature float64
	// UseAWSBedrock routes requests through AWS Bedrock instead of the direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// Anthropic asks a Claude model to review records.
type Anthropic struct {
	inner       anthropic.Client
	model       anthropic.Model
	temperature float64
	tracker     *TokenTracker
	logger      *slog.Logger
}

var _ validation.Advisor = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic advisor.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &Anthropic{
		inner:       anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		tracker:     NewTokenTracker(),
		logger:      slog.Default().With("component", "advisory", "provider", "anthropic"),
	}, nil
}

// translateModelForBedrock converts Anthropic model names to Bedrock
// cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), "us.anthropic.") {
		return model
	}
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if m, ok := bedrockModels[model]; ok {
		return anthropic.Model(m)
	}
	return model
}

// Model returns the configured model name.
func (a *Anthropic) Model() anthropic.Model {
	return a.model
}

// Tracker returns the token tracker for this advisor.
func (a *Anthropic) Tracker() *TokenTracker {
	return a.tracker
}

// Advise sends rec to the model and parses its verdict.
func (a *Anthropic) Advise(ctx context.Context, rec models.Record) (*validation.Advice, error) {
	resp, err := a.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   1024,
		Temperature: anthropic.Float(a.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(rec))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic advisory request: %w", err)
	}
	a.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	a.logger.Debug("advisory reply received",
		"model", string(a.model),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return ParseAdvice(text.String())
}
