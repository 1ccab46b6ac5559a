package advisory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/observer/internal/validation"
)

// ErrUnknownProvider is returned for an unrecognised provider name.
var ErrUnknownProvider = errors.New("unknown advisory provider")

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config selects and configures an advisor.
type Config struct {
	Provider  string
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
}

// New builds the advisor named by cfg.Provider. An empty provider means openai.
func New(cfg Config) (validation.Advisor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		a, err := NewOpenAI(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return a, nil
	case ProviderAnthropic, ProviderBedrock:
		ac := cfg.Anthropic
		if strings.EqualFold(strings.TrimSpace(cfg.Provider), ProviderBedrock) {
			ac.UseAWSBedrock = true
		}
		a, err := NewAnthropic(ac)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
