package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured for the provider.
var ErrNoAPIKey = errors.New("no advisory API key configured")

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// keyEnv returns the environment variable and configured value for provider.
func keyEnv(cfg *Config, provider string) (env, configured string) {
	switch strings.ToLower(provider) {
	case "anthropic", "bedrock":
		env = "ANTHROPIC_API_KEY"
		if cfg != nil {
			configured = cfg.Advisory.Anthropic.APIKey
		}
	default:
		env = "OPENAI_API_KEY"
		if cfg != nil {
			configured = cfg.Advisory.OpenAI.APIKey
		}
	}
	return env, configured
}

// GetAPIKey returns the API key for provider.
// It checks in order: environment variable, config file.
func GetAPIKey(cfg *Config, provider string) (string, error) {
	env, configured := keyEnv(cfg, provider)
	if key := os.Getenv(env); key != "" {
		return key, nil
	}

	if configured != "" {
		key := os.ExpandEnv(configured)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", ErrNoAPIKey
}

// GetAPIKeySource returns where the API key for provider was sourced from.
func GetAPIKeySource(cfg *Config, provider string) KeySource {
	env, configured := keyEnv(cfg, provider)
	if os.Getenv(env) != "" {
		return KeySourceEnv
	}

	if configured != "" {
		key := os.ExpandEnv(configured)
		if key != "" && !strings.HasPrefix(key, "${") {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}
