// Package config handles configuration loading and management for observer.
// It supports XDG config paths, project-level overrides, a .env file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for observer.
type Config struct {
	Observer ObserverConfig `mapstructure:"observer"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	Advisory AdvisoryConfig `mapstructure:"advisory"`
}

// ObserverConfig holds validation session settings.
type ObserverConfig struct {
	StrictMode bool          `mapstructure:"strict_mode"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// ReportsConfig holds report generation settings.
type ReportsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Dir         string `mapstructure:"dir"`
	Format      string `mapstructure:"format"`
	UniqueNames bool   `mapstructure:"unique_names"`
}

// AdvisoryConfig holds advisory validation settings.
type AdvisoryConfig struct {
	Enabled   bool            `mapstructure:"enabled"`
	Provider  string          `mapstructure:"provider"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"observer.strict_mode":           "OBSERVER_STRICT_MODE",
	"observer.max_retries":           "MAX_RETRIES",
	"reports.enabled":                "GENERATE_REPORTS",
	"reports.dir":                    "REPORTS_DIR",
	"reports.format":                 "DEFAULT_REPORT_FORMAT",
	"advisory.enabled":               "ENABLE_AI_VALIDATION",
	"advisory.provider":              "ADVISORY_PROVIDER",
	"advisory.openai.api_key":        "OPENAI_API_KEY",
	"advisory.openai.model":          "OPENAI_MODEL",
	"advisory.openai.temperature":    "OPENAI_TEMPERATURE",
	"advisory.anthropic.api_key":     "ANTHROPIC_API_KEY",
	"advisory.anthropic.aws_region":  "AWS_REGION",
	"advisory.anthropic.aws_profile": "AWS_PROFILE",
}

// Load loads configuration from XDG paths, project overrides, .env and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (including values loaded from .env)
// 2. Project config (.observer.yaml in current directory or parent)
// 3. User config (~/.config/observer/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file. Environment
// overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Advisory.OpenAI.APIKey = expandEnv(cfg.Advisory.OpenAI.APIKey)
	cfg.Advisory.Anthropic.APIKey = expandEnv(cfg.Advisory.Anthropic.APIKey)

	return cfg, nil
}

// Save writes cfg to the user config file. API keys are not written.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("observer.strict_mode", cfg.Observer.StrictMode)
	v.Set("observer.max_retries", cfg.Observer.MaxRetries)
	v.Set("observer.retry_delay", cfg.Observer.RetryDelay.String())
	v.Set("reports.enabled", cfg.Reports.Enabled)
	v.Set("reports.dir", cfg.Reports.Dir)
	v.Set("reports.format", cfg.Reports.Format)
	v.Set("reports.unique_names", cfg.Reports.UniqueNames)
	v.Set("advisory.enabled", cfg.Advisory.Enabled)
	v.Set("advisory.provider", cfg.Advisory.Provider)
	v.Set("advisory.openai.model", cfg.Advisory.OpenAI.Model)
	v.Set("advisory.openai.base_url", cfg.Advisory.OpenAI.BaseURL)
	v.Set("advisory.openai.temperature", cfg.Advisory.OpenAI.Temperature)
	v.Set("advisory.anthropic.model", cfg.Advisory.Anthropic.Model)
	v.Set("advisory.anthropic.use_bedrock", cfg.Advisory.Anthropic.UseBedrock)
	v.Set("advisory.anthropic.aws_region", cfg.Advisory.Anthropic.AWSRegion)
	v.Set("advisory.anthropic.aws_profile", cfg.Advisory.Anthropic.AWSProfile)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("observer.strict_mode", true)
	v.SetDefault("observer.max_retries", 2)
	v.SetDefault("observer.retry_delay", "0s")

	v.SetDefault("reports.enabled", true)
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.format", "text")
	v.SetDefault("reports.unique_names", false)

	v.SetDefault("advisory.enabled", false)
	v.SetDefault("advisory.provider", "openai")
	v.SetDefault("advisory.openai.api_key", "")
	v.SetDefault("advisory.openai.model", "gpt-4")
	v.SetDefault("advisory.openai.base_url", "")
	v.SetDefault("advisory.openai.temperature", 0.3)
	v.SetDefault("advisory.anthropic.api_key", "")
	v.SetDefault("advisory.anthropic.model", "")
	v.SetDefault("advisory.anthropic.use_bedrock", false)
	v.SetDefault("advisory.anthropic.aws_region", "")
	v.SetDefault("advisory.anthropic.aws_profile", "")
}

// getUserConfigDir returns the XDG config directory for observer.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "observer")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "observer")
	}
	return filepath.Join(home, ".config", "observer")
}

// findProjectConfig searches for .observer.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".observer.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Observer: ObserverConfig{
			StrictMode: true,
			MaxRetries: 2,
		},
		Reports: ReportsConfig{
			Enabled: true,
			Dir:     "reports",
			Format:  "text",
		},
		Advisory: AdvisoryConfig{
			Provider: "openai",
			OpenAI: OpenAIConfig{
				Model:       "gpt-4",
				Temperature: 0.3,
			},
		},
	}
}
