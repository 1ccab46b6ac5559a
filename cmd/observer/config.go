package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/config"
	"github.com/ShayCichocki/observer/internal/report"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify observer configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/observer/config.yaml
Project-specific overrides can be placed in .observer.yaml
API keys are read from OPENAI_API_KEY and ANTHROPIC_API_KEY (or .env)
and are never written to the config file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		if configInit {
			if err := config.Save(config.Default()); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			printStatus(w, "✓", "Wrote default configuration to "+config.GetUserConfigPath(), color.FgGreen)
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch len(args) {
		case 0:
			displayAllConfig(w, cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(w, value)
			return nil
		default:
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(w, "Set %s = %s\n", args[0], args[1])
			return nil
		}
	},
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default configuration to the user config file")
}

// configKeys lists the keys shown by displayAllConfig, in order.
var configKeys = []string{
	"observer.strict_mode",
	"observer.max_retries",
	"observer.retry_delay",
	"reports.enabled",
	"reports.dir",
	"reports.format",
	"reports.unique_names",
	"advisory.enabled",
	"advisory.provider",
	"advisory.openai.api_key",
	"advisory.openai.model",
	"advisory.openai.base_url",
	"advisory.openai.temperature",
	"advisory.anthropic.api_key",
	"advisory.anthropic.model",
	"advisory.anthropic.use_bedrock",
	"advisory.anthropic.aws_region",
	"advisory.anthropic.aws_profile",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(w io.Writer, cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
// API keys are masked.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "observer.strict_mode":
		return strconv.FormatBool(cfg.Observer.StrictMode), nil
	case "observer.max_retries":
		return strconv.Itoa(cfg.Observer.MaxRetries), nil
	case "observer.retry_delay":
		return cfg.Observer.RetryDelay.String(), nil
	case "reports.enabled":
		return strconv.FormatBool(cfg.Reports.Enabled), nil
	case "reports.dir":
		return cfg.Reports.Dir, nil
	case "reports.format":
		return cfg.Reports.Format, nil
	case "reports.unique_names":
		return strconv.FormatBool(cfg.Reports.UniqueNames), nil
	case "advisory.enabled":
		return strconv.FormatBool(cfg.Advisory.Enabled), nil
	case "advisory.provider":
		return cfg.Advisory.Provider, nil
	case "advisory.openai.api_key":
		key, _ := config.GetAPIKey(cfg, "openai")
		return config.MaskAPIKey(key), nil
	case "advisory.openai.model":
		return cfg.Advisory.OpenAI.Model, nil
	case "advisory.openai.base_url":
		return cfg.Advisory.OpenAI.BaseURL, nil
	case "advisory.openai.temperature":
		return strconv.FormatFloat(cfg.Advisory.OpenAI.Temperature, 'g', -1, 64), nil
	case "advisory.anthropic.api_key":
		key, _ := config.GetAPIKey(cfg, "anthropic")
		return config.MaskAPIKey(key), nil
	case "advisory.anthropic.model":
		return cfg.Advisory.Anthropic.Model, nil
	case "advisory.anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Advisory.Anthropic.UseBedrock), nil
	case "advisory.anthropic.aws_region":
		return cfg.Advisory.Anthropic.AWSRegion, nil
	case "advisory.anthropic.aws_profile":
		return cfg.Advisory.Anthropic.AWSProfile, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "observer.strict_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for observer.strict_mode: %w", err)
		}
		cfg.Observer.StrictMode = b
	case "observer.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for observer.max_retries: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("observer.max_retries must not be negative, got %d", n)
		}
		cfg.Observer.MaxRetries = n
	case "observer.retry_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for observer.retry_delay: %w", err)
		}
		cfg.Observer.RetryDelay = d
	case "reports.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for reports.enabled: %w", err)
		}
		cfg.Reports.Enabled = b
	case "reports.dir":
		cfg.Reports.Dir = value
	case "reports.format":
		f, err := report.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Reports.Format = string(f)
	case "reports.unique_names":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for reports.unique_names: %w", err)
		}
		cfg.Reports.UniqueNames = b
	case "advisory.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for advisory.enabled: %w", err)
		}
		cfg.Advisory.Enabled = b
	case "advisory.provider":
		cfg.Advisory.Provider = value
	case "advisory.openai.model":
		cfg.Advisory.OpenAI.Model = value
	case "advisory.openai.base_url":
		cfg.Advisory.OpenAI.BaseURL = value
	case "advisory.openai.temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for advisory.openai.temperature: %w", err)
		}
		cfg.Advisory.OpenAI.Temperature = t
	case "advisory.anthropic.model":
		cfg.Advisory.Anthropic.Model = value
	case "advisory.anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for advisory.anthropic.use_bedrock: %w", err)
		}
		cfg.Advisory.Anthropic.UseBedrock = b
	case "advisory.anthropic.aws_region":
		cfg.Advisory.Anthropic.AWSRegion = value
	case "advisory.anthropic.aws_profile":
		cfg.Advisory.Anthropic.AWSProfile = value
	case "advisory.openai.api_key", "advisory.anthropic.api_key":
		return fmt.Errorf("%s is read from the environment or .env, not the config file", key)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
