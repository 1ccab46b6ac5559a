package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/advisory"
	"github.com/ShayCichocki/observer/internal/config"
	"github.com/ShayCichocki/observer/internal/observer"
	"github.com/ShayCichocki/observer/internal/report"
)

// sessionFlags are the flags shared by commands that build a session.
type sessionFlags struct {
	strict       bool
	noStrict     bool
	ai           bool
	noReports    bool
	reportFormat string
	maxRetries   int
	noRetry      bool
}

func addSessionFlags(cmd *cobra.Command, f *sessionFlags) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Return a validation error on failure")
	cmd.Flags().BoolVar(&f.noStrict, "no-strict", false, "Disable strict mode")
	cmd.Flags().BoolVar(&f.ai, "ai", false, "Enable advisory validation")
	cmd.Flags().BoolVar(&f.noReports, "no-reports", false, "Disable report generation")
	cmd.Flags().StringVar(&f.reportFormat, "report-format", "", "Report format: text, json or html")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 0, "Maximum number of retry attempts")
	cmd.Flags().BoolVar(&f.noRetry, "no-retry", false, "Disable retries")
}

// sessionOptions merges cfg with the flags the user set explicitly.
func sessionOptions(cmd *cobra.Command, cfg *config.Config, f *sessionFlags) (observer.Options, error) {
	opts := observer.Options{
		StrictMode:      cfg.Observer.StrictMode,
		UseAdvisory:     cfg.Advisory.Enabled,
		GenerateReports: cfg.Reports.Enabled,
		MaxRetries:      cfg.Observer.MaxRetries,
		ReportFormat:    report.Format(cfg.Reports.Format),
		ReportsDir:      cfg.Reports.Dir,
	}

	if f.strict {
		opts.StrictMode = true
	} else if f.noStrict {
		opts.StrictMode = false
	}
	if f.ai {
		opts.UseAdvisory = true
	}
	if f.noReports {
		opts.GenerateReports = false
	}
	if cmd.Flags().Changed("report-format") {
		format, err := report.ParseFormat(f.reportFormat)
		if err != nil {
			return opts, err
		}
		opts.ReportFormat = format
	}
	if cmd.Flags().Changed("max-retries") {
		if f.maxRetries < 0 {
			return opts, fmt.Errorf("--max-retries must not be negative, got %d", f.maxRetries)
		}
		opts.MaxRetries = f.maxRetries
	}
	if f.noRetry {
		opts.MaxRetries = 0
	}

	return opts, nil
}

// advisoryConfig maps the loaded configuration onto advisor settings.
func advisoryConfig(cfg *config.Config) advisory.Config {
	return advisory.Config{
		Provider: cfg.Advisory.Provider,
		OpenAI: advisory.OpenAIConfig{
			APIKey:      cfg.Advisory.OpenAI.APIKey,
			Model:       cfg.Advisory.OpenAI.Model,
			BaseURL:     cfg.Advisory.OpenAI.BaseURL,
			Temperature: float32(cfg.Advisory.OpenAI.Temperature),
		},
		Anthropic: advisory.AnthropicConfig{
			APIKey:        cfg.Advisory.Anthropic.APIKey,
			Model:         anthropic.Model(cfg.Advisory.Anthropic.Model),
			UseAWSBedrock: cfg.Advisory.Anthropic.UseBedrock,
			AWSRegion:     cfg.Advisory.Anthropic.AWSRegion,
			AWSProfile:    cfg.Advisory.Anthropic.AWSProfile,
		},
	}
}

// newSession builds a session wired with the configured advisor and emitter.
func newSession(cmd *cobra.Command, cfg *config.Config, f *sessionFlags) (*observer.Session, error) {
	opts, err := sessionOptions(cmd, cfg, f)
	if err != nil {
		return nil, err
	}

	sessOpts := []observer.Option{observer.WithRetryDelay(cfg.Observer.RetryDelay)}

	if opts.UseAdvisory {
		adv, err := advisory.New(advisoryConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("create advisor: %w", err)
		}
		sessOpts = append(sessOpts, observer.WithAdvisor(adv))
	}

	if opts.GenerateReports {
		var emOpts []report.Option
		if cfg.Reports.UniqueNames {
			emOpts = append(emOpts, report.WithUniqueSuffix())
		}
		em, err := report.New(opts.ReportsDir, emOpts...)
		if err != nil {
			return nil, fmt.Errorf("create report emitter: %w", err)
		}
		sessOpts = append(sessOpts, observer.WithEmitter(em))
	}

	return observer.New(opts, sessOpts...)
}
