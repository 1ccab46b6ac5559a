package observer

import (
	"log/slog"
	"time"

	"github.com/ShayCichocki/observer/internal/report"
	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// Options is the explicit session configuration.
type Options struct {
	// StrictMode turns invalid outcomes into *ValidationError returns.
	StrictMode bool
	// UseAdvisory enables the external advisory validator.
	UseAdvisory bool
	// GenerateReports enables failure and summary report files.
	GenerateReports bool
	// MaxRetries is the retry budget for ValidateWithRetry.
	MaxRetries int
	// ReportFormat is the format used for reports. Empty means text.
	ReportFormat report.Format
	// ReportsDir is where the default emitter writes. Empty means "reports".
	ReportsDir string
}

// DefaultOptions returns strict mode with reports enabled, no advisory
// validation and the default retry budget.
func DefaultOptions() Options {
	return Options{
		StrictMode:      true,
		GenerateReports: true,
		MaxRetries:      validation.DefaultMaxRetries,
		ReportFormat:    report.FormatText,
		ReportsDir:      report.DefaultDir,
	}
}

// Reporter persists reports. *report.Emitter implements it.
type Reporter interface {
	Failure(rec models.Record, outcome models.Outcome, ctx map[string]any, format report.Format) (string, error)
	Summary(failed []models.HistoryEntry, stats models.Summary, format report.Format) (string, error)
}

// Option configures a Session. Use With* functions to create Options.
type Option func(*sessionOptions)

// sessionOptions holds injectable collaborators, used only during construction.
type sessionOptions struct {
	validator  *validation.Validator
	advisor    validation.Advisor
	reporter   Reporter
	logger     *slog.Logger
	now        func() time.Time
	retryDelay time.Duration
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(o *sessionOptions) { o.validator = v }
}

// WithAdvisor sets the advisory validator used when UseAdvisory is set.
func WithAdvisor(a validation.Advisor) Option {
	return func(o *sessionOptions) { o.advisor = a }
}

// WithEmitter sets the report sink. Without it a *report.Emitter writing to
// Options.ReportsDir is created when reports are enabled.
func WithEmitter(r Reporter) Option {
	return func(o *sessionOptions) { o.reporter = r }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// WithClock overrides the time source for history entries.
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) { o.now = now }
}

// WithRetryDelay sets a fixed wait between retry attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(o *sessionOptions) { o.retryDelay = d }
}
