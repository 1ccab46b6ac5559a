// Package observer orchestrates validation of extracted records: it runs the
// validator and optional advisor, keeps an in-memory history, emits failure
// reports and applies the strict-mode policy.
package observer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/observer/internal/report"
	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// Session validates records and tracks their history for the life of the
// process. It is not safe for concurrent use.
type Session struct {
	strict      bool
	useAdvisory bool
	reports     bool
	format      report.Format

	validator *validation.Validator
	advisor   validation.Advisor
	reporter  Reporter
	retry     *validation.RetryController
	logger    *slog.Logger
	now       func() time.Time

	history []models.HistoryEntry
}

// New creates a session from cfg.
func New(cfg Options, opts ...Option) (*Session, error) {
	o := &sessionOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.UseAdvisory && o.advisor == nil {
		return nil, ErrAdvisorRequired
	}

	format := cfg.ReportFormat
	if format == "" {
		format = report.FormatText
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, format)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default().With("component", "observer")
	}

	reporter := o.reporter
	if cfg.GenerateReports && reporter == nil {
		em, err := report.New(cfg.ReportsDir, report.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		reporter = em
	}

	validator := o.validator
	if validator == nil {
		validator = validation.NewValidator()
	}

	now := o.now
	if now == nil {
		now = time.Now
	}

	return &Session{
		strict:      cfg.StrictMode,
		useAdvisory: cfg.UseAdvisory,
		reports:     cfg.GenerateReports,
		format:      format,
		validator:   validator,
		advisor:     o.advisor,
		reporter:    reporter,
		retry: validation.NewRetryController(cfg.MaxRetries,
			validation.WithDelay(o.retryDelay),
			validation.WithRetryLogger(logger)),
		logger: logger,
		now:    now,
	}, nil
}

// StrictMode reports whether invalid outcomes are returned as errors.
func (s *Session) StrictMode() bool {
	return s.strict
}

// MaxRetries returns the retry budget used by ValidateWithRetry.
func (s *Session) MaxRetries() int {
	return s.retry.MaxRetries()
}

// Validate checks rec, records the attempt and, for a failed outcome, writes a
// report when emitReport is set and reporting is enabled.
//
// In strict mode a failed outcome is also returned as a *ValidationError.
// The outcome is populated in either case.
func (s *Session) Validate(ctx context.Context, rec models.Extracted, sourceCtx map[string]any, emitReport bool) (models.Outcome, error) {
	r := models.FromExtracted(rec)
	outcome := s.computeOutcome(ctx, r)
	return outcome, s.surface(r, outcome, sourceCtx, emitReport)
}

// computeOutcome runs the validator and merges advisory input.
func (s *Session) computeOutcome(ctx context.Context, rec models.Record) models.Outcome {
	outcome := s.validator.Validate(rec)

	if s.useAdvisory && s.advisor != nil {
		advice, err := s.advisor.Advise(ctx, rec)
		if err != nil {
			s.logger.Warn("advisory validation failed", "error", err, "owner", rec.Owner())
		} else {
			outcome = validation.ApplyAdvice(outcome, advice)
		}
	}

	return outcome
}

// surface records the outcome, emits a report and applies strict mode.
func (s *Session) surface(rec models.Record, outcome models.Outcome, sourceCtx map[string]any, emitReport bool) error {
	s.record(rec, outcome, sourceCtx)

	if !outcome.Valid && emitReport {
		s.emitFailure(rec, outcome, sourceCtx)
	}

	if s.strict && !outcome.Valid {
		return &ValidationError{Errors: append([]string{}, outcome.Errors...)}
	}
	return nil
}

func (s *Session) record(rec models.Record, outcome models.Outcome, sourceCtx map[string]any) {
	s.history = append(s.history, models.HistoryEntry{
		ID:            uuid.New().String()[:8],
		RecordedAt:    s.now(),
		Owner:         rec.Owner(),
		Timestamp:     rec.Timestamp(),
		VersionChange: rec.VersionChange(),
		Valid:         outcome.Valid,
		Errors:        append([]string{}, outcome.Errors...),
		Warnings:      append([]string{}, outcome.Warnings...),
		Context:       copyContext(sourceCtx),
	})

	s.logger.Debug("validation recorded",
		"owner", rec.Owner(),
		"valid", outcome.Valid,
		"errors", len(outcome.Errors),
		"warnings", len(outcome.Warnings))
}

// emitFailure writes a failure report. Write errors are logged, not returned.
func (s *Session) emitFailure(rec models.Record, outcome models.Outcome, sourceCtx map[string]any) {
	if !s.reports || s.reporter == nil {
		return
	}
	path, err := s.reporter.Failure(rec, outcome, sourceCtx, s.format)
	if err != nil {
		s.logger.Error("failed to write failure report", "error", err)
		return
	}
	if path != "" {
		s.logger.Info("failure report written", "path", path)
	}
}

// Summary returns statistics over the recorded history.
func (s *Session) Summary() models.Summary {
	return models.Summarize(s.history)
}

// FailedEntries returns the invalid history entries in recording order.
func (s *Session) FailedEntries() []models.HistoryEntry {
	var failed []models.HistoryEntry
	for _, e := range s.history {
		if !e.Valid {
			failed = append(failed, e)
		}
	}
	return failed
}

// History returns a copy of the recorded history.
func (s *Session) History() []models.HistoryEntry {
	return append([]models.HistoryEntry(nil), s.history...)
}

// ClearHistory discards all recorded entries.
func (s *Session) ClearHistory() {
	s.history = nil
}

// SummaryReport writes a summary of failed validations and returns its path.
// It returns "" when reporting is disabled or nothing has failed. An empty
// format uses the session's report format.
func (s *Session) SummaryReport(format report.Format) (string, error) {
	if !s.reports || s.reporter == nil {
		return "", nil
	}
	failed := s.FailedEntries()
	if len(failed) == 0 {
		return "", nil
	}
	if format == "" {
		format = s.format
	}
	return s.reporter.Summary(failed, s.Summary(), format)
}

func copyContext(ctx map[string]any) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
