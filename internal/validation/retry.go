package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ShayCichocki/observer/pkg/models"
)

// DefaultMaxRetries is the retry budget used when none is configured.
const DefaultMaxRetries = 2

// Attempt describes the extraction attempt being made.
type Attempt struct {
	// Number is the attempt index, starting at 0 for the first try.
	Number int
	// PreviousErrors are the errors from the previous attempt, if any.
	PreviousErrors []string
	// Feedback is guidance for the extractor built from PreviousErrors.
	Feedback string
}

// IsRetry reports whether this is not the first attempt.
func (a Attempt) IsRetry() bool {
	return a.Number > 0
}

// ExtractFunc produces a candidate record. Source-specific arguments are bound
// by the caller's closure.
type ExtractFunc func(ctx context.Context, attempt Attempt) (models.Extracted, error)

// ValidateFunc validates one extracted record.
type ValidateFunc func(ctx context.Context, rec models.Record) models.Outcome

// RetryController reruns an extraction until its result validates or the
// retry budget is spent.
type RetryController struct {
	maxRetries int
	delay      time.Duration
	logger     *slog.Logger
}

// RetryOption configures a RetryController.
type RetryOption func(*RetryController)

// WithDelay waits d between attempts. The wait is cut short by ctx.
func WithDelay(d time.Duration) RetryOption {
	return func(c *RetryController) {
		c.delay = d
	}
}

// WithRetryLogger sets the logger used for retry progress.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(c *RetryController) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewRetryController creates a controller allowing maxRetries attempts after
// the first. Negative values are treated as 0.
func NewRetryController(maxRetries int, opts ...RetryOption) *RetryController {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &RetryController{
		maxRetries: maxRetries,
		logger:     slog.Default().With("component", "retry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxRetries returns the configured retry budget.
func (c *RetryController) MaxRetries() int {
	return c.maxRetries
}

// ExecuteWithRetry runs extract and validate up to MaxRetries()+1 times.
//
// It returns as soon as an outcome is valid. When every attempt fails
// validation the last record and outcome are returned with a nil error. When
// the final attempt's extraction fails, that error is returned.
func (c *RetryController) ExecuteWithRetry(
	ctx context.Context,
	extract ExtractFunc,
	validate ValidateFunc,
	sourceCtx map[string]any,
) (models.RetryOutcome, error) {
	var (
		last    models.RetryOutcome
		retries int
		attempt Attempt
	)

	for i := 0; i <= c.maxRetries; i++ {
		attempt.Number = i
		if i > 0 {
			if err := c.wait(ctx); err != nil {
				return last, fmt.Errorf("retry cancelled after %d attempts: %w", i, err)
			}
		}

		extracted, err := extract(ctx, attempt)
		if err != nil {
			if i < c.maxRetries {
				retries++
				c.logger.Warn("extraction failed, retrying",
					"error", err, "retry", retries, "max_retries", c.maxRetries, "context", sourceCtx)
				attempt = nextAttempt(attempt, []string{err.Error()})
				continue
			}
			last.RetryCount = retries
			return last, fmt.Errorf("extraction failed on attempt %d: %w", i+1, err)
		}

		rec := models.FromExtracted(extracted)
		outcome := validate(ctx, rec)
		last = models.RetryOutcome{Record: rec, Outcome: outcome, RetryCount: retries}

		if outcome.Valid {
			return last, nil
		}

		if i < c.maxRetries {
			retries++
			c.logger.Info("validation failed, retrying extraction",
				"errors", len(outcome.Errors), "retry", retries, "max_retries", c.maxRetries)
			attempt = nextAttempt(attempt, outcome.Errors)
		}
	}

	return last, nil
}

func (c *RetryController) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextAttempt(prev Attempt, errs []string) Attempt {
	return Attempt{
		Number:         prev.Number + 1,
		PreviousErrors: append([]string{}, errs...),
		Feedback:       buildFeedback(errs),
	}
}

// buildFeedback creates guidance for the next extraction attempt.
func buildFeedback(errs []string) string {
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Previous attempt failed validation:\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("- %s\n", e))
	}
	if recs := Recommendations(models.NewOutcome(errs, nil)); len(recs) > 0 {
		sb.WriteString("\nPlease address these issues in your next attempt:\n")
		for _, r := range recs {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}
	return sb.String()
}

// Recommendations maps validation errors to hints for the extractor.
func Recommendations(outcome models.Outcome) []string {
	var recs []string
	seen := make(map[string]bool)
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			recs = append(recs, r)
		}
	}

	for _, e := range outcome.Errors {
		lower := strings.ToLower(e)
		switch {
		case strings.Contains(lower, "owner"):
			add("Ensure repository owner is extracted from source context")
		case strings.Contains(lower, "timestamp"), strings.Contains(lower, "date"):
			add("Ensure date is properly extracted from commit/PR metadata")
		case strings.Contains(lower, "description"):
			add("Extract more detailed description from commit message or PR body")
		case strings.Contains(lower, "version"):
			add("Look for version patterns in commit message or PR title/body")
		}
	}

	return recs
}
