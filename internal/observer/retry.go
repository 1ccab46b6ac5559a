package observer

import (
	"context"

	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// ValidateWithRetry runs extract until its record validates or the retry
// budget is spent.
//
// Every attempt is recorded in history. Intermediate attempts never emit
// reports or strict errors. When the final outcome is still invalid, one
// failure report is written with sourceCtx extended by retry_count,
// max_retries and retry_exhausted, and strict mode is applied to it.
func (s *Session) ValidateWithRetry(ctx context.Context, extract validation.ExtractFunc, sourceCtx map[string]any) (models.RetryOutcome, error) {
	validate := func(ctx context.Context, rec models.Record) models.Outcome {
		outcome := s.computeOutcome(ctx, rec)
		s.record(rec, outcome, sourceCtx)
		return outcome
	}

	res, err := s.retry.ExecuteWithRetry(ctx, extract, validate, sourceCtx)
	if err != nil {
		return res, err
	}
	if res.Outcome.Valid {
		if res.RetryCount > 0 {
			s.logger.Info("validation passed after retry", "retries", res.RetryCount)
		}
		return res, nil
	}

	final := copyContext(sourceCtx)
	if final == nil {
		final = make(map[string]any, 3)
	}
	final["retry_count"] = res.RetryCount
	final["max_retries"] = s.retry.MaxRetries()
	final["retry_exhausted"] = true

	s.logger.Warn("validation failed after all retries",
		"retries", res.RetryCount, "errors", len(res.Outcome.Errors))
	s.emitFailure(res.Record, res.Outcome, final)

	if s.strict {
		return res, &ValidationError{Errors: append([]string{}, res.Outcome.Errors...)}
	}
	return res, nil
}
