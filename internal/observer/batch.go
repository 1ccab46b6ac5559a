package observer

import (
	"context"
	"errors"

	"github.com/ShayCichocki/observer/pkg/models"
)

// ValidateBatch validates recs in order, pairing each with contexts[i] when
// contexts is long enough.
//
// strictOverride, when non-nil, replaces the session's strict mode for the
// duration of the call; the session's own setting is restored afterwards.
// A strict failure is captured as a failed outcome whose single error is the
// failure text, and the batch continues. When strictOverride is explicitly
// true, the failure is returned immediately along with the outcomes so far.
func (s *Session) ValidateBatch(ctx context.Context, recs []models.Extracted, contexts []map[string]any, strictOverride *bool) ([]models.Outcome, error) {
	original := s.strict
	defer func() { s.strict = original }()

	enforced := false
	if strictOverride != nil {
		s.strict = *strictOverride
		enforced = *strictOverride
	}

	outcomes := make([]models.Outcome, 0, len(recs))
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		var sourceCtx map[string]any
		if i < len(contexts) {
			sourceCtx = contexts[i]
		}

		outcome, err := s.Validate(ctx, rec, sourceCtx, true)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return outcomes, err
			}
			outcomes = append(outcomes, models.Failed(err.Error()))
			if enforced {
				return outcomes, err
			}
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	s.logger.Info("batch validated", "records", len(recs), "strict", s.strict)
	return outcomes, nil
}
