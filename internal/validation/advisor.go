package validation

import (
	"context"

	"github.com/ShayCichocki/observer/pkg/models"
)

// flaggedInvalid is used when an advisor rejects a record without saying why.
const flaggedInvalid = "Advisory validation flagged the record as invalid"

// Advice is the verdict of an external advisory validator.
type Advice struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Advisor is an optional, best-effort external check.
// A nil Advice with a nil error means the advisor has nothing to add.
type Advisor interface {
	Advise(ctx context.Context, rec models.Record) (*Advice, error)
}

// AdvisorFunc adapts a function to the Advisor interface.
type AdvisorFunc func(ctx context.Context, rec models.Record) (*Advice, error)

// Advise implements Advisor.
func (f AdvisorFunc) Advise(ctx context.Context, rec models.Record) (*Advice, error) {
	return f(ctx, rec)
}

// ApplyAdvice merges advice into outcome. Warnings are always merged; errors
// only when the advisor reports the record invalid, which also forces the
// outcome invalid.
func ApplyAdvice(outcome models.Outcome, advice *Advice) models.Outcome {
	if advice == nil {
		return outcome
	}

	extra := models.NewOutcome(nil, advice.Warnings)
	if !advice.IsValid {
		errs := advice.Errors
		if len(errs) == 0 {
			errs = []string{flaggedInvalid}
		}
		extra = models.NewOutcome(errs, advice.Warnings)
	}

	return outcome.Merge(extra)
}
