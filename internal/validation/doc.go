// Package validation decides whether extracted repository metadata is admissible
// and reruns extraction until it is.
//
// # Overview
//
// A record (owner, timestamp, description, optional version change) is checked in
// two passes:
//
//  1. Completeness - owner, timestamp and description must be present and non-blank
//  2. Content - the same required fields, plus format and quality rules
//
// Errors block validity. Warnings are advisory and never change the verdict.
//
// # Usage
//
//	v := validation.NewValidator()
//	outcome := v.Validate(rec)
//	if !outcome.Valid {
//	    fmt.Println(outcome)
//	}
//
// # Retry
//
// RetryController calls an extraction function, validates the result and stops
// at the first valid outcome:
//
//	rc := validation.NewRetryController(2)
//	res, err := rc.ExecuteWithRetry(ctx, extract, validate, nil)
//
// A validation failure at exhaustion is returned as data (res.Outcome.Valid is
// false, err is nil). An extraction failure at exhaustion is returned as err,
// since there is no record to report on.
//
// Each retry receives an Attempt carrying the previous errors and feedback so
// extractors that can use guidance (for example LLM-backed ones) may adjust.
//
// # Advisory validation
//
// An Advisor is an optional external check. Its warnings are always merged;
// its errors only when it flags the record invalid. Callers are expected to
// treat advisor failures as "no additional input".
package validation
