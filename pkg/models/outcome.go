package models

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the result of one validation pass.
// Valid is true exactly when Errors is empty; warnings never affect it.
type Outcome struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewOutcome builds an outcome whose validity is derived from errors.
func NewOutcome(errors, warnings []string) Outcome {
	return Outcome{
		Valid:    len(errors) == 0,
		Errors:   append([]string{}, errors...),
		Warnings: append([]string{}, warnings...),
	}
}

// Failed returns an invalid outcome carrying a single error.
func Failed(msg string) Outcome {
	return NewOutcome([]string{msg}, nil)
}

// Merge concatenates other after o and recomputes validity.
func (o Outcome) Merge(other Outcome) Outcome {
	errs := append(append([]string{}, o.Errors...), other.Errors...)
	warns := append(append([]string{}, o.Warnings...), other.Warnings...)
	return NewOutcome(errs, warns)
}

// String renders the outcome the way the CLI prints it.
func (o Outcome) String() string {
	var sb strings.Builder

	status := "INVALID"
	if o.Valid {
		status = "VALID"
	}
	sb.WriteString(fmt.Sprintf("Validation Status: %s\n", status))

	if len(o.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(o.Errors)))
		for _, e := range o.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", e))
		}
	}
	if len(o.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(o.Warnings)))
		for _, w := range o.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}

	return strings.TrimSpace(sb.String())
}

// HistoryEntry is one recorded validation attempt.
type HistoryEntry struct {
	// ID is a short random identifier for the attempt.
	ID string `json:"id"`
	// RecordedAt is when the attempt was recorded.
	RecordedAt time.Time `json:"recorded_at"`
	// Owner is the validated record's owner.
	Owner string `json:"owner"`
	// Timestamp is the validated record's date.
	Timestamp time.Time `json:"timestamp"`
	// VersionChange is the validated record's version change, if any.
	VersionChange *string `json:"version_change,omitempty"`
	// Valid mirrors the outcome's validity.
	Valid bool `json:"is_valid"`
	// Errors are the outcome's blocking reasons.
	Errors []string `json:"errors"`
	// Warnings are the outcome's advisory notes.
	Warnings []string `json:"warnings"`
	// Context is caller-supplied source context, possibly nil.
	Context map[string]any `json:"source_context,omitempty"`
}

// Outcome reconstructs the recorded outcome.
func (h HistoryEntry) Outcome() Outcome {
	return NewOutcome(h.Errors, h.Warnings)
}

// Summary holds aggregate statistics over a validation history.
type Summary struct {
	Total         int     `json:"total_validations"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	PassRate      float64 `json:"pass_rate"`
	TotalErrors   int     `json:"total_errors"`
	TotalWarnings int     `json:"total_warnings"`
	AvgErrors     float64 `json:"average_errors_per_validation"`
	AvgWarnings   float64 `json:"average_warnings_per_validation"`
}

// Summarize computes statistics over entries. An empty history yields zeros.
func Summarize(entries []HistoryEntry) Summary {
	var s Summary
	s.Total = len(entries)
	if s.Total == 0 {
		return s
	}

	for _, e := range entries {
		if e.Valid {
			s.Passed++
		}
		s.TotalErrors += len(e.Errors)
		s.TotalWarnings += len(e.Warnings)
	}
	s.Failed = s.Total - s.Passed

	total := float64(s.Total)
	s.PassRate = float64(s.Passed) / total * 100
	s.AvgErrors = float64(s.TotalErrors) / total
	s.AvgWarnings = float64(s.TotalWarnings) / total

	return s
}

// RetryOutcome is the result of a retried extraction.
// RetryCount counts attempts beyond the first.
type RetryOutcome struct {
	Record     Record
	Outcome    Outcome
	RetryCount int
}
