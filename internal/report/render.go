package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ShayCichocki/observer/pkg/models"
)

const (
	ruleHeavy = "================================================================================"
	ruleLight = "--------------------------------------------------------------------------------"
	// displayTime is the human-readable time layout used in text and HTML.
	displayTime = "2006-01-02 15:04:05"
)

// FailureReport is the input for a single-failure report.
type FailureReport struct {
	GeneratedAt     time.Time
	Record          models.Record
	Outcome         models.Outcome
	Context         map[string]any
	Recommendations []string
}

// SummaryReport is the input for a cross-session summary report.
type SummaryReport struct {
	GeneratedAt time.Time
	Stats       models.Summary
	Failed      []models.HistoryEntry
}

// NewFailureReport assembles a failure report with derived recommendations.
func NewFailureReport(at time.Time, rec models.Record, outcome models.Outcome, ctx map[string]any) FailureReport {
	return FailureReport{
		GeneratedAt:     at,
		Record:          rec,
		Outcome:         outcome,
		Context:         ctx,
		Recommendations: Recommendations(outcome),
	}
}

// RenderFailure renders r in the given format.
func RenderFailure(r FailureReport, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(failureText(r)), nil
	case FormatJSON:
		return failureJSON(r)
	case FormatHTML:
		return failureHTML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// RenderSummary renders r in the given format.
func RenderSummary(r SummaryReport, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(summaryText(r)), nil
	case FormatJSON:
		return summaryJSON(r)
	case FormatHTML:
		return summaryHTML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// failureText renders the plain-text failure report.
func failureText(r FailureReport) string {
	var sb strings.Builder
	line := func(format string, args ...interface{}) {
		sb.WriteString(fmt.Sprintf(format, args...))
		sb.WriteString("\n")
	}
	section := func(title string) {
		line(ruleLight)
		line(title)
		line(ruleLight)
	}

	line(ruleHeavy)
	line("VALIDATION FAILURE REPORT")
	line(ruleHeavy)
	line("Generated: %s", r.GeneratedAt.Format(displayTime))
	line("")
	line("VALIDATION STATUS: FAILED")
	line("")

	section("EXTRACTED DATA")
	line("Repository Owner: %s", r.Record.Owner())
	line("Date: %s", formatDate(r.Record.Timestamp()))
	line("Version Change: %s", r.Record.VersionChangeOr("Not specified"))
	line("Description: %s", r.Record.Description())
	line("")

	if len(r.Context) > 0 {
		section("SOURCE CONTEXT")
		for _, k := range sortedKeys(r.Context) {
			line("%s: %v", k, r.Context[k])
		}
		line("")
	}

	section("VALIDATION ERRORS")
	if len(r.Outcome.Errors) == 0 {
		line("No errors found.")
	}
	for i, e := range r.Outcome.Errors {
		line("%d. %s", i+1, e)
	}
	line("")

	if len(r.Outcome.Warnings) > 0 {
		section("VALIDATION WARNINGS")
		for i, w := range r.Outcome.Warnings {
			line("%d. %s", i+1, w)
		}
		line("")
	}

	section("RECOMMENDATIONS")
	for _, rec := range r.Recommendations {
		line("- %s", rec)
	}
	line("")

	line(ruleHeavy)
	line("END OF REPORT")
	sb.WriteString(ruleHeavy)

	return sb.String()
}

// summaryText renders the plain-text summary report.
func summaryText(r SummaryReport) string {
	var sb strings.Builder
	line := func(format string, args ...interface{}) {
		sb.WriteString(fmt.Sprintf(format, args...))
		sb.WriteString("\n")
	}

	line(ruleHeavy)
	line("VALIDATION SUMMARY REPORT")
	line(ruleHeavy)
	line("Generated: %s", r.GeneratedAt.Format(displayTime))
	line("")

	line(ruleLight)
	line("SUMMARY STATISTICS")
	line(ruleLight)
	line("Total Validations: %d", r.Stats.Total)
	line("Passed: %d", r.Stats.Passed)
	line("Failed: %d", r.Stats.Failed)
	line("Pass Rate: %.2f%%", r.Stats.PassRate)
	line("Total Errors: %d", r.Stats.TotalErrors)
	line("Total Warnings: %d", r.Stats.TotalWarnings)
	line("")

	if len(r.Failed) > 0 {
		line(ruleLight)
		line("FAILED VALIDATIONS")
		line(ruleLight)
		for i, e := range r.Failed {
			line("")
			line("%d. Timestamp: %s", i+1, e.RecordedAt.Format(displayTime))
			line("   Repository Owner: %s", e.Owner)
			line("   Date: %s", formatDate(e.Timestamp))
			line("   Errors: %s", strings.Join(e.Errors, ", "))
			if len(e.Warnings) > 0 {
				line("   Warnings: %s", strings.Join(e.Warnings, ", "))
			}
		}
	}

	line("")
	line(ruleHeavy)
	line("END OF REPORT")
	sb.WriteString(ruleHeavy)

	return sb.String()
}

type failureDoc struct {
	ReportType       string         `json:"report_type"`
	GeneratedAt      string         `json:"generated_at"`
	ValidationStatus string         `json:"validation_status"`
	ExtractedData    models.Record  `json:"extracted_data"`
	SourceContext    map[string]any `json:"source_context"`
	ValidationResult models.Outcome `json:"validation_result"`
	Recommendations  []string       `json:"recommendations"`
}

func failureJSON(r FailureReport) ([]byte, error) {
	ctx := r.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	return marshalIndent(failureDoc{
		ReportType:       "validation_failure",
		GeneratedAt:      r.GeneratedAt.Format(time.RFC3339),
		ValidationStatus: "failed",
		ExtractedData:    r.Record,
		SourceContext:    ctx,
		ValidationResult: r.Outcome,
		Recommendations:  r.Recommendations,
	})
}

type summaryDoc struct {
	ReportType        string                `json:"report_type"`
	GeneratedAt       string                `json:"generated_at"`
	SummaryStatistics models.Summary        `json:"summary_statistics"`
	FailedValidations []models.HistoryEntry `json:"failed_validations"`
}

func summaryJSON(r SummaryReport) ([]byte, error) {
	failed := r.Failed
	if failed == nil {
		failed = []models.HistoryEntry{}
	}
	return marshalIndent(summaryDoc{
		ReportType:        "validation_summary",
		GeneratedAt:       r.GeneratedAt.Format(time.RFC3339),
		SummaryStatistics: r.Stats,
		FailedValidations: failed,
	})
}

// marshalIndent encodes v without escaping HTML characters.
func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(displayTime)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
