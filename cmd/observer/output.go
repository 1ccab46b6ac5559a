package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ShayCichocki/observer/pkg/models"
)

// Output modes accepted by --output.
const (
	outputPretty = "pretty"
	outputJSON   = "json"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("243")).
			Padding(0, 1)
)

func checkOutputMode(mode string) error {
	switch mode {
	case outputPretty, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output %q (want pretty or json)", mode)
	}
}

// result is the structured rendering of one validation.
type result struct {
	Valid     bool          `json:"is_valid"`
	Errors    []string      `json:"errors"`
	Warnings  []string      `json:"warnings"`
	Extracted models.Record `json:"extracted_data"`
}

func newResult(rec models.Record, out models.Outcome) result {
	r := result{Valid: out.Valid, Errors: out.Errors, Warnings: out.Warnings, Extracted: rec}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	return r
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printOutcome renders one validation in the requested mode.
func printOutcome(w io.Writer, rec models.Record, out models.Outcome, mode string) error {
	if mode == outputJSON {
		return writeJSON(w, newResult(rec, out))
	}

	var body strings.Builder
	if out.Valid {
		body.WriteString(color.GreenString("✓ VALID"))
	} else {
		body.WriteString(color.RedString("✗ INVALID"))
	}
	body.WriteString("\n\n")
	body.WriteString(fmt.Sprintf("Owner:          %s\n", rec.Owner()))
	body.WriteString(fmt.Sprintf("Date:           %s\n", rec.Timestamp().Format("2006-01-02T15:04:05Z07:00")))
	body.WriteString(fmt.Sprintf("Version change: %s\n", rec.VersionChangeOr("(none)")))
	body.WriteString(fmt.Sprintf("Description:    %s", truncate(rec.Description(), 60)))

	if len(out.Errors) > 0 {
		body.WriteString(fmt.Sprintf("\n\nErrors (%d):", len(out.Errors)))
		for _, e := range out.Errors {
			body.WriteString("\n  " + color.RedString("✗") + " " + e)
		}
	}
	if len(out.Warnings) > 0 {
		body.WriteString(fmt.Sprintf("\n\nWarnings (%d):", len(out.Warnings)))
		for _, wn := range out.Warnings {
			body.WriteString("\n  " + color.YellowString("⚠") + " " + wn)
		}
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("OBSERVATION RESULT"),
		boxStyle.Render(body.String()),
	))
	return err
}

// printSummary renders session statistics.
func printSummary(w io.Writer, s models.Summary, mode string) error {
	if mode == outputJSON {
		return writeJSON(w, s)
	}

	lines := []string{
		fmt.Sprintf("Total validations: %d", s.Total),
		fmt.Sprintf("Passed:            %d", s.Passed),
		fmt.Sprintf("Failed:            %d", s.Failed),
		fmt.Sprintf("Pass rate:         %.2f%%", s.PassRate),
		fmt.Sprintf("Total errors:      %d", s.TotalErrors),
		fmt.Sprintf("Total warnings:    %d", s.TotalWarnings),
		fmt.Sprintf("Avg errors:        %.2f", s.AvgErrors),
		fmt.Sprintf("Avg warnings:      %.2f", s.AvgWarnings),
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("VALIDATION SUMMARY"),
		boxStyle.Render(strings.Join(lines, "\n")),
	))
	return err
}

// printStatus prints a status line with color.
func printStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
