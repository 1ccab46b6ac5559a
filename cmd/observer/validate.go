package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/observer"
	"github.com/ShayCichocki/observer/pkg/models"
)

var (
	validateOwner         string
	validateDate          string
	validateDescription   string
	validateVersionChange string
	validateOutput        string
	validateSummary       bool
	validateSummaryReport bool
	validateFlags         sessionFlags
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one extracted record",
	Long: `Validate a single record given on the command line.

Exits 0 when the record is valid and 1 when it is invalid or strict mode
raised a validation error. Failed validations write a report to the
reports directory unless --no-reports is set.`,
	Example: `  observer validate --owner acme --date 2025-01-15T10:30:00 \
    --description "Add retry support to the extraction pipeline" \
    --version-change "1.2.0 -> 1.3.0"`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateOwner, "owner", "", "Repository owner name")
	validateCmd.Flags().StringVar(&validateDate, "date", "", "Date in ISO-8601 format (YYYY-MM-DDTHH:MM:SS)")
	validateCmd.Flags().StringVar(&validateDescription, "description", "", "Description of the change")
	validateCmd.Flags().StringVar(&validateVersionChange, "version-change", "", "Version change (e.g. '1.2.3 -> 2.0.0')")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", outputPretty, "Output format: pretty or json")
	validateCmd.Flags().BoolVar(&validateSummary, "summary", false, "Show validation summary")
	validateCmd.Flags().BoolVar(&validateSummaryReport, "generate-summary-report", false, "Write a summary report of failed validations")
	addSessionFlags(validateCmd, &validateFlags)

	_ = validateCmd.MarkFlagRequired("owner")
	_ = validateCmd.MarkFlagRequired("date")
	_ = validateCmd.MarkFlagRequired("description")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := checkOutputMode(validateOutput); err != nil {
		return err
	}

	ts, err := models.ParseTimestamp(validateDate)
	if err != nil {
		return err
	}

	var vc *string
	if cmd.Flags().Changed("version-change") {
		vc = &validateVersionChange
	}
	rec := models.NewRecord(validateOwner, ts, validateDescription, vc)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sess, err := newSession(cmd, cfg, &validateFlags)
	if err != nil {
		return err
	}

	out, err := sess.Validate(cmd.Context(), rec, nil, true)
	if err != nil {
		return reportValidationError(cmd.ErrOrStderr(), err)
	}

	w := cmd.OutOrStdout()
	if err := printOutcome(w, rec, out, validateOutput); err != nil {
		return err
	}
	if err := finishSession(w, sess, validateSummary, validateSummaryReport, validateOutput); err != nil {
		return err
	}

	if !out.Valid {
		return errInvalid
	}
	return nil
}

// reportValidationError prints a strict-mode failure on one line and maps it
// to errInvalid. Other errors pass through.
func reportValidationError(w io.Writer, err error) error {
	var verr *observer.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(w, "Validation Error: %v\n", verr)
		return errInvalid
	}
	return err
}

// finishSession prints the summary and writes the summary report when asked.
func finishSession(w io.Writer, sess *observer.Session, summary, summaryReport bool, mode string) error {
	if summary {
		if err := printSummary(w, sess.Summary(), mode); err != nil {
			return err
		}
	}
	if !summaryReport {
		return nil
	}

	path, err := sess.SummaryReport("")
	if err != nil {
		return fmt.Errorf("write summary report: %w", err)
	}
	// Keep stdout parseable in JSON mode.
	if mode == outputJSON {
		w = os.Stderr
	}
	if path == "" {
		printStatus(w, "✓", "No failed validations to report.", color.FgGreen)
		return nil
	}
	printStatus(w, "→", "Summary report generated: "+path, color.FgCyan)
	return nil
}
