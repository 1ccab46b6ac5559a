package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/observer/pkg/models"
)

var (
	batchOutput         string
	batchStrictOverride bool
	batchSummary        bool
	batchSummaryReport  bool
	batchFlags          sessionFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Validate a YAML list of records",
	Long: `Validate every record in a YAML file, in order.

The file is a list of records:

  - owner: acme
    timestamp: 2025-01-15T10:30:00Z
    description: Add retry support to the extraction pipeline
    version_change: 1.2.0 -> 1.3.0
    context:
      source: release-notes

Strict failures are recorded as failed outcomes and the batch continues,
unless --strict-override=true is given, in which case the first failure
stops the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", outputPretty, "Output format: pretty or json")
	batchCmd.Flags().BoolVar(&batchStrictOverride, "strict-override", false, "Override strict mode for this batch only")
	batchCmd.Flags().BoolVar(&batchSummary, "summary", false, "Show validation summary")
	batchCmd.Flags().BoolVar(&batchSummaryReport, "generate-summary-report", false, "Write a summary report of failed validations")
	addSessionFlags(batchCmd, &batchFlags)
}

// batchContext carries the optional per-record source context.
type batchContext struct {
	Context map[string]any `yaml:"context"`
}

// loadBatchFile reads records and their contexts from a YAML file.
func loadBatchFile(path string) ([]models.Record, []map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read batch file: %w", err)
	}

	var recs []models.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}

	var extra []batchContext
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, nil, fmt.Errorf("parse batch contexts %s: %w", path, err)
	}
	contexts := make([]map[string]any, len(extra))
	for i, e := range extra {
		contexts[i] = e.Context
	}

	return recs, contexts, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := checkOutputMode(batchOutput); err != nil {
		return err
	}

	recs, contexts, err := loadBatchFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sess, err := newSession(cmd, cfg, &batchFlags)
	if err != nil {
		return err
	}

	var override *bool
	if cmd.Flags().Changed("strict-override") {
		override = &batchStrictOverride
	}

	items := make([]models.Extracted, len(recs))
	for i := range recs {
		items[i] = recs[i]
	}

	outcomes, batchErr := sess.ValidateBatch(cmd.Context(), items, contexts, override)

	w := cmd.OutOrStdout()
	if batchOutput == outputJSON {
		results := make([]result, len(outcomes))
		for i, out := range outcomes {
			results[i] = newResult(recs[i], out)
		}
		if err := writeJSON(w, results); err != nil {
			return err
		}
	} else {
		for i, out := range outcomes {
			if err := printOutcome(w, recs[i], out, batchOutput); err != nil {
				return err
			}
		}
	}

	if batchErr != nil {
		return reportValidationError(cmd.ErrOrStderr(), batchErr)
	}
	if err := finishSession(w, sess, batchSummary, batchSummaryReport, batchOutput); err != nil {
		return err
	}

	for _, out := range outcomes {
		if !out.Valid {
			return errInvalid
		}
	}
	return nil
}
