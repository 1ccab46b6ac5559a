package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/exec"
	"github.com/ShayCichocki/observer/internal/extract"
	"github.com/ShayCichocki/observer/internal/git"
	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

var (
	extractRepo    string
	extractRef     string
	extractOwner   string
	extractPRTitle string
	extractPRBody  string
	extractDate    string
	extractOutput  string
	extractFlags   sessionFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract metadata from a commit or pull request and validate it",
	Long: `Extract owner, date, description and version change from a git
commit (default) or a pull request title and body, then validate the result.

Invalid extractions are retried up to --max-retries times. When the owner
is missing, retries fall back to the commit author.`,
	Example: `  observer extract --repo . --ref HEAD
  observer extract --owner acme --pr-title "Bump to v2.0.0" --pr-body "Drops Go 1.21"`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractRepo, "repo", ".", "Path to the git repository")
	extractCmd.Flags().StringVar(&extractRef, "ref", "HEAD", "Commit to extract from")
	extractCmd.Flags().StringVar(&extractOwner, "owner", "", "Repository owner (default: from the origin remote)")
	extractCmd.Flags().StringVar(&extractPRTitle, "pr-title", "", "Pull request title; extracts from the PR instead of a commit")
	extractCmd.Flags().StringVar(&extractPRBody, "pr-body", "", "Pull request body")
	extractCmd.Flags().StringVar(&extractDate, "date", "", "Pull request date (default: now)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", outputPretty, "Output format: pretty or json")
	addSessionFlags(extractCmd, &extractFlags)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := checkOutputMode(extractOutput); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sess, err := newSession(cmd, cfg, &extractFlags)
	if err != nil {
		return err
	}

	var (
		extractFn validation.ExtractFunc
		sourceCtx map[string]any
	)
	if extractPRTitle != "" {
		extractFn, sourceCtx, err = pullRequestExtractor(ctx)
	} else {
		extractFn, sourceCtx, err = commitExtractor(ctx)
	}
	if err != nil {
		return err
	}

	res, err := sess.ValidateWithRetry(ctx, extractFn, sourceCtx)
	if err != nil {
		return reportValidationError(cmd.ErrOrStderr(), err)
	}

	w := cmd.OutOrStdout()
	if err := printOutcome(w, res.Record, res.Outcome, extractOutput); err != nil {
		return err
	}
	if extractOutput == outputPretty && res.RetryCount > 0 {
		printStatus(w, "↻", fmt.Sprintf("Retried %d time(s)", res.RetryCount), color.FgYellow)
	}

	if !res.Outcome.Valid {
		return errInvalid
	}
	return nil
}

func commitExtractor(ctx context.Context) (validation.ExtractFunc, map[string]any, error) {
	runner := exec.NewRunner()
	if err := runner.LookPath("git"); err != nil {
		return nil, nil, fmt.Errorf("git not found in PATH: %w", err)
	}

	src := git.NewSource(extractRepo, runner)
	owner := extractOwner
	if owner == "" {
		owner = src.Owner(ctx)
	}

	sourceCtx := map[string]any{
		"source": "commit",
		"repo":   extractRepo,
		"ref":    extractRef,
	}
	return git.CommitExtractor(src, extractRef, owner), sourceCtx, nil
}

func pullRequestExtractor(ctx context.Context) (validation.ExtractFunc, map[string]any, error) {
	date := time.Now()
	if extractDate != "" {
		parsed, err := models.ParseTimestamp(extractDate)
		if err != nil {
			return nil, nil, err
		}
		date = parsed
	}

	owner := extractOwner
	if owner == "" {
		owner = git.NewSource(extractRepo, nil).Owner(ctx)
	}

	rec := extract.PullRequest(extractPRTitle, extractPRBody, owner, date)
	fn := func(context.Context, validation.Attempt) (models.Extracted, error) {
		return rec, nil
	}
	sourceCtx := map[string]any{
		"source":   "pull_request",
		"pr_title": extractPRTitle,
	}
	return fn, sourceCtx, nil
}
