package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/config"
	"github.com/ShayCichocki/observer/internal/report"
	"github.com/ShayCichocki/observer/pkg/models"
)

// newFlagCmd returns a command carrying the shared session flags.
func newFlagCmd(f *sessionFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addSessionFlags(cmd, f)
	return cmd
}

func TestSessionOptions_ConfigDefaults(t *testing.T) {
	var f sessionFlags
	cmd := newFlagCmd(&f)

	opts, err := sessionOptions(cmd, config.Default(), &f)
	if err != nil {
		t.Fatalf("sessionOptions failed: %v", err)
	}
	if !opts.StrictMode || opts.UseAdvisory || !opts.GenerateReports {
		t.Errorf("unexpected flags: %+v", opts)
	}
	if opts.MaxRetries != 2 || opts.ReportFormat != report.FormatText || opts.ReportsDir != "reports" {
		t.Errorf("unexpected values: %+v", opts)
	}
}

func TestSessionOptions_FlagOverrides(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, strict, ai, reports bool, retries int, format report.Format)
	}{
		{
			name: "no-strict",
			args: []string{"--no-strict"},
			check: func(t *testing.T, strict, _, _ bool, _ int, _ report.Format) {
				if strict {
					t.Error("expected strict mode off")
				}
			},
		},
		{
			name: "strict wins over no-strict",
			args: []string{"--strict", "--no-strict"},
			check: func(t *testing.T, strict, _, _ bool, _ int, _ report.Format) {
				if !strict {
					t.Error("expected strict mode on")
				}
			},
		},
		{
			name: "reports and advisory",
			args: []string{"--ai", "--no-reports", "--report-format", "html"},
			check: func(t *testing.T, _, ai, reports bool, _ int, format report.Format) {
				if !ai || reports || format != report.FormatHTML {
					t.Errorf("ai=%v reports=%v format=%q", ai, reports, format)
				}
			},
		},
		{
			name: "max retries",
			args: []string{"--max-retries", "5"},
			check: func(t *testing.T, _, _, _ bool, retries int, _ report.Format) {
				if retries != 5 {
					t.Errorf("retries = %d, want 5", retries)
				}
			},
		},
		{
			name: "no-retry beats max retries",
			args: []string{"--max-retries", "5", "--no-retry"},
			check: func(t *testing.T, _, _, _ bool, retries int, _ report.Format) {
				if retries != 0 {
					t.Errorf("retries = %d, want 0", retries)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f sessionFlags
			cmd := newFlagCmd(&f)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags failed: %v", err)
			}

			opts, err := sessionOptions(cmd, config.Default(), &f)
			if err != nil {
				t.Fatalf("sessionOptions failed: %v", err)
			}
			tt.check(t, opts.StrictMode, opts.UseAdvisory, opts.GenerateReports, opts.MaxRetries, opts.ReportFormat)
		})
	}
}

func TestSessionOptions_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"--report-format", "pdf"},
		{"--max-retries", "-1"},
	} {
		var f sessionFlags
		cmd := newFlagCmd(&f)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags failed: %v", err)
		}
		if _, err := sessionOptions(cmd, config.Default(), &f); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestConfigValues(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "observer.max_retries", "4"); err != nil {
		t.Fatalf("set max_retries: %v", err)
	}
	if err := setConfigValue(cfg, "reports.format", "JSON"); err != nil {
		t.Fatalf("set reports.format: %v", err)
	}
	if err := setConfigValue(cfg, "observer.retry_delay", "2s"); err != nil {
		t.Fatalf("set retry_delay: %v", err)
	}

	if got, _ := getConfigValue(cfg, "observer.max_retries"); got != "4" {
		t.Errorf("max_retries = %q", got)
	}
	if got, _ := getConfigValue(cfg, "reports.format"); got != "json" {
		t.Errorf("reports.format = %q", got)
	}
	if cfg.Observer.RetryDelay != 2*time.Second {
		t.Errorf("retry_delay = %v", cfg.Observer.RetryDelay)
	}

	for _, bad := range [][2]string{
		{"observer.strict_mode", "maybe"},
		{"reports.format", "pdf"},
		{"advisory.openai.api_key", "sk-nope"},
		{"no.such.key", "1"},
	} {
		if err := setConfigValue(cfg, bad[0], bad[1]); err == nil {
			t.Errorf("setConfigValue(%q, %q) should fail", bad[0], bad[1])
		}
	}
	if _, err := getConfigValue(cfg, "no.such.key"); err == nil {
		t.Error("getConfigValue should fail for unknown key")
	}
}

func TestDisplayAllConfig_MasksKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-proj-abcdefghijklmnopqrstuvwxyz")

	var buf bytes.Buffer
	displayAllConfig(&buf, config.Default())

	out := buf.String()
	if strings.Contains(out, "abcdefghijklmnopqrstuvwxyz") {
		t.Error("API key printed in clear")
	}
	if !strings.Contains(out, "advisory.openai.api_key: sk-proj...wxyz") {
		t.Errorf("masked key missing:\n%s", out)
	}
	if !strings.Contains(out, "observer.strict_mode: true") {
		t.Errorf("strict_mode missing:\n%s", out)
	}
}

func TestLoadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := `
- owner: acme
  timestamp: 2025-01-15T10:30:00Z
  description: Add retry support to the extraction pipeline
  version_change: 1.2.0 -> 1.3.0
  context:
    source: release-notes
- owner: ""
  timestamp: 2025-01-16T09:00:00Z
  description: short
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write batch file: %v", err)
	}

	recs, contexts, err := loadBatchFile(path)
	if err != nil {
		t.Fatalf("loadBatchFile failed: %v", err)
	}
	if len(recs) != 2 || len(contexts) != 2 {
		t.Fatalf("got %d records and %d contexts", len(recs), len(contexts))
	}
	if recs[0].Owner() != "acme" {
		t.Errorf("owner = %q", recs[0].Owner())
	}
	if vc := recs[0].VersionChange(); vc == nil || *vc != "1.2.0 -> 1.3.0" {
		t.Errorf("version change = %v", vc)
	}
	if !recs[0].Timestamp().Equal(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", recs[0].Timestamp())
	}
	if contexts[0]["source"] != "release-notes" {
		t.Errorf("context = %v", contexts[0])
	}
	if contexts[1] != nil {
		t.Errorf("second context = %v, want nil", contexts[1])
	}
}

func TestLoadBatchFile_Missing(t *testing.T) {
	if _, _, err := loadBatchFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrintOutcome_JSON(t *testing.T) {
	vc := "1.0.0 -> 1.1.0"
	rec := models.NewRecord("acme", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), "Add retry support", &vc)
	out := models.NewOutcome(nil, []string{"Description is quite short"})

	var buf bytes.Buffer
	if err := printOutcome(&buf, rec, out, outputJSON); err != nil {
		t.Fatalf("printOutcome failed: %v", err)
	}

	var got struct {
		Valid     bool              `json:"is_valid"`
		Errors    []string          `json:"errors"`
		Warnings  []string          `json:"warnings"`
		Extracted map[string]string `json:"extracted_data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if !got.Valid || got.Errors == nil || len(got.Warnings) != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.Extracted["owner"] != "acme" || got.Extracted["timestamp"] != "2025-01-15T10:30:00Z" {
		t.Errorf("extracted_data = %v", got.Extracted)
	}
}

func TestPrintOutcome_Pretty(t *testing.T) {
	rec := models.NewRecord("", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), "x", nil)
	out := models.NewOutcome([]string{"Repository owner is empty or missing"}, nil)

	var buf bytes.Buffer
	if err := printOutcome(&buf, rec, out, outputPretty); err != nil {
		t.Fatalf("printOutcome failed: %v", err)
	}
	s := buf.String()
	for _, want := range []string{"OBSERVATION RESULT", "INVALID", "Errors (1):", "Repository owner is empty or missing", "(none)"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestCheckOutputMode(t *testing.T) {
	if err := checkOutputMode("pretty"); err != nil {
		t.Errorf("pretty: %v", err)
	}
	if err := checkOutputMode("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if err := checkOutputMode("yaml"); err == nil {
		t.Error("yaml should be rejected")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("line one\nline two is long", 12); got != "line one ..." {
		t.Errorf("truncate = %q", got)
	}
}
