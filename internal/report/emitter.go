package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/observer/pkg/models"
)

// DefaultDir is the report directory used when none is configured.
const DefaultDir = "reports"

// fileTimeLayout is the timestamp embedded in report file names.
const fileTimeLayout = "20060102_150405"

// Emitter renders reports and writes each one to a new timestamped file.
type Emitter struct {
	dir          string
	now          func() time.Time
	uniqueSuffix bool
	logger       *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithClock overrides the time source used for file names and headers.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithUniqueSuffix appends a short random suffix to every file name so two
// reports written in the same second do not collide.
func WithUniqueSuffix() Option {
	return func(e *Emitter) {
		e.uniqueSuffix = true
	}
}

// WithLogger sets the emitter's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an emitter writing under dir, creating it if needed.
func New(dir string, opts ...Option) (*Emitter, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	e := &Emitter{
		dir:    dir,
		now:    time.Now,
		logger: slog.Default().With("component", "report"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Dir returns the directory reports are written to.
func (e *Emitter) Dir() string {
	return e.dir
}

// Failure writes a report for a failed outcome and returns its path.
// A valid outcome produces no file and an empty path.
func (e *Emitter) Failure(rec models.Record, outcome models.Outcome, ctx map[string]any, format Format) (string, error) {
	if outcome.Valid {
		return "", nil
	}
	if !format.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	now := e.now()
	content, err := RenderFailure(NewFailureReport(now, rec, outcome, ctx), format)
	if err != nil {
		return "", err
	}
	return e.write("validation_failure", now, format, content)
}

// Summary writes a summary of failed entries and returns its path.
func (e *Emitter) Summary(failed []models.HistoryEntry, stats models.Summary, format Format) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	now := e.now()
	content, err := RenderSummary(SummaryReport{GeneratedAt: now, Stats: stats, Failed: failed}, format)
	if err != nil {
		return "", err
	}
	return e.write("summary_report", now, format, content)
}

func (e *Emitter) write(prefix string, at time.Time, format Format, content []byte) (string, error) {
	name := prefix + "_" + at.Format(fileTimeLayout)
	if e.uniqueSuffix {
		name += "_" + uuid.New().String()[:8]
	}
	path := filepath.Join(e.dir, name+"."+format.Ext())

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	e.logger.Debug("report written", "path", path, "format", string(format))
	return path, nil
}
