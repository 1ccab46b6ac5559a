// Package validation decides whether extracted repository metadata is admissible.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ShayCichocki/observer/pkg/models"
)

const (
	// minOwnerLength is the owner length below which a warning is raised.
	minOwnerLength = 2
	// minDescriptionLength is the description length below which a warning is raised.
	minDescriptionLength = 10
	// maxDescriptionLength is the description length above which a warning is raised.
	maxDescriptionLength = 10000
	// placeholderMaxLength bounds the descriptions checked for placeholder text.
	placeholderMaxLength = 50
	// maxAge is how far in the past a timestamp may lie before it is "very old".
	maxAge = 36500 * 24 * time.Hour
)

// placeholderTokens are lowercase substrings that suggest unfilled descriptions.
var placeholderTokens = []string{"todo", "fixme", "placeholder", "example", "test", "n/a", "none"}

// Validator checks records in two passes:
//  1. Completeness - required fields are present and non-blank
//  2. Content - the same requireds plus format and quality rules
//
// Validate runs both and merges them. Validator holds no mutable state.
type Validator struct {
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the time source used for future/age checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator creates a validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs completeness and content checks and merges their results.
// Completeness findings come first.
func (v *Validator) Validate(rec models.Extracted) models.Outcome {
	return v.ValidateCompleteness(rec).Merge(v.ValidateContent(rec))
}

// ValidateCompleteness only checks that owner, timestamp and description are set.
func (v *Validator) ValidateCompleteness(rec models.Extracted) models.Outcome {
	r := models.FromExtracted(rec)
	var errs []string

	if isBlank(r.Owner()) {
		errs = append(errs, "owner is empty")
	}
	if r.Timestamp().IsZero() {
		errs = append(errs, "timestamp is missing")
	}
	if isBlank(r.Description()) {
		errs = append(errs, "description is empty")
	}

	return models.NewOutcome(errs, nil)
}

// ValidateContent applies the required-field, format and quality rules.
func (v *Validator) ValidateContent(rec models.Extracted) models.Outcome {
	r := models.FromExtracted(rec)
	var c checks

	v.checkOwner(&c, r.Owner())
	v.checkTimestamp(&c, r.Timestamp())
	v.checkDescription(&c, r.Description())
	if vc := r.VersionChange(); vc != nil {
		checkVersionChange(&c, *vc)
	}

	return models.NewOutcome(c.errors, c.warnings)
}

// checks accumulates findings for one record.
type checks struct {
	errors   []string
	warnings []string
}

func (c *checks) fail(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checks) warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) checkOwner(c *checks, owner string) {
	trimmed := strings.TrimSpace(owner)
	switch {
	case trimmed == "":
		c.fail("Repository owner is empty or missing")
	case utf8.RuneCountInString(trimmed) < minOwnerLength:
		c.warn("Repository owner is very short (less than %d characters)", minOwnerLength)
	case !strings.ContainsFunc(trimmed, unicode.IsLetter):
		c.warn("Repository owner contains no alphabetic characters")
	}
}

func (v *Validator) checkTimestamp(c *checks, ts time.Time) {
	if ts.IsZero() {
		c.fail("Timestamp is missing")
		return
	}

	now := v.now()
	if ts.After(now) {
		c.warn("Timestamp is in the future: %s", ts.Format(time.RFC3339))
	}
	if ts.Before(now.Add(-maxAge)) {
		c.warn("Timestamp is very old: %s", ts.Format(time.RFC3339))
	}
}

func (v *Validator) checkDescription(c *checks, desc string) {
	trimmed := strings.TrimSpace(desc)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case trimmed == "":
		c.fail("Description is empty or missing")
		return
	case length < minDescriptionLength:
		c.warn("Description is very short (less than %d characters)", minDescriptionLength)
	case length > maxDescriptionLength:
		c.warn("Description is very long (more than %d characters)", maxDescriptionLength)
	}

	if length >= placeholderMaxLength {
		return
	}
	lower := strings.ToLower(desc)
	for _, token := range placeholderTokens {
		if strings.Contains(lower, token) {
			c.warn("Description may contain placeholder text: '%s'", token)
		}
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
