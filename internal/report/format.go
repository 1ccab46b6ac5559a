// Package report renders and persists validation failure and summary reports.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown report formats.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Format identifies a report rendering.
type Format string

const (
	// FormatText is a plain-text report.
	FormatText Format = "text"
	// FormatJSON is a structured JSON report.
	FormatJSON Format = "json"
	// FormatHTML is a styled HTML document.
	FormatHTML Format = "html"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatHTML}
}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Valid returns true if the format is known.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatHTML:
		return true
	default:
		return false
	}
}

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return string(f)
	}
}
