// Package version exposes the observer release version embedded at build time.
package version

import (
	_ "embed"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the release version with surrounding whitespace removed.
func Get() string {
	return strings.TrimSpace(versionContent)
}

// String returns the version line printed by the CLI.
func String() string {
	return "observer version " + Get() + " (" + runtime.Version() + ")"
}
