// Package exec provides an interface for command execution.
package exec

import (
	"context"
)

// CommandRunner runs external commands.
// Implementations are swapped for fakes in tests.
type CommandRunner interface {
	// Output executes a command and returns its stdout. A non-zero exit is
	// returned as an error carrying the command's stderr.
	// The working directory is set to workDir if non-empty.
	Output(ctx context.Context, workDir string, name string, args ...string) ([]byte, error)

	// LookPath reports whether the named executable can be found.
	LookPath(name string) error
}
