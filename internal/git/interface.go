// Package git reads commit metadata from a local repository.
package git

import (
	"context"
	"time"
)

// CommitInfo is the metadata of a single commit.
type CommitInfo struct {
	SHA     string
	Author  string
	Date    time.Time
	Message string
}

// Reader defines the read-only git operations used for extraction.
type Reader interface {
	// Commit returns metadata for ref (a SHA, branch or "HEAD").
	Commit(ctx context.Context, ref string) (CommitInfo, error)
	// RemoteURL returns the URL of the named remote.
	RemoteURL(ctx context.Context, remote string) (string, error)
}
