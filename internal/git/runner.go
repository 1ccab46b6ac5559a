package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	iexec "github.com/ShayCichocki/observer/internal/exec"
)

// fieldSep separates fields in the log format; commit messages cannot contain NUL.
const fieldSep = "\x00"

// commitFormat prints SHA, author, strict ISO date and raw body.
const commitFormat = "--format=%H%x00%an%x00%aI%x00%B"

// Source implements Reader by running the git binary.
type Source struct {
	repoPath string
	runner   iexec.CommandRunner
}

// NewSource creates a source for the repository at repoPath.
// A nil runner uses the os/exec runner.
func NewSource(repoPath string, runner iexec.CommandRunner) *Source {
	if runner == nil {
		runner = iexec.NewRunner()
	}
	return &Source{repoPath: repoPath, runner: runner}
}

// run executes a git command and returns its trimmed output.
func (s *Source) run(ctx context.Context, args ...string) (string, error) {
	out, err := s.runner.Output(ctx, s.repoPath, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Commit returns metadata for ref.
func (s *Source) Commit(ctx context.Context, ref string) (CommitInfo, error) {
	if ref == "" {
		ref = "HEAD"
	}
	out, err := s.run(ctx, "log", "-1", commitFormat, ref, "--")
	if err != nil {
		return CommitInfo{}, err
	}
	return parseCommit(out)
}

func parseCommit(out string) (CommitInfo, error) {
	parts := strings.SplitN(out, fieldSep, 4)
	if len(parts) != 4 {
		return CommitInfo{}, fmt.Errorf("unexpected git log output: %d fields", len(parts))
	}
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[2]))
	if err != nil {
		return CommitInfo{}, fmt.Errorf("parse commit date: %w", err)
	}
	return CommitInfo{
		SHA:     strings.TrimSpace(parts[0]),
		Author:  strings.TrimSpace(parts[1]),
		Date:    date,
		Message: strings.TrimSpace(parts[3]),
	}, nil
}

// RemoteURL returns the URL of the named remote, "origin" if empty.
func (s *Source) RemoteURL(ctx context.Context, remote string) (string, error) {
	if remote == "" {
		remote = "origin"
	}
	return s.run(ctx, "remote", "get-url", remote)
}

// Owner returns the repository owner parsed from the origin remote, or ""
// when there is no remote or its URL has no owner segment.
func (s *Source) Owner(ctx context.Context) string {
	url, err := s.RemoteURL(ctx, "origin")
	if err != nil {
		return ""
	}
	return OwnerFromRemote(url)
}

// OwnerFromRemote extracts the owner from a remote URL such as
// https://github.com/owner/repo.git or git@github.com:owner/repo.git.
func OwnerFromRemote(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")

	var path string
	switch {
	case strings.Contains(url, "://"):
		rest := url[strings.Index(url, "://")+3:]
		i := strings.Index(rest, "/")
		if i < 0 {
			return ""
		}
		path = rest[i+1:]
	case strings.Contains(url, ":"):
		path = url[strings.Index(url, ":")+1:]
	default:
		return ""
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 2 || segs[len(segs)-2] == "" {
		return ""
	}
	return segs[len(segs)-2]
}

// Verify Source implements Reader at compile time.
var _ Reader = (*Source)(nil)
