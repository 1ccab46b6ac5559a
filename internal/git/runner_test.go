package git

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ShayCichocki/observer/internal/validation"
)

// fakeRunner answers git commands from a table keyed by the joined args.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
	dirs    []string
}

func (f *fakeRunner) Output(_ context.Context, workDir, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	f.dirs = append(f.dirs, workDir)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}

func (f *fakeRunner) LookPath(string) error { return nil }

const headLog = "git log -1 " + commitFormat + " HEAD --"

func logOutput(sha, author, date, msg string) string {
	return strings.Join([]string{sha, author, date, msg}, fieldSep) + "\n"
}

func TestSource_Commit(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		headLog: logOutput("abc123", "Jane Doe", "2025-03-04T10:00:00+02:00", "v1.0.0 -> v1.1.0: Add retries\n\nLonger body\n"),
	}}
	s := NewSource("/repo", r)

	info, err := s.Commit(context.Background(), "")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if info.SHA != "abc123" || info.Author != "Jane Doe" {
		t.Errorf("info = %+v", info)
	}
	want := time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)
	if !info.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", info.Date, want)
	}
	if info.Message != "v1.0.0 -> v1.1.0: Add retries\n\nLonger body" {
		t.Errorf("Message = %q", info.Message)
	}
	if r.dirs[0] != "/repo" {
		t.Errorf("workDir = %q, want /repo", r.dirs[0])
	}
}

func TestSource_CommitError(t *testing.T) {
	boom := errors.New("exit status 128")
	r := &fakeRunner{errs: map[string]error{headLog: boom}}

	_, err := NewSource(".", r).Commit(context.Background(), "HEAD")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "git log -1") {
		t.Errorf("error should name the git command: %q", err)
	}
}

func TestParseCommit_Malformed(t *testing.T) {
	if _, err := parseCommit("just one field"); err == nil {
		t.Error("expected error for malformed output")
	}
	if _, err := parseCommit(logOutput("a", "b", "not-a-date", "m")); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestOwnerFromRemote(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widgets.git", "acme"},
		{"https://github.com/acme/widgets", "acme"},
		{"git@github.com:acme/widgets.git", "acme"},
		{"ssh://git@gitlab.example.com/group/sub/widgets.git", "sub"},
		{"https://github.com/widgets", ""},
		{"/local/path/repo", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := OwnerFromRemote(tt.url); got != tt.want {
			t.Errorf("OwnerFromRemote(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSource_Owner(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"git remote get-url origin": "git@github.com:acme/widgets.git\n",
	}}
	if got := NewSource(".", r).Owner(context.Background()); got != "acme" {
		t.Errorf("Owner = %q, want acme", got)
	}

	r = &fakeRunner{errs: map[string]error{"git remote get-url origin": errors.New("no such remote")}}
	if got := NewSource(".", r).Owner(context.Background()); got != "" {
		t.Errorf("Owner = %q, want empty", got)
	}
}

func TestCommitExtractor_OwnerFallback(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		headLog: logOutput("abc", "jdoe", "2025-03-04T10:00:00Z", "Release 1.2.0 with batch mode"),
	}}
	extract := CommitExtractor(NewSource(".", r), "HEAD", "")

	first, err := extract(context.Background(), validation.Attempt{})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if first.Owner() != "" {
		t.Errorf("first attempt Owner = %q, want empty", first.Owner())
	}
	if vc := first.VersionChange(); vc == nil || *vc != "1.2.0" {
		t.Errorf("VersionChange = %v", vc)
	}

	retry, err := extract(context.Background(), validation.Attempt{
		Number:         1,
		PreviousErrors: []string{"Repository owner is empty or missing"},
	})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if retry.Owner() != "jdoe" {
		t.Errorf("retry Owner = %q, want jdoe", retry.Owner())
	}
}
