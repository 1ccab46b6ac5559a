// Package extract turns commit messages and pull-request text into records
// using pattern rules.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/ShayCichocki/observer/pkg/models"
)

// versionPatterns are tried in order; the first match wins.
// Two capture groups yield "old -> new", one yields a single version.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)v?(\d+\.\d+\.\d+)\s*(?:->|→|=>|>|-)\s*v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?i)v?(\d+\.\d+)\s*(?:->|→|=>|>)\s*v?(\d+\.\d+)`),
	regexp.MustCompile(`(?i)version\s+v?(\d+\.\d+\.\d+)\s*to\s*v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?i)upgrade.*?v?(\d+\.\d+\.\d+).*?v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?i)bump.*?v?(\d+\.\d+\.\d+).*?v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?i)v?(\d+\.\d+\.\d+)`),
}

// leadingVersion strips version prefixes from the start of a description.
var leadingVersion = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^v?\d+\.\d+\.\d+\s*(?:->|→|=>|>|-)\s*v?\d+\.\d+\.\d+\s*[-:]?\s*`),
	regexp.MustCompile(`(?i)^v?\d+\.\d+\.\d+\s*[-:]?\s*`),
	regexp.MustCompile(`(?i)^version\s+\d+\.\d+\.\d+\s*[-:]?\s*`),
}

// Commit extracts a record from a commit message.
func Commit(message, owner string, date time.Time) models.Record {
	return models.NewRecord(owner, date, cleanDescription(message), VersionChange(message))
}

// PullRequest extracts a record from a pull request's title and body.
// The description is the title followed by the body.
func PullRequest(title, body, owner string, date time.Time) models.Record {
	desc := title
	if strings.TrimSpace(body) != "" {
		desc += "\n\n" + body
	}
	return models.NewRecord(owner, date, cleanDescription(desc), VersionChange(title+"\n"+body))
}

// VersionChange finds a version or version range in text.
// It returns nil when no version is present.
func VersionChange(text string) *string {
	for _, re := range versionPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var vc string
		if len(m) == 3 {
			vc = m[1] + " -> " + m[2]
		} else {
			vc = m[1]
		}
		return &vc
	}
	return nil
}

func cleanDescription(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range leadingVersion {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
