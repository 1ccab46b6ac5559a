package validation

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// versionPattern accepts X.Y or X.Y.Z once a leading v/V is stripped.
	versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)
	// arrowPattern matches "->", "→" or a whitespace-delimited "to".
	arrowPattern = regexp.MustCompile(`(?i)\s*(?:->|→)\s*|\s+to\s+`)
)

// IsValidVersion reports whether s is X.Y or X.Y.Z, optionally prefixed by v/V.
func IsValidVersion(s string) bool {
	return versionPattern.MatchString(stripVersionPrefix(s))
}

// SplitVersionChange splits "old -> new" into its parts.
// ok is false when no arrow token is present.
func SplitVersionChange(s string) (parts []string, ok bool) {
	s = strings.TrimSpace(s)
	if !arrowPattern.MatchString(s) {
		return []string{s}, false
	}
	raw := arrowPattern.Split(s, -1)
	parts = make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}
	return parts, true
}

func checkVersionChange(c *checks, vc string) {
	trimmed := strings.TrimSpace(vc)
	if trimmed == "" {
		c.fail("Version change is specified but empty")
		return
	}

	parts, isChange := SplitVersionChange(trimmed)
	if !isChange {
		if !IsValidVersion(trimmed) {
			c.warn("Version format may be invalid: %s", trimmed)
		}
		return
	}

	if len(parts) != 2 {
		c.warn("Version change format may be invalid: %s", trimmed)
		return
	}

	oldV, newV := parts[0], parts[1]
	oldOK, newOK := IsValidVersion(oldV), IsValidVersion(newV)
	if !oldOK {
		c.warn("Old version format may be invalid: %s", oldV)
	}
	if !newOK {
		c.warn("New version format may be invalid: %s", newV)
	}
	if oldOK && newOK && isDowngrade(oldV, newV) {
		c.warn("Version change goes backwards: %s -> %s", oldV, newV)
	}
}

// isDowngrade reports whether newV is strictly lower than oldV.
// Both inputs must already satisfy IsValidVersion.
func isDowngrade(oldV, newV string) bool {
	o, err := semver.NewVersion(stripVersionPrefix(oldV))
	if err != nil {
		return false
	}
	n, err := semver.NewVersion(stripVersionPrefix(newV))
	if err != nil {
		return false
	}
	return n.LessThan(o)
}

func stripVersionPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "v") || strings.HasPrefix(s, "V") {
		return s[1:]
	}
	return s
}
