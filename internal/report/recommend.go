package report

import (
	"strings"

	"github.com/ShayCichocki/observer/pkg/models"
)

// fallbackRecommendation is used when no rule matches.
const fallbackRecommendation = "Review the extracted data and ensure all required fields are properly populated"

// Recommendations derives remediation hints from an outcome's errors and
// warnings by keyword. Duplicates are dropped; order follows the findings.
func Recommendations(outcome models.Outcome) []string {
	var recs []string
	seen := make(map[string]bool)
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			recs = append(recs, r)
		}
	}

	for _, e := range outcome.Errors {
		lower := strings.ToLower(e)
		switch {
		case strings.Contains(lower, "owner"):
			add("Ensure the repository owner field is provided and not empty")
		case strings.Contains(lower, "timestamp"), strings.Contains(lower, "date"):
			add("Ensure the date field is provided and valid")
		case strings.Contains(lower, "description"):
			add("Ensure the description field is provided and contains meaningful content")
		case strings.Contains(lower, "version"):
			add("If version change is specified, ensure it follows the format 'X.Y.Z -> A.B.C' or 'X.Y.Z'")
		}
	}

	for _, w := range outcome.Warnings {
		lower := strings.ToLower(w)
		switch {
		case strings.Contains(lower, "short"):
			if strings.Contains(lower, "description") {
				add("Provide a more detailed description (at least 20 characters recommended)")
			} else if strings.Contains(lower, "owner") {
				add("Verify the repository owner name is correct")
			}
		case strings.Contains(lower, "format"):
			add("Verify the data format matches expected patterns")
		case strings.Contains(lower, "placeholder"):
			add("Replace placeholder text with actual content")
		}
	}

	if len(recs) == 0 {
		recs = append(recs, fallbackRecommendation)
	}
	return recs
}
