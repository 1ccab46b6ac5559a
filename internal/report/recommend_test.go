package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShayCichocki/observer/pkg/models"
)

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		outcome  models.Outcome
		expected []string
	}{
		{
			name:     "fallback when nothing matches",
			outcome:  models.NewOutcome([]string{"Advisory validation flagged the record as invalid"}, nil),
			expected: []string{fallbackRecommendation},
		},
		{
			name: "required field errors",
			outcome: models.NewOutcome([]string{
				"owner is empty",
				"Repository owner is empty or missing",
				"Timestamp is missing",
				"Description is empty or missing",
				"Version change is specified but empty",
			}, nil),
			expected: []string{
				"Ensure the repository owner field is provided and not empty",
				"Ensure the date field is provided and valid",
				"Ensure the description field is provided and contains meaningful content",
				"If version change is specified, ensure it follows the format 'X.Y.Z -> A.B.C' or 'X.Y.Z'",
			},
		},
		{
			name: "warnings",
			outcome: models.NewOutcome(nil, []string{
				"Description is very short (less than 10 characters)",
				"Repository owner is very short (less than 2 characters)",
				"Version format may be invalid: abc",
				"Description may contain placeholder text: 'todo'",
			}),
			expected: []string{
				"Provide a more detailed description (at least 20 characters recommended)",
				"Verify the repository owner name is correct",
				"Verify the data format matches expected patterns",
				"Replace placeholder text with actual content",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Recommendations(tt.outcome))
		})
	}
}
