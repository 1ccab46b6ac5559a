// Package advisory implements external, model-backed advisory validators.
//
// Advisors are best-effort: the session logs and ignores their failures.
// Each client sends the same prompt and parses the reply with ParseAdvice.
package advisory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/observer/pkg/models"
)

// ErrMissingAPIKey is returned when a client is built without credentials.
var ErrMissingAPIKey = errors.New("advisory API key is not set")

// systemPrompt is sent as the system message on every request.
const systemPrompt = "You are an expert at validating software development data. Always respond with valid JSON."

// BuildPrompt renders the user prompt for rec.
func BuildPrompt(rec models.Record) string {
	var sb strings.Builder
	sb.WriteString("Validate the following extracted data from a software repository:\n\n")
	sb.WriteString(fmt.Sprintf("Repository Owner: %s\n", rec.Owner()))
	date := "Not specified"
	if !rec.Timestamp().IsZero() {
		date = rec.Timestamp().Format(time.RFC3339)
	}
	sb.WriteString(fmt.Sprintf("Date: %s\n", date))
	sb.WriteString(fmt.Sprintf("Version Change: %s\n", rec.VersionChangeOr("Not specified")))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", rec.Description()))
	sb.WriteString(`Check for:
1. Logical inconsistencies
2. Unrealistic or suspicious values
3. Missing critical information
4. Data quality issues

Respond in JSON format:
{
    "is_valid": true/false,
    "errors": ["list of errors if any"],
    "warnings": ["list of warnings if any"]
}`)
	return sb.String()
}
