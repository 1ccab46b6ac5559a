package advisory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ShayCichocki/observer/internal/validation"
)

// ErrMalformedReply is returned when a model reply is not a usable verdict.
var ErrMalformedReply = errors.New("malformed advisory reply")

const adviceSchemaURL = "https://observer.schemas.local/advisory/advice.schema.json"

const adviceSchema = `{
  "type": "object",
  "required": ["is_valid"],
  "properties": {
    "is_valid": {"type": "boolean"},
    "errors": {"type": "array", "items": {"type": "string"}},
    "warnings": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledAdviceSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(adviceSchemaURL, strings.NewReader(adviceSchema)); err != nil {
		panic(fmt.Sprintf("advice schema load failed: %v", err))
	}
	return c.MustCompile(adviceSchemaURL)
}

// ParseAdvice extracts the JSON object from a model reply and checks it
// against the verdict schema. Surrounding prose and code fences are ignored.
func ParseAdvice(reply string) (*validation.Advice, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedReply)
	}
	raw := []byte(reply[start : end+1])

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := compiledAdviceSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var advice validation.Advice
	if err := json.Unmarshal(raw, &advice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return &advice, nil
}
