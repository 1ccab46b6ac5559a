package advisory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/observer/pkg/models"
)

func sampleRecord() models.Record {
	vc := "1.2.0 -> 1.3.0"
	return models.NewRecord("acme", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "Add batch validation", &vc)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleRecord())
	assert.Contains(t, p, "Repository Owner: acme")
	assert.Contains(t, p, "Date: 2025-01-02T03:04:05Z")
	assert.Contains(t, p, "Version Change: 1.2.0 -> 1.3.0")
	assert.Contains(t, p, "Description: Add batch validation")
	assert.Contains(t, p, `"is_valid": true/false`)

	empty := BuildPrompt(models.NewRecord("", time.Time{}, "", nil))
	assert.Contains(t, empty, "Date: Not specified")
	assert.Contains(t, empty, "Version Change: Not specified")
}

func TestParseAdvice(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantValid bool
		wantErrs  int
		wantWarns int
		wantErr   bool
	}{
		{
			name:      "plain object",
			reply:     `{"is_valid": true, "errors": [], "warnings": ["vague"]}`,
			wantValid: true,
			wantWarns: 1,
		},
		{
			name:     "fenced with prose",
			reply:    "Here you go:\n```json\n{\"is_valid\": false, \"errors\": [\"fake owner\"]}\n```",
			wantErrs: 1,
		},
		{name: "no object", reply: "looks fine to me", wantErr: true},
		{name: "broken json", reply: `{"is_valid": tru}`, wantErr: true},
		{name: "missing is_valid", reply: `{"errors": []}`, wantErr: true},
		{name: "wrong type", reply: `{"is_valid": "yes"}`, wantErr: true},
		{name: "non-string errors", reply: `{"is_valid": false, "errors": [1, 2]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, err := ParseAdvice(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedReply)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, advice.IsValid)
			assert.Len(t, advice.Errors, tt.wantErrs)
			assert.Len(t, advice.Warnings, tt.wantWarns)
		})
	}
}

func TestNew_Providers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := New(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{Provider: "anthropic"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	a, err := New(Config{OpenAI: OpenAIConfig{APIKey: "k"}})
	require.NoError(t, err)
	require.IsType(t, &OpenAI{}, a)
	assert.Equal(t, DefaultOpenAIModel, a.(*OpenAI).Model())

	a, err = New(Config{Provider: " Anthropic ", Anthropic: AnthropicConfig{APIKey: "k"}})
	require.NoError(t, err)
	assert.Equal(t, anthropic.ModelClaudeSonnet4_20250514, a.(*Anthropic).Model())
}

func TestNewOpenAI_EnvKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	o, err := NewOpenAI(OpenAIConfig{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", o.Model())
}

func TestTranslateModelForBedrock(t *testing.T) {
	assert.Equal(t, anthropic.Model("us.anthropic.claude-sonnet-4-20250514-v1:0"),
		translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514))
	assert.Equal(t, anthropic.Model("custom-model"), translateModelForBedrock("custom-model"))
	assert.Equal(t, anthropic.Model("us.anthropic.x-v1:0"), translateModelForBedrock("us.anthropic.x-v1:0"))
}

func TestOpenAI_Advise(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"is_valid\": false, \"errors\": [\"date mismatch\"], \"warnings\": []}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
		}`)
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1", Temperature: 0.3})
	require.NoError(t, err)

	advice, err := o.Advise(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.False(t, advice.IsValid)
	assert.Equal(t, []string{"date mismatch"}, advice.Errors)

	assert.Equal(t, "gpt-4", got["model"])
	format := got["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])

	in, out := o.Tracker().Total()
	assert.Equal(t, int64(12), in)
	assert.Equal(t, int64(7), out)
	assert.Equal(t, 1, o.Tracker().Calls())
}

func TestOpenAI_AdviseNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "x", "object": "chat.completion", "choices": []}`)
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = o.Advise(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestAnthropic_Advise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Repository Owner: acme")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "{\"is_valid\": true, \"warnings\": [\"terse description\"]}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 9}
		}`)
	}))
	defer srv.Close()

	a, err := NewAnthropic(AnthropicConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	advice, err := a.Advise(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.True(t, advice.IsValid)
	assert.Equal(t, []string{"terse description"}, advice.Warnings)

	in, out := a.Tracker().Total()
	assert.Equal(t, int64(30), in)
	assert.Equal(t, int64(9), out)
}
