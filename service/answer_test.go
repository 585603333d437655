package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredAnswerRoundTrip(t *testing.T) {
	raw := `{"answer": "The warranty lasts two years.", "sources": "The warranty period is 24 months. Coverage begins at delivery"}`

	parsed, err := ParseStructuredAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, "The warranty lasts two years.", parsed.Answer)

	excerpts := SplitSources(parsed.Sources)
	assert.Equal(t, []string{"The warranty period is 24 months", "Coverage begins at delivery"}, excerpts)
}

func TestParseStructuredAnswerFencedOutput(t *testing.T) {
	raw := "Here is the answer:\n```json\n{\"answer\": \"A\", \"sources\": \"B\"}\n```\nHope that helps."

	parsed, err := ParseStructuredAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, "A", parsed.Answer)
	assert.Equal(t, "B", parsed.Sources)
}

func TestParseStructuredAnswerNotParseable(t *testing.T) {
	for _, raw := range []string{
		"I don't know the answer to that.",
		`{"answer": "unterminated`,
		"",
	} {
		_, err := ParseStructuredAnswer(raw)
		assert.ErrorIs(t, err, ErrAnswerNotParseable, "raw: %q", raw)
	}
}

func TestParseStructuredAnswerSchemaViolations(t *testing.T) {
	for _, raw := range []string{
		`{"sources": "B"}`,
		`{"answer": null, "sources": "B"}`,
		`{"answer": 42, "sources": "B"}`,
		`{"answer": "A", "sources": ["B"]}`,
	} {
		_, err := ParseStructuredAnswer(raw)
		assert.ErrorIs(t, err, ErrAnswerSchema, "raw: %q", raw)
	}
}

func TestParseStructuredAnswerMissingSourcesAllowed(t *testing.T) {
	parsed, err := ParseStructuredAnswer(`{"answer": "A"}`)
	require.NoError(t, err)
	assert.Equal(t, "", parsed.Sources)

	parsed, err = ParseStructuredAnswer(`{"answer": "A", "sources": null}`)
	require.NoError(t, err)
	assert.Equal(t, "", parsed.Sources)
}

func TestSplitSourcesEmpty(t *testing.T) {
	assert.Nil(t, SplitSources(""))
}

func TestSplitSourcesNoSeparator(t *testing.T) {
	assert.Equal(t, []string{"single excerpt without separator"}, SplitSources("single excerpt without separator"))
}

func TestRenderPromptContainsContextsAndQuestion(t *testing.T) {
	prompt := RenderPrompt([]string{"chunk one", "chunk two"}, "What is covered?")
	assert.Contains(t, prompt, "chunk one\n\nchunk two")
	assert.Contains(t, prompt, "Question: What is covered?")
	assert.Contains(t, prompt, `"answer"`)
	assert.Contains(t, prompt, `"sources"`)
}
