package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haodang/chatpdf-be/types"
)

// SourcesSeparator joins the supporting excerpts inside the sources
// field of a structured answer. Splitting on it is fragile when an
// excerpt itself contains ". " or lacks trailing punctuation; the
// behavior is kept as a known limitation of the contract.
const SourcesSeparator = ". "

const answerPromptTemplate = `Use the following pieces of context to answer the user question. If you
don't know the answer, just say that you don't know, don't try to make up an
answer.

%s

Question: %s

Please provide your answer in the following JSON format:
{
    "answer": "Your detailed answer here",
    "sources": "Direct sentences or paragraphs from the context that support
        your answers. ONLY RELEVANT TEXT DIRECTLY FROM THE DOCUMENTS. DO NOT
        ADD ANYTHING EXTRA. DO NOT INVENT ANYTHING."
}

The JSON must be valid and parseable as a single JSON object. Answer:
`

// RenderPrompt builds the question prompt from retrieved chunk contents.
func RenderPrompt(contexts []string, question string) string {
	return fmt.Sprintf(answerPromptTemplate, strings.Join(contexts, "\n\n"), question)
}

// ParseStructuredAnswer validates the model's raw output against the
// two-string-field contract. A JSON decode failure yields
// ErrAnswerNotParseable; a decoded object missing the answer field, or
// carrying a non-string value, yields ErrAnswerSchema. A missing or null
// sources field is allowed and treated as empty.
func ParseStructuredAnswer(raw string) (*types.StructuredAnswer, error) {
	obj := extractJSONObject(raw)
	if obj == "" {
		return nil, fmt.Errorf("%w: no JSON object in output", ErrAnswerNotParseable)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerNotParseable, err)
	}

	answerVal, ok := fields["answer"]
	if !ok || answerVal == nil {
		return nil, fmt.Errorf("%w: answer", ErrAnswerSchema)
	}
	answer, ok := answerVal.(string)
	if !ok {
		return nil, fmt.Errorf("%w: answer is not a string", ErrAnswerSchema)
	}

	sources := ""
	if sourcesVal, ok := fields["sources"]; ok && sourcesVal != nil {
		sources, ok = sourcesVal.(string)
		if !ok {
			return nil, fmt.Errorf("%w: sources is not a string", ErrAnswerSchema)
		}
	}

	return &types.StructuredAnswer{
		Answer:  answer,
		Sources: sources,
	}, nil
}

// SplitSources splits the concatenated sources string into the excerpt
// list consumed by the locator. An empty string yields no excerpts.
func SplitSources(sources string) []string {
	if sources == "" {
		return nil
	}
	return strings.Split(sources, SourcesSeparator)
}

// extractJSONObject returns the outermost {...} span of the raw output.
// Models routinely wrap the object in code fences or prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
