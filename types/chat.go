package types

const (
	ROLE_USER      = "user"
	ROLE_ASSISTANT = "assistant"
)

// ChatTurn is a single entry in a session's conversation.
// Turns are append-only; a turn is never mutated after creation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StructuredAnswer is the JSON object the answering engine is instructed
// to return: a free-text answer plus supporting excerpts concatenated
// with ". " in the sources field.
type StructuredAnswer struct {
	Answer  string `json:"answer"`
	Sources string `json:"sources"`
}
