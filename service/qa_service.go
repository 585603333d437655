package service

import (
	"context"
	"fmt"

	"github.com/haodang/chatpdf-be/types"
)

// QAService runs one question through the full answering pipeline:
// retrieve supporting chunks, ask the answering engine, validate the
// structured answer, then locate and highlight the supporting excerpts
// in the session's document.
type QAService struct {
	retriever *Retriever
	answerer  Answerer
}

func NewQAService(retriever *Retriever, answerer Answerer) *QAService {
	return &QAService{
		retriever: retriever,
		answerer:  answerer,
	}
}

// Ask answers one question against the session's uploaded document.
// The user's turn is recorded before the engine is called, so a failed
// answer leaves the history with the question but nothing else. On
// success the answer is appended verbatim, the excerpt list replaces
// the session's sources, and the viewer jumps to the first relevant
// page.
func (s *QAService) Ask(ctx context.Context, session *Session, question string) (*types.AskResponse, error) {
	doc := session.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}

	session.AppendTurn(types.ROLE_USER, question)

	chunks, err := s.retriever.Retrieve(ctx, session.Fingerprint(), question)
	if err != nil {
		return nil, err
	}
	contexts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contexts = append(contexts, chunk.Document.Content)
	}

	raw, err := s.answerer.Answer(ctx, RenderPrompt(contexts, question))
	if err != nil {
		return nil, fmt.Errorf("answering engine failed: %w", err)
	}

	structured, err := ParseStructuredAnswer(raw)
	if err != nil {
		return nil, err
	}
	excerpts := SplitSources(structured.Sources)

	pages, err := LocatePages(doc, excerpts)
	if err != nil {
		return nil, err
	}
	annotations, err := GenerateAnnotations(doc, excerpts)
	if err != nil {
		return nil, err
	}

	session.AppendTurn(types.ROLE_ASSISTANT, structured.Answer)
	session.SetSources(excerpts)
	session.SetCurrentPage(pages[0])

	return &types.AskResponse{
		Answer:      structured.Answer,
		Sources:     excerpts,
		Pages:       pages,
		Annotations: annotations,
		CurrentPage: pages[0],
		TotalPages:  doc.NumPages(),
	}, nil
}
