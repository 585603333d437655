package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haodang/chatpdf-be/types"
)

func indexWithPages(n int) *PageIndex {
	return &PageIndex{pages: make([]indexedPage, n)}
}

func TestSessionDefaults(t *testing.T) {
	s := NewSession()
	state := s.State()
	assert.Equal(t, 0, state.CurrentPage)
	assert.Equal(t, 1.0, state.Zoom)
	assert.Equal(t, 0, state.TotalPages)
	assert.Nil(t, s.Document())
}

func TestSessionResetSeedsGreeting(t *testing.T) {
	s := NewSession()
	s.AppendTurn(types.ROLE_USER, "old question")
	s.SetSources([]string{"old excerpt"})
	s.SetZoom(1.7)
	s.Reset(indexWithPages(4), "/tmp/doc_1.pdf", "doc.pdf", "fp")

	state := s.State()
	assert.Equal(t, 0, state.CurrentPage)
	assert.Equal(t, 1.0, state.Zoom)
	assert.Equal(t, 4, state.TotalPages)
	assert.Empty(t, state.Sources)
	require.Len(t, state.History, 1)
	assert.Equal(t, types.ROLE_ASSISTANT, state.History[0].Role)
	assert.Equal(t, "doc.pdf", s.FileName())
	assert.Equal(t, "fp", s.Fingerprint())
}

func TestSessionNavigationClamps(t *testing.T) {
	s := NewSession()
	s.Reset(indexWithPages(3), "", "doc.pdf", "fp")

	assert.Equal(t, 0, s.PrevPage())
	assert.Equal(t, 1, s.NextPage())
	assert.Equal(t, 2, s.NextPage())
	assert.Equal(t, 2, s.NextPage())
	assert.Equal(t, 1, s.PrevPage())

	// GotoPage takes 1-based input.
	assert.Equal(t, 2, s.GotoPage(3))
	assert.Equal(t, 2, s.GotoPage(99))
	assert.Equal(t, 0, s.GotoPage(0))
	assert.Equal(t, 0, s.GotoPage(-5))
}

func TestSessionNavigationWithoutDocument(t *testing.T) {
	s := NewSession()
	assert.Equal(t, 0, s.NextPage())
	assert.Equal(t, 0, s.GotoPage(7))
}

func TestSessionZoomClamps(t *testing.T) {
	s := NewSession()
	assert.Equal(t, 0.5, s.SetZoom(0.1))
	assert.Equal(t, 2.0, s.SetZoom(9))
	assert.Equal(t, 1.25, s.SetZoom(1.25))
}

func TestSessionHistoryIsCopied(t *testing.T) {
	s := NewSession()
	s.AppendTurn(types.ROLE_USER, "q")
	history := s.History()
	history[0].Content = "mutated"
	assert.Equal(t, "q", s.History()[0].Content)
}

func TestSessionServicePerUser(t *testing.T) {
	svc := NewSessionService()
	a := svc.GetOrCreate("user-a")
	b := svc.GetOrCreate("user-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, svc.GetOrCreate("user-a"))
}
