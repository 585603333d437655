package service

import (
	"sync"

	"github.com/haodang/chatpdf-be/types"
)

const assistantGreeting = "Hello! I'm ready to answer questions about your PDF. What would you like to know?"

const (
	defaultZoom = 1.0
	minZoom     = 0.5
	maxZoom     = 2.0
)

// Session holds everything one user's conversation needs: the opened
// page index, viewer position and zoom, the excerpts from the most
// recent answer, and the append-only chat history. It lives until the
// user uploads a new document, which resets it wholesale.
type Session struct {
	mu          sync.Mutex
	doc         *PageIndex
	filePath    string
	fileName    string
	fingerprint string
	currentPage int
	zoom        float64
	sources     []string
	history     []types.ChatTurn
}

func NewSession() *Session {
	return &Session{zoom: defaultZoom}
}

// Reset replaces the session's document and restores viewer defaults.
// The chat history restarts with the assistant greeting.
func (s *Session) Reset(doc *PageIndex, filePath, fileName, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.filePath = filePath
	s.fileName = fileName
	s.fingerprint = fingerprint
	s.currentPage = 0
	s.zoom = defaultZoom
	s.sources = nil
	s.history = []types.ChatTurn{
		{Role: types.ROLE_ASSISTANT, Content: assistantGreeting},
	}
}

// Document returns the opened page index, nil before the first upload.
func (s *Session) Document() *PageIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filePath
}

func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

func (s *Session) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fingerprint
}

// AppendTurn appends one turn to the chat history. Turns are never
// mutated or removed afterwards.
func (s *Session) AppendTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.ChatTurn{Role: role, Content: content})
}

// History returns a copy of the chat history.
func (s *Session) History() []types.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

// SetSources records the excerpt list from the most recent answer so
// navigation can regenerate highlights without another model call.
func (s *Session) SetSources(sources []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append([]string(nil), sources...)
}

func (s *Session) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

// SetCurrentPage jumps straight to a 0-based page, clamped to the
// document's range. Used when an answer picks the first relevant page.
func (s *Session) SetCurrentPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = s.clampPage(page)
}

// NextPage advances one page, clamped to the last page.
func (s *Session) NextPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = s.clampPage(s.currentPage + 1)
	return s.currentPage
}

// PrevPage steps back one page, clamped to page 0.
func (s *Session) PrevPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = s.clampPage(s.currentPage - 1)
	return s.currentPage
}

// GotoPage jumps to a 1-based page number, clamped to [1, totalPages].
func (s *Session) GotoPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = s.clampPage(page - 1)
	return s.currentPage
}

// SetZoom sets the zoom factor, clamped to [0.5, 2.0].
func (s *Session) SetZoom(zoom float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	s.zoom = zoom
	return s.zoom
}

// State snapshots the viewer for the API.
func (s *Session) State() types.ViewerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	totalPages := 0
	if s.doc != nil {
		totalPages = s.doc.NumPages()
	}
	return types.ViewerState{
		FileName:    s.fileName,
		CurrentPage: s.currentPage,
		TotalPages:  totalPages,
		Zoom:        s.zoom,
		Sources:     append([]string(nil), s.sources...),
		History:     append([]types.ChatTurn(nil), s.history...),
	}
}

// clampPage requires s.mu held.
func (s *Session) clampPage(page int) int {
	if s.doc == nil {
		return 0
	}
	last := s.doc.NumPages() - 1
	if last < 0 {
		return 0
	}
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}

// SessionService hands out one Session per user ID.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the user's session, creating an empty one on
// first access.
func (s *SessionService) GetOrCreate(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = NewSession()
		s.sessions[userID] = session
	}
	return session
}
