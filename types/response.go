package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name,omitempty"`
	Fingerprint  string `json:"fingerprint"`
	TotalPages   int    `json:"total_pages"`
}

type ProcessingDocumentStatus struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Progress       float64 `json:"progress"`
	TotalPages     int     `json:"total_pages"`
	ProcessedPages int     `json:"processed_pages"`
}

// AskResponse is the two-part structured answer plus everything the
// viewer needs to highlight the supporting passages.
type AskResponse struct {
	Answer      string       `json:"answer"`
	Sources     []string     `json:"sources"`
	Pages       []int        `json:"pages"` // 0-based relevant page indices
	Annotations []Annotation `json:"annotations"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
}

// ViewerState mirrors the per-session presentation state.
type ViewerState struct {
	FileName    string       `json:"file_name"`
	CurrentPage int          `json:"current_page"` // 0-based
	TotalPages  int          `json:"total_pages"`
	Zoom        float64      `json:"zoom"`
	Sources     []string     `json:"sources"`
	Annotations []Annotation `json:"annotations"`
	History     []ChatTurn   `json:"history"`
}

type SearchResponse struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// ScoredChunk is a retrieved chunk with its query distance.
type ScoredChunk struct {
	Content  string  `json:"content"`
	Page     int     `json:"page"`
	Distance float32 `json:"distance"`
}
