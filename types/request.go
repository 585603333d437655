package types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}

// AskRequest is a single question about the session's uploaded document.
type AskRequest struct {
	Question string `json:"question"`
}

// GotoPageRequest carries a 1-based display page number.
type GotoPageRequest struct {
	Page int `json:"page"`
}

type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}
