package types

// HighlightColor is the fixed color applied to every excerpt highlight.
const HighlightColor = "yellow"

// Rect is a bounding box in top-left-origin page coordinates.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Annotation is a highlight rectangle tied to a display page number.
// Page is 1-based for display. Annotations are derived from the latest
// answer and regenerated on every request, never persisted.
type Annotation struct {
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}
