package service

import (
	"github.com/haodang/chatpdf-be/types"
)

// PageSearcher is the slice of document behavior the excerpt locator
// needs: a page count and a per-page literal search returning bounding
// boxes in top-left-origin coordinates.
type PageSearcher interface {
	NumPages() int
	SearchFor(page int, literal string) ([]types.Rect, error)
}

// LocatePages returns the 0-based indices of pages on which at least one
// non-empty excerpt matches, in ascending page order. When nothing
// matches (including empty or all-empty excerpt lists) it returns [0],
// never an empty result, so the viewer always has a page to display.
// Search errors from the underlying document surface unchanged.
func LocatePages(doc PageSearcher, excerpts []string) ([]int, error) {
	var relevant []int
	if doc != nil {
		for p := 0; p < doc.NumPages(); p++ {
			for _, excerpt := range excerpts {
				if excerpt == "" {
					continue
				}
				boxes, err := doc.SearchFor(p, excerpt)
				if err != nil {
					return nil, err
				}
				if len(boxes) > 0 {
					relevant = append(relevant, p)
					break
				}
			}
		}
	}
	if len(relevant) == 0 {
		return []int{0}, nil
	}
	return relevant, nil
}

// GenerateAnnotations produces one highlight annotation per
// (page, excerpt, bounding box) match triple: pages in document order,
// excerpts in list order, boxes in search order. Display page numbers
// are 1-based. A nil document yields no annotations and no error.
// Identical boxes matched by different excerpts are kept as separate
// annotations.
func GenerateAnnotations(doc PageSearcher, excerpts []string) ([]types.Annotation, error) {
	if doc == nil {
		return nil, nil
	}
	var annotations []types.Annotation
	for p := 0; p < doc.NumPages(); p++ {
		for _, excerpt := range excerpts {
			if excerpt == "" {
				continue
			}
			boxes, err := doc.SearchFor(p, excerpt)
			if err != nil {
				return nil, err
			}
			for _, box := range boxes {
				annotations = append(annotations, types.Annotation{
					Page:   p + 1,
					X:      box.X0,
					Y:      box.Y0,
					Width:  box.X1 - box.X0,
					Height: box.Y1 - box.Y0,
					Color:  types.HighlightColor,
				})
			}
		}
	}
	return annotations, nil
}
