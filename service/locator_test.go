package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haodang/chatpdf-be/types"
)

// fakeSearcher maps page index -> excerpt -> boxes.
type fakeSearcher struct {
	numPages int
	hits     map[int]map[string][]types.Rect
	err      error
}

func (f *fakeSearcher) NumPages() int { return f.numPages }

func (f *fakeSearcher) SearchFor(page int, literal string) ([]types.Rect, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[page][literal], nil
}

func TestLocatePagesFallsBackToFirstPage(t *testing.T) {
	doc := &fakeSearcher{numPages: 3}

	pages, err := LocatePages(doc, []string{"nowhere to be found"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pages)

	pages, err = LocatePages(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pages)

	pages, err = LocatePages(doc, []string{"", ""})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pages)
}

func TestLocatePagesNilDocument(t *testing.T) {
	pages, err := LocatePages(nil, []string{"anything"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pages)
}

func TestLocatePagesAscendingUnique(t *testing.T) {
	box := types.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}
	doc := &fakeSearcher{
		numPages: 4,
		hits: map[int]map[string][]types.Rect{
			1: {"alpha": {box}, "beta": {box}},
			3: {"beta": {box}},
		},
	}

	pages, err := LocatePages(doc, []string{"alpha", "beta"})
	require.NoError(t, err)
	// Page 1 matches two excerpts but appears once; pages come back in
	// ascending order.
	assert.Equal(t, []int{1, 3}, pages)
}

func TestLocatePagesSurfacesSearchError(t *testing.T) {
	doc := &fakeSearcher{numPages: 1, err: errors.New("boom")}
	_, err := LocatePages(doc, []string{"alpha"})
	assert.Error(t, err)
}

func TestGenerateAnnotationsNilDocument(t *testing.T) {
	annotations, err := GenerateAnnotations(nil, []string{"alpha"})
	require.NoError(t, err)
	assert.Nil(t, annotations)
}

func TestGenerateAnnotationsOrderAndNumbering(t *testing.T) {
	doc := &fakeSearcher{
		numPages: 3,
		hits: map[int]map[string][]types.Rect{
			0: {"beta": {{X0: 10, Y0: 20, X1: 30, Y1: 28}}},
			2: {
				"alpha": {
					{X0: 1, Y0: 2, X1: 5, Y1: 6},
					{X0: 7, Y0: 2, X1: 11, Y1: 6},
				},
				"beta": {{X0: 1, Y0: 2, X1: 5, Y1: 6}},
			},
		},
	}

	annotations, err := GenerateAnnotations(doc, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, annotations, 4)

	// Ordered page by page, then excerpt by excerpt, then match by match.
	assert.Equal(t, 1, annotations[0].Page)
	assert.Equal(t, 3, annotations[1].Page)
	assert.Equal(t, 3, annotations[2].Page)
	assert.Equal(t, 3, annotations[3].Page)

	first := annotations[0]
	assert.Equal(t, 10.0, first.X)
	assert.Equal(t, 20.0, first.Y)
	assert.Equal(t, 20.0, first.Width)
	assert.Equal(t, 8.0, first.Height)
	assert.Equal(t, types.HighlightColor, first.Color)

	// A box matched by two different excerpts stays duplicated.
	assert.Equal(t, annotations[1].X, annotations[3].X)
	assert.Equal(t, annotations[1].Y, annotations[3].Y)
}

func TestGenerateAnnotationsSkipsEmptyExcerpts(t *testing.T) {
	doc := &fakeSearcher{
		numPages: 1,
		hits: map[int]map[string][]types.Rect{
			0: {"": {{X0: 0, Y0: 0, X1: 1, Y1: 1}}},
		},
	}
	annotations, err := GenerateAnnotations(doc, []string{""})
	require.NoError(t, err)
	assert.Empty(t, annotations)
}
