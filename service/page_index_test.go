package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdflib "github.com/ledongthuc/pdf"
)

// rowOf lays out text as evenly spaced glyph boxes on one baseline.
func rowOf(y float64, text string, startX, charWidth, size float64) pageRow {
	row := pageRow{y: y}
	x := startX
	for _, r := range text {
		row.chars = append(row.chars, charBox{
			r:    r,
			x0:   x,
			x1:   x + charWidth,
			size: size,
		})
		x += charWidth
	}
	return row
}

func twoRowPage() indexedPage {
	return indexedPage{
		width:  200,
		height: 100,
		rows: []pageRow{
			rowOf(80, "The quick", 10, 5, 10),
			rowOf(60, "brown fox jumps.", 10, 5, 10),
		},
	}
}

func TestSearchPageSingleRowMatch(t *testing.T) {
	p := twoRowPage()

	rects := searchPage(p, "quick")
	require.Len(t, rects, 1)

	// "quick" starts at the 5th glyph of the first row.
	assert.Equal(t, 30.0, rects[0].X0)
	assert.Equal(t, 55.0, rects[0].X1)
	// Baseline 80 on a 100pt page, font size 10.
	assert.Equal(t, 10.0, rects[0].Y0)
	assert.Equal(t, 22.5, rects[0].Y1)
}

func TestSearchPageCaseAndWhitespaceInsensitive(t *testing.T) {
	p := twoRowPage()

	assert.Len(t, searchPage(p, "QUICK"), 1)
	assert.Len(t, searchPage(p, "quick   brown"), 2)
}

func TestSearchPageCrossRowMatchSplitsPerRow(t *testing.T) {
	p := twoRowPage()

	rects := searchPage(p, "quick brown")
	require.Len(t, rects, 2)
	// One rect per row segment, top row first.
	assert.Equal(t, 10.0, rects[0].Y0)
	assert.Equal(t, 30.0, rects[1].Y0)
	assert.Equal(t, 10.0, rects[1].X0)
}

func TestSearchPageNoMatch(t *testing.T) {
	p := twoRowPage()
	assert.Empty(t, searchPage(p, "zebra"))
	assert.Empty(t, searchPage(p, ""))
	assert.Empty(t, searchPage(p, "   "))
}

func TestSearchPageMultipleMatches(t *testing.T) {
	p := indexedPage{
		width:  200,
		height: 100,
		rows: []pageRow{
			rowOf(80, "ha ha ha", 0, 5, 10),
		},
	}
	// Non-overlapping occurrences only.
	assert.Len(t, searchPage(p, "ha"), 3)
}

func TestNormalizeLiteral(t *testing.T) {
	assert.Equal(t, "quick brown fox", normalizeLiteral("  Quick\n  BROWN\tfox  "))
	assert.Equal(t, "", normalizeLiteral("   "))
}

func TestBuildRowsSynthesizesWordGaps(t *testing.T) {
	rows := pdflib.Rows{
		&pdflib.Row{
			Position: 700,
			Content: pdflib.TextHorizontal{
				{S: "Hello", X: 10, W: 25, FontSize: 10},
				{S: "world", X: 45, W: 25, FontSize: 10}, // 10pt gap
			},
		},
	}

	built := buildRows(rows)
	require.Len(t, built, 1)
	assert.Equal(t, "Hello world", rowsText(built))
}

func TestBuildRowsNoSpaceForTightRuns(t *testing.T) {
	rows := pdflib.Rows{
		&pdflib.Row{
			Position: 700,
			Content: pdflib.TextHorizontal{
				{S: "Hel", X: 10, W: 15, FontSize: 10},
				{S: "lo", X: 25.5, W: 10, FontSize: 10}, // sub-threshold gap
			},
		},
	}

	built := buildRows(rows)
	require.Len(t, built, 1)
	assert.Equal(t, "Hello", rowsText(built))
}

func TestBuildRowsSortsTopDown(t *testing.T) {
	rows := pdflib.Rows{
		&pdflib.Row{Position: 100, Content: pdflib.TextHorizontal{{S: "bottom", X: 0, W: 30, FontSize: 10}}},
		&pdflib.Row{Position: 700, Content: pdflib.TextHorizontal{{S: "top", X: 0, W: 15, FontSize: 10}}},
	}

	built := buildRows(rows)
	require.Len(t, built, 2)
	assert.Equal(t, "top\nbottom", rowsText(built))
}
