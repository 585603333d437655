package service

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/haodang/chatpdf-be/types"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// charBox is one positioned glyph on a page row. Coordinates are PDF
// points with the origin at the bottom-left of the page.
type charBox struct {
	r    rune
	x0   float64
	x1   float64
	size float64
}

// pageRow is a horizontal run of glyphs sharing a baseline.
type pageRow struct {
	y     float64
	chars []charBox
}

type indexedPage struct {
	rows   []pageRow
	width  float64
	height float64
	text   string
}

// PageIndex is a random-access view of an uploaded PDF. It supports
// per-page literal text search with coordinate-bounded matches, which is
// what excerpt highlighting is built on. The index stays open for the
// whole session; a new upload replaces it.
type PageIndex struct {
	pages []indexedPage
}

// NewPageIndex validates the PDF bytes and builds the per-page glyph
// index. A malformed document fails here rather than during search.
func NewPageIndex(data []byte) (*PageIndex, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]indexedPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		var ip indexedPage
		if i-1 < len(dims) {
			ip.width = dims[i-1].Width
			ip.height = dims[i-1].Height
		}
		page := reader.Page(i)
		if !page.V.IsNull() {
			// Pages without a text layer index as empty rather than
			// failing the whole document.
			if rows, err := page.GetTextByRow(); err == nil {
				ip.rows = buildRows(rows)
			}
		}
		ip.text = rowsText(ip.rows)
		pages = append(pages, ip)
	}

	return &PageIndex{pages: pages}, nil
}

// NumPages returns the page count of the opened document.
func (x *PageIndex) NumPages() int {
	return len(x.pages)
}

// PageText returns the assembled text of the given 0-based page.
func (x *PageIndex) PageText(page int) string {
	if page < 0 || page >= len(x.pages) {
		return ""
	}
	return x.pages[page].text
}

// PageSize returns the renderable dimensions of the given 0-based page
// in points.
func (x *PageIndex) PageSize(page int) (width, height float64) {
	if page < 0 || page >= len(x.pages) {
		return 0, 0
	}
	return x.pages[page].width, x.pages[page].height
}

// SearchFor finds every occurrence of the literal on the given 0-based
// page and returns one bounding box per matched row segment, in reading
// order. Matching is case-insensitive and whitespace-normalized, so an
// excerpt that wraps across lines in the source still matches. Boxes use
// top-left-origin coordinates ready for viewer overlays.
func (x *PageIndex) SearchFor(page int, literal string) ([]types.Rect, error) {
	if page < 0 || page >= len(x.pages) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", page, len(x.pages))
	}
	return searchPage(x.pages[page], literal), nil
}

// buildRows converts the library's row structure into searchable glyph
// rows: rows top-down, glyphs left-to-right, with spaces synthesized
// between glyph runs separated by a visible gap.
func buildRows(rows pdflib.Rows) []pageRow {
	out := make([]pageRow, 0, len(rows))
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		texts := make([]pdflib.Text, len(row.Content))
		copy(texts, row.Content)
		sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

		pr := pageRow{y: float64(row.Position)}
		var prev *pdflib.Text
		for t := range texts {
			cur := texts[t]
			if cur.S == "" {
				continue
			}
			if prev != nil {
				// Glyph runs carry no explicit spaces; synthesize one
				// when the horizontal gap is wide enough to read as a
				// word break.
				gap := cur.X - (prev.X + prev.W)
				if gap > 0.3*cur.FontSize {
					pr.chars = append(pr.chars, charBox{
						r:    ' ',
						x0:   prev.X + prev.W,
						x1:   cur.X,
						size: cur.FontSize,
					})
				}
			}
			pr.chars = append(pr.chars, explodeRun(cur)...)
			c := cur
			prev = &c
		}
		if len(pr.chars) > 0 {
			out = append(out, pr)
		}
	}
	// Top of a PDF page has the largest y.
	sort.SliceStable(out, func(i, j int) bool { return out[i].y > out[j].y })
	return out
}

// explodeRun splits one glyph run into per-rune boxes with interpolated
// x positions.
func explodeRun(t pdflib.Text) []charBox {
	runes := []rune(t.S)
	if len(runes) == 0 {
		return nil
	}
	step := t.W / float64(len(runes))
	boxes := make([]charBox, 0, len(runes))
	for i, r := range runes {
		boxes = append(boxes, charBox{
			r:    r,
			x0:   t.X + float64(i)*step,
			x1:   t.X + float64(i+1)*step,
			size: t.FontSize,
		})
	}
	return boxes
}

func rowsText(rows []pageRow) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row.chars {
			sb.WriteRune(c.r)
		}
	}
	return sb.String()
}

// charRef ties one normalized haystack rune back to its glyph box.
type charRef struct {
	r   rune
	row int
	box charBox
}

// searchPage matches a literal needle against one page's normalized
// glyph stream. A match spanning multiple rows yields one rect per row
// segment, mirroring how viewers highlight wrapped text.
func searchPage(p indexedPage, literal string) []types.Rect {
	needle := []rune(normalizeLiteral(literal))
	if len(needle) == 0 {
		return nil
	}

	hay := normalizedRefs(p.rows)
	if len(hay) < len(needle) {
		return nil
	}

	var rects []types.Rect
	for i := 0; i+len(needle) <= len(hay); {
		if !refsMatch(hay[i:i+len(needle)], needle) {
			i++
			continue
		}
		rects = append(rects, segmentRects(p, hay[i:i+len(needle)])...)
		i += len(needle)
	}
	return rects
}

// normalizedRefs flattens the page rows into a lowercased rune stream
// with whitespace runs collapsed to single spaces. Row breaks count as
// whitespace so excerpts can match across wrapped lines.
func normalizedRefs(rows []pageRow) []charRef {
	var refs []charRef
	for ri, row := range rows {
		if ri > 0 && len(refs) > 0 && refs[len(refs)-1].r != ' ' {
			last := refs[len(refs)-1]
			refs = append(refs, charRef{r: ' ', row: last.row, box: last.box})
		}
		for _, c := range row.chars {
			r := unicode.ToLower(c.r)
			if unicode.IsSpace(r) {
				if len(refs) == 0 || refs[len(refs)-1].r == ' ' {
					continue
				}
				r = ' '
			}
			refs = append(refs, charRef{r: r, row: ri, box: c})
		}
	}
	// Trailing space never starts or ends a trimmed needle match usefully.
	for len(refs) > 0 && refs[len(refs)-1].r == ' ' {
		refs = refs[:len(refs)-1]
	}
	return refs
}

func refsMatch(refs []charRef, needle []rune) bool {
	for i, r := range needle {
		if refs[i].r != r {
			return false
		}
	}
	return true
}

// segmentRects groups one match's refs by row and produces a
// top-left-origin rect per row segment.
func segmentRects(p indexedPage, refs []charRef) []types.Rect {
	var rects []types.Rect
	start := 0
	for start < len(refs) {
		end := start
		for end < len(refs) && refs[end].row == refs[start].row {
			end++
		}
		if rect, ok := rowRect(p, refs[start:end]); ok {
			rects = append(rects, rect)
		}
		start = end
	}
	return rects
}

func rowRect(p indexedPage, refs []charRef) (types.Rect, bool) {
	row := refs[0].row
	if row < 0 || row >= len(p.rows) {
		return types.Rect{}, false
	}
	x0, x1, size := 0.0, 0.0, 0.0
	found := false
	for _, ref := range refs {
		if ref.r == ' ' {
			continue
		}
		if !found {
			x0, x1 = ref.box.x0, ref.box.x1
			found = true
		} else {
			if ref.box.x0 < x0 {
				x0 = ref.box.x0
			}
			if ref.box.x1 > x1 {
				x1 = ref.box.x1
			}
		}
		if ref.box.size > size {
			size = ref.box.size
		}
	}
	if !found {
		return types.Rect{}, false
	}
	baseline := p.rows[row].y
	top := p.height - baseline - size
	if top < 0 {
		top = 0
	}
	return types.Rect{
		X0: x0,
		Y0: top,
		X1: x1,
		Y1: p.height - baseline + 0.25*size,
	}, true
}

// normalizeLiteral lowercases and collapses whitespace runs so needles
// normalize the same way the haystack does.
func normalizeLiteral(s string) string {
	var sb strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			if lastSpace {
				continue
			}
			sb.WriteByte(' ')
			lastSpace = true
			continue
		}
		sb.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(sb.String(), " ")
}
