package service

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/haodang/chatpdf-be/types"
)

// PDFService turns an indexed document into page documents and
// embedding-ready chunks.
type PDFService struct {
	chunkSize    int
	chunkOverlap int
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	ChunkSize:    512,
	ChunkOverlap: 0,
}

func NewPDFService(config types.DocumentServiceConfig) *PDFService {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultDocumentServiceConfig.ChunkSize
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = DefaultDocumentServiceConfig.ChunkOverlap
	}
	return &PDFService{
		chunkSize:    config.ChunkSize,
		chunkOverlap: config.ChunkOverlap,
	}
}

// ExtractPages produces one PageDocument per page of the indexed
// document. The glyph index is the primary text source; pages it could
// not read fall back to pdftotext against the saved file. Pages that
// yield nothing either way come back with empty text so indices stay
// aligned with the document.
func (s *PDFService) ExtractPages(index *PageIndex, filePath string) []types.PageDocument {
	pages := make([]types.PageDocument, 0, index.NumPages())
	for p := 0; p < index.NumPages(); p++ {
		text := s.cleanText(index.PageText(p))
		if text == "" && filePath != "" {
			extracted, err := extractTextWithPdftotext(filePath, p+1)
			if err != nil {
				log.Printf("Warning: failed to extract text from page %d: %v", p+1, err)
			} else {
				text = s.cleanText(extracted)
			}
		}
		width, height := index.PageSize(p)
		pages = append(pages, types.PageDocument{
			Index:  p,
			Text:   text,
			Width:  width,
			Height: height,
		})
	}
	return pages
}

// ChunkPages splits each page's text into chunks and sends them on c.
// Chunking is per page so every chunk carries an unambiguous page
// number. The channel is closed when all pages are done.
func (s *PDFService) ChunkPages(pages []types.PageDocument, meta types.DocumentMetadata, c chan<- types.DocumentChunk) {
	defer close(c)
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		pageMeta := meta
		pageMeta.PageNum = page.Index + 1
		pageMeta.TotalPages = len(pages)
		for _, chunk := range s.createChunks(page.Text, pageMeta) {
			c <- chunk
		}
	}
}

// createChunks splits text into chunks of at most chunkSize bytes,
// preferring sentence boundaries, then word boundaries, then a hard cut.
func (s *PDFService) createChunks(text string, metadata types.DocumentMetadata) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	textLen := len(text)
	if textLen <= s.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []types.DocumentChunk{
			{
				Content:  trimmed,
				Page:     metadata.PageNum,
				Metadata: metadata,
			},
		}
	}

	currentPos := 0
	for currentPos < textLen {
		chunkEnd := currentPos + s.chunkSize
		if chunkEnd >= textLen {
			chunk := strings.TrimSpace(text[currentPos:])
			if chunk != "" {
				chunks = append(chunks, types.DocumentChunk{
					Content:  chunk,
					Page:     metadata.PageNum,
					Metadata: metadata,
				})
			}
			break
		}

		// Prefer ending on a sentence boundary.
		sentenceEnd := chunkEnd
		for i := chunkEnd; i > currentPos; i-- {
			if text[i] == '.' || text[i] == '?' || text[i] == '!' {
				sentenceEnd = i + 1
				break
			}
		}

		// Fall back to the nearest word boundary.
		if sentenceEnd == chunkEnd {
			for i := chunkEnd; i > currentPos; i-- {
				if text[i] == ' ' {
					sentenceEnd = i
					break
				}
			}
		}

		chunk := strings.TrimSpace(text[currentPos:sentenceEnd])
		if chunk != "" {
			chunks = append(chunks, types.DocumentChunk{
				Content:  chunk,
				Page:     metadata.PageNum,
				Metadata: metadata,
			})
		}

		next := sentenceEnd - s.chunkOverlap
		if next <= currentPos {
			// Overlap must never stall the walk.
			next = sentenceEnd
		}
		currentPos = next
	}

	return chunks
}

// extractTextWithPdftotext shells out to pdftotext for one page. Used
// only when the glyph index read nothing for that page.
func extractTextWithPdftotext(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed for page %d: %w", pageNumber, err)
	}
	if trimmed := strings.TrimSpace(out.String()); trimmed != "" {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

func (s *PDFService) cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
		"  ":     " ",  // Multiple spaces to single space
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
