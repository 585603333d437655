package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haodang/chatpdf-be/types"
)

func TestCreateChunksShortTextSingleChunk(t *testing.T) {
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 512, ChunkOverlap: 0})
	meta := types.DocumentMetadata{PageNum: 3}

	chunks := s.createChunks("A short page.", meta)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short page.", chunks[0].Content)
	assert.Equal(t, 3, chunks[0].Page)
}

func TestCreateChunksPrefersSentenceBoundaries(t *testing.T) {
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 40, ChunkOverlap: 0})
	text := "First sentence here. Second sentence follows. Third one closes it."

	chunks := s.createChunks(text, types.DocumentMetadata{PageNum: 1})
	require.True(t, len(chunks) >= 2)
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk.Content, "."),
			"chunk should end on a sentence boundary: %q", chunk.Content)
	}

	// Nothing lost: rejoining covers the full text.
	var rejoined []string
	for _, chunk := range chunks {
		rejoined = append(rejoined, chunk.Content)
	}
	assert.Equal(t, text, strings.Join(rejoined, " "))
}

func TestCreateChunksRespectsMaxSize(t *testing.T) {
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 50, ChunkOverlap: 0})
	text := strings.Repeat("Sentence with several words inside it. ", 20)

	chunks := s.createChunks(strings.TrimSpace(text), types.DocumentMetadata{PageNum: 1})
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 50)
	}
}

func TestCreateChunksAlwaysMakesProgress(t *testing.T) {
	// Overlap equal to the natural boundary used to stall the walk;
	// worst case input is one unbroken run with no boundaries at all.
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 10, ChunkOverlap: 8})
	text := strings.Repeat("x", 100)

	chunks := s.createChunks(text, types.DocumentMetadata{PageNum: 1})
	assert.NotEmpty(t, chunks)
}

func TestChunkPagesSkipsEmptyPagesAndNumbersChunks(t *testing.T) {
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 512, ChunkOverlap: 0})
	pages := []types.PageDocument{
		{Index: 0, Text: "Page one content."},
		{Index: 1, Text: "   "},
		{Index: 2, Text: "Page three content."},
	}
	meta := types.DocumentMetadata{Title: "doc.pdf", Fingerprint: "fp"}

	c := make(chan types.DocumentChunk)
	go s.ChunkPages(pages, meta, c)

	var got []types.DocumentChunk
	for chunk := range c {
		got = append(got, chunk)
	}

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Page)
	assert.Equal(t, 3, got[1].Page)
	assert.Equal(t, "fp", got[0].Metadata.Fingerprint)
	assert.Equal(t, 3, got[0].Metadata.TotalPages)
}

func TestNewPDFServiceSanitizesConfig(t *testing.T) {
	s := NewPDFService(types.DocumentServiceConfig{ChunkSize: 0, ChunkOverlap: -5})
	assert.Equal(t, 512, s.chunkSize)
	assert.Equal(t, 0, s.chunkOverlap)
}
