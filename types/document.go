package types

// PageDocument is one page of an uploaded file. The index is 0-based and
// stable for the lifetime of the document.
type PageDocument struct {
	Index  int     // 0-based page index
	Text   string  // extractable text of the page
	Width  float64 // renderable width in points
	Height float64 // renderable height in points
}

// DocumentChunk is the unit of embedding and retrieval.
type DocumentChunk struct {
	Content  string           // The actual text content
	Page     int              // Page number where the chunk is from (1-based)
	Metadata DocumentMetadata // Associated metadata for the chunk
}

// DocumentMetadata contains metadata information for document chunks
type DocumentMetadata struct {
	Title       string // Title of the document
	Source      string // Source file path
	Fingerprint string // SHA-256 of the uploaded bytes
	PageNum     int    // Current page number (1-based)
	TotalPages  int    // Total number of pages in the document
}

// DocumentServiceConfig contains configuration options for text chunking
type DocumentServiceConfig struct {
	ChunkSize    int // Maximum size for text chunks
	ChunkOverlap int // Size of overlap between chunks
}
