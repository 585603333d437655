package database

import (
	"context"
)

// Document is one indexed chunk of an uploaded file.
type Document struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Metadata  Metadata `json:"metadata"`
	CreatedAt int64    `json:"created_at"`
}

// Metadata contains additional chunk information.
type Metadata struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
}

// ScoredChunk is a search hit with its query distance and stored vector.
// The vector is needed for diversity-aware re-ranking.
type ScoredChunk struct {
	Document Document
	Distance float32
	Vector   []float32
}

// VectorStore defines the operations the RAG pipeline needs from the
// vector index.
type VectorStore interface {
	BatchInsertChunks(ctx context.Context, docs []Document) error
	SearchSimilar(ctx context.Context, fingerprint, query string, limit int) ([]ScoredChunk, error)
	HasFingerprint(ctx context.Context, fingerprint string) (bool, error)
	DeleteByFingerprint(ctx context.Context, fingerprint string) error
}
