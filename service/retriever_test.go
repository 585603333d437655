package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haodang/chatpdf-be/database"
)

type fakeVectorStore struct {
	chunks []database.ScoredChunk
	limit  int
}

func (f *fakeVectorStore) BatchInsertChunks(ctx context.Context, docs []database.Document) error {
	return nil
}

func (f *fakeVectorStore) SearchSimilar(ctx context.Context, fingerprint, query string, limit int) ([]database.ScoredChunk, error) {
	f.limit = limit
	if limit > len(f.chunks) {
		limit = len(f.chunks)
	}
	return f.chunks[:limit], nil
}

func (f *fakeVectorStore) HasFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	return false, nil
}

func (f *fakeVectorStore) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	return nil
}

func chunkWith(content string, distance float32, vector []float32) database.ScoredChunk {
	return database.ScoredChunk{
		Document: database.Document{Content: content},
		Distance: distance,
		Vector:   vector,
	}
}

func TestRetrieveFetchesWideAndReturnsTopK(t *testing.T) {
	store := &fakeVectorStore{
		chunks: []database.ScoredChunk{
			chunkWith("a", 0.10, []float32{1, 0}),
			chunkWith("b", 0.12, []float32{1, 0.01}),
			chunkWith("c", 0.30, []float32{0, 1}),
			chunkWith("d", 0.40, []float32{0.5, 0.5}),
		},
	}
	r := NewRetriever(store, 2, 4, 0.5)

	got, err := r.Retrieve(context.Background(), "fp", "question")
	require.NoError(t, err)
	assert.Equal(t, 4, store.limit)
	require.Len(t, got, 2)

	// The closest chunk always comes first; the second pick favors the
	// orthogonal chunk over the near-duplicate of the first.
	assert.Equal(t, "a", got[0].Document.Content)
	assert.Equal(t, "c", got[1].Document.Content)
}

func TestRetrieveFewCandidatesShortCircuits(t *testing.T) {
	store := &fakeVectorStore{
		chunks: []database.ScoredChunk{
			chunkWith("only", 0.1, []float32{1, 0}),
		},
	}
	r := NewRetriever(store, 2, 4, 0.5)

	got, err := r.Retrieve(context.Background(), "fp", "question")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Document.Content)
}

func TestMMRSelectPureRelevance(t *testing.T) {
	candidates := []database.ScoredChunk{
		chunkWith("a", 0.1, []float32{1, 0}),
		chunkWith("b", 0.2, []float32{1, 0}),
		chunkWith("c", 0.3, []float32{1, 0}),
	}
	// Lambda 1 ignores diversity entirely.
	got := mmrSelect(candidates, 2, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Document.Content)
	assert.Equal(t, "b", got[1].Document.Content)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
}
