package service

import (
	"context"
	"fmt"
	"math"

	"github.com/haodang/chatpdf-be/database"
)

// Retriever pulls candidate chunks for a question and reranks them for
// diversity with maximal marginal relevance. Relevance comes from the
// vector store's distance; diversity from pairwise cosine similarity of
// the candidate vectors.
type Retriever struct {
	store     database.VectorStore
	topK      int
	fetchK    int
	mmrLambda float64
}

func NewRetriever(store database.VectorStore, topK, fetchK int, mmrLambda float64) *Retriever {
	if topK <= 0 {
		topK = 2
	}
	if fetchK < topK {
		fetchK = 2 * topK
	}
	if mmrLambda < 0 || mmrLambda > 1 {
		mmrLambda = 0.5
	}
	return &Retriever{
		store:     store,
		topK:      topK,
		fetchK:    fetchK,
		mmrLambda: mmrLambda,
	}
}

// Retrieve returns up to topK chunks for the question, restricted to the
// document identified by fingerprint.
func (r *Retriever) Retrieve(ctx context.Context, fingerprint, question string) ([]database.ScoredChunk, error) {
	candidates, err := r.store.SearchSimilar(ctx, fingerprint, question, r.fetchK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(candidates) <= r.topK {
		return candidates, nil
	}
	return mmrSelect(candidates, r.topK, r.mmrLambda), nil
}

// mmrSelect picks k chunks greedily, each step taking the candidate with
// the best lambda-weighted tradeoff between query relevance and
// dissimilarity to the chunks already picked. Candidates arrive sorted
// by distance, so the first pick is always the closest chunk.
func mmrSelect(candidates []database.ScoredChunk, k int, lambda float64) []database.ScoredChunk {
	selected := make([]database.ScoredChunk, 0, k)
	remaining := make([]database.ScoredChunk, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			relevance := 1 - float64(cand.Distance)
			redundancy := 0.0
			for _, s := range selected {
				if sim := cosineSimilarity(cand.Vector, s.Vector); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
