package retrieval

import (
	"context"

	"github.com/pavneets956-design/Align/internal/domain"
)

// Embedder produces vector embeddings for query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// PassageSearcher finds the nearest passages for a query vector.
type PassageSearcher interface {
	SearchNearest(ctx context.Context, vector []float32, k int) ([]domain.Passage, error)
}
