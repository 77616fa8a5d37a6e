// Package retrieval embeds the normalized query and fetches candidate
// passages by vector similarity.
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
	"github.com/pavneets956-design/Align/internal/metrics"
)

// DefaultCandidateCount is how many passages are over-fetched before
// reranking narrows the set.
const DefaultCandidateCount = 12

// Service retrieves passage candidates for a query.
type Service struct {
	embedder   Embedder
	passages   PassageSearcher
	candidates int
}

// New creates a Service. candidates <= 0 uses DefaultCandidateCount.
func New(embedder Embedder, passages PassageSearcher, candidates int) *Service {
	if candidates <= 0 {
		candidates = DefaultCandidateCount
	}
	return &Service{embedder: embedder, passages: passages, candidates: candidates}
}

// Retrieve returns the nearest passages for the query text. Failures at
// either stage yield an empty candidate list rather than an error; the
// reply can still be generated without inner context.
func (s *Service) Retrieve(ctx context.Context, query string) []domain.Passage {
	result, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Warn("query embedding failed, skipping retrieval",
			zap.Error(err))
		metrics.RetrievalResults.Observe(0)
		return nil
	}

	passages, err := s.passages.SearchNearest(ctx, result.Embedding, s.candidates)
	if err != nil {
		logger.FromContext(ctx).Warn("passage search failed, skipping retrieval",
			zap.Error(err))
		metrics.RetrievalResults.Observe(0)
		return nil
	}

	metrics.RetrievalResults.Observe(float64(len(passages)))
	return passages
}
