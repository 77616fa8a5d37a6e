package passage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pavneets956-design/Align/internal/db"
	"github.com/pavneets956-design/Align/internal/domain"
)

const collection = "passages"

// returnFields lists the hash fields the ingestion job writes per passage.
var returnFields = []string{
	"source", "reference", "paraphrase", "practice",
	"states", "virtues", "themes", "weight", "__vector_score",
}

// store is the consumer interface for passage retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo reads passages from the vector index.
type Repo struct {
	store store
}

// New creates a passage repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IndexName is the FT index the ingestion job maintains.
func IndexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, collection)
}

// SearchNearest returns the k nearest passages for the query vector, in the
// store's native similarity order.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, k int) ([]domain.Passage, error) {
	q := &db.KNNQuery{
		IndexName:    IndexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, collection)
	passages := make([]domain.Passage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		passages = append(passages, parseEntry(strings.TrimPrefix(entry.Key, prefix), entry))
	}
	return passages, nil
}

// parseEntry maps flat hash fields onto a Passage. Tag values outside the
// closed vocabularies are dropped here, never surfaced.
func parseEntry(id string, entry db.SearchEntry) domain.Passage {
	p := domain.Passage{
		ID:         id,
		Similarity: entry.Score,
	}

	for k, v := range entry.Fields {
		switch k {
		case "source":
			p.Source = v
		case "reference":
			p.Reference = v
		case "paraphrase":
			p.Paraphrase = v
		case "practice":
			p.Practice = v
		case "states":
			p.States = domain.FilterVocab(domain.States, splitTags(v))
		case "virtues":
			p.Virtues = domain.FilterVocab(domain.Virtues, splitTags(v))
		case "themes":
			p.Themes = domain.FilterVocab(domain.Themes, splitTags(v))
		case "weight":
			if w, err := strconv.Atoi(v); err == nil && w >= 0 {
				p.Weight = w
			}
		}
	}

	return p
}

func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
