// Package rank orders retrieved passages by blending vector similarity
// with signal overlap, applying a per-source cap and a fixed result size.
package rank

import (
	"sort"

	"github.com/pavneets956-design/Align/internal/domain"
)

// Weights tunes the scoring blend. Zero values are valid; use
// DefaultWeights for the production blend.
type Weights struct {
	State       float64
	Virtue      float64
	Theme       float64
	SourceBonus float64
	// FavoredSource receives SourceBonus on every match.
	FavoredSource string
	// WeightScale multiplies the passage's curation weight.
	WeightScale float64
	// MaxPerSource caps how many passages a single source may contribute.
	MaxPerSource int
	// FinalCount is the number of passages returned.
	FinalCount int
}

// DefaultWeights returns the production scoring blend.
func DefaultWeights() Weights {
	return Weights{
		State:         0.15,
		Virtue:        0.10,
		Theme:         0.05,
		SourceBonus:   0.20,
		FavoredSource: "Gurbani",
		WeightScale:   0.02,
		MaxPerSource:  2,
		FinalCount:    5,
	}
}

type scored struct {
	passage domain.Passage
	score   float64
}

// Rank scores candidates against the extracted signals and returns the
// top passages, at most MaxPerSource per source. Returned passages carry
// the composite score in Similarity. The input slice is not modified.
// Ties keep retrieval order.
func Rank(candidates []domain.Passage, signals domain.Signals, w Weights) []domain.Passage {
	if len(candidates) == 0 {
		return nil
	}

	states := toSet(signals.States)
	themes := toSet(signals.Themes)
	preferred := toSet(domain.PreferredVirtues)

	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		s := p.Similarity
		if w.FavoredSource != "" && p.Source == w.FavoredSource {
			s += w.SourceBonus
		}
		s += float64(countIn(p.States, states)) * w.State
		s += float64(countIn(p.Virtues, preferred)) * w.Virtue
		s += float64(countIn(p.Themes, themes)) * w.Theme
		s += float64(p.Weight) * w.WeightScale
		ranked = append(ranked, scored{passage: p, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	perSource := make(map[string]int)
	out := make([]domain.Passage, 0, w.FinalCount)
	for _, r := range ranked {
		if w.MaxPerSource > 0 && perSource[r.passage.Source] >= w.MaxPerSource {
			continue
		}
		perSource[r.passage.Source]++
		r.passage.Similarity = r.score
		out = append(out, r.passage)
		if w.FinalCount > 0 && len(out) >= w.FinalCount {
			break
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func countIn(values []string, set map[string]struct{}) int {
	n := 0
	for _, v := range values {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
