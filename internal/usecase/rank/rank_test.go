package rank

import (
	"testing"

	"github.com/pavneets956-design/Align/internal/domain"
)

func passage(id, source string, similarity float64, states []string) domain.Passage {
	return domain.Passage{ID: id, Source: source, Similarity: similarity, States: states}
}

func ids(passages []domain.Passage) []string {
	out := make([]string, 0, len(passages))
	for _, p := range passages {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a []domain.Passage, want []string) bool {
	if len(a) != len(want) {
		return false
	}
	for i, p := range a {
		if p.ID != want[i] {
			return false
		}
	}
	return true
}

func TestRank_SourceCapSkipsToNextSource(t *testing.T) {
	candidates := []domain.Passage{
		passage("1", "A", 0.70, []string{"anxiety"}),
		passage("2", "A", 0.68, nil),
		passage("3", "A", 0.65, []string{"anxiety"}),
		passage("4", "B", 0.50, nil),
	}
	w := Weights{State: 0.15, MaxPerSource: 2, FinalCount: 5}

	got := Rank(candidates, domain.Signals{States: []string{"anxiety"}}, w)

	// Scores: 0.85, 0.68, 0.80, 0.50. Source A is capped at two, so the
	// third A passage is skipped in favor of the B passage.
	if !equalIDs(got, []string{"1", "3", "4"}) {
		t.Fatalf("got %v, want [1 3 4]", ids(got))
	}
}

func TestRank_FavoredSourceBonus(t *testing.T) {
	candidates := []domain.Passage{
		passage("bhagat", "Bhagat Bani", 0.60, nil),
		passage("gurbani", "Gurbani", 0.50, nil),
	}
	w := DefaultWeights()

	got := Rank(candidates, domain.Signals{}, w)

	// 0.50 + 0.20 bonus beats 0.60.
	if !equalIDs(got, []string{"gurbani", "bhagat"}) {
		t.Fatalf("got %v, want [gurbani bhagat]", ids(got))
	}
}

func TestRank_SignalOverlapScoring(t *testing.T) {
	a := domain.Passage{
		ID: "a", Source: "A", Similarity: 0.50,
		States:  []string{"grief", "loneliness"},
		Virtues: []string{"presence"},
		Themes:  []string{"acceptance"},
		Weight:  2,
	}
	b := domain.Passage{ID: "b", Source: "B", Similarity: 0.70}
	w := DefaultWeights()

	got := Rank([]domain.Passage{b, a}, domain.Signals{
		States: []string{"grief", "loneliness"},
		Themes: []string{"acceptance"},
	}, w)

	// a: 0.50 + 2*0.15 + 0.10 + 0.05 + 2*0.02 = 0.99 beats b at 0.70.
	if !equalIDs(got, []string{"a", "b"}) {
		t.Fatalf("got %v, want [a b]", ids(got))
	}
}

func TestRank_NonPreferredVirtueIgnored(t *testing.T) {
	a := domain.Passage{ID: "a", Source: "A", Similarity: 0.50, Virtues: []string{"discipline"}}
	b := domain.Passage{ID: "b", Source: "B", Similarity: 0.55}

	got := Rank([]domain.Passage{a, b}, domain.Signals{}, DefaultWeights())

	// discipline is not a preferred virtue, so a gets no bonus.
	if !equalIDs(got, []string{"b", "a"}) {
		t.Fatalf("got %v, want [b a]", ids(got))
	}
}

func TestRank_CompositeScoreReplacesSimilarity(t *testing.T) {
	candidates := []domain.Passage{
		passage("1", "A", 0.70, []string{"anxiety"}),
		passage("2", "B", 0.50, nil),
	}
	w := Weights{State: 0.15, MaxPerSource: 2, FinalCount: 5}

	got := Rank(candidates, domain.Signals{States: []string{"anxiety"}}, w)

	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Similarity != 0.85 {
		t.Errorf("expected composite 0.85, got %v", got[0].Similarity)
	}
	if got[1].Similarity != 0.50 {
		t.Errorf("expected composite 0.50, got %v", got[1].Similarity)
	}
	// Input candidates keep their raw similarity.
	if candidates[0].Similarity != 0.70 {
		t.Errorf("input mutated: %v", candidates[0].Similarity)
	}
}

func TestRank_StableOrderOnTies(t *testing.T) {
	candidates := []domain.Passage{
		passage("first", "A", 0.60, nil),
		passage("second", "B", 0.60, nil),
		passage("third", "C", 0.60, nil),
	}

	got := Rank(candidates, domain.Signals{}, Weights{FinalCount: 3})

	if !equalIDs(got, []string{"first", "second", "third"}) {
		t.Fatalf("tie order not preserved: %v", ids(got))
	}
}

func TestRank_TruncatesToFinalCount(t *testing.T) {
	var candidates []domain.Passage
	for i := 0; i < 12; i++ {
		candidates = append(candidates, passage(string(rune('a'+i)), string(rune('A'+i)), 0.5, nil))
	}

	got := Rank(candidates, domain.Signals{}, DefaultWeights())

	if len(got) != 5 {
		t.Fatalf("expected 5 passages, got %d", len(got))
	}
}

func TestRank_EmptyInput(t *testing.T) {
	if got := Rank(nil, domain.Signals{}, DefaultWeights()); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestRank_ZeroCapUnlimited(t *testing.T) {
	candidates := []domain.Passage{
		passage("1", "A", 0.9, nil),
		passage("2", "A", 0.8, nil),
		passage("3", "A", 0.7, nil),
	}

	got := Rank(candidates, domain.Signals{}, Weights{FinalCount: 3})

	if len(got) != 3 {
		t.Fatalf("expected all 3 from same source, got %d", len(got))
	}
}
