package domain

import "strings"

// Closed tag vocabularies. Values outside these lists are dropped at every
// boundary: ingestion writes them, this service filters them on read and on
// classifier output.
var (
	States = []string{
		"anxiety", "loneliness", "anger", "confusion",
		"grief", "overthinking", "self-doubt", "seeking",
	}
	Virtues = []string{
		"fearlessness", "love", "presence", "surrender", "trust",
		"compassion", "discipline", "clarity", "joy",
	}
	// PreferredVirtues is the fixed ranking preference, a subset of Virtues.
	PreferredVirtues = []string{
		"fearlessness", "presence", "love", "trust", "compassion",
	}
	Themes = []string{
		"non-attachment", "letting-go", "stillness", "service",
		"acceptance", "courage", "gratitude",
	}
)

// Signals are the classifier's output: detected states and themes used to
// bias ranking. Both sets are always subsets of the closed vocabularies.
type Signals struct {
	States []string
	Themes []string
}

// FilterVocab lower-cases and trims values, keeping only vocabulary members.
// Input order is preserved; duplicates are collapsed.
func FilterVocab(vocab, values []string) []string {
	allowed := make(map[string]bool, len(vocab))
	for _, v := range vocab {
		allowed[v] = true
	}

	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if allowed[v] && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
