package domain

// KeyPrefix prefixes all Redis keys owned by this service.
const KeyPrefix = "align:"

// Passage is a retrievable unit of guidance text. Records are written by the
// offline ingestion job; this service only reads them.
type Passage struct {
	ID        string
	Source    string
	Reference string
	// Paraphrase is what the generator sees. Raw source text never enters
	// a prompt, so the model cannot quote identifiable material.
	Paraphrase string
	Practice   string
	States     []string
	Virtues    []string
	Themes     []string
	Weight     int
	// Similarity holds the store's native score after retrieval, then the
	// composite score after reranking. It is never persisted.
	Similarity float64
}
