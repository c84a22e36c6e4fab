package ports

import "context"

// Snippet is one retrieved fragment of a policy document.
type Snippet struct {
	DocID string `json:"doc_id"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
	Score float64
}

// PolicyIndex is the document retrieval collaborator consulted by the
// lookup_policy action. Results are ordered best-first; the engine
// concatenates them into a single observation.
type PolicyIndex interface {
	Search(ctx context.Context, query string) ([]Snippet, error)
}
