// Package policyfs implements the policy retrieval collaborator over a
// directory of markdown documents managed by Loam. Each document
// carries a frontmatter title and optional tags; retrieval is keyword
// overlap ranking, best-first.
package policyfs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/concierge/pkg/ports"
)

// PolicyMetadata is the frontmatter header of one policy document.
type PolicyMetadata struct {
	ID    string   `json:"id" mapstructure:"id"`
	Title string   `json:"title" mapstructure:"title"`
	Tags  []string `json:"tags" mapstructure:"tags"`
}

// Index retrieves policy snippets from a Loam repository.
type Index struct {
	repo  *loam.TypedRepository[PolicyMetadata]
	limit int
}

// Option configures the Index.
type Option func(*Index)

// WithLimit caps the number of snippets returned per search (default 2).
func WithLimit(n int) Option {
	return func(i *Index) { i.limit = n }
}

// New opens the policy corpus at dir. The repository is opened
// read-only: the engine consults policies, it never edits them.
func New(dir string, opts ...Option) (*Index, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	idx := &Index{
		repo:  loam.NewTypedRepository[PolicyMetadata](repo),
		limit: 2,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Search ranks every document against the query by token overlap.
// Title and tag matches weigh heavier than body matches.
func (i *Index) Search(ctx context.Context, query string) ([]ports.Snippet, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	docs, err := i.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var snippets []ports.Snippet
	for _, doc := range docs {
		title := doc.Data.Title
		if title == "" {
			title = doc.ID
		}

		head := tokenize(title + " " + strings.Join(doc.Data.Tags, " "))
		body := tokenize(doc.Content)

		var score float64
		for term := range terms {
			if head[term] {
				score += 2
			}
			if body[term] {
				score++
			}
		}
		if score == 0 {
			continue
		}

		snippets = append(snippets, ports.Snippet{
			DocID: doc.ID,
			Title: title,
			Text:  strings.TrimSpace(doc.Content),
			Score: score,
		})
	}

	sort.SliceStable(snippets, func(a, b int) bool {
		return snippets[a].Score > snippets[b].Score
	})
	if i.limit > 0 && len(snippets) > i.limit {
		snippets = snippets[:i.limit]
	}
	return snippets, nil
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if len(tok) < 3 {
			// Skip articles and glue words.
			continue
		}
		out[tok] = true
	}
	return out
}
