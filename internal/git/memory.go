package git

import (
	"context"
	"iter"
)

// MemorySource is an in-memory TagSource and CommitSource.
// It allows tests to provide predefined history without a real repository.
type MemorySource struct {
	Tags    []Tag
	Commits []CommitRecord // newest first

	// TagsError and PageError simulate transport failures.
	TagsError error
	PageError error
	// FailAtPage is the 1-based page at which PageError is returned (0 = first).
	FailAtPage int

	// PagesRequested counts page fetches across all CommitPages calls.
	PagesRequested int
	// Refs records the ref passed to each CommitPages call.
	Refs []string
}

// NewMemorySource creates a MemorySource with the given data.
func NewMemorySource(tags []Tag, commits []CommitRecord) *MemorySource {
	return &MemorySource{Tags: tags, Commits: commits}
}

// ListTags returns the predefined tags or error.
func (m *MemorySource) ListTags(_ context.Context, _ int) ([]Tag, error) {
	if m.TagsError != nil {
		return nil, m.TagsError
	}
	out := make([]Tag, len(m.Tags))
	copy(out, m.Tags)
	return out, nil
}

// CommitPages yields the predefined commits in pages of pageSize.
func (m *MemorySource) CommitPages(ctx context.Context, ref string, pageSize int) iter.Seq2[[]CommitRecord, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	m.Refs = append(m.Refs, ref)

	return func(yield func([]CommitRecord, error) bool) {
		for page, start := 1, 0; ; page, start = page+1, start+pageSize {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			m.PagesRequested++

			if m.PageError != nil && (m.FailAtPage == 0 || m.FailAtPage == page) {
				yield(nil, m.PageError)
				return
			}

			if start >= len(m.Commits) {
				return
			}
			end := min(start+pageSize, len(m.Commits))
			if !yield(m.Commits[start:end], nil) {
				return
			}
			if end == len(m.Commits) {
				return
			}
		}
	}
}
