package git

import (
	"context"
	"iter"
)

// TagSource lists the tags of a repository, most recent first where the
// backend can tell.
type TagSource interface {
	ListTags(ctx context.Context, pageSize int) ([]Tag, error)
}

// CommitSource pages through history reachable from ref, newest first.
// Pages are fetched lazily: a consumer that stops ranging causes no further
// page requests. A fetch failure is yielded once and ends the sequence.
type CommitSource interface {
	CommitPages(ctx context.Context, ref string, pageSize int) iter.Seq2[[]CommitRecord, error]
}

// HistorySource provides both tags and history of one repository.
type HistorySource interface {
	TagSource
	CommitSource
}

// Compile-time interface conformance checks.
var (
	_ HistorySource = (*HistoryReader)(nil)
	_ HistorySource = (*CLIReader)(nil)
	_ HistorySource = (*MemorySource)(nil)
)
