package git

import (
	"context"
	"iter"
	"time"
)

// EpochSentinel is reported as the latest commit time when no commit was seen.
var EpochSentinel = time.Date(1999, time.September, 9, 0, 0, 0, 0, time.UTC)

// Collector walks history from a ref and stops at an older boundary commit.
type Collector struct {
	Source   CommitSource
	PageSize int

	// OnCommit, if set, is called for every record before it is yielded.
	OnCommit func(CommitRecord)
}

// NewCollector creates a collector reading from source.
func NewCollector(source CommitSource) *Collector {
	return &Collector{Source: source, PageSize: DefaultPageSize}
}

// Stream is a single bounded traversal of history.
type Stream struct {
	collector *Collector
	ctx       context.Context
	ref       string
	stop      string

	latest          time.Time
	scanned         int
	reachedBoundary bool
}

// Stream prepares a traversal from ref that ends before the commit whose ID
// equals stop. An empty stop walks all reachable history.
func (c *Collector) Stream(ctx context.Context, ref, stop string) *Stream {
	return &Stream{
		collector: c,
		ctx:       ctx,
		ref:       ref,
		stop:      stop,
		latest:    EpochSentinel,
	}
}

// All returns the records of the traversal, newest first.
// The boundary commit and everything older are never yielded, and no page
// is requested after the boundary is found.
func (s *Stream) All() iter.Seq2[CommitRecord, error] {
	return func(yield func(CommitRecord, error) bool) {
		pageSize := s.collector.PageSize
		if pageSize <= 0 || pageSize > DefaultPageSize {
			pageSize = DefaultPageSize
		}

		for page, err := range s.collector.Source.CommitPages(s.ctx, s.ref, pageSize) {
			if err != nil {
				yield(CommitRecord{}, err)
				return
			}
			for _, rec := range page {
				if s.stop != "" && rec.ID == s.stop {
					s.reachedBoundary = true
					return
				}

				if rec.CommittedAt.After(s.latest) {
					s.latest = rec.CommittedAt
				}
				s.scanned++
				if s.collector.OnCommit != nil {
					s.collector.OnCommit(rec)
				}

				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

// Latest returns the newest commit time observed so far, or EpochSentinel.
func (s *Stream) Latest() time.Time {
	return s.latest
}

// Scanned returns the number of records yielded so far.
func (s *Stream) Scanned() int {
	return s.scanned
}

// ReachedBoundary reports whether traversal ended at the stop commit rather
// than at the end of history.
func (s *Stream) ReachedBoundary() bool {
	return s.reachedBoundary
}
