package git

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func makeCommits(n int, newest time.Time) []CommitRecord {
	commits := make([]CommitRecord, n)
	for i := range commits {
		commits[i] = CommitRecord{
			ID:          fmt.Sprintf("%040d", i),
			CommittedAt: newest.Add(-time.Duration(i) * time.Hour),
			Subject:     fmt.Sprintf("fix: change %d", i),
		}
	}
	return commits
}

func collect(t *testing.T, s *Stream) []CommitRecord {
	t.Helper()
	var got []CommitRecord
	for rec, err := range s.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, rec)
	}
	return got
}

func TestCollector_StopsAtBoundary(t *testing.T) {
	newest := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := NewMemorySource(nil, makeCommits(250, newest))

	c := NewCollector(src)
	s := c.Stream(context.Background(), "main", src.Commits[120].ID)
	got := collect(t, s)

	if len(got) != 120 {
		t.Fatalf("collected %d commits, want 120", len(got))
	}
	for i, rec := range got {
		if rec.ID != src.Commits[i].ID {
			t.Fatalf("got[%d] = %s, want %s", i, rec.ID, src.Commits[i].ID)
		}
	}
	if src.PagesRequested != 2 {
		t.Errorf("pages requested = %d, want 2 (no page after the boundary)", src.PagesRequested)
	}
	if !s.ReachedBoundary() {
		t.Error("ReachedBoundary() = false, want true")
	}
	if s.Scanned() != 120 {
		t.Errorf("Scanned() = %d, want 120", s.Scanned())
	}
	if !s.Latest().Equal(newest) {
		t.Errorf("Latest() = %v, want %v", s.Latest(), newest)
	}
}

func TestCollector_BoundaryOnFirstRecord(t *testing.T) {
	src := NewMemorySource(nil, makeCommits(5, time.Now()))

	s := NewCollector(src).Stream(context.Background(), "main", src.Commits[0].ID)
	if got := collect(t, s); len(got) != 0 {
		t.Fatalf("collected %d commits, want 0", len(got))
	}
	if !s.Latest().Equal(EpochSentinel) {
		t.Errorf("Latest() = %v, want sentinel %v", s.Latest(), EpochSentinel)
	}
}

func TestCollector_ExhaustsHistoryWhenBoundaryMissing(t *testing.T) {
	src := NewMemorySource(nil, makeCommits(230, time.Now()))

	s := NewCollector(src).Stream(context.Background(), "main", "not-in-history")
	got := collect(t, s)

	if len(got) != 230 {
		t.Fatalf("collected %d commits, want 230", len(got))
	}
	if s.ReachedBoundary() {
		t.Error("ReachedBoundary() = true, want false")
	}
	if src.PagesRequested != 3 {
		t.Errorf("pages requested = %d, want 3", src.PagesRequested)
	}
}

func TestCollector_EmptyStopWalksEverything(t *testing.T) {
	src := NewMemorySource(nil, makeCommits(3, time.Now()))

	got := collect(t, NewCollector(src).Stream(context.Background(), "v1.0.0", ""))
	if len(got) != 3 {
		t.Fatalf("collected %d commits, want 3", len(got))
	}
	if len(src.Refs) != 1 || src.Refs[0] != "v1.0.0" {
		t.Errorf("refs walked = %v, want [v1.0.0]", src.Refs)
	}
}

func TestCollector_EmptyHistory(t *testing.T) {
	s := NewCollector(NewMemorySource(nil, nil)).Stream(context.Background(), "main", "abc")
	if got := collect(t, s); len(got) != 0 {
		t.Fatalf("collected %d commits, want 0", len(got))
	}
	if !s.Latest().Equal(EpochSentinel) {
		t.Errorf("Latest() = %v, want %v", s.Latest(), EpochSentinel)
	}
}

func TestCollector_LatestIsMaximumNotFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewMemorySource(nil, []CommitRecord{
		{ID: "a", CommittedAt: base},
		{ID: "b", CommittedAt: base.Add(48 * time.Hour)}, // rebased, newer timestamp
		{ID: "c", CommittedAt: base.Add(-time.Hour)},
	})

	s := NewCollector(src).Stream(context.Background(), "main", "")
	collect(t, s)

	if want := base.Add(48 * time.Hour); !s.Latest().Equal(want) {
		t.Errorf("Latest() = %v, want %v", s.Latest(), want)
	}
}

func TestCollector_PageErrorPropagates(t *testing.T) {
	boom := errors.New("rate limited")
	src := NewMemorySource(nil, makeCommits(150, time.Now()))
	src.PageError = boom
	src.FailAtPage = 2

	var n int
	var gotErr error
	for _, err := range NewCollector(src).Stream(context.Background(), "main", "").All() {
		if err != nil {
			gotErr = err
			break
		}
		n++
	}

	if !errors.Is(gotErr, boom) {
		t.Fatalf("error = %v, want %v", gotErr, boom)
	}
	if n != 100 {
		t.Errorf("records before failure = %d, want 100", n)
	}
}

func TestCollector_OnCommitAndPageSize(t *testing.T) {
	src := NewMemorySource(nil, makeCommits(10, time.Now()))

	var seen []string
	c := NewCollector(src)
	c.PageSize = 3
	c.OnCommit = func(rec CommitRecord) { seen = append(seen, rec.ID) }

	collect(t, c.Stream(context.Background(), "main", src.Commits[7].ID))

	if len(seen) != 7 {
		t.Fatalf("OnCommit called %d times, want 7", len(seen))
	}
	if src.PagesRequested != 3 {
		t.Errorf("pages requested = %d, want 3", src.PagesRequested)
	}
}

func TestCollector_ConsumerBreakStopsPaging(t *testing.T) {
	src := NewMemorySource(nil, makeCommits(500, time.Now()))

	for range NewCollector(src).Stream(context.Background(), "main", "").All() {
		break
	}
	if src.PagesRequested != 1 {
		t.Errorf("pages requested = %d, want 1", src.PagesRequested)
	}
}
