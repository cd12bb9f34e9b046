package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo is a throwaway on-disk repository built with go-git.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func signature(when time.Time) *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@example.com", When: when}
}

// commit writes a new file revision and commits it with msg.
// Every call changes the tree, so repeated messages still commit.
func (r *testRepo) commit(msg string, when time.Time) string {
	r.t.Helper()
	r.n++

	full := filepath.Join(r.dir, "file.txt")
	if err := os.WriteFile(full, []byte(fmt.Sprintf("%d %s\n", r.n, msg)), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add("file.txt"); err != nil {
		r.t.Fatalf("Add: %v", err)
	}

	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{
		Author:    signature(when),
		Committer: signature(when),
	})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func (r *testRepo) lightweightTag(name, commitID string) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, plumbing.NewHash(commitID), nil); err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
}

func (r *testRepo) annotatedTag(name, commitID string, when time.Time) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(commitID), &gogit.CreateTagOptions{
		Tagger:  signature(when),
		Message: "release " + name,
	})
	if err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
}
