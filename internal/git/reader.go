package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ReadOptions configures a local history reader.
type ReadOptions struct {
	RepoPath string
}

// HistoryReader reads tags and commit history from a local Git repository.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &HistoryReader{repo: repo, opts: opts}, nil
}

type datedTag struct {
	Tag
	when time.Time
}

// ListTags returns all tags pointing at commits, newest commit first.
// Annotated tags are peeled to the commit they reference.
func (r *HistoryReader) ListTags(ctx context.Context, _ int) ([]Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer refs.Close()

	var tags []datedTag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		commit, err := r.peelToCommit(ref.Hash())
		if err != nil {
			// Tags of trees or blobs cannot bound a commit range.
			return nil
		}

		tags = append(tags, datedTag{
			Tag:  Tag{Name: ref.Name().Short(), CommitID: commit.Hash.String()},
			when: commit.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if !tags[i].when.Equal(tags[j].when) {
			return tags[i].when.After(tags[j].when)
		}
		return tags[i].Name > tags[j].Name
	})

	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = t.Tag
	}
	return out, nil
}

func (r *HistoryReader) peelToCommit(hash plumbing.Hash) (*object.Commit, error) {
	if tagObj, err := r.repo.TagObject(hash); err == nil {
		return tagObj.Commit()
	}
	return r.repo.CommitObject(hash)
}

// CommitPages walks history from ref in committer-time order.
// An empty ref or "HEAD" starts at the current HEAD.
func (r *HistoryReader) CommitPages(ctx context.Context, ref string, pageSize int) iter.Seq2[[]CommitRecord, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return func(yield func([]CommitRecord, error) bool) {
		from, err := r.resolve(ref)
		if err != nil {
			yield(nil, err)
			return
		}

		cIter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
		if err != nil {
			yield(nil, fmt.Errorf("git log %s: %w", ref, err))
			return
		}
		defer cIter.Close()

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page := make([]CommitRecord, 0, pageSize)
			for len(page) < pageSize {
				c, err := cIter.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					yield(nil, fmt.Errorf("read commit: %w", err))
					return
				}
				page = append(page, CommitRecord{
					ID:          c.Hash.String(),
					CommittedAt: c.Committer.When,
					Subject:     c.Message,
				})
			}

			if len(page) == 0 {
				return
			}
			if !yield(page, nil) {
				return
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

func (r *HistoryReader) resolve(ref string) (plumbing.Hash, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "HEAD") {
		head, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
		}
		return head.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return *hash, nil
}
