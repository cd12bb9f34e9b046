// Package github reads tags and commit history from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/masmgr/changelog-go/internal/git"
)

// ErrMissingToken is returned when no API token was configured.
var ErrMissingToken = errors.New("github token is required")

// Options configures a Client.
type Options struct {
	Token string
	// APIURL targets a GitHub Enterprise server, e.g.
	// https://ghe.example.com/api/v3/. Empty uses api.github.com.
	APIURL     string
	HTTPClient *http.Client
}

// Client is a TagSource and CommitSource backed by one repository on GitHub.
type Client struct {
	api  *gh.Client
	repo git.Repository
}

var _ git.HistorySource = (*Client)(nil)

// NewClient creates a client for repo.
func NewClient(repo git.Repository, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, ErrMissingToken
	}
	if repo.Owner == "" || repo.Name == "" {
		return nil, fmt.Errorf("github repository %q is incomplete", repo)
	}

	api := gh.NewClient(opts.HTTPClient).WithAuthToken(opts.Token)
	if opts.APIURL != "" {
		var err error
		api, err = api.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, fmt.Errorf("github api url: %w", err)
		}
	}
	return &Client{api: api, repo: repo}, nil
}

// Repository returns the repository the client reads from.
func (c *Client) Repository() git.Repository {
	return c.repo
}

// ListTags returns every tag in listing order, following all pages.
func (c *Client) ListTags(ctx context.Context, pageSize int) ([]git.Tag, error) {
	opts := &gh.ListOptions{PerPage: clampPageSize(pageSize)}

	var tags []git.Tag
	for {
		page, resp, err := c.api.Repositories.ListTags(ctx, c.repo.Owner, c.repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags of %s: %w", c.repo, err)
		}
		for _, t := range page {
			tags = append(tags, git.Tag{Name: t.GetName(), CommitID: t.GetCommit().GetSHA()})
		}
		if resp.NextPage == 0 {
			return tags, nil
		}
		opts.Page = resp.NextPage
	}
}

// CommitPages lists commits reachable from ref, one API page at a time.
// A page is only requested when the consumer asks for it.
func (c *Client) CommitPages(ctx context.Context, ref string, pageSize int) iter.Seq2[[]git.CommitRecord, error] {
	perPage := clampPageSize(pageSize)

	return func(yield func([]git.CommitRecord, error) bool) {
		opts := &gh.CommitsListOptions{
			SHA:         ref,
			ListOptions: gh.ListOptions{PerPage: perPage},
		}
		for {
			commits, resp, err := c.api.Repositories.ListCommits(ctx, c.repo.Owner, c.repo.Name, opts)
			if err != nil {
				yield(nil, fmt.Errorf("list commits of %s at %q: %w", c.repo, ref, err))
				return
			}

			page := make([]git.CommitRecord, 0, len(commits))
			for _, rc := range commits {
				page = append(page, toRecord(rc))
			}
			if len(page) > 0 && !yield(page, nil) {
				return
			}
			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

func toRecord(rc *gh.RepositoryCommit) git.CommitRecord {
	rec := git.CommitRecord{
		ID:      rc.GetSHA(),
		Subject: rc.GetCommit().GetMessage(),
	}
	if date := rc.GetCommit().GetCommitter().GetDate(); !date.IsZero() {
		rec.CommittedAt = date.Time
	}
	return rec
}

func clampPageSize(n int) int {
	if n <= 0 || n > git.DefaultPageSize {
		return git.DefaultPageSize
	}
	return n
}
