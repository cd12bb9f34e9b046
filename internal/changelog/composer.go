// Package changelog composes a release changelog from tags and history.
package changelog

import (
	"context"
	"fmt"
	"time"

	"github.com/masmgr/changelog-go/internal/aggregation"
	"github.com/masmgr/changelog-go/internal/commitmsg"
	"github.com/masmgr/changelog-go/internal/git"
	"github.com/masmgr/changelog-go/internal/output"
	"github.com/masmgr/changelog-go/internal/semtag"
)

// DefaultServerURL is the web host links point at.
const DefaultServerURL = "https://github.com"

// Request describes one composition.
type Request struct {
	Repository git.Repository
	ServerURL  string

	// Ref is where history is walked from. Empty walks from the newer tag.
	Ref string
	// Exclude lists type keys or labels whose sections are omitted.
	Exclude []string

	PageSize   int
	TagPattern string
	Location   *time.Location
}

// Composer wires the tag resolver, collector, aggregator and formatter.
type Composer struct {
	Tags     git.TagSource
	Commits  git.CommitSource
	Registry *commitmsg.Registry

	// OnCommit, if set, is called for every commit in range.
	OnCommit func(git.CommitRecord)
	// OnRange, if set, is called once the boundary tags are known.
	OnRange func(semtag.Range)

	now func() time.Time
}

// NewComposer creates a composer reading tags and commits from source.
func NewComposer(source git.HistorySource) *Composer {
	return &Composer{Tags: source, Commits: source}
}

// ResolveRange lists tags and picks the release boundaries.
func (c *Composer) ResolveRange(ctx context.Context, req Request) (semtag.Range, error) {
	tags, err := c.Tags.ListTags(ctx, req.PageSize)
	if err != nil {
		return semtag.Range{}, fmt.Errorf("failed to list tags: %w", err)
	}

	rng, err := semtag.Resolver{Pattern: req.TagPattern}.Resolve(tags)
	if err != nil {
		return semtag.Range{}, err
	}
	return rng, nil
}

// Compose builds the changelog for the newest release of req.Repository.
// It returns either a complete report or an error.
func (c *Composer) Compose(ctx context.Context, req Request) (*output.ChangelogReport, error) {
	if req.Repository.IsZero() {
		return nil, fmt.Errorf("repository is required")
	}

	rng, err := c.ResolveRange(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.OnRange != nil {
		c.OnRange(rng)
	}

	registry := c.Registry
	if registry == nil {
		registry = commitmsg.DefaultRegistry
	}

	serverURL := req.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	repoURL := req.Repository.URL(serverURL)

	ref := req.Ref
	if ref == "" {
		ref = rng.Newer.CommitID
	}
	stop := rng.Older.CommitID
	if rng.SinglePoint() {
		stop = ""
	}

	collector := git.NewCollector(c.Commits)
	if req.PageSize > 0 {
		collector.PageSize = req.PageSize
	}
	collector.OnCommit = c.OnCommit

	agg := aggregation.NewAggregator(commitmsg.NewParser(registry, repoURL))
	stream := collector.Stream(ctx, ref, stop)
	for rec, err := range stream.All() {
		if err != nil {
			return nil, fmt.Errorf("failed to read history from %s: %w", ref, err)
		}
		agg.Add(rec)
	}

	sections := agg.Result().Sections(registry.Exclusions(req.Exclude))

	formatter := output.NewMarkdownFormatter(repoURL)
	if req.Location != nil {
		formatter.Location = req.Location
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	return &output.ChangelogReport{
		Repository:  req.Repository.String(),
		RepoURL:     repoURL,
		Older:       rng.Older,
		Newer:       rng.Newer,
		Compare:     rng.Compare(),
		Ref:         ref,
		Latest:      stream.Latest(),
		Location:    formatter.Location,
		GeneratedAt: now(),
		Sections:    sections,
		Markdown:    formatter.Format(stream.Latest(), rng.Compare(), sections),
		Stats: output.ReportStats{
			Scanned:         stream.Scanned(),
			Kept:            agg.Kept(),
			Dropped:         agg.Dropped(),
			Suppressed:      agg.Suppressed(),
			ReachedBoundary: stream.ReachedBoundary(),
		},
	}, nil
}
