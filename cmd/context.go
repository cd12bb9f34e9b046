package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/git"
	"github.com/masmgr/changelog-go/internal/github"
	"github.com/masmgr/changelog-go/internal/output"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config     *config.Config
	Repository git.Repository
	Source     git.HistorySource
}

// NewCommandContext loads configuration, resolves the repository and opens
// the configured history source.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	repo, err := resolveRepository(cfg)
	if err != nil {
		return nil, err
	}

	source, err := openSource(cfg, repo)
	if err != nil {
		return nil, err
	}

	return &CommandContext{Config: cfg, Repository: repo, Source: source}, nil
}

func resolveRepository(cfg *config.Config) (git.Repository, error) {
	if cfg.Repository != "" {
		repo, ok := git.ParseRepository(cfg.Repository)
		if !ok {
			return git.Repository{}, fmt.Errorf("%w: repository %q is not owner/name", config.ErrInvalidConfig, cfg.Repository)
		}
		return repo, nil
	}

	repo, err := git.RemoteRepository(cfg.RepoPath, "")
	if err != nil {
		return git.Repository{}, fmt.Errorf("%w: repository not set and not derivable from %s: %v",
			config.ErrInvalidConfig, cfg.RepoPath, err)
	}
	return repo, nil
}

func openSource(cfg *config.Config, repo git.Repository) (git.HistorySource, error) {
	switch cfg.Source {
	case config.SourceGoGit:
		reader, err := git.NewHistoryReader(git.ReadOptions{RepoPath: cfg.RepoPath})
		if err != nil {
			return nil, fmt.Errorf("failed to open repository: %w", err)
		}
		return reader, nil
	case config.SourceGitCLI:
		return git.NewCLIReader(git.ReadOptions{RepoPath: cfg.RepoPath}), nil
	default:
		client, err := github.NewClient(repo, github.Options{
			Token:  cfg.GitHub.Token,
			APIURL: cfg.GitHub.APIURL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Request builds the composition request from configuration.
func (ctx *CommandContext) Request() changelog.Request {
	return changelog.Request{
		Repository: ctx.Repository,
		ServerURL:  ctx.Config.GitHub.ServerURL,
		Ref:        ctx.Config.Ref,
		Exclude:    ctx.Config.Exclude,
		PageSize:   ctx.Config.PageSize,
		TagPattern: ctx.Config.TagPattern,
		Location:   ctx.Config.Header.Location(),
	}
}

// OutputOptions creates OutputOptions from configuration.
func (ctx *CommandContext) OutputOptions() output.OutputOptions {
	format, ok := output.ParseFormat(ctx.Config.Output.Format)
	if !ok {
		format = output.FormatMarkdown
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: ctx.Config.Output.Path,
	}
}

// NewComposer creates a composer over the context's source. With verbose
// set every commit looked at is traced.
func (ctx *CommandContext) NewComposer(verbose bool) *changelog.Composer {
	composer := changelog.NewComposer(ctx.Source)
	if verbose {
		composer.OnCommit = func(rec git.CommitRecord) {
			logTrace("looking at %s @ %s", rec.ID, rec.CommittedAt.Format(time.RFC3339))
		}
	}
	return composer
}
