package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/internal/semtag"
)

// GenerateCmd returns the generate command.
func GenerateCmd() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Compose the changelog of the newest release",
		Flags:   commonFlags(),
		Before:  applyColorFlag,
		Action:  generateAction,
	}
}

func generateAction(c *cli.Context) error {
	start := time.Now()

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	logProgress("Composing changelog for %s (%s)", ctx.Repository, ctx.Config.Source)

	verbose := c.Bool("verbose")
	composer := ctx.NewComposer(verbose)

	var progress *pageProgress
	if !verbose {
		progress = newPageProgress(os.Stderr)
	}
	if progress != nil {
		composer.OnCommit = progress.Commit
	}
	composer.OnRange = func(r semtag.Range) {
		logProgress("%s", describeRange(r))
		progress.Start()
	}

	report, err := composer.Compose(c.Context, ctx.Request())
	progress.Stop()
	if err != nil {
		return err
	}

	logSummary("Found %d entries in %d sections from %d commits (%d dropped)",
		report.EntryCount(), len(report.Sections), report.Stats.Scanned, report.Stats.Dropped)

	if err := writeChangelogReport(report, ctx.OutputOptions()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Completed in %s\n", time.Since(start))
	return nil
}

// describeRange renders boundaries as "older(sha) < ... <= newer(sha)".
func describeRange(r semtag.Range) string {
	return fmt.Sprintf("%s(%s) < ... <= %s(%s)", r.Older.Name, r.Older.CommitID, r.Newer.Name, r.Newer.CommitID)
}
