package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// RangeCmd returns the range command.
func RangeCmd() *cli.Command {
	return &cli.Command{
		Name:   "range",
		Usage:  "Show the version tags bounding the newest release",
		Flags:  commonFlags(),
		Before: applyColorFlag,
		Action: rangeAction,
	}
}

func rangeAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	req := ctx.Request()
	rng, err := ctx.NewComposer(false).ResolveRange(c.Context, req)
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "older:   %s %s\n", rng.Older.Name, rng.Older.CommitID)
	fmt.Fprintf(out, "newer:   %s %s\n", rng.Newer.Name, rng.Newer.CommitID)
	fmt.Fprintf(out, "compare: %s/compare/%s\n", ctx.Repository.URL(req.ServerURL), rng.Compare())
	if rng.SinglePoint() {
		logSummary("Only one version tag found; the whole history up to it is in range.")
	}
	return nil
}
