package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/internal/action"
	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/github"
)

// newRunner is replaced in tests.
var newRunner = action.New

// ActionCmd returns the GitHub Action entry point.
func ActionCmd() *cli.Command {
	return &cli.Command{
		Name:   "action",
		Usage:  "Run as a GitHub Action step (reads INPUT_* and GITHUB_* variables)",
		Action: actionAction,
	}
}

func actionAction(c *cli.Context) error {
	runner := newRunner()
	if err := runAction(c, runner); err != nil {
		runner.Failed(err)
		return cli.Exit("", 1)
	}
	return nil
}

func runAction(c *cli.Context, runner *action.Runner) error {
	token, err := runner.Input("token", true)
	if err != nil {
		return err
	}
	exclude, err := runner.Input("exclude", false)
	if err != nil {
		return err
	}

	run, err := runner.Context()
	if err != nil {
		return err
	}

	opts := github.Options{Token: token}
	if run.Enterprise() {
		opts.APIURL = run.APIURL
	}
	client, err := github.NewClient(run.Repository, opts)
	if err != nil {
		return err
	}

	report, err := changelog.NewComposer(client).Compose(c.Context, changelog.Request{
		Repository: run.Repository,
		ServerURL:  run.ServerURL,
		Ref:        run.SHA,
		Exclude:    action.SplitList(exclude),
	})
	if err != nil {
		return err
	}

	runner.Info(report.Markdown)
	return runner.SetOutput("changelog", report.Markdown)
}
