package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "changelog",
		Usage:   "Compose release notes from structured commit messages between version tags",
		Version: "1.0.0",
		Commands: []*cli.Command{
			GenerateCmd(),
			RangeCmd(),
			ActionCmd(),
		},
		Flags:  commonFlags(),
		Before: applyColorFlag,
		Action: generateAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "History source (github, gogit, gitcli)",
			Value: config.SourceGitHub,
		},
		&cli.StringFlag{
			Name:    "repo-path",
			Aliases: []string{"r"},
			Usage:   "Path to a local clone (gogit and gitcli sources, remote detection)",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "repository",
			Usage: "Repository as owner/name (default: derived from the origin remote)",
		},
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Branch, tag or commit to walk history from (default: the newest version tag)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Commit types or section labels to leave out (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "tag-pattern",
			Usage: "Glob a tag must match to bound the release, e.g. 'v1.*'",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Records requested per page (1-100)",
			Value: 100,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (markdown, json, csv, ci, console)",
			Value:   "markdown",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "GitHub API token",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "GitHub Enterprise API URL",
		},
		&cli.StringFlag{
			Name:  "server-url",
			Usage: "Web URL links point at",
			Value: "https://github.com",
		},
		&cli.IntFlag{
			Name:  "utc-offset",
			Usage: "Hours from UTC the header time is shown in",
			Value: 9,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Trace every commit looked at",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"source":      "source",
	"repo-path":   "repo_path",
	"repository":  "repository",
	"ref":         "ref",
	"exclude":     "exclude",
	"tag-pattern": "tag_pattern",
	"page-size":   "page_size",
	"format":      "output.format",
	"output":      "output.path",
	"token":       "github.token",
	"api-url":     "github.api_url",
	"server-url":  "github.server_url",
	"utc-offset":  "header.utc_offset_hours",
}

// flagOverrides collects the flags given explicitly on the command line.
func flagOverrides(c *cli.Context) map[string]interface{} {
	overrides := make(map[string]interface{})
	for flag, key := range flagKeys {
		if !c.IsSet(flag) {
			continue
		}
		switch flag {
		case "exclude":
			overrides[key] = c.StringSlice(flag)
		case "page-size", "utc-offset":
			overrides[key] = c.Int(flag)
		default:
			overrides[key] = c.String(flag)
		}
	}
	return overrides
}

// loadConfig loads configuration from file, environment and flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:      c.String("config"),
		Overrides: flagOverrides(c),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func applyColorFlag(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}
	return nil
}
