package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/masmgr/changelog-go/internal/git"
)

// ConsoleChangelogWriter writes a colorized preview of the changelog.
type ConsoleChangelogWriter struct{}

// Write outputs the changelog report to the console.
func (w *ConsoleChangelogWriter) Write(report *ChangelogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	heading := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	heading.Fprintf(out, "Changelog %s\n", report.Compare)
	fmt.Fprintf(out, "Repository: %s\n", report.Repository)
	fmt.Fprintf(out, "Latest commit: %s\n", report.HeaderTime())
	fmt.Fprintf(out, "Commits scanned: %d (kept %d, dropped %d)\n\n",
		report.Stats.Scanned, report.Stats.Kept, report.Stats.Dropped)

	if len(report.Sections) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No changelog entries in range.")
		return nil
	}

	for _, s := range report.Sections {
		label.Fprintln(out, s.Label)
		for _, c := range s.Categories {
			indent := "  "
			if c.Name != "" {
				fmt.Fprintf(out, "  %s:\n", c.Name)
				indent = "    "
			}
			for _, e := range c.Entries {
				fmt.Fprintf(out, "%s- %s %s\n", indent, e.Title, dim.Sprint(shortIDs(e.CommitIDs)))
			}
		}
		fmt.Fprintln(out)
	}

	return nil
}

func shortIDs(ids []string) string {
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = git.ShortID(id)
	}
	return "(" + strings.Join(short, ", ") + ")"
}
