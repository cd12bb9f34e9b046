package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/changelog-go/internal/aggregation"
	"github.com/masmgr/changelog-go/internal/git"
)

// HeaderLayout renders the latest commit time, e.g. "2024-05-01 PM09:00".
const HeaderLayout = "2006-01-02 PM03:04"

// DefaultLocation is the zone header times are shown in.
var DefaultLocation = time.FixedZone("UTC+09:00", 9*60*60)

// MarkdownFormatter renders aggregated sections as the changelog document.
type MarkdownFormatter struct {
	RepoURL  string
	Location *time.Location
}

// NewMarkdownFormatter creates a formatter linking into repoURL.
func NewMarkdownFormatter(repoURL string) *MarkdownFormatter {
	return &MarkdownFormatter{RepoURL: strings.TrimRight(repoURL, "/"), Location: DefaultLocation}
}

// Format renders the document. sections must already be sorted and filtered.
func (f *MarkdownFormatter) Format(latest time.Time, compare string, sections []aggregation.Section) string {
	loc := f.Location
	if loc == nil {
		loc = DefaultLocation
	}

	lines := []string{
		"## " + latest.In(loc).Format(HeaderLayout),
		fmt.Sprintf("**[Diff Full Change](%s/compare/%s)**", f.RepoURL, compare),
	}

	for _, s := range sections {
		lines = append(lines, "### "+s.Label, "")
		for _, c := range s.Categories {
			indent := ""
			if c.Name != "" {
				lines = append(lines, "* **"+c.Name+":**")
				indent = "  "
			}
			for _, e := range c.Entries {
				lines = append(lines, fmt.Sprintf("%s* %s (%s)", indent, e.Title, f.commitLinks(e.CommitIDs)))
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (f *MarkdownFormatter) commitLinks(ids []string) string {
	links := make([]string, len(ids))
	for i, id := range ids {
		links[i] = fmt.Sprintf("[%s](%s/commit/%s)", git.ShortID(id), f.RepoURL, id)
	}
	return strings.Join(links, ",")
}

// MarkdownChangelogWriter writes the rendered document unchanged.
type MarkdownChangelogWriter struct{}

// Write outputs the changelog markdown.
func (w *MarkdownChangelogWriter) Write(report *ChangelogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	text := report.Markdown
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = fmt.Fprint(out, text)
	return err
}
