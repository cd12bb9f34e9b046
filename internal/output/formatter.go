package output

import (
	"time"

	"github.com/masmgr/changelog-go/internal/aggregation"
	"github.com/masmgr/changelog-go/internal/git"
)

// Compile-time interface conformance checks.
var (
	_ ChangelogWriter = (*MarkdownChangelogWriter)(nil)
	_ ChangelogWriter = (*JSONChangelogWriter)(nil)
	_ ChangelogWriter = (*CSVChangelogWriter)(nil)
	_ ChangelogWriter = (*CIChangelogWriter)(nil)
	_ ChangelogWriter = (*ConsoleChangelogWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// Formats lists every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatMarkdown, FormatJSON, FormatCSV, FormatCI, FormatConsole}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, bool) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
}

// ReportStats counts what the composition looked at.
type ReportStats struct {
	Scanned         int
	Kept            int
	Dropped         int
	Suppressed      int
	ReachedBoundary bool
}

// ChangelogReport is the result of one composition.
type ChangelogReport struct {
	Repository  string // owner/name
	RepoURL     string
	Older       git.Tag
	Newer       git.Tag
	Compare     string
	Ref         string
	Latest      time.Time
	Location    *time.Location
	GeneratedAt time.Time
	Sections    []aggregation.Section
	Markdown    string
	Stats       ReportStats
}

// HeaderTime renders Latest the way the markdown header shows it. A nil
// Location means DefaultLocation.
func (r *ChangelogReport) HeaderTime() string {
	loc := r.Location
	if loc == nil {
		loc = DefaultLocation
	}
	return r.Latest.In(loc).Format(HeaderLayout)
}

// EntryCount returns the number of rendered entries.
func (r *ChangelogReport) EntryCount() int {
	n := 0
	for _, s := range r.Sections {
		n += s.EntryCount()
	}
	return n
}

// ChangelogWriter writes changelog reports.
type ChangelogWriter interface {
	Write(report *ChangelogReport, options OutputOptions) error
}

// NewChangelogWriter creates a report writer for the specified format.
// Unknown formats fall back to markdown.
func NewChangelogWriter(format OutputFormat) ChangelogWriter {
	switch format {
	case FormatJSON:
		return &JSONChangelogWriter{}
	case FormatCSV:
		return &CSVChangelogWriter{}
	case FormatCI:
		return &CIChangelogWriter{}
	case FormatConsole:
		return &ConsoleChangelogWriter{}
	default:
		return &MarkdownChangelogWriter{}
	}
}
