package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONChangelogWriter writes changelog reports as JSON.
type JSONChangelogWriter struct{}

// JSONChangelogReport is the JSON output structure for a changelog.
type JSONChangelogReport struct {
	Repository  string        `json:"repository"`
	Older       JSONTag       `json:"older"`
	Newer       JSONTag       `json:"newer"`
	Compare     string        `json:"compare"`
	Ref         string        `json:"ref,omitempty"`
	Latest      string        `json:"latest"`
	GeneratedAt string        `json:"generatedAt"`
	Stats       JSONStats     `json:"stats"`
	Sections    []JSONSection `json:"sections"`
	Markdown    string        `json:"markdown"`
}

// JSONTag is a boundary tag in JSON format.
type JSONTag struct {
	Name   string `json:"name"`
	Commit string `json:"commit"`
}

// JSONStats holds composition counters in JSON format.
type JSONStats struct {
	Scanned         int  `json:"scanned"`
	Kept            int  `json:"kept"`
	Dropped         int  `json:"dropped"`
	Suppressed      int  `json:"suppressed"`
	Entries         int  `json:"entries"`
	ReachedBoundary bool `json:"reachedBoundary"`
}

// JSONSection is one label section in JSON format.
type JSONSection struct {
	Label      string         `json:"label"`
	Categories []JSONCategory `json:"categories"`
}

// JSONCategory is one category in JSON format.
type JSONCategory struct {
	Name    string      `json:"name"`
	Entries []JSONEntry `json:"entries"`
}

// JSONEntry is one changelog line in JSON format.
type JSONEntry struct {
	Title   string   `json:"title"`
	Commits []string `json:"commits"`
}

// Write outputs the changelog report as JSON.
func (w *JSONChangelogWriter) Write(report *ChangelogReport, options OutputOptions) error {
	sections := make([]JSONSection, len(report.Sections))
	for i, s := range report.Sections {
		js := JSONSection{Label: s.Label, Categories: make([]JSONCategory, len(s.Categories))}
		for j, c := range s.Categories {
			jc := JSONCategory{Name: c.Name, Entries: make([]JSONEntry, len(c.Entries))}
			for k, e := range c.Entries {
				jc.Entries[k] = JSONEntry{Title: e.Title, Commits: e.CommitIDs}
			}
			js.Categories[j] = jc
		}
		sections[i] = js
	}

	out := JSONChangelogReport{
		Repository:  report.Repository,
		Older:       JSONTag{Name: report.Older.Name, Commit: report.Older.CommitID},
		Newer:       JSONTag{Name: report.Newer.Name, Commit: report.Newer.CommitID},
		Compare:     report.Compare,
		Ref:         report.Ref,
		Latest:      report.Latest.Format(reportDateTimeLayout),
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Stats: JSONStats{
			Scanned:         report.Stats.Scanned,
			Kept:            report.Stats.Kept,
			Dropped:         report.Stats.Dropped,
			Suppressed:      report.Stats.Suppressed,
			Entries:         report.EntryCount(),
			ReachedBoundary: report.Stats.ReachedBoundary,
		},
		Sections: sections,
		Markdown: report.Markdown,
	}

	return writeJSON(out, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
