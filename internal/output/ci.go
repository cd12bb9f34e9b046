package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIChangelogWriter writes changelog reports as NDJSON (one JSON object per line) for CI pipelines.
type CIChangelogWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type       string `json:"type"`
	Repository string `json:"repository"`
	Compare    string `json:"compare"`
	Latest     string `json:"latest"`
	Sections   int    `json:"sections"`
	Entries    int    `json:"entries"`
	Scanned    int    `json:"scanned"`
	Kept       int    `json:"kept"`
	Dropped    int    `json:"dropped"`
}

// CIEntry represents a single changelog entry in CI output.
type CIEntry struct {
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Category string   `json:"category,omitempty"`
	Title    string   `json:"title"`
	Commits  []string `json:"commits"`
}

// Write outputs the changelog report as NDJSON.
func (w *CIChangelogWriter) Write(report *ChangelogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:       "summary",
		Repository: report.Repository,
		Compare:    report.Compare,
		Latest:     report.Latest.Format(reportDateTimeLayout),
		Sections:   len(report.Sections),
		Entries:    report.EntryCount(),
		Scanned:    report.Stats.Scanned,
		Kept:       report.Stats.Kept,
		Dropped:    report.Stats.Dropped,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, s := range report.Sections {
		for _, c := range s.Categories {
			for _, e := range c.Entries {
				entry := CIEntry{
					Type:     "entry",
					Label:    s.Label,
					Category: c.Name,
					Title:    e.Title,
					Commits:  e.CommitIDs,
				}
				if err := writeNDJSONLine(out, entry); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
