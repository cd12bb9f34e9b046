package output

import (
	"os"
	"testing"
	"time"

	"github.com/masmgr/changelog-go/internal/aggregation"
	"github.com/masmgr/changelog-go/internal/git"
)

const testRepoURL = "https://github.com/acme/widgets"

func sampleSections() []aggregation.Section {
	return []aggregation.Section{
		{
			Label: "🐛 Bug Fixes",
			Categories: []aggregation.Category{
				{Name: "", Entries: []aggregation.LogEntry{
					{Title: "null pointer on save", CommitIDs: []string{"aaa11111eeee", "bbb22222eeee"}},
				}},
			},
		},
		{
			Label: "💡 New Features",
			Categories: []aggregation.Category{
				{Name: "api", Entries: []aggregation.LogEntry{
					{Title: "support webhooks [#42](https://github.com/acme/widgets/pull/42)", CommitIDs: []string{"ccc33333ffff"}},
				}},
			},
		},
	}
}

func sampleReport() *ChangelogReport {
	latest := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	sections := sampleSections()
	return &ChangelogReport{
		Repository:  "acme/widgets",
		RepoURL:     testRepoURL,
		Older:       git.Tag{Name: "v1.8.0", CommitID: "old"},
		Newer:       git.Tag{Name: "v2.0.0", CommitID: "new"},
		Compare:     "v1.8.0...v2.0.0",
		Latest:      latest,
		GeneratedAt: latest.Add(time.Hour),
		Sections:    sections,
		Markdown:    NewMarkdownFormatter(testRepoURL).Format(latest, "v1.8.0...v2.0.0", sections),
		Stats:       ReportStats{Scanned: 5, Kept: 3, Dropped: 2, Suppressed: 1, ReachedBoundary: true},
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data)
}
