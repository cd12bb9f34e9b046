package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
)

// CSVChangelogWriter writes one row per changelog entry.
type CSVChangelogWriter struct{}

// Write outputs the changelog report as CSV.
func (w *CSVChangelogWriter) Write(report *ChangelogReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"Label", "Category", "Title", "CommitCount", "Commits"}); err != nil {
		return err
	}

	for _, s := range report.Sections {
		for _, c := range s.Categories {
			for _, e := range c.Entries {
				row := []string{
					s.Label,
					c.Name,
					e.Title,
					strconv.Itoa(len(e.CommitIDs)),
					strings.Join(e.CommitIDs, " "),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
