package cmd

import (
	"github.com/masmgr/changelog-go/internal/output"
)

func writeChangelogReport(report *output.ChangelogReport, opts output.OutputOptions) error {
	writer := output.NewChangelogWriter(opts.Format)
	return writer.Write(report, opts)
}
