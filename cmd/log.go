package cmd

import (
	"io"

	"github.com/fatih/color"
)

// Status lines go to stderr so stdout carries only the report.
var logOutput io.Writer = color.Error

func logProgress(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(logOutput, format+"\n", args...)
}

func logSummary(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(logOutput, format+"\n", args...)
}

func logTrace(format string, args ...interface{}) {
	color.New(color.FgHiBlack).Fprintf(logOutput, format+"\n", args...)
}
