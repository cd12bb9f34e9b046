package output

import (
	"io"
	"os"
)

const reportDateTimeLayout = "2006-01-02T15:04:05Z07:00"

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
