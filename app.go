package main

import (
	"fmt"
	"os"

	"github.com/masmgr/changelog-go/cmd"
)

func main() {
	app := cmd.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
