package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/relocate/cmd/relocate"
	"github.com/arthur-debert/relocate/internal/version"
)

func main() {
	rootCmd := relocate.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "RELOCATE",
		Section: "1",
		Source:  "relocate " + version.Version,
		Manual:  "relocate manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
