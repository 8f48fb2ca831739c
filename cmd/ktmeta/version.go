package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"ktmeta/internal/header"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ktmeta version: %s\n", Version)
			fmt.Fprintf(w, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(w, "Metadata baseline: %s\n", header.Baseline)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
		},
	}
}
