package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCode is set by run so deferred cleanup still executes before exit.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "ptymux",
	Short: "Supervise a package manager under a pty with a live display",
	Long: `ptymux runs a dpkg-style package manager inside a pseudo-terminal,
rewrites its noisy status output into a bounded live display, and hands the
real terminal over transparently whenever the child opens an interactive
prompt, shell or pager.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
