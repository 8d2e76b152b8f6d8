package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/cli"
	"github.com/example/stride/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "stride",
		Short:   "stride - personal scheduling with goal cadences",
		Version: version.String(),
		Long: `stride is a CLI for personal scheduling: quick free-text task entry,
recurring occurrences and goal cadence plans that reseed themselves.`,
	}

	rootCmd.AddCommand(cli.AddCmd())
	rootCmd.AddCommand(cli.AgendaCmd())
	rootCmd.AddCommand(cli.GoalCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
