// Package main provides the Vellum export diagnostics CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "vellum",
	Short: "Vellum ML Framework export tooling",
	Long:  "Tools for inspecting draft-export diagnostics of the Vellum ML framework.",
}

func main() {
	rootCmd.Version = version
	rootCmd.AddCommand(reportCmd, versionCmd)

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
