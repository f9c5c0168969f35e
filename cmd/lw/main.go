// Package main provides the lw CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lw",
	Short: "Scholarly metadata extraction for academic PDFs",
	Long: `lw extracts and consolidates scholarly metadata from academic PDFs.

It converts each document to text, recognizes equations and citations,
resolves the bibliography through Crossref or a local parsing tool, links
citations to references and stores the validated result in a JSON metadata
store. Full-text and semantic search run over the processed collection.
All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
