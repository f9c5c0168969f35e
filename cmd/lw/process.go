package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/anystyle"
	"github.com/lightwriter/lightwriter/internal/crossref"
	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/pipeline"
	"github.com/lightwriter/lightwriter/internal/references"
)

func init() {
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <pdf>...",
	Short: "Process one or more PDF documents",
	Long: `Process PDF documents through the extraction pipeline.

Each document is converted to text, scanned for equations, citations and
a DOI or arXiv identifier, its bibliography is resolved, citations are
linked to references and the consolidated record is validated and saved.
Multiple documents are processed concurrently; one failing document does
not stop the others.

Examples:
  lw process paper.pdf
  lw process papers/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	if err := cfg.EnsureStoreDir(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	st := mustOpenStore(cfg, log)

	client := crossref.NewClient(
		crossref.WithBaseURL(cfg.CrossrefBaseURL),
		crossref.WithMailto(cfg.CrossrefMailto),
		crossref.WithTimeout(time.Duration(cfg.APITimeoutSeconds)*time.Second),
	)
	runner := anystyle.NewRunner(cfg.AnystyleBinary, log)
	resolver := references.NewResolver(client, runner, log)

	p := pipeline.New(cfg, st, resolver, nil, log)
	results := p.ProcessBatch(context.Background(), args)

	failed := 0
	for _, res := range results {
		if res.Status == document.StateFailed {
			failed++
		}
	}

	if humanOutput {
		for _, res := range results {
			fmt.Printf("%-18s %s\n", res.Status, res.FilePath)
			for _, e := range res.Errors {
				fmt.Printf("    %s\n", e)
			}
		}
		fmt.Printf("\n%d processed, %d failed\n", len(results), failed)
	} else {
		outputJSON(results)
	}

	if failed == len(results) {
		exitWithError(ExitDataError, "all %d documents failed", failed)
	}
	return nil
}
