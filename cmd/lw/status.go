package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/document"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics",
	Long: `Show document counts by processing state and validation failure tallies.

Examples:
  lw status
  lw status --human`,
	RunE: runStatus,
}

// storeStats summarizes the metadata store.
type storeStats struct {
	Documents        int            `json:"documents"`
	ByStatus         map[string]int `json:"by_status"`
	FailedValidation map[string]int `json:"failed_validation,omitempty"`
	References       int            `json:"references"`
	Equations        int            `json:"equations"`
	Citations        int            `json:"citations"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	st := mustOpenStore(cfg, log)

	docs, err := st.All()
	if err != nil {
		exitWithError(ExitError, "reading store: %v", err)
	}

	stats := storeStats{
		ByStatus:         make(map[string]int),
		FailedValidation: make(map[string]int),
	}
	for _, doc := range docs {
		stats.Documents++
		stats.ByStatus[string(doc.ProcessingStatus)]++
		stats.References += len(doc.References)
		stats.Equations += len(doc.Equations)
		stats.Citations += len(doc.Citations)
		for rule, passed := range doc.Processing.ValidationResults {
			if !passed {
				stats.FailedValidation[rule]++
			}
		}
	}
	if len(stats.FailedValidation) == 0 {
		stats.FailedValidation = nil
	}

	if humanOutput {
		fmt.Printf("Documents: %d\n", stats.Documents)
		for _, state := range []document.ProcessingState{
			document.StateCompleted,
			document.StateValidationFailed,
			document.StateFailed,
		} {
			if n := stats.ByStatus[string(state)]; n > 0 {
				fmt.Printf("  %-18s %d\n", state, n)
			}
		}
		fmt.Printf("References: %d\n", stats.References)
		fmt.Printf("Equations:  %d\n", stats.Equations)
		fmt.Printf("Citations:  %d\n", stats.Citations)
		if stats.FailedValidation != nil {
			fmt.Println("Failed validation rules:")
			for rule, n := range stats.FailedValidation {
				fmt.Printf("  %-18s %d\n", rule, n)
			}
		}
	} else {
		outputJSON(stats)
	}

	return nil
}
