package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/document"
)

var listStatus string

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by processing status (completed, validation_failed, failed)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all processed documents",
	Long: `List the metadata records of all processed documents.

Examples:
  lw list
  lw list --status validation_failed`,
	RunE: runList,
}

// listEntry is the condensed per-document listing.
type listEntry struct {
	FilePath string `json:"file_path"`
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	Status   string `json:"status"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	st := mustOpenStore(cfg, log)

	docs, err := st.All()
	if err != nil {
		exitWithError(ExitError, "listing documents: %v", err)
	}

	entries := make([]listEntry, 0, len(docs))
	for _, doc := range docs {
		if listStatus != "" && doc.ProcessingStatus != document.ProcessingState(listStatus) {
			continue
		}
		entries = append(entries, listEntry{
			FilePath: doc.FilePath,
			Title:    doc.Title,
			Year:     doc.Year,
			Status:   string(doc.ProcessingStatus),
		})
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No documents in store")
			return nil
		}
		fmt.Printf("%d documents:\n\n", len(entries))
		for _, e := range entries {
			fmt.Printf("  %-18s %s\n", e.Status, truncateString(e.Title, ListTitleMaxLen))
			fmt.Printf("  %-18s %s\n", "", e.FilePath)
		}
	} else {
		outputJSON(entries)
	}

	return nil
}
