package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/store"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search over processed documents",
	Long: `Search titles, abstracts, authors and reference titles of processed
documents. The SQLite cache is rebuilt automatically when the store has
changed.

Examples:
  lw search "neural networks"
  lw search attention --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	if err := cfg.EnsureStoreDir(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	st := mustOpenStore(cfg, log)

	db, err := store.OpenSearchDB(cfg.SearchDBPath())
	if err != nil {
		exitWithError(ExitError, "opening search cache: %v", err)
	}
	defer db.Close()

	if _, err := db.Sync(st); err != nil {
		exitWithError(ExitError, "syncing search cache: %v", err)
	}

	results, err := db.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. %s\n", i+1, truncateString(r.Title, ListTitleMaxLen))
			fmt.Printf("   %s (%s)\n", r.FilePath, r.Status)
		}
	} else {
		if results == nil {
			results = []store.SearchResult{}
		}
		outputJSON(results)
	}

	return nil
}
