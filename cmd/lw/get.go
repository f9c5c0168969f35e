package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/store"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get the metadata record for a processed document",
	Long: `Get the consolidated metadata record for a document by its path.

Example:
  lw get papers/smith2023.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	st := mustOpenStore(cfg, log)

	meta, err := st.Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitNotFound, "document not found: %s", args[0])
		}
		exitWithError(ExitError, "getting metadata: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s\n", meta.FilePath)
		fmt.Printf("  Title:      %s\n", meta.Title)
		fmt.Printf("  Authors:    %s\n", formatAuthorsShort(meta.Authors, 3))
		if meta.Year != 0 {
			fmt.Printf("  Year:       %d\n", meta.Year)
		}
		if meta.Identifier != "" {
			fmt.Printf("  Identifier: %s (%s)\n", meta.Identifier, meta.IdentifierType)
		}
		fmt.Printf("  Status:     %s\n", meta.ProcessingStatus)
		fmt.Printf("  References: %d   Equations: %d   Citations: %d\n",
			len(meta.References), len(meta.Equations), len(meta.Citations))
		for _, e := range meta.ValidationErrors {
			fmt.Printf("  ! %s\n", e)
		}
	} else {
		outputJSON(meta)
	}

	return nil
}
