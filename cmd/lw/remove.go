package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/semantic"
	"github.com/lightwriter/lightwriter/internal/store"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a document's metadata from the store",
	Long: `Remove the metadata record for a document. The document's entry in
the semantic index, when present, is dropped as well.

Example:
  lw remove papers/smith2023.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	st := mustOpenStore(cfg, log)

	if err := st.Remove(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitNotFound, "document not found: %s", args[0])
		}
		exitWithError(ExitError, "removing metadata: %v", err)
	}

	// Keep the semantic index consistent when one exists.
	if idx, err := semantic.Load(cfg.IndexPath()); err == nil {
		idx.Remove(args[0])
		if err := idx.Save(cfg.IndexPath()); err != nil {
			exitWithError(ExitError, "updating semantic index: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Removed %s\n", args[0])
	} else {
		outputJSON(StatusResponse{Status: "removed", Path: args[0]})
	}

	return nil
}
