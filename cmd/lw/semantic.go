package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightwriter/lightwriter/internal/config"
	"github.com/lightwriter/lightwriter/internal/embedding"
	"github.com/lightwriter/lightwriter/internal/semantic"
)

var (
	semanticSearchLimit     int
	semanticSearchThreshold float32
)

func init() {
	semanticSearchCmd.Flags().IntVar(&semanticSearchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	semanticSearchCmd.Flags().Float32Var(&semanticSearchThreshold, "threshold", 0.3, "Minimum similarity score")

	semanticCmd.AddCommand(semanticBuildCmd)
	semanticCmd.AddCommand(semanticSearchCmd)
	rootCmd.AddCommand(semanticCmd)
}

var semanticCmd = &cobra.Command{
	Use:   "semantic",
	Short: "Semantic index operations",
	Long:  `Build and query the vector index over processed documents.`,
}

var semanticBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build or update the semantic index",
	Long: `Embed every processed document and persist the index. Documents
whose content is unchanged since the last build are skipped.

Requires a running Ollama server with the configured embedding model.`,
	RunE: runSemanticBuild,
}

var semanticSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search documents by semantic similarity",
	Long: `Embed the query and rank processed documents by cosine similarity.

Examples:
  lw semantic search "variational inference for trees"
  lw semantic search attention --limit 5 --threshold 0.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSemanticSearch,
}

// newProvider builds the embedding provider from configuration and
// verifies it is usable.
func newProvider(ctx context.Context, cfg *config.Config) *embedding.OllamaProvider {
	provider := embedding.NewOllamaProvider(
		embedding.WithBaseURL(cfg.OllamaURL),
		embedding.WithModel(cfg.EmbeddingModel, cfg.EmbeddingDims),
	)
	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitIndexError, "%v", err)
	}
	if ok, err := provider.HasModel(ctx); err != nil || !ok {
		exitWithError(ExitIndexError, "embedding model %s not installed in ollama", cfg.EmbeddingModel)
	}
	return provider
}

func runSemanticBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	if err := cfg.EnsureStoreDir(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	st := mustOpenStore(cfg, log)

	docs, err := st.All()
	if err != nil {
		exitWithError(ExitError, "reading store: %v", err)
	}

	ctx := context.Background()
	provider := newProvider(ctx, cfg)

	idx := semantic.LoadOrNew(cfg.IndexPath(), provider.ModelName(), provider.Dimensions())
	builder := semantic.NewBuilder(provider, log)

	stats, err := builder.Build(ctx, idx, docs)
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}
	if err := idx.Save(cfg.IndexPath()); err != nil {
		exitWithError(ExitError, "saving index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Indexed %d documents (%d unchanged, %d skipped) in %s\n",
			stats.Indexed, stats.Current, stats.Skipped, stats.Duration.Round(10*time.Millisecond))
	} else {
		outputJSON(stats)
	}

	return nil
}

func runSemanticSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	idx, err := semantic.Load(cfg.IndexPath())
	if err != nil {
		if errors.Is(err, semantic.ErrIndexNotFound) {
			exitWithError(ExitIndexError, "semantic index not found, run 'lw semantic build' first")
		}
		exitWithError(ExitIndexError, "loading index: %v", err)
	}

	ctx := context.Background()
	provider := newProvider(ctx, cfg)

	query, err := provider.Embed(ctx, strings.Join(args, " "))
	if err != nil {
		exitWithError(ExitError, "embedding query: %v", err)
	}

	results := idx.Search(query.Vector, semanticSearchLimit, semanticSearchThreshold)

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. [%.2f] %s\n", i+1, r.Similarity, r.FilePath)
		}
	} else {
		if results == nil {
			results = []semantic.SearchResult{}
		}
		outputJSON(results)
	}

	return nil
}
