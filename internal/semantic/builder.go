package semantic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/embedding"
)

// MinContentLength is the minimum flattened-content length (in
// characters) worth embedding. Shorter blobs lack the semantic content
// for a meaningful vector.
const MinContentLength = 50

// BuildStats summarizes one index build.
type BuildStats struct {
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Current  int           `json:"current"`
	Duration time.Duration `json:"duration"`
}

// Builder constructs the semantic index from processed documents.
type Builder struct {
	provider embedding.Provider
	log      *zap.Logger
}

// NewBuilder creates an index builder. A nil logger is replaced with a
// no-op logger.
func NewBuilder(provider embedding.Provider, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{provider: provider, log: log}
}

// Build embeds every document into idx, skipping documents whose entry
// is already current for their file hash and documents with too little
// content. Entries for documents no longer present are dropped.
func (b *Builder) Build(ctx context.Context, idx *Index, docs []document.Metadata) (*BuildStats, error) {
	start := time.Now()
	stats := &BuildStats{}

	present := make(map[string]bool, len(docs))
	for _, doc := range docs {
		present[doc.FilePath] = true
	}
	for filePath := range idx.Entries {
		if !present[filePath] {
			idx.Remove(filePath)
		}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if idx.Current(doc.FilePath, doc.FileHash) {
			stats.Current++
			continue
		}

		content := Flatten(&doc)
		if len(content) < MinContentLength {
			stats.Skipped++
			b.log.Debug("document too short to embed", zap.String("file", doc.FilePath))
			continue
		}

		emb, err := b.provider.Embed(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("embedding %s: %w", doc.FilePath, err)
		}
		if err := idx.Add(doc.FilePath, doc.FileHash, emb.Vector); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", doc.FilePath, err)
		}
		stats.Indexed++
	}

	stats.Duration = time.Since(start)
	b.log.Info("semantic index built",
		zap.Int("indexed", stats.Indexed),
		zap.Int("current", stats.Current),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}
