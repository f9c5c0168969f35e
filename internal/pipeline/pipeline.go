// Package pipeline runs documents through the extraction stages and
// persists the consolidated result.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lightwriter/lightwriter/internal/citations"
	"github.com/lightwriter/lightwriter/internal/config"
	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/equations"
	"github.com/lightwriter/lightwriter/internal/metadata"
	"github.com/lightwriter/lightwriter/internal/pdf"
	"github.com/lightwriter/lightwriter/internal/references"
	"github.com/lightwriter/lightwriter/internal/store"
)

// Converter turns a document file into text plus a content hash.
type Converter interface {
	Convert(path string) (*pdf.Conversion, error)
}

// pdfConverter is the production Converter.
type pdfConverter struct{}

func (pdfConverter) Convert(path string) (*pdf.Conversion, error) {
	return pdf.Convert(path)
}

// Result is the outcome of processing one document.
type Result struct {
	FilePath string                   `json:"file_path"`
	Status   document.ProcessingState `json:"status"`
	Metadata *document.Metadata       `json:"metadata,omitempty"`
	Errors   []string                 `json:"errors,omitempty"`
}

// Pipeline coordinates the per-document processing stages.
type Pipeline struct {
	equations    *equations.Extractor
	citations    *citations.Extractor
	resolver     *references.Resolver
	consolidator *metadata.Consolidator
	store        *store.Store
	converter    Converter
	concurrency  int
	log          *zap.Logger
}

// New wires a Pipeline. A nil converter uses real PDF conversion; tests
// substitute their own.
func New(cfg *config.Config, st *store.Store, resolver *references.Resolver, conv Converter, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if conv == nil {
		conv = pdfConverter{}
	}
	return &Pipeline{
		equations: equations.NewExtractor(log,
			equations.WithContextLines(cfg.EquationContextLines),
			equations.WithMinInlineLength(cfg.MinInlineEquationLen)),
		citations:    citations.NewExtractor(log, citations.WithContextWindow(cfg.CitationContextWindow)),
		resolver:     resolver,
		consolidator: metadata.NewConsolidator(log),
		store:        st,
		converter:    conv,
		concurrency:  cfg.Concurrency,
		log:          log,
	}
}

// Process runs one document through conversion, extraction, resolution,
// linking and consolidation, then persists the record. Failures never
// panic out: an unprocessable document yields a failed record.
func (p *Pipeline) Process(ctx context.Context, filePath string) Result {
	started := time.Now()
	p.log.Info("processing document", zap.String("file", filePath))

	conv, err := p.converter.Convert(filePath)
	if err != nil {
		p.log.Error("conversion failed", zap.String("file", filePath), zap.Error(err))
		return p.failed(filePath, started, "text extraction failed: "+err.Error())
	}

	basic := metadata.FromFilename(filePath)

	var identifier pdf.Identifier
	if id, ok := pdf.FindIdentifier(conv.Text); ok {
		identifier = id
	}

	eqs := p.equations.Extract(conv.Text)
	spans := equations.Spans(eqs)
	cits := p.citations.Extract(conv.Text, spans)

	resolution := p.resolver.Resolve(ctx, identifier.Value, identifier.Type, conv.Text)
	refs := references.AssignKeys(resolution.References)
	linked := citations.Link(cits, refs)

	meta, err := p.consolidator.Consolidate(ctx, metadata.Input{
		FilePath:         filePath,
		FileHash:         conv.FileHash,
		Identifier:       identifier.Value,
		IdentifierType:   identifier.Type,
		IdentifierMethod: pdf.MethodPattern,
		Basic:            basic,
		References:       refs,
		Equations:        eqs,
		Citations:        linked,
		StartedAt:        started,
		Errors:           resolution.Diagnostics,
	})
	if err != nil {
		p.log.Error("consolidation failed", zap.String("file", filePath), zap.Error(err))
		return p.failed(filePath, started, "consolidation failed: "+err.Error())
	}
	if resolution.Method != "" {
		meta.Processing.ExtractionMethods["references"] = resolution.Method
	}

	if err := p.store.Save(meta); err != nil {
		p.log.Error("saving metadata failed", zap.String("file", filePath), zap.Error(err))
		return Result{
			FilePath: filePath,
			Status:   document.StateFailed,
			Metadata: meta,
			Errors:   append(meta.Errors, "saving metadata failed: "+err.Error()),
		}
	}

	return Result{
		FilePath: filePath,
		Status:   meta.ProcessingStatus,
		Metadata: meta,
		Errors:   append(append([]string{}, meta.Errors...), meta.ValidationErrors...),
	}
}

// ProcessBatch processes documents concurrently, bounded by the
// configured concurrency. One failing document never stops the rest;
// results come back in input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = p.Process(ctx, path)
			return nil
		})
	}
	// Workers only ever return nil.
	_ = g.Wait()

	return results
}

// failed records a terminal failure for a document.
func (p *Pipeline) failed(filePath string, started time.Time, msg string) Result {
	meta := &document.Metadata{
		SchemaVersion: document.SchemaVersion,
		FilePath:      filePath,
		Processing: document.ProcessingMetadata{
			StartedAt:       started,
			CompletedAt:     time.Now(),
			DurationSeconds: time.Since(started).Seconds(),
		},
		ProcessingStatus: document.StateFailed,
		Errors:           []string{msg},
	}
	if err := p.store.Save(meta); err != nil {
		p.log.Error("saving failed record", zap.String("file", filePath), zap.Error(err))
	}
	return Result{
		FilePath: filePath,
		Status:   document.StateFailed,
		Errors:   []string{msg},
	}
}
