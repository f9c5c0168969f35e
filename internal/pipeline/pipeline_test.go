package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lightwriter/lightwriter/internal/anystyle"
	"github.com/lightwriter/lightwriter/internal/config"
	"github.com/lightwriter/lightwriter/internal/crossref"
	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/pdf"
	"github.com/lightwriter/lightwriter/internal/references"
	"github.com/lightwriter/lightwriter/internal/store"
)

const sampleText = `Deep Learning for Citation Analysis
doi 10.1234/test.2023

The mass-energy relation $$E = mc^2$$ underpins the argument [1].
Further evidence appears in [2].

References
[1] Prior work on citation graphs.
[2] Earlier study of reference parsing.
`

// fakeConverter returns canned text per path.
type fakeConverter struct {
	texts map[string]string
}

func (f *fakeConverter) Convert(path string) (*pdf.Conversion, error) {
	text, ok := f.texts[path]
	if !ok {
		return nil, errors.New("unreadable pdf")
	}
	return &pdf.Conversion{Text: text, FileHash: pdf.HashBytes([]byte(text)), Pages: 1}, nil
}

// fakeLookup returns canned crossref references.
type fakeLookup struct {
	refs []crossref.RawReference
	err  error
}

func (f *fakeLookup) References(ctx context.Context, doi string) ([]crossref.RawReference, error) {
	return f.refs, f.err
}

// unavailableParser never parses.
type unavailableParser struct{}

func (unavailableParser) Available() bool { return false }
func (unavailableParser) Parse(ctx context.Context, section string) ([]anystyle.Entry, error) {
	return nil, errors.New("not installed")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorePath:             t.TempDir(),
		CitationContextWindow: 100,
		EquationContextLines:  2,
		MinInlineEquationLen:  5,
		Concurrency:           2,
	}
}

func newTestPipeline(t *testing.T, conv Converter, lookup references.BibliographicLookup) (*Pipeline, *store.Store) {
	t.Helper()
	cfg := testConfig(t)
	st, err := store.Open(filepath.Join(cfg.StorePath, "metadata.json"), nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	resolver := references.NewResolver(lookup, unavailableParser{}, nil)
	return New(cfg, st, resolver, conv, nil), st
}

func TestProcess_Completed(t *testing.T) {
	path := "/papers/Smith et al. - 2023 - Deep Learning for Citations-annotated.pdf"
	conv := &fakeConverter{texts: map[string]string{path: sampleText}}
	lookup := &fakeLookup{refs: []crossref.RawReference{
		{Key: "b1", Title: "Prior work on citation graphs", Author: "Jones", Year: "2020"},
		{Key: "b2", Title: "Earlier study of reference parsing", Author: "Lee", Year: "2021"},
	}}

	p, st := newTestPipeline(t, conv, lookup)

	res := p.Process(context.Background(), path)
	if res.Status != document.StateCompleted {
		t.Fatalf("Status = %q, want completed (errors: %v)", res.Status, res.Errors)
	}

	meta := res.Metadata
	if meta.Title != "Deep Learning for Citations" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Year != 2023 {
		t.Errorf("Year = %d, want 2023", meta.Year)
	}
	if meta.Identifier != "10.1234/test.2023" || meta.IdentifierType != "doi" {
		t.Errorf("identifier = %q (%q)", meta.Identifier, meta.IdentifierType)
	}
	if len(meta.References) != 2 {
		t.Fatalf("References = %d, want 2", len(meta.References))
	}
	if meta.References[0].ReferenceID != "ref_1" || meta.References[1].ReferenceID != "ref_2" {
		t.Errorf("reference keys = %q, %q", meta.References[0].ReferenceID, meta.References[1].ReferenceID)
	}
	if meta.Processing.ExtractionMethods["references"] != references.MethodCrossref {
		t.Errorf("references method = %q", meta.Processing.ExtractionMethods["references"])
	}
	if meta.Processing.ExtractionMethods["identifier"] != pdf.MethodPattern {
		t.Errorf("identifier method = %q", meta.Processing.ExtractionMethods["identifier"])
	}
	if len(meta.Equations) != 1 {
		t.Errorf("Equations = %d, want 1", len(meta.Equations))
	}
	if len(meta.Citations) != 4 {
		// [1] in prose, [2] in prose, [1] and [2] in the references list
		t.Errorf("Citations = %d, want 4", len(meta.Citations))
	}

	// Record must be persisted.
	stored, err := st.Get(path)
	if err != nil {
		t.Fatalf("Get() after process error = %v", err)
	}
	if stored.ProcessingStatus != document.StateCompleted {
		t.Errorf("stored status = %q", stored.ProcessingStatus)
	}
}

func TestProcess_EquationSpanExcludedFromCitations(t *testing.T) {
	path := "/papers/Smith et al. - 2023 - Spans.pdf"
	text := "Prefix $y = x[1] + x[2]$ and a real citation [3] follows.\n"
	conv := &fakeConverter{texts: map[string]string{path: text}}

	p, _ := newTestPipeline(t, conv, &fakeLookup{})

	res := p.Process(context.Background(), path)
	meta := res.Metadata
	if len(meta.Citations) != 1 {
		t.Fatalf("Citations = %d, want 1 (bracket inside equation ignored)", len(meta.Citations))
	}
	if meta.Citations[0].NormalizedText != "3" {
		t.Errorf("NormalizedText = %q, want 3", meta.Citations[0].NormalizedText)
	}
}

func TestProcess_ConversionFailure(t *testing.T) {
	conv := &fakeConverter{texts: map[string]string{}}
	p, st := newTestPipeline(t, conv, &fakeLookup{})

	res := p.Process(context.Background(), "/papers/broken.pdf")
	if res.Status != document.StateFailed {
		t.Fatalf("Status = %q, want failed", res.Status)
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "text extraction failed") {
		t.Errorf("Errors = %v", res.Errors)
	}

	stored, err := st.Get("/papers/broken.pdf")
	if err != nil {
		t.Fatalf("failed record not persisted: %v", err)
	}
	if stored.ProcessingStatus != document.StateFailed {
		t.Errorf("stored status = %q", stored.ProcessingStatus)
	}
}

func TestProcess_LookupFailureFallsBackWithDiagnostics(t *testing.T) {
	path := "/papers/Smith et al. - 2023 - Fallback.pdf"
	conv := &fakeConverter{texts: map[string]string{path: sampleText}}
	lookup := &fakeLookup{err: errors.New("service down")}

	p, _ := newTestPipeline(t, conv, lookup)

	res := p.Process(context.Background(), path)
	// No references resolved, but the document still completes.
	if res.Status != document.StateCompleted && res.Status != document.StateValidationFailed {
		t.Fatalf("Status = %q", res.Status)
	}

	joined := strings.Join(res.Metadata.Errors, "; ")
	if !strings.Contains(joined, "crossref lookup failed") {
		t.Errorf("diagnostics missing crossref failure: %v", res.Metadata.Errors)
	}
}

func TestProcessBatch(t *testing.T) {
	good1 := "/papers/Smith et al. - 2023 - First.pdf"
	good2 := "/papers/Jones et al. - 2022 - Second.pdf"
	bad := "/papers/broken.pdf"

	conv := &fakeConverter{texts: map[string]string{
		good1: sampleText,
		good2: sampleText,
	}}
	lookup := &fakeLookup{refs: []crossref.RawReference{
		{Key: "b1", Title: "Prior work on citation graphs", Author: "Jones"},
		{Key: "b2", Title: "Earlier study of reference parsing", Author: "Lee"},
	}}

	p, _ := newTestPipeline(t, conv, lookup)

	results := p.ProcessBatch(context.Background(), []string{good1, bad, good2})
	if len(results) != 3 {
		t.Fatalf("ProcessBatch() = %d results, want 3", len(results))
	}

	// Results keep input order and one failure does not stop the rest.
	if results[0].FilePath != good1 || results[1].FilePath != bad || results[2].FilePath != good2 {
		t.Errorf("result order = %q, %q, %q", results[0].FilePath, results[1].FilePath, results[2].FilePath)
	}
	if results[1].Status != document.StateFailed {
		t.Errorf("broken document status = %q, want failed", results[1].Status)
	}
	if results[0].Status != document.StateCompleted {
		t.Errorf("first document status = %q (errors: %v)", results[0].Status, results[0].Errors)
	}
	if results[2].Status != document.StateCompleted {
		t.Errorf("third document status = %q (errors: %v)", results[2].Status, results[2].Errors)
	}
}
