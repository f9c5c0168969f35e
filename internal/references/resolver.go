package references

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/anystyle"
	"github.com/lightwriter/lightwriter/internal/crossref"
	"github.com/lightwriter/lightwriter/internal/document"
)

// Identifier types accepted by the resolver.
const (
	IdentifierDOI   = "doi"
	IdentifierArXiv = "arxiv"
)

// Resolution methods reported in extraction metadata.
const (
	MethodCrossref = "crossref"
	MethodAnystyle = "anystyle"
)

// BibliographicLookup is the external DOI-keyed lookup service.
type BibliographicLookup interface {
	References(ctx context.Context, doi string) ([]crossref.RawReference, error)
}

// ReferenceParser is the external text-based reference parsing tool.
type ReferenceParser interface {
	Available() bool
	Parse(ctx context.Context, section string) ([]anystyle.Entry, error)
}

// Resolution is the outcome of reference resolution. An empty reference
// list with no diagnostics means the document legitimately yielded nothing;
// diagnostics record lookup strategies that failed along the way.
type Resolution struct {
	References  []document.Reference
	Method      string
	Diagnostics []string
}

// Resolver obtains a candidate bibliography for a document.
type Resolver struct {
	lookup BibliographicLookup
	parser ReferenceParser
	log    *zap.Logger
}

// NewResolver creates a Resolver. A nil logger is replaced with a no-op
// logger.
func NewResolver(lookup BibliographicLookup, parser ReferenceParser, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, parser: parser, log: log}
}

// Resolve obtains references for a document, trying the DOI lookup first
// and degrading to text parsing. It never returns an error: each failed
// strategy is recorded as a diagnostic and resolution continues with the
// next one. Reference keys are assigned by the caller in resolution order.
func (r *Resolver) Resolve(ctx context.Context, identifier, identifierType, text string) Resolution {
	var res Resolution

	if strings.EqualFold(identifierType, IdentifierDOI) && identifier != "" {
		refs, diag := r.resolveCrossref(ctx, identifier)
		if diag != "" {
			res.Diagnostics = append(res.Diagnostics, diag)
		}
		if len(refs) > 0 {
			res.References = refs
			res.Method = MethodCrossref
			return res
		}
	}

	if text == "" {
		return res
	}

	refs, diag := r.resolveText(ctx, text)
	if diag != "" {
		res.Diagnostics = append(res.Diagnostics, diag)
	}
	if len(refs) > 0 {
		res.References = refs
		res.Method = MethodAnystyle
	}
	return res
}

func (r *Resolver) resolveCrossref(ctx context.Context, doi string) ([]document.Reference, string) {
	raws, err := r.lookup.References(ctx, doi)
	if err != nil {
		r.log.Warn("crossref lookup failed", zap.String("doi", doi), zap.Error(err))
		return nil, fmt.Sprintf("crossref lookup failed: %v", err)
	}
	if len(raws) == 0 {
		r.log.Debug("crossref returned no references", zap.String("doi", doi))
		return nil, ""
	}

	refs, skipped := crossref.MapReferences(raws)
	if skipped > 0 {
		r.log.Warn("skipped unmappable crossref references",
			zap.String("doi", doi), zap.Int("skipped", skipped))
	}
	r.log.Info("references resolved via crossref",
		zap.String("doi", doi), zap.Int("count", len(refs)))
	return refs, ""
}

func (r *Resolver) resolveText(ctx context.Context, text string) ([]document.Reference, string) {
	section, found := ExtractSection(text)
	if !found {
		r.log.Debug("no references section found in text")
		return nil, "no references section found in text"
	}

	if !r.parser.Available() {
		return nil, "reference parsing tool not available"
	}

	entries, err := r.parser.Parse(ctx, section)
	if err != nil {
		r.log.Warn("reference parsing failed", zap.Error(err))
		return nil, fmt.Sprintf("reference parsing failed: %v", err)
	}

	refs, skipped := anystyle.MapEntries(entries)
	if skipped > 0 {
		r.log.Warn("skipped unmappable parsed references", zap.Int("skipped", skipped))
	}
	r.log.Info("references resolved from text", zap.Int("count", len(refs)))
	return refs, ""
}

// AssignKeys assigns sequential ref_<n> keys, in order, to references that
// lack one. Keys are stable regardless of which strategy produced the list.
func AssignKeys(refs []document.Reference) []document.Reference {
	keyed := make([]document.Reference, len(refs))
	for i, ref := range refs {
		if ref.ReferenceID == "" {
			ref.ReferenceID = fmt.Sprintf("ref_%d", i+1)
		}
		if ref.Title == "" && ref.RawText == "" {
			ref.RawText = fmt.Sprintf("Reference %d", i+1)
		}
		keyed[i] = ref
	}
	return keyed
}
