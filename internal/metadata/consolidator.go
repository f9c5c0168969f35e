package metadata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lightwriter/lightwriter/internal/document"
)

// Input carries the extraction results for one document into
// consolidation.
type Input struct {
	FilePath string
	FileHash string

	Identifier       string
	IdentifierType   string
	IdentifierMethod string

	Basic BasicMetadata

	Abstract   string
	References []document.Reference
	Equations  []document.Equation
	Citations  []document.Citation

	StartedAt time.Time
	Errors    []string
}

// Consolidator merges extraction results into a single validated
// metadata record.
type Consolidator struct {
	log *zap.Logger
}

// NewConsolidator returns a Consolidator. A nil logger is replaced with
// a no-op logger.
func NewConsolidator(log *zap.Logger) *Consolidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consolidator{log: log}
}

// Consolidate builds the per-document record from extraction results.
// The population steps run concurrently and each records its completion
// in the processing trail. Validation failures do not return an error;
// they mark the record validation_failed with per-rule messages.
func (c *Consolidator) Consolidate(ctx context.Context, in Input) (*document.Metadata, error) {
	meta := newRecord(in)
	meta.ProcessingStatus = document.StateProcessing
	started := meta.Processing.StartedAt

	var mu sync.Mutex
	step := func(name string) {
		mu.Lock()
		meta.Processing.StepsCompleted = append(meta.Processing.StepsCompleted, name)
		mu.Unlock()
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if in.Identifier == "" {
			return nil
		}
		meta.Identifier = in.Identifier
		meta.IdentifierType = in.IdentifierType
		method := in.IdentifierMethod
		if method == "" {
			method = "unknown"
		}
		mu.Lock()
		meta.Processing.ExtractionMethods["identifier"] = method
		mu.Unlock()
		step("identifier_extraction")
		return nil
	})
	g.Go(func() error {
		if len(in.References) == 0 {
			return nil
		}
		meta.References = assignMissingKeys(in.References)
		step("reference_extraction")
		return nil
	})
	g.Go(func() error {
		if len(in.Equations) == 0 {
			return nil
		}
		meta.Equations = in.Equations
		step("equation_extraction")
		return nil
	})
	g.Go(func() error {
		if len(in.Citations) == 0 {
			return nil
		}
		meta.Citations = in.Citations
		step("citation_extraction")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("consolidating %s: %w", in.FilePath, err)
	}
	sort.Strings(meta.Processing.StepsCompleted)

	results := Validate(meta)
	meta.Processing.ValidationResults = results
	meta.Validated = allValid(results)
	if !meta.Validated {
		for _, rule := range ruleOrder {
			if !results[rule] {
				meta.ValidationErrors = append(meta.ValidationErrors, rule+" validation failed")
			}
		}
	}

	meta.Processing.CompletedAt = time.Now()
	meta.Processing.DurationSeconds = meta.Processing.CompletedAt.Sub(started).Seconds()

	if meta.Validated {
		meta.ProcessingStatus = document.StateCompleted
	} else {
		meta.ProcessingStatus = document.StateValidationFailed
	}

	c.log.Info("metadata consolidated",
		zap.String("file", in.FilePath),
		zap.String("status", string(meta.ProcessingStatus)),
		zap.Int("references", len(meta.References)),
		zap.Int("equations", len(meta.Equations)),
		zap.Int("citations", len(meta.Citations)))

	return meta, nil
}

// newRecord builds the base record in its initial lifecycle state from
// file identity and whatever basic metadata is available.
func newRecord(in Input) *document.Metadata {
	started := in.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	return &document.Metadata{
		SchemaVersion: document.SchemaVersion,
		FilePath:      in.FilePath,
		FileHash:      in.FileHash,
		Title:         in.Basic.Title,
		Authors:       in.Basic.Authors,
		Abstract:      in.Abstract,
		Year:          in.Basic.Year,
		Processing: document.ProcessingMetadata{
			StartedAt:         started,
			ExtractionMethods: make(map[string]string),
		},
		ProcessingStatus: document.StateInitialized,
		Errors:           in.Errors,
	}
}

// assignMissingKeys fills gaps in reference keys with positional
// ref_<n> keys without touching keys already assigned.
func assignMissingKeys(refs []document.Reference) []document.Reference {
	out := make([]document.Reference, len(refs))
	copy(out, refs)
	for i := range out {
		if out[i].ReferenceID == "" {
			out[i].ReferenceID = fmt.Sprintf("ref_%d", i+1)
		}
	}
	return out
}

func allValid(results map[string]bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
