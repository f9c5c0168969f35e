package document

import (
	"time"
)

// SchemaVersion marks the persisted metadata format.
const SchemaVersion = "1.0.0"

// ProcessingState is the lifecycle state of a metadata record.
type ProcessingState string

// Lifecycle: initialized -> processing -> {completed | validation_failed | failed}.
// Terminal states are final.
const (
	StateInitialized      ProcessingState = "initialized"
	StateProcessing       ProcessingState = "processing"
	StateCompleted        ProcessingState = "completed"
	StateValidationFailed ProcessingState = "validation_failed"
	StateFailed           ProcessingState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s ProcessingState) Terminal() bool {
	switch s {
	case StateCompleted, StateValidationFailed, StateFailed:
		return true
	}
	return false
}

// ProcessingMetadata tracks how a document was processed.
type ProcessingMetadata struct {
	StartedAt         time.Time         `json:"started_at"`
	CompletedAt       time.Time         `json:"completed_at,omitempty"`
	DurationSeconds   float64           `json:"duration_seconds,omitempty"`
	StepsCompleted    []string          `json:"steps_completed,omitempty"`
	ExtractionMethods map[string]string `json:"extraction_methods,omitempty"`
	ValidationResults map[string]bool   `json:"validation_results,omitempty"`
}

// Metadata is the consolidated per-document record.
type Metadata struct {
	SchemaVersion string `json:"schema_version"`

	// Document identity
	FilePath       string `json:"file_path"`
	FileHash       string `json:"file_hash"` // content-addressed digest of the raw file
	Identifier     string `json:"identifier,omitempty"`
	IdentifierType string `json:"identifier_type,omitempty"` // doi or arxiv

	// Basic metadata
	Title    string   `json:"title"`
	Authors  []Author `json:"authors"`
	Abstract string   `json:"abstract,omitempty"`
	Year     int      `json:"year,omitempty"`

	// Extracted content
	References []Reference `json:"references,omitempty"`
	Equations  []Equation  `json:"equations,omitempty"`
	Citations  []Citation  `json:"citations,omitempty"`

	// Processing tracking
	Processing       ProcessingMetadata `json:"processing"`
	ProcessingStatus ProcessingState    `json:"processing_status"`
	Errors           []string           `json:"errors,omitempty"`

	// Validation tracking
	Validated        bool     `json:"validated"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// ReferenceKeys returns the set of reference keys present in the record.
func (m *Metadata) ReferenceKeys() map[string]bool {
	keys := make(map[string]bool, len(m.References))
	for _, ref := range m.References {
		if ref.ReferenceID != "" {
			keys[ref.ReferenceID] = true
		}
	}
	return keys
}
