package document

import "fmt"

// Citation types recognized by the extractor.
const (
	CitationNumeric    = "numeric"
	CitationAuthorYear = "author-year"
)

// Span is a half-open [Start, End) character range in source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Citation is an in-text citation marker.
type Citation struct {
	Text           string `json:"text"`
	Context        string `json:"context"`
	CitationType   string `json:"citation_type"`
	Location       Span   `json:"location"`
	NormalizedText string `json:"normalized_text"`

	// ReferenceID starts as a provisional key derived from the citation
	// itself and is reassigned by the linker when a matching reference is
	// found. An unlinked citation keeps its provisional key; the citations
	// validation rule flags it when no reference carries that key.
	ReferenceID string `json:"reference_id"`
}

// Validate checks the citation type and required fields.
func (c Citation) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("citation text cannot be empty")
	}
	if c.CitationType != CitationNumeric && c.CitationType != CitationAuthorYear {
		return fmt.Errorf("citation type must be %q or %q, got %q",
			CitationNumeric, CitationAuthorYear, c.CitationType)
	}
	return nil
}
