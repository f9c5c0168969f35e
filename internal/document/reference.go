// Package document defines the core domain types for extracted scholarly
// metadata: references, citations, equations, and the consolidated
// per-document metadata record.
package document

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DOI pattern per Crossref: 10.XXXX/suffix where XXXX is 4-9 digits.
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[-._;()/:\w]+$`)

// New-style arXiv identifier: YYMM.NNNNN with optional version suffix.
var arxivPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)

// Author represents a paper author. Given and Family are derived from
// FullName when not independently supplied.
type Author struct {
	FullName string `json:"full_name"`
	Given    string `json:"given,omitempty"`
	Family   string `json:"family,omitempty"`
}

// NewAuthor creates an Author from a full name, splitting name components
// on whitespace (last token becomes the family name).
func NewAuthor(fullName string) (Author, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return Author{}, fmt.Errorf("author name cannot be empty")
	}

	a := Author{FullName: fullName}
	parts := strings.Fields(fullName)
	if len(parts) > 1 {
		a.Family = parts[len(parts)-1]
		a.Given = strings.Join(parts[:len(parts)-1], " ")
	}
	return a, nil
}

// FamilyName returns the author's family name, falling back to the last
// whitespace-separated token of the full name.
func (a Author) FamilyName() string {
	if a.Family != "" {
		return a.Family
	}
	parts := strings.Fields(a.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Reference represents one bibliography entry of a document.
// A reference must carry at least one of Title or RawText.
type Reference struct {
	Title       string   `json:"title,omitempty"`
	Authors     []Author `json:"authors,omitempty"`
	Year        int      `json:"year,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	ArXivID     string   `json:"arxiv_id,omitempty"`
	RawText     string   `json:"raw_text,omitempty"`
	ReferenceID string   `json:"reference_id"` // ref_<n>, assigned in resolution order
}

// Validate checks field formats and the title-or-raw-text invariant.
func (r Reference) Validate() error {
	if r.Title == "" && r.RawText == "" {
		return fmt.Errorf("reference must have a title or raw text")
	}
	if r.DOI != "" && !doiPattern.MatchString(r.DOI) {
		return fmt.Errorf("invalid DOI format: %q", r.DOI)
	}
	if r.ArXivID != "" && !arxivPattern.MatchString(r.ArXivID) {
		return fmt.Errorf("invalid arXiv ID format: %q", r.ArXivID)
	}
	if r.Year != 0 {
		if err := ValidateYear(r.Year); err != nil {
			return err
		}
	}
	return nil
}

// ValidateYear checks that a publication year is plausible.
func ValidateYear(year int) error {
	max := time.Now().Year() + 1
	if year < 1800 || year > max {
		return fmt.Errorf("year must be between 1800 and %d, got %d", max, year)
	}
	return nil
}
