package citations

import (
	"testing"

	"github.com/lightwriter/lightwriter/internal/document"
)

func TestLinkNumericCitations(t *testing.T) {
	refs := []document.Reference{
		{Title: "First", ReferenceID: "ref_1"},
		{Title: "Second", ReferenceID: "ref_2"},
	}
	cits := []document.Citation{
		{Text: "[1]", CitationType: document.CitationNumeric, NormalizedText: "1", ReferenceID: "ref_1"},
		{Text: "[9]", CitationType: document.CitationNumeric, NormalizedText: "9", ReferenceID: "ref_9"},
	}

	linked := Link(cits, refs)
	if linked[0].ReferenceID != "ref_1" {
		t.Errorf("linked[0].ReferenceID = %q, want ref_1", linked[0].ReferenceID)
	}
	// Unmatched numeric keeps its provisional key; validation flags it later.
	if linked[1].ReferenceID != "ref_9" {
		t.Errorf("linked[1].ReferenceID = %q, want ref_9", linked[1].ReferenceID)
	}
}

func TestLinkAuthorYearCitations(t *testing.T) {
	smith, _ := document.NewAuthor("Jane Smith")
	refs := []document.Reference{
		{Title: "Paper", Authors: []document.Author{smith}, Year: 2023, ReferenceID: "ref_4"},
	}
	cits := []document.Citation{
		{
			Text:           "Smith (2023)",
			CitationType:   document.CitationAuthorYear,
			NormalizedText: "smith_2023",
			ReferenceID:    "smith_2023",
		},
		{
			Text:           "Jones (2019)",
			CitationType:   document.CitationAuthorYear,
			NormalizedText: "jones_2019",
			ReferenceID:    "jones_2019",
		},
	}

	linked := Link(cits, refs)
	if linked[0].ReferenceID != "ref_4" {
		t.Errorf("matched citation ReferenceID = %q, want ref_4", linked[0].ReferenceID)
	}
	if linked[1].ReferenceID != "jones_2019" {
		t.Errorf("unmatched citation ReferenceID = %q, want unchanged", linked[1].ReferenceID)
	}
}

func TestLinkFamilyNameFallback(t *testing.T) {
	// Family name falls back to the last token of the full name.
	refs := []document.Reference{
		{
			Title:       "Paper",
			Authors:     []document.Author{{FullName: "Maria del Carmen"}},
			Year:        2020,
			ReferenceID: "ref_1",
		},
	}
	cits := []document.Citation{
		{
			Text:           "Carmen (2020)",
			CitationType:   document.CitationAuthorYear,
			NormalizedText: "carmen_2020",
			ReferenceID:    "carmen_2020",
		},
	}

	linked := Link(cits, refs)
	if linked[0].ReferenceID != "ref_1" {
		t.Errorf("ReferenceID = %q, want ref_1", linked[0].ReferenceID)
	}
}

func TestLinkAuthorlessReferenceNeverMatches(t *testing.T) {
	refs := []document.Reference{
		{RawText: "Anonymous pamphlet, 1850.", Year: 1850, ReferenceID: "ref_1"},
	}
	cits := []document.Citation{
		{
			Text:           "Anon (1850)",
			CitationType:   document.CitationAuthorYear,
			NormalizedText: "anon_1850",
			ReferenceID:    "anon_1850",
		},
	}

	linked := Link(cits, refs)
	if linked[0].ReferenceID != "anon_1850" {
		t.Errorf("ReferenceID = %q, want unchanged provisional key", linked[0].ReferenceID)
	}
}

func TestLinkDoesNotMutateInput(t *testing.T) {
	smith, _ := document.NewAuthor("Jane Smith")
	refs := []document.Reference{
		{Title: "Paper", Authors: []document.Author{smith}, Year: 2023, ReferenceID: "ref_1"},
	}
	cits := []document.Citation{
		{
			Text:           "Smith (2023)",
			CitationType:   document.CitationAuthorYear,
			NormalizedText: "smith_2023",
			ReferenceID:    "smith_2023",
		},
	}

	_ = Link(cits, refs)
	if cits[0].ReferenceID != "smith_2023" {
		t.Errorf("input citation mutated: ReferenceID = %q", cits[0].ReferenceID)
	}
}
