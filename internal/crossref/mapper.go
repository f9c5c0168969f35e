package crossref

import (
	"strconv"
	"strings"

	"github.com/lightwriter/lightwriter/internal/document"
)

// MapReference converts a raw Crossref reference record into a domain
// Reference. Malformed optional fields (non-numeric years, badly formatted
// DOIs) are dropped rather than failing the entry; an entry with neither
// title nor unstructured text is unmappable and returns false.
func MapReference(raw RawReference) (document.Reference, bool) {
	ref := document.Reference{
		Title:   firstNonEmpty(raw.ArticleTitle, raw.Title),
		RawText: raw.Unstructured,
		Authors: splitAuthors(raw.Author),
	}

	if raw.Year != "" {
		if year, err := strconv.Atoi(strings.TrimSpace(raw.Year)); err == nil {
			if document.ValidateYear(year) == nil {
				ref.Year = year
			}
		}
	}

	if raw.DOI != "" {
		candidate := ref
		candidate.DOI = raw.DOI
		if candidate.Validate() == nil {
			ref = candidate
		}
	}

	if ref.Title == "" && ref.RawText == "" {
		return document.Reference{}, false
	}
	return ref, true
}

// MapReferences converts a batch of raw records, skipping unmappable
// entries and reporting the number skipped.
func MapReferences(raws []RawReference) ([]document.Reference, int) {
	refs := make([]document.Reference, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		ref, ok := MapReference(raw)
		if !ok {
			skipped++
			continue
		}
		refs = append(refs, ref)
	}
	return refs, skipped
}

// splitAuthors splits a Crossref author string on the literal " and "
// separator into individual authors.
func splitAuthors(authorStr string) []document.Author {
	if strings.TrimSpace(authorStr) == "" {
		return nil
	}
	var authors []document.Author
	for _, name := range strings.Split(authorStr, " and ") {
		author, err := document.NewAuthor(name)
		if err != nil {
			continue
		}
		authors = append(authors, author)
	}
	return authors
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
