// Package metadata consolidates extraction results into a validated
// per-document record.
package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/lightwriter/lightwriter/internal/document"
)

var (
	annotatedSuffix = regexp.MustCompile(`-annotated$`)
	authorSeparator = regexp.MustCompile(`,\s*|\s+and\s+`)
)

// BasicMetadata is title-level metadata recovered before any extraction
// runs, usually from the filename.
type BasicMetadata struct {
	Title   string
	Authors []document.Author
	Year    int
}

// FromFilename recovers basic metadata from a filename of the form
// "Author et al. - YYYY - Title.pdf". An "-annotated" suffix before the
// extension is stripped. When the filename does not follow the
// convention, the stem becomes the title and a placeholder author is
// used so downstream validation still sees a populated record.
func FromFilename(path string) BasicMetadata {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = annotatedSuffix.ReplaceAllString(stem, "")

	parts := strings.Split(stem, " - ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 3 {
		return BasicMetadata{
			Title:   stem,
			Authors: []document.Author{{FullName: "Unknown Author"}},
		}
	}

	// Titles may themselves contain " - ", so rejoin the tail.
	title := strings.Join(parts[2:], " - ")

	var authors []document.Author
	authorPart := parts[0]
	if strings.Contains(authorPart, " et al.") {
		name := strings.TrimSpace(strings.ReplaceAll(authorPart, " et al.", ""))
		if a, err := document.NewAuthor(name); err == nil {
			authors = append(authors, a)
		}
	} else {
		for _, name := range authorSeparator.Split(authorPart, -1) {
			if a, err := document.NewAuthor(name); err == nil {
				authors = append(authors, a)
			}
		}
	}
	if len(authors) == 0 {
		authors = []document.Author{{FullName: "Unknown Author"}}
	}

	year := 0
	if y, err := strconv.Atoi(parts[1]); err == nil && document.ValidateYear(y) == nil {
		year = y
	}

	return BasicMetadata{Title: title, Authors: authors, Year: year}
}
