// Package semantic builds and queries a vector index over processed
// documents.
package semantic

import (
	"strings"

	"github.com/lightwriter/lightwriter/internal/document"
)

// Flatten renders a metadata record into the single text blob that gets
// embedded: title, abstract, reference titles, equation content with
// context, and citation text with context, separated by blank lines.
func Flatten(m *document.Metadata) string {
	var parts []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}

	add(m.Title)
	add(m.Abstract)

	for _, ref := range m.References {
		add(ref.Title)
	}
	for _, eq := range m.Equations {
		add(eq.Content)
		add(eq.Context)
	}
	for _, cit := range m.Citations {
		add(cit.Text)
		add(cit.Context)
	}

	return strings.Join(parts, "\n\n")
}
