package citations

import (
	"fmt"
	"strings"

	"github.com/lightwriter/lightwriter/internal/document"
)

// Link matches citations to references and returns a new slice with
// ReferenceID updated on each match. Numeric citations already carry their
// candidate reference id (ref_<n>) and are passed through; author-year
// citations are matched against a normalized first-author-family_year key.
// Unmatched citations are returned unchanged; stale provisional keys are
// caught later by the citations validation rule.
func Link(citations []document.Citation, references []document.Reference) []document.Citation {
	byAuthorYear := make(map[string]string, len(references))
	for _, ref := range references {
		if ref.ReferenceID == "" {
			continue
		}
		if key := authorYearKey(ref); key != "" {
			byAuthorYear[key] = ref.ReferenceID
		}
	}

	linked := make([]document.Citation, len(citations))
	for i, cit := range citations {
		if cit.CitationType == document.CitationAuthorYear {
			if id, ok := byAuthorYear[cit.NormalizedText]; ok {
				cit.ReferenceID = id
			}
		}
		linked[i] = cit
	}
	return linked
}

// authorYearKey builds the "family_year" matching key for a reference.
// References without authors normalize to the empty string and never match.
func authorYearKey(ref document.Reference) string {
	if len(ref.Authors) == 0 {
		return ""
	}
	family := strings.ToLower(ref.Authors[0].FamilyName())
	if family == "" {
		return ""
	}
	if ref.Year == 0 {
		return family
	}
	return fmt.Sprintf("%s_%d", family, ref.Year)
}
