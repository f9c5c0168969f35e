// Package references resolves a document's bibliography from a DOI lookup
// or from the raw text of its references section.
package references

import "strings"

// Section heading markers, matched case-insensitively against whole lines.
var (
	startMarkers = []string{"references", "bibliography"}
	endMarkers   = []string{"appendix", "acknowledgments"}
)

// ExtractSection isolates the references section of a document: lines after
// a heading matching references/bibliography, truncated at the next
// appendix/acknowledgments heading. Returns false when no heading is found.
func ExtractSection(text string) (string, bool) {
	var collected []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !inSection {
			if containsAny(lower, startMarkers) {
				inSection = true
			}
			continue
		}
		if containsAny(lower, endMarkers) {
			break
		}
		collected = append(collected, line)
	}

	if !inSection || len(collected) == 0 {
		return "", false
	}

	section := strings.TrimSpace(strings.Join(collected, "\n"))
	if section == "" {
		return "", false
	}
	return section, true
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
