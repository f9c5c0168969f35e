package pdf

import (
	"regexp"
	"strings"
)

// Identifier types recognized in document text.
const (
	IdentifierDOI   = "doi"
	IdentifierArXiv = "arxiv"
)

// MethodPattern names the extraction method for identifiers found by
// pattern matching over document text.
const MethodPattern = "pattern"

// identifierSearchPages bounds the scan: identifiers appear on the
// first page of nearly every paper.
const identifierSearchPages = 3

var (
	doiPattern   = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
	arxivPattern = regexp.MustCompile(`(?i)arxiv[:.]?\s*(\d{4}\.\d{4,5}(?:v\d+)?)`)
	// Bare new-style arXiv IDs, used only when an explicit arXiv marker
	// is absent.
	bareArxivPattern = regexp.MustCompile(`\b(\d{4}\.\d{4,5}(?:v\d+)?)\b`)
)

// Identifier is a recognized document identifier.
type Identifier struct {
	Value string
	Type  string
}

// FindIdentifier scans text for a DOI or arXiv identifier. DOIs take
// precedence over arXiv IDs when both are present.
func FindIdentifier(text string) (Identifier, bool) {
	if doi := findDOI(text); doi != "" {
		return Identifier{Value: doi, Type: IdentifierDOI}, true
	}
	if id := findArxivID(text); id != "" {
		return Identifier{Value: id, Type: IdentifierArXiv}, true
	}
	return Identifier{}, false
}

// ExtractIdentifier opens a PDF and searches its leading pages for a
// document identifier. A missing identifier is not an error.
func ExtractIdentifier(path string) (Identifier, bool, error) {
	text, err := ExtractText(path, identifierSearchPages)
	if err != nil {
		return Identifier{}, false, err
	}
	id, ok := FindIdentifier(text)
	return id, ok, nil
}

// findDOI returns the first plausible DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// findArxivID returns the first arXiv identifier in text, preferring
// IDs introduced by an explicit arXiv marker.
func findArxivID(text string) string {
	if m := arxivPattern.FindStringSubmatch(text); m != nil {
		return NormalizeArxivID(m[1])
	}
	if m := bareArxivPattern.FindStringSubmatch(text); m != nil {
		return NormalizeArxivID(m[1])
	}
	return ""
}

// NormalizeArxivID strips arXiv prefixes and a trailing version suffix,
// leaving the bare YYMM.NNNNN identifier.
func NormalizeArxivID(id string) string {
	id = strings.TrimSpace(id)
	lower := strings.ToLower(id)
	for _, prefix := range []string{"arxiv:", "arxiv."} {
		if strings.HasPrefix(lower, prefix) {
			id = id[len(prefix):]
			break
		}
	}
	if i := strings.LastIndexByte(id, 'v'); i > 0 {
		if allDigits(id[i+1:]) && id[i+1:] != "" {
			id = id[:i]
		}
	}
	return id
}

// isValidDOI performs basic structural validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
