// Package citations extracts in-text citation markers and links them to
// bibliography references.
package citations

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/document"
)

// DefaultContextWindow is the number of characters kept on each side of a
// citation match as context.
const DefaultContextWindow = 100

// maxReferenceDigits is the longest numeric token accepted as a reference
// number. A 4-digit token is treated as a probable publication year.
const maxReferenceDigits = 3

var (
	// [1], [1,2], [1, 2], [1 2], [1-3]
	bracketPattern = regexp.MustCompile(`\[(\d+(?:[,\s–-]+\d+)*)\]`)
	// (1), (1,2), (1, 2)
	parenPattern = regexp.MustCompile(`\((\d+(?:[,\s–-]+\d+)*)\)`)

	// Smith et al. (2023) / Smith (2023)
	authorYearPattern = regexp.MustCompile(`([A-Z][a-z]+(?:\s+et\s+al\.)?)\s*\((\d{4}[a-z]?)\)`)
	// (Smith et al., 2023) / (Smith, 2023)
	parenAuthorYearPattern = regexp.MustCompile(`\(([A-Z][a-z]+(?:\s+et\s+al\.)?),\s*(\d{4}[a-z]?)\)`)

	numericSeparator = regexp.MustCompile(`[,\s–-]+`)
	etAlToken        = regexp.MustCompile(`\s*et\s+al\.?\s*`)
	parensAndCommas  = regexp.MustCompile(`[(),]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Extractor recognizes numeric and author-year citation markers.
type Extractor struct {
	contextWindow int
	log           *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContextWindow sets the context window size in characters.
func WithContextWindow(n int) Option {
	return func(e *Extractor) {
		e.contextWindow = n
	}
}

// NewExtractor creates a citation extractor. A nil logger is replaced
// with a no-op logger.
func NewExtractor(log *zap.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{
		contextWindow: DefaultContextWindow,
		log:           log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns all citations found in text whose start offset does not
// fall inside any of the given equation spans. Numeric citations containing
// only 4-digit tokens (probable years) are dropped.
func (e *Extractor) Extract(text string, equationSpans []document.Span) []document.Citation {
	var citations []document.Citation

	for _, pat := range []*regexp.Regexp{bracketPattern, parenPattern} {
		for _, m := range pat.FindAllStringSubmatchIndex(text, -1) {
			if insideAny(equationSpans, m[0]) {
				continue
			}

			numbers := referenceNumbers(text[m[2]:m[3]])
			if len(numbers) == 0 {
				continue
			}

			citations = append(citations, document.Citation{
				Text:           text[m[0]:m[1]],
				Context:        e.contextAround(text, m[0], m[1]),
				CitationType:   document.CitationNumeric,
				Location:       document.Span{Start: m[0], End: m[1]},
				NormalizedText: joinNumbers(numbers),
				ReferenceID:    fmt.Sprintf("ref_%d", numbers[0]),
			})
		}
	}

	for _, pat := range []*regexp.Regexp{authorYearPattern, parenAuthorYearPattern} {
		for _, m := range pat.FindAllStringSubmatchIndex(text, -1) {
			if insideAny(equationSpans, m[0]) {
				continue
			}

			matched := text[m[0]:m[1]]
			normalized := NormalizeAuthorYear(matched)
			citations = append(citations, document.Citation{
				Text:           matched,
				Context:        e.contextAround(text, m[0], m[1]),
				CitationType:   document.CitationAuthorYear,
				Location:       document.Span{Start: m[0], End: m[1]},
				NormalizedText: normalized,
				ReferenceID:    normalized,
			})
		}
	}

	e.log.Debug("citation extraction complete", zap.Int("count", len(citations)))
	return citations
}

// referenceNumbers splits the bracket content on separators and keeps only
// tokens that parse as integers of at most maxReferenceDigits digits,
// sorted ascending.
func referenceNumbers(content string) []int {
	var numbers []int
	for _, tok := range numericSeparator.Split(content, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || len(tok) > maxReferenceDigits {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// NormalizeAuthorYear produces the canonical matching key for an
// author-year citation: lower-cased, parentheses and commas stripped,
// "et al." canonicalized, words joined with underscores.
// "Smith et al. (2023)" becomes "smith_et_al_2023".
func NormalizeAuthorYear(text string) string {
	s := strings.ToLower(text)
	s = parensAndCommas.ReplaceAllString(s, "")
	s = etAlToken.ReplaceAllString(s, "_et_al_")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "_")
	// Collapse runs produced by adjacent replacements.
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// contextAround returns a window of surrounding text clipped to bounds.
func (e *Extractor) contextAround(text string, start, end int) string {
	ctxStart := start - e.contextWindow
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + e.contextWindow
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	return strings.TrimSpace(text[ctxStart:ctxEnd])
}

func insideAny(spans []document.Span, pos int) bool {
	for _, s := range spans {
		if s.Contains(pos) {
			return true
		}
	}
	return false
}
