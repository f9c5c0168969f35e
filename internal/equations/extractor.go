// Package equations extracts mathematical regions from document text.
package equations

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/document"
)

const (
	// DefaultContextLines is the number of lines kept on each side of an
	// equation as context.
	DefaultContextLines = 2

	// DefaultMinInlineLength is the minimum trimmed content length for
	// inline math. Shorter matches are usually stray currency tokens.
	DefaultMinInlineLength = 5
)

var (
	displayPattern  = regexp.MustCompile(`\$\$([\s\S]+?)\$\$`)
	inlinePattern   = regexp.MustCompile(`\$([^$\n]+)\$`)
	equationEnvPat  = regexp.MustCompile(`\\begin\{equation\*?\}([\s\S]+?)\\end\{equation\*?\}`)
	alignEnvPat     = regexp.MustCompile(`\\begin\{align\*?\}([\s\S]+?)\\end\{align\*?\}`)
	labelPattern    = regexp.MustCompile(`\\label\{([^}]+)\}`)
	commandPattern  = regexp.MustCompile(`\\([a-zA-Z]+)`)
	newlineSplitter = "\n"
)

// Extractor recognizes display, inline, and numbered math regions.
type Extractor struct {
	contextLines int
	minInlineLen int
	log          *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContextLines sets the context window size in lines.
func WithContextLines(n int) Option {
	return func(e *Extractor) {
		e.contextLines = n
	}
}

// WithMinInlineLength sets the minimum inline content length.
func WithMinInlineLength(n int) Option {
	return func(e *Extractor) {
		e.minInlineLen = n
	}
}

// NewExtractor creates an equation extractor. A nil logger is replaced
// with a no-op logger.
func NewExtractor(log *zap.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{
		contextLines: DefaultContextLines,
		minInlineLen: DefaultMinInlineLength,
		log:          log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns all equations found in text, ordered by start offset
// within each pattern family: numbered environments first, then display
// math, then inline math. Inline candidates overlapping an already matched
// region are discarded, so $F$ inside $$F$$ is not double counted.
func (e *Extractor) Extract(text string) []document.Equation {
	lines := strings.Split(text, newlineSplitter)

	var equations []document.Equation
	var claimed []document.Span

	numbered := e.extractEnvironments(text, lines)
	for _, eq := range numbered {
		claimed = append(claimed, eq.Location)
	}
	equations = append(equations, numbered...)

	display := e.extractDisplay(text, lines, claimed)
	for _, eq := range display {
		claimed = append(claimed, eq.Location)
	}
	equations = append(equations, display...)

	equations = append(equations, e.extractInline(text, lines, claimed)...)

	e.log.Debug("equation extraction complete",
		zap.Int("numbered", len(numbered)),
		zap.Int("display", len(display)),
		zap.Int("total", len(equations)))

	return equations
}

// Spans returns the source spans of the given equations, for use by the
// citation extractor's exclusion check.
func Spans(equations []document.Equation) []document.Span {
	spans := make([]document.Span, 0, len(equations))
	for _, eq := range equations {
		spans = append(spans, eq.Location)
	}
	return spans
}

func (e *Extractor) extractEnvironments(text string, lines []string) []document.Equation {
	var equations []document.Equation
	for _, pat := range []*regexp.Regexp{equationEnvPat, alignEnvPat} {
		for _, m := range pat.FindAllStringSubmatchIndex(text, -1) {
			content := strings.TrimSpace(text[m[2]:m[3]])
			if content == "" {
				continue
			}

			// Pull out an optional \label{...} as the equation number and
			// strip the directive from stored content.
			var number string
			if lm := labelPattern.FindStringSubmatch(content); lm != nil {
				number = lm[1]
				content = strings.TrimSpace(labelPattern.ReplaceAllString(content, ""))
			}
			if content == "" {
				continue
			}

			line := lineNumberAt(text, m[0])
			equations = append(equations, document.Equation{
				Content:        content,
				Context:        e.contextAround(lines, line),
				EquationType:   document.EquationNumbered,
				Symbols:        TagSymbols(content),
				EquationNumber: number,
				Line:           line + 1,
				Location:       document.Span{Start: m[0], End: m[1]},
			})
		}
	}
	return equations
}

func (e *Extractor) extractDisplay(text string, lines []string, claimed []document.Span) []document.Equation {
	var equations []document.Equation
	for _, m := range displayPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(claimed, m[0], m[1]) {
			continue
		}
		content := strings.TrimSpace(text[m[2]:m[3]])
		if content == "" {
			continue
		}

		line := lineNumberAt(text, m[0])
		equations = append(equations, document.Equation{
			Content:      content,
			Context:      e.contextAround(lines, line),
			EquationType: document.EquationDisplay,
			Symbols:      TagSymbols(content),
			Line:         line + 1,
			Location:     document.Span{Start: m[0], End: m[1]},
		})
	}
	return equations
}

func (e *Extractor) extractInline(text string, lines []string, claimed []document.Span) []document.Equation {
	var equations []document.Equation
	offset := 0
	for i, lineText := range lines {
		for _, m := range inlinePattern.FindAllStringSubmatchIndex(lineText, -1) {
			start, end := offset+m[0], offset+m[1]
			if overlapsAny(claimed, start, end) {
				continue
			}
			content := strings.TrimSpace(lineText[m[2]:m[3]])
			if len(content) < e.minInlineLen {
				continue
			}

			equations = append(equations, document.Equation{
				Content:      content,
				Context:      e.contextAround(lines, i),
				EquationType: document.EquationInline,
				Symbols:      TagSymbols(content),
				Line:         i + 1,
				Location:     document.Span{Start: start, End: end},
			})
		}
		offset += len(lineText) + 1 // account for the newline
	}
	return equations
}

// contextAround joins the lines within the context window around line
// (0-based), clipped to the text bounds.
func (e *Extractor) contextAround(lines []string, line int) string {
	start := line - e.contextLines
	if start < 0 {
		start = 0
	}
	end := line + e.contextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// lineNumberAt returns the 0-based line number containing byte offset pos.
func lineNumberAt(text string, pos int) int {
	return strings.Count(text[:pos], "\n")
}

func overlapsAny(spans []document.Span, start, end int) bool {
	for _, s := range spans {
		if start < s.End && end > s.Start {
			return true
		}
	}
	return false
}
