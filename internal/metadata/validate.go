package metadata

import "github.com/lightwriter/lightwriter/internal/document"

// Validation rule names, in reporting order.
const (
	RuleBasicMetadata = "basic_metadata"
	RuleReferences    = "references"
	RuleEquations     = "equations"
	RuleCitations     = "citations"
)

var ruleOrder = []string{RuleBasicMetadata, RuleReferences, RuleEquations, RuleCitations}

// Validate runs every validation rule against a consolidated record and
// returns the per-rule outcome.
func Validate(m *document.Metadata) map[string]bool {
	return map[string]bool{
		RuleBasicMetadata: validBasic(m),
		RuleReferences:    validReferences(m),
		RuleEquations:     validEquations(m),
		RuleCitations:     validCitations(m),
	}
}

// validBasic requires the identity fields plus a title and at least one
// author.
func validBasic(m *document.Metadata) bool {
	return m.FilePath != "" && m.FileHash != "" && m.Title != "" && len(m.Authors) > 0
}

// validReferences passes vacuously when no references were extracted;
// otherwise every reference needs a key, at least one author, and either
// a title or raw text.
func validReferences(m *document.Metadata) bool {
	for _, ref := range m.References {
		if ref.ReferenceID == "" || len(ref.Authors) == 0 {
			return false
		}
		if ref.Title == "" && ref.RawText == "" {
			return false
		}
	}
	return true
}

// validEquations requires content and a type on each equation, and a
// non-empty symbol string on every tagged symbol.
func validEquations(m *document.Metadata) bool {
	for _, eq := range m.Equations {
		if eq.Content == "" || eq.EquationType == "" {
			return false
		}
		for _, sym := range eq.Symbols {
			if sym.Symbol == "" {
				return false
			}
		}
	}
	return true
}

// validCitations requires each citation to carry text and a key that
// resolves to an extracted reference.
func validCitations(m *document.Metadata) bool {
	if len(m.Citations) == 0 {
		return true
	}
	keys := m.ReferenceKeys()
	for _, cit := range m.Citations {
		if cit.Text == "" || cit.ReferenceID == "" {
			return false
		}
		if !keys[cit.ReferenceID] {
			return false
		}
	}
	return true
}
