package document

import "fmt"

// Equation types recognized by the extractor.
const (
	EquationInline   = "inline"
	EquationDisplay  = "display"
	EquationNumbered = "numbered"
)

// Symbol categories.
const (
	SymbolGreek    = "greek"
	SymbolOperator = "operator"
)

// Symbol is a mathematical symbol token found inside an equation.
type Symbol struct {
	Symbol string `json:"symbol"` // LaTeX command without backslash, e.g. "alpha"
	Type   string `json:"type"`   // greek or operator
}

// Equation is a mathematical region extracted from document text.
// Equations are immutable after creation.
type Equation struct {
	Content        string   `json:"content"`
	Context        string   `json:"context,omitempty"`
	EquationType   string   `json:"equation_type"`
	Symbols        []Symbol `json:"symbols,omitempty"`
	EquationNumber string   `json:"equation_number,omitempty"` // from \label{...}
	Line           int      `json:"line"`                      // 1-based source line
	Location       Span     `json:"location"`
}

// Validate checks the equation type and required fields.
func (e Equation) Validate() error {
	if e.Content == "" {
		return fmt.Errorf("equation content cannot be empty")
	}
	switch e.EquationType {
	case EquationInline, EquationDisplay, EquationNumbered:
	default:
		return fmt.Errorf("equation type must be inline, display, or numbered, got %q", e.EquationType)
	}
	return nil
}
