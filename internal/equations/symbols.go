package equations

import "github.com/lightwriter/lightwriter/internal/document"

// greekCommands is the fixed vocabulary of Greek-letter LaTeX commands.
var greekCommands = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true,
	"epsilon": true, "varepsilon": true, "zeta": true, "eta": true,
	"theta": true, "vartheta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true,
	"pi": true, "rho": true, "sigma": true, "tau": true,
	"upsilon": true, "phi": true, "varphi": true, "chi": true,
	"psi": true, "omega": true,
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true,
	"Xi": true, "Pi": true, "Sigma": true, "Upsilon": true,
	"Phi": true, "Psi": true, "Omega": true,
}

// operatorCommands is the fixed vocabulary of mathematical operator commands.
var operatorCommands = map[string]bool{
	"sum": true, "prod": true, "int": true, "oint": true,
	"frac": true, "sqrt": true, "partial": true, "nabla": true,
	"infty": true, "lim": true, "log": true, "ln": true, "exp": true,
	"sin": true, "cos": true, "tan": true,
	"pm": true, "mp": true, "times": true, "div": true, "cdot": true,
	"leq": true, "geq": true, "neq": true, "approx": true, "sim": true,
	"equiv": true, "propto": true, "in": true, "subset": true,
	"cup": true, "cap": true, "forall": true, "exists": true,
	"rightarrow": true, "leftarrow": true, "Rightarrow": true,
	"Leftarrow": true, "mapsto": true,
}

// TagSymbols scans equation content for known Greek-letter and operator
// commands and returns one Symbol per distinct command, in order of first
// occurrence.
func TagSymbols(content string) []document.Symbol {
	var symbols []document.Symbol
	seen := make(map[string]bool)

	for _, m := range commandPattern.FindAllStringSubmatch(content, -1) {
		cmd := m[1]
		if seen[cmd] {
			continue
		}

		switch {
		case greekCommands[cmd]:
			symbols = append(symbols, document.Symbol{Symbol: cmd, Type: document.SymbolGreek})
		case operatorCommands[cmd]:
			symbols = append(symbols, document.Symbol{Symbol: cmd, Type: document.SymbolOperator})
		default:
			continue
		}
		seen[cmd] = true
	}

	return symbols
}
