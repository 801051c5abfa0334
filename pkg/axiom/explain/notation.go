package explain

import "github.com/cognicore/axiom/pkg/axiom/parser"

var formalOps = map[parser.Op]string{
	parser.OpAnd:     "∧",
	parser.OpOr:      "∨",
	parser.OpXor:     "⊕",
	parser.OpImplies: "⇒",
	parser.OpIff:     "⇔",
}

var naturalOps = map[parser.Op]string{
	parser.OpAnd:     "AND",
	parser.OpOr:      "OR",
	parser.OpXor:     "XOR",
	parser.OpImplies: "IMPLIES",
	parser.OpIff:     "IF-AND-ONLY-IF",
}

// Formal renders an expression in formal logic notation.
func Formal(expr parser.Expr) string {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return n.Name
	case *parser.NotExpr:
		return "¬" + Formal(n.Operand)
	case *parser.BinaryExpr:
		return "(" + Formal(n.Left) + " " + formalOps[n.Op] + " " + Formal(n.Right) + ")"
	}
	return "?"
}

// Natural renders an expression with spelled-out operator names.
func Natural(expr parser.Expr) string {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return n.Name
	case *parser.NotExpr:
		return "NOT " + Natural(n.Operand)
	case *parser.BinaryExpr:
		return "(" + Natural(n.Left) + " " + naturalOps[n.Op] + " " + Natural(n.Right) + ")"
	}
	return "?"
}
