// Package parser builds expression trees and rules from token streams.
//
// Grammar, lowest to highest precedence:
//
//	rule    -> iff
//	iff     -> implies ('<=>' implies)*
//	implies -> or ('=>' or)*
//	or      -> xor ('|' xor)*
//	xor     -> and ('^' and)*
//	and     -> not ('+' not)*
//	not     -> '!' not | primary
//	primary -> '(' iff ')' | FACT
package parser

import (
	"sort"
	"strings"
)

// Op identifies a binary operator.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpXor
	OpImplies
	OpIff
)

var opSymbols = map[Op]string{
	OpAnd:     "+",
	OpOr:      "|",
	OpXor:     "^",
	OpImplies: "=>",
	OpIff:     "<=>",
}

func (o Op) String() string { return opSymbols[o] }

// Expr is a node in an expression tree. The operator set is fixed and
// closed: consumers switch exhaustively over FactExpr, NotExpr and
// BinaryExpr. Trees are immutable after parsing and acyclic by
// construction.
type Expr interface {
	// Facts returns the sorted set of fact names referenced by this
	// subtree.
	Facts() []string

	// String renders the expression in input syntax.
	String() string

	sealed()
}

// FactExpr is a single fact reference (A-Z).
type FactExpr struct {
	Name string
}

// NotExpr negates its operand.
type NotExpr struct {
	Operand Expr
}

// BinaryExpr applies Op to two operands.
type BinaryExpr struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (*FactExpr) sealed()   {}
func (*NotExpr) sealed()    {}
func (*BinaryExpr) sealed() {}

func (e *FactExpr) Facts() []string { return []string{e.Name} }

func (e *NotExpr) Facts() []string { return e.Operand.Facts() }

func (e *BinaryExpr) Facts() []string {
	set := make(map[string]struct{})
	for _, f := range e.Left.Facts() {
		set[f] = struct{}{}
	}
	for _, f := range e.Right.Facts() {
		set[f] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (e *FactExpr) String() string { return e.Name }

func (e *NotExpr) String() string { return "!" + e.Operand.String() }

func (e *BinaryExpr) String() string {
	var b strings.Builder
	left := e.Left.String()
	right := e.Right.String()
	if _, ok := e.Left.(*BinaryExpr); ok {
		left = "(" + left + ")"
	}
	if _, ok := e.Right.(*BinaryExpr); ok {
		right = "(" + right + ")"
	}
	b.WriteString(left)
	b.WriteString(" ")
	b.WriteString(e.Op.String())
	b.WriteString(" ")
	b.WriteString(right)
	return b.String()
}

// Rule is condition => conclusion, or condition <=> conclusion when
// Biconditional is set.
type Rule struct {
	Condition     Expr
	Conclusion    Expr
	Biconditional bool
}

// AllFacts returns the sorted set of facts referenced anywhere in the rule.
func (r Rule) AllFacts() []string {
	set := make(map[string]struct{})
	for _, f := range r.Condition.Facts() {
		set[f] = struct{}{}
	}
	for _, f := range r.Conclusion.Facts() {
		set[f] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (r Rule) String() string {
	op := "=>"
	if r.Biconditional {
		op = "<=>"
	}
	return r.Condition.String() + " " + op + " " + r.Conclusion.String()
}
