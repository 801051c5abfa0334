// Package infer implements backward-chaining evaluation of facts over a
// knowledge graph, with three-valued logic, memoization and cycle handling.
package infer

import (
	"github.com/cognicore/axiom/pkg/axiom/graph"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Engine resolves fact queries against an immutable knowledge graph.
//
// The engine is single-threaded: each goroutine must own its own instance.
// A different initial-fact set requires a fresh engine; the cache is only
// valid for the graph it was built against.
type Engine struct {
	g          *graph.Graph
	cache      map[string]Truth
	evaluating map[string]struct{}
}

// Result pairs a queried fact with its resolved truth value.
type Result struct {
	Fact  string
	Value Truth
}

// New creates an engine over rules and initial facts.
func New(rules []parser.Rule, initialFacts map[string]struct{}) *Engine {
	return NewFromGraph(graph.Build(rules, initialFacts))
}

// NewFromGraph creates an engine over an already-built graph.
func NewFromGraph(g *graph.Graph) *Engine {
	return &Engine{
		g:          g,
		cache:      make(map[string]Truth),
		evaluating: make(map[string]struct{}),
	}
}

// Graph exposes the underlying index for collaborators that explain or
// visualize reasoning. They must walk the same condition/conclusion
// structure rather than re-deriving truth values on their own.
func (e *Engine) Graph() *graph.Graph { return e.g }

// RulesConcluding returns the rules that can establish fact.
func (e *Engine) RulesConcluding(fact string) []parser.Rule {
	nodes := e.g.RulesConcluding(fact)
	out := make([]parser.Rule, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Rule)
	}
	return out
}

// Query resolves the truth value of a single fact by backward chaining.
//
// A fact already on the evaluation stack resolves to UNDETERMINED; that is
// the cycle-breaking rule for mutually recursive rules. Only definite
// results are cached: an UNDETERMINED value is stack-dependent and may
// resolve differently from another entry point.
func (e *Engine) Query(fact string) Truth {
	if v, ok := e.cache[fact]; ok {
		return v
	}
	if _, ok := e.evaluating[fact]; ok {
		return Undetermined
	}

	e.evaluating[fact] = struct{}{}
	defer delete(e.evaluating, fact)

	result := e.evaluateFact(fact)
	if result != Undetermined {
		e.cache[fact] = result
	}
	return result
}

// QueryAll resolves each fact in order, sharing the cache across queries.
func (e *Engine) QueryAll(facts []string) []Result {
	out := make([]Result, 0, len(facts))
	for _, fact := range facts {
		out = append(out, Result{Fact: fact, Value: e.Query(fact)})
	}
	return out
}

// ResetCache clears memoized results and the in-flight set without
// rebuilding the graph.
func (e *Engine) ResetCache() {
	e.cache = make(map[string]Truth)
	e.evaluating = make(map[string]struct{})
}

func (e *Engine) evaluateFact(fact string) Truth {
	if e.g.IsInitial(fact) {
		return True
	}

	positive := e.g.RulesConcluding(fact)
	negative := e.g.RulesConcluding(graph.Negate(fact))
	if len(positive) == 0 && len(negative) == 0 {
		// Closed world: nothing can establish the fact either way.
		return False
	}

	canBeTrue := false
	undetermined := false

	for _, rule := range positive {
		switch e.Evaluate(rule.Rule.Condition) {
		case True:
			switch Concludes(rule.Rule.Conclusion, fact) {
			case True:
				canBeTrue = true
			case Undetermined:
				undetermined = true
			}
		case Undetermined:
			undetermined = true
		}
		if canBeTrue {
			// First confirmed derivation wins.
			break
		}
	}

	// Negation rules are always scanned: a proof of the negation next to a
	// proof of the fact is a contradiction and collapses to UNDETERMINED.
	for _, rule := range negative {
		switch e.Evaluate(rule.Rule.Condition) {
		case True:
			if canBeTrue {
				return Undetermined
			}
		case Undetermined:
			undetermined = true
		}
	}

	switch {
	case canBeTrue:
		return True
	case undetermined:
		return Undetermined
	default:
		return False
	}
}

// Evaluate reduces an expression tree to a truth value, resolving fact
// leaves through Query.
func (e *Engine) Evaluate(expr parser.Expr) Truth {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return e.Query(n.Name)

	case *parser.NotExpr:
		return Not(e.Evaluate(n.Operand))

	case *parser.BinaryExpr:
		left := e.Evaluate(n.Left)
		right := e.Evaluate(n.Right)
		switch n.Op {
		case parser.OpAnd:
			return And(left, right)
		case parser.OpOr:
			return Or(left, right)
		case parser.OpXor:
			return Xor(left, right)
		case parser.OpImplies:
			return Implies(left, right)
		case parser.OpIff:
			return Iff(left, right)
		}
	}
	return Undetermined
}

// Concludes reports whether a conclusion expression pins the target fact to
// true once the rule's condition holds.
//
// A plain fact matches only itself. A conjunctive conclusion asserts all of
// its conjuncts, so a match on either side confirms the fact. A disjunctive
// (OR/XOR) conclusion does not pin any one disjunct, so a match yields
// UNDETERMINED. A NOT conclusion never confirms the positive fact: over a
// plain fact operand the result is FALSE whether or not the operand is the
// target; over a compound operand nothing can be said and the result is
// UNDETERMINED.
func Concludes(conclusion parser.Expr, fact string) Truth {
	switch n := conclusion.(type) {
	case *parser.FactExpr:
		if n.Name == fact {
			return True
		}
		return False

	case *parser.NotExpr:
		if _, ok := n.Operand.(*parser.FactExpr); ok {
			return False
		}
		return Undetermined

	case *parser.BinaryExpr:
		switch n.Op {
		case parser.OpAnd:
			if Concludes(n.Left, fact) == True || Concludes(n.Right, fact) == True {
				return True
			}
			return False
		case parser.OpOr, parser.OpXor:
			if Concludes(n.Left, fact) == True || Concludes(n.Right, fact) == True {
				return Undetermined
			}
			return False
		}
	}
	return Undetermined
}
