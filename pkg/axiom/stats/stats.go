// Package stats computes metrics over a rule set: operator usage,
// per-rule complexity, nesting depth, and fact dependencies. Reports
// render as plain text or HTML.
package stats

import (
	"sort"

	"github.com/cognicore/axiom/pkg/axiom/graph"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Operator display names, keyed the way the input syntax writes them.
const (
	OpNot     = "NOT (!)"
	OpAnd     = "AND (+)"
	OpOr      = "OR (|)"
	OpXor     = "XOR (^)"
	OpImplies = "IMPLIES (=>)"
	OpIff     = "IFF (<=>)"
)

// RuleScore pairs a rule with its complexity score.
type RuleScore struct {
	Rule  string
	Score int
}

// Dependency lists the facts a fact's truth can depend on.
type Dependency struct {
	Fact      string
	DependsOn []string
}

// Report holds the full set of metrics for a rule set.
type Report struct {
	TotalRules         int
	BiconditionalRules int
	InitialFacts       []string
	FactsUsed          []string
	FactsConcluded     []string
	OperatorCounts     map[string]int
	AvgComplexity      float64
	MaxComplexity      int
	MinComplexity      int
	MaxDepth           int
	Dependencies       []Dependency
	TopRules           []RuleScore
}

// topRuleCount caps the most-complex-rules listing.
const topRuleCount = 5

// Analyze computes a report over the given rules and initial facts.
func Analyze(rules []parser.Rule, initialFacts map[string]struct{}) *Report {
	r := &Report{
		TotalRules:     len(rules),
		OperatorCounts: make(map[string]int),
	}

	for f := range initialFacts {
		r.InitialFacts = append(r.InitialFacts, f)
	}
	sort.Strings(r.InitialFacts)

	used := make(map[string]struct{})
	concluded := make(map[string]struct{})
	scores := make([]RuleScore, 0, len(rules))

	for _, rule := range rules {
		if rule.Biconditional {
			r.BiconditionalRules++
		}

		score := countOperators(rule.Condition, r.OperatorCounts) +
			countOperators(rule.Conclusion, r.OperatorCounts)
		scores = append(scores, RuleScore{Rule: rule.String(), Score: score})

		if d := max(depth(rule.Condition), depth(rule.Conclusion)); d > r.MaxDepth {
			r.MaxDepth = d
		}

		for _, f := range rule.Condition.Facts() {
			used[f] = struct{}{}
		}
		for _, f := range rule.Conclusion.Facts() {
			concluded[f] = struct{}{}
		}
	}

	r.FactsUsed = sortedKeys(used)
	r.FactsConcluded = sortedKeys(concluded)

	if len(scores) > 0 {
		total := 0
		r.MaxComplexity = scores[0].Score
		r.MinComplexity = scores[0].Score
		for _, s := range scores {
			total += s.Score
			if s.Score > r.MaxComplexity {
				r.MaxComplexity = s.Score
			}
			if s.Score < r.MinComplexity {
				r.MinComplexity = s.Score
			}
		}
		r.AvgComplexity = float64(total) / float64(len(scores))

		top := append([]RuleScore{}, scores...)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
		if len(top) > topRuleCount {
			top = top[:topRuleCount]
		}
		r.TopRules = top
	}

	r.Dependencies = dependencies(graph.Build(rules, initialFacts))
	return r
}

// countOperators tallies the operators in expr into counts and returns
// how many it added.
func countOperators(expr parser.Expr, counts map[string]int) int {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return 0
	case *parser.NotExpr:
		counts[OpNot]++
		return 1 + countOperators(n.Operand, counts)
	case *parser.BinaryExpr:
		name := ""
		switch n.Op {
		case parser.OpAnd:
			name = OpAnd
		case parser.OpOr:
			name = OpOr
		case parser.OpXor:
			name = OpXor
		case parser.OpImplies:
			name = OpImplies
		case parser.OpIff:
			name = OpIff
		}
		counts[name]++
		return 1 + countOperators(n.Left, counts) + countOperators(n.Right, counts)
	}
	return 0
}

func depth(expr parser.Expr) int {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return 0
	case *parser.NotExpr:
		return 1 + depth(n.Operand)
	case *parser.BinaryExpr:
		return 1 + max(depth(n.Left), depth(n.Right))
	}
	return 0
}

// dependencies maps every positive fact to the facts appearing in the
// conditions of rules that can conclude it.
func dependencies(g *graph.Graph) []Dependency {
	var out []Dependency
	for _, fact := range g.PositiveFacts() {
		set := make(map[string]struct{})
		for _, rn := range g.RulesConcluding(fact) {
			for _, f := range rn.Rule.Condition.Facts() {
				set[f] = struct{}{}
			}
		}
		if len(set) > 0 {
			out = append(out, Dependency{Fact: fact, DependsOn: sortedKeys(set)})
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
