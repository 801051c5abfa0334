// Package graph builds the bidirectional fact/rule index used by the
// inference engine and its collaborators.
//
// Facts and rules are stored in arenas addressed by stable keys (fact name,
// integer rule id); edges are key-to-key relations, so the structure holds
// no pointer cycles. A negated conclusion is indexed under the key "!X",
// which exists only so that rules concluding a negation can be found.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Negate returns the index key for the negation of fact.
func Negate(fact string) string { return "!" + fact }

// FactNode is a fact in the index. Identity is the fact name.
type FactNode struct {
	Fact      string
	IsInitial bool

	// ConcludedBy holds ids of rules whose conclusion can establish this
	// fact; UsedBy holds ids of rules referencing it in their condition.
	ConcludedBy map[int]struct{}
	UsedBy      map[int]struct{}
}

// RuleNode is one directional rule entry. A biconditional source rule k
// materializes as two nodes with ids 2k and 2k+1; a plain rule keeps id k.
type RuleNode struct {
	ID   int
	Rule parser.Rule

	ConditionFacts map[string]struct{}
	ConcludedFacts map[string]struct{}
}

// Graph is the immutable bidirectional index over a rule set.
type Graph struct {
	facts map[string]*FactNode
	rules map[int]*RuleNode
	order []int // rule ids in insertion order

	// Warnings records rules whose conclusion contributes nothing to the
	// index (NOT applied to a compound expression).
	Warnings []string
}

// Build constructs the index from rules and the initial-fact set. Every
// fact referenced anywhere gets exactly one node; fact-rule edges are
// created in both directions together.
func Build(rules []parser.Rule, initialFacts map[string]struct{}) *Graph {
	g := &Graph{
		facts: make(map[string]*FactNode),
		rules: make(map[int]*RuleNode),
	}

	for fact := range initialFacts {
		g.factNode(fact).IsInitial = true
	}
	for _, rule := range rules {
		for _, fact := range rule.AllFacts() {
			g.factNode(fact)
		}
	}

	// Every source rule owns the id pair (2*idx, 2*idx+1) so a
	// biconditional's reverse direction can never collide with a later
	// rule's id.
	for idx, rule := range rules {
		if rule.Biconditional {
			forward := parser.Rule{Condition: rule.Condition, Conclusion: rule.Conclusion}
			reverse := parser.Rule{Condition: rule.Conclusion, Conclusion: rule.Condition}
			g.link(idx*2, forward)
			g.link(idx*2+1, reverse)
		} else {
			g.link(idx*2, rule)
		}
	}

	return g
}

func (g *Graph) factNode(fact string) *FactNode {
	node, ok := g.facts[fact]
	if !ok {
		node = &FactNode{
			Fact:        fact,
			ConcludedBy: make(map[int]struct{}),
			UsedBy:      make(map[int]struct{}),
		}
		g.facts[fact] = node
	}
	return node
}

func (g *Graph) link(id int, rule parser.Rule) {
	node := &RuleNode{
		ID:             id,
		Rule:           rule,
		ConditionFacts: make(map[string]struct{}),
		ConcludedFacts: make(map[string]struct{}),
	}

	for _, fact := range rule.Condition.Facts() {
		fn := g.factNode(fact)
		node.ConditionFacts[fact] = struct{}{}
		fn.UsedBy[id] = struct{}{}
	}

	concluded := ConcludedFacts(rule.Conclusion)
	if len(concluded) == 0 {
		g.Warnings = append(g.Warnings,
			fmt.Sprintf("rule %q concludes nothing: negated compound conclusions are not indexable", rule))
	}
	for _, fact := range concluded {
		fn := g.factNode(fact)
		node.ConcludedFacts[fact] = struct{}{}
		fn.ConcludedBy[id] = struct{}{}
	}

	g.rules[id] = node
	g.order = append(g.order, id)
}

// ConcludedFacts flattens a conclusion expression into the fact keys it can
// establish. AND/OR/XOR recurse into both sides; !X yields the negation key
// "!X"; NOT over anything other than a plain fact yields nothing.
func ConcludedFacts(conclusion parser.Expr) []string {
	set := make(map[string]struct{})
	collectConcluded(conclusion, set)

	out := make([]string, 0, len(set))
	for fact := range set {
		out = append(out, fact)
	}
	sort.Strings(out)
	return out
}

func collectConcluded(node parser.Expr, set map[string]struct{}) {
	switch n := node.(type) {
	case *parser.FactExpr:
		set[n.Name] = struct{}{}
	case *parser.NotExpr:
		if fact, ok := n.Operand.(*parser.FactExpr); ok {
			set[Negate(fact.Name)] = struct{}{}
		}
	case *parser.BinaryExpr:
		switch n.Op {
		case parser.OpAnd, parser.OpOr, parser.OpXor:
			collectConcluded(n.Left, set)
			collectConcluded(n.Right, set)
		}
	}
}

// Fact returns the node for a fact name, or nil if the fact never appears.
func (g *Graph) Fact(fact string) *FactNode {
	return g.facts[fact]
}

// Rule returns the rule node with the given id, or nil.
func (g *Graph) Rule(id int) *RuleNode {
	return g.rules[id]
}

// IsInitial reports whether fact was asserted in the initial-fact set.
func (g *Graph) IsInitial(fact string) bool {
	node := g.facts[fact]
	return node != nil && node.IsInitial
}

// Facts returns all fact names in the graph, sorted. Negation keys are
// included.
func (g *Graph) Facts() []string {
	out := make([]string, 0, len(g.facts))
	for fact := range g.facts {
		out = append(out, fact)
	}
	sort.Strings(out)
	return out
}

// PositiveFacts returns all fact names excluding negation keys, sorted.
func (g *Graph) PositiveFacts() []string {
	var out []string
	for fact := range g.facts {
		if !strings.HasPrefix(fact, "!") {
			out = append(out, fact)
		}
	}
	sort.Strings(out)
	return out
}

// Rules returns all rule nodes in insertion order.
func (g *Graph) Rules() []*RuleNode {
	out := make([]*RuleNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.rules[id])
	}
	return out
}

// RulesConcluding returns the rules that can establish fact, ordered by id.
func (g *Graph) RulesConcluding(fact string) []*RuleNode {
	node := g.facts[fact]
	if node == nil {
		return nil
	}
	return g.sortedRules(node.ConcludedBy)
}

// RulesUsing returns the rules referencing fact in their condition,
// ordered by id.
func (g *Graph) RulesUsing(fact string) []*RuleNode {
	node := g.facts[fact]
	if node == nil {
		return nil
	}
	return g.sortedRules(node.UsedBy)
}

func (g *Graph) sortedRules(ids map[int]struct{}) []*RuleNode {
	out := make([]*RuleNode, 0, len(ids))
	for id := range ids {
		out = append(out, g.rules[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DependencyChain returns every fact the given fact transitively depends
// on: the closure over condition facts of concluding rules. The starting
// fact itself is excluded even when it participates in a cycle.
func (g *Graph) DependencyChain(fact string) []string {
	visited := make(map[string]struct{})
	frontier := []string{fact}

	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, ok := visited[current]; ok {
			continue
		}
		visited[current] = struct{}{}

		for _, rule := range g.RulesConcluding(current) {
			for dep := range rule.ConditionFacts {
				if _, ok := visited[dep]; !ok {
					frontier = append(frontier, dep)
				}
			}
		}
	}

	delete(visited, fact)
	out := make([]string, 0, len(visited))
	for f := range visited {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph(facts=%d, rules=%d)", len(g.facts), len(g.rules))
}
