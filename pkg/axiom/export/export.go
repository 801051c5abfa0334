// Package export serializes justification graphs. A justification graph
// records how each queried fact got its truth value: which initial facts
// support it, which rules fired, and the resulting provenance edges. The
// graph can be written as Graphviz DOT, JSON, or a SQLite file.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cognicore/axiom/pkg/axiom/explain"
	"github.com/cognicore/axiom/pkg/axiom/infer"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Kind classifies a provenance node.
type Kind string

const (
	KindInitial Kind = "initial"
	KindQuery   Kind = "query"
	KindDerived Kind = "derived"
)

// Node is one fact in the justification graph together with its
// provenance: the facts that supported it and the rules that fired.
type Node struct {
	Fact       string
	Value      infer.Truth
	Kind       Kind
	Supporting map[string]struct{}
	RulesUsed  []string
}

// Edge records that a supporting fact contributed to a fact through a
// specific rule.
type Edge struct {
	From string
	To   string
	Rule string
}

// Graph is a justification graph built by tracing queries through the
// inference engine.
type Graph struct {
	eng     *infer.Engine
	nodes   map[string]*Node
	order   []string
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// Build traces the given queries through the engine and collects the
// provenance of every fact that participated in an applied rule.
func Build(eng *infer.Engine, queries []string) *Graph {
	g := &Graph{
		eng:     eng,
		nodes:   make(map[string]*Node),
		edgeSet: make(map[Edge]struct{}),
	}

	kg := eng.Graph()
	for _, fact := range kg.PositiveFacts() {
		if kg.IsInitial(fact) {
			g.addNode(fact, infer.True, KindInitial)
		}
	}

	for _, q := range queries {
		g.traceFact(q, true, make(map[string]struct{}))
	}
	return g
}

// Nodes returns the provenance nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, fact := range g.order {
		out = append(out, g.nodes[fact])
	}
	return out
}

// Edges returns the provenance edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

func (g *Graph) addNode(fact string, value infer.Truth, kind Kind) *Node {
	if n, ok := g.nodes[fact]; ok {
		return n
	}
	n := &Node{
		Fact:       fact,
		Value:      value,
		Kind:       kind,
		Supporting: make(map[string]struct{}),
	}
	g.nodes[fact] = n
	g.order = append(g.order, fact)
	return n
}

func formatRule(rule parser.Rule) string {
	return explain.Formal(rule.Condition) + " ⇒ " + explain.Formal(rule.Conclusion)
}

func (g *Graph) traceFact(fact string, isQuery bool, visited map[string]struct{}) {
	if _, ok := visited[fact]; ok {
		return
	}
	visited[fact] = struct{}{}

	value := g.eng.Query(fact)
	node := g.addNode(fact, value, KindDerived)
	if isQuery {
		node.Kind = KindQuery
	}

	if g.eng.Graph().IsInitial(fact) {
		return
	}

	for _, rn := range g.eng.Graph().RulesConcluding(fact) {
		if g.traceExpr(rn.Rule.Condition, visited) != infer.True {
			continue
		}
		ruleStr := formatRule(rn.Rule)
		node.RulesUsed = append(node.RulesUsed, ruleStr)

		for _, support := range rn.Rule.Condition.Facts() {
			node.Supporting[support] = struct{}{}
			edge := Edge{From: support, To: fact, Rule: ruleStr}
			if _, ok := g.edgeSet[edge]; !ok {
				g.edgeSet[edge] = struct{}{}
				g.edges = append(g.edges, edge)
			}
			g.traceFact(support, false, visited)
		}
	}
}

func (g *Graph) traceExpr(expr parser.Expr, visited map[string]struct{}) infer.Truth {
	switch n := expr.(type) {
	case *parser.FactExpr:
		g.traceFact(n.Name, false, visited)
		return g.eng.Query(n.Name)
	case *parser.NotExpr:
		return infer.Not(g.traceExpr(n.Operand, visited))
	case *parser.BinaryExpr:
		left := g.traceExpr(n.Left, visited)
		right := g.traceExpr(n.Right, visited)
		switch n.Op {
		case parser.OpAnd:
			return infer.And(left, right)
		case parser.OpOr:
			return infer.Or(left, right)
		case parser.OpXor:
			return infer.Xor(left, right)
		}
	}
	return infer.Undetermined
}

// WriteDOT writes the graph in Graphviz DOT format. Initial facts are
// drawn as blue boxes, queries as double octagons coloured by truth
// value, derived facts as plain boxes.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph JustificationGraph {\n")
	b.WriteString("  rankdir=BT;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")

	for _, node := range g.Nodes() {
		color, shape := "white", "box"
		switch node.Kind {
		case KindInitial:
			color = "lightblue"
		case KindQuery:
			shape = "doubleoctagon"
			switch node.Value {
			case infer.True:
				color = "lightgreen"
			case infer.False:
				color = "lightcoral"
			default:
				color = "lightyellow"
			}
		}
		fmt.Fprintf(&b, "  %q [label=\"%s\\n%s\", fillcolor=%s, style=filled, shape=%s];\n",
			node.Fact, node.Fact, node.Value, color, shape)
	}
	b.WriteString("\n")

	for _, e := range g.edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, e.Rule)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonNode struct {
	ID         string   `json:"id"`
	Value      string   `json:"value"`
	Type       string   `json:"type"`
	Supporting []string `json:"supporting_facts"`
	RulesUsed  []string `json:"rules_used"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rule string `json:"rule"`
}

type jsonMetadata struct {
	TotalRules   int      `json:"total_rules"`
	InitialFacts []string `json:"initial_facts"`
	TotalNodes   int      `json:"total_nodes"`
}

type jsonGraph struct {
	Nodes    []jsonNode   `json:"nodes"`
	Edges    []jsonEdge   `json:"edges"`
	Metadata jsonMetadata `json:"metadata"`
}

// WriteJSON writes the graph as an indented JSON document with nodes,
// edges, and summary metadata.
func (g *Graph) WriteJSON(w io.Writer) error {
	doc := jsonGraph{
		Nodes: make([]jsonNode, 0, len(g.order)),
		Edges: make([]jsonEdge, 0, len(g.edges)),
	}

	for _, node := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:         node.Fact,
			Value:      node.Value.String(),
			Type:       string(node.Kind),
			Supporting: sortedSet(node.Supporting),
			RulesUsed:  append([]string{}, node.RulesUsed...),
		})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, jsonEdge{From: e.From, To: e.To, Rule: e.Rule})
	}

	var initial []string
	kg := g.eng.Graph()
	for _, fact := range kg.PositiveFacts() {
		if kg.IsInitial(fact) {
			initial = append(initial, fact)
		}
	}
	doc.Metadata = jsonMetadata{
		TotalRules:   len(kg.Rules()),
		InitialFacts: initial,
		TotalNodes:   len(g.nodes),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
