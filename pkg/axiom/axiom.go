// Package axiom is the main facade over the propositional expert system:
// it loads a rule file, validates it, builds the knowledge graph and
// answers truth-value queries.
package axiom

import (
	"fmt"

	"github.com/cognicore/axiom/pkg/axiom/graph"
	"github.com/cognicore/axiom/pkg/axiom/infer"
	"github.com/cognicore/axiom/pkg/axiom/parser"
	"github.com/cognicore/axiom/pkg/axiom/rulefile"
)

// System bundles one loaded rule set with its graph and inference engine.
// The graph and initial facts are immutable for the lifetime of the
// system; evaluating a different fact set means loading a new System.
type System struct {
	input  rulefile.Input
	graph  *graph.Graph
	engine *infer.Engine
}

// Load extracts, validates and indexes rule text.
func Load(text string) (*System, error) {
	in := rulefile.Parse(text)
	if err := rulefile.Validate(in); err != nil {
		return nil, err
	}

	g := graph.Build(in.Rules, in.InitialFacts)
	return &System{
		input:  in,
		graph:  g,
		engine: infer.NewFromGraph(g),
	}, nil
}

// LoadFile reads and loads a rule file from disk.
func LoadFile(path string) (*System, error) {
	in, err := rulefile.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	if err := rulefile.Validate(in); err != nil {
		return nil, err
	}

	g := graph.Build(in.Rules, in.InitialFacts)
	return &System{
		input:  in,
		graph:  g,
		engine: infer.NewFromGraph(g),
	}, nil
}

// Rules returns the parsed rules in file order.
func (s *System) Rules() []parser.Rule { return s.input.Rules }

// InitialFacts returns the asserted fact set.
func (s *System) InitialFacts() map[string]struct{} { return s.input.InitialFacts }

// Queries returns the query facts in file order.
func (s *System) Queries() []string { return s.input.Queries }

// Warnings returns the lines skipped during extraction.
func (s *System) Warnings() []rulefile.Warning { return s.input.Warnings }

// Graph exposes the bidirectional fact/rule index.
func (s *System) Graph() *graph.Graph { return s.graph }

// Engine exposes the inference engine.
func (s *System) Engine() *infer.Engine { return s.engine }

// Query resolves a single fact.
func (s *System) Query(fact string) infer.Truth { return s.engine.Query(fact) }

// Answer resolves the file's own queries in the order they were requested.
func (s *System) Answer() []infer.Result {
	return s.engine.QueryAll(s.input.Queries)
}
