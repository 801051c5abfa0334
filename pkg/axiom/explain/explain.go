// Package explain produces human-readable reasoning traces for fact
// queries. A trace walks the same rules the inference engine consults
// and reports every intermediate evaluation in natural language and in
// formal logic notation.
package explain

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/axiom/pkg/axiom/graph"
	"github.com/cognicore/axiom/pkg/axiom/infer"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Step is a single line of reasoning. Depth controls indentation when
// the trace is rendered; Formal is optional logic notation for the step.
type Step struct {
	Depth   int
	Message string
	Formal  string
}

// Trace is the full explanation for one queried fact.
type Trace struct {
	ID      string
	Fact    string
	Value   infer.Truth
	Summary string
	Steps   []Step
}

// String renders the trace as an indented bullet list followed by the
// one-line conclusion.
func (t Trace) String() string {
	var b strings.Builder
	for _, s := range t.Steps {
		indent := strings.Repeat("  ", s.Depth)
		b.WriteString(indent + "• " + s.Message + "\n")
		if s.Formal != "" {
			b.WriteString(indent + "  Formal: " + s.Formal + "\n")
		}
	}
	b.WriteString("\nCONCLUSION: " + t.Summary + "\n")
	return b.String()
}

// Explainer generates traces against a knowledge graph. It follows the
// engine's evaluation order exactly, so the truth value in a trace
// always matches what the engine would answer.
type Explainer struct {
	g       *graph.Graph
	entropy *ulid.MonotonicEntropy

	steps    []Step
	depth    int
	inFlight map[string]struct{}
	settled  map[string]infer.Truth
}

// New creates an Explainer over a built knowledge graph.
func New(g *graph.Graph) *Explainer {
	return &Explainer{
		g:       g,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Explain traces the evaluation of a single fact.
func (x *Explainer) Explain(fact string) Trace {
	x.steps = nil
	x.depth = 0
	x.inFlight = make(map[string]struct{})
	x.settled = make(map[string]infer.Truth)

	value := x.explainFact(fact)

	return Trace{
		ID:      ulid.MustNew(ulid.Now(), x.entropy).String(),
		Fact:    fact,
		Value:   value,
		Summary: x.summary(fact, value),
		Steps:   x.steps,
	}
}

// ExplainAll traces every fact in order.
func (x *Explainer) ExplainAll(facts []string) []Trace {
	out := make([]Trace, 0, len(facts))
	for _, f := range facts {
		out = append(out, x.Explain(f))
	}
	return out
}

func (x *Explainer) addStep(message, formal string) {
	x.steps = append(x.steps, Step{Depth: x.depth, Message: message, Formal: formal})
}

func (x *Explainer) explainFact(fact string) infer.Truth {
	if v, ok := x.settled[fact]; ok {
		x.addStep(
			fmt.Sprintf("%s is %s (established earlier in this trace)", fact, v),
			fmt.Sprintf("%s = %s", fact, v.Symbol()),
		)
		return v
	}
	if _, ok := x.inFlight[fact]; ok {
		x.addStep(
			fmt.Sprintf("%s depends on itself, cannot be resolved here", fact),
			fmt.Sprintf("%s = ?", fact),
		)
		return infer.Undetermined
	}
	x.inFlight[fact] = struct{}{}
	defer delete(x.inFlight, fact)

	value := x.deriveFact(fact)
	if value != infer.Undetermined {
		x.settled[fact] = value
	}
	return value
}

func (x *Explainer) deriveFact(fact string) infer.Truth {
	if x.g.IsInitial(fact) {
		x.addStep(
			fmt.Sprintf("%s is TRUE (given as initial fact)", fact),
			fmt.Sprintf("%s ∈ InitialFacts", fact),
		)
		return infer.True
	}

	positive := x.g.RulesConcluding(fact)
	negative := x.g.RulesConcluding(graph.Negate(fact))

	if len(positive) == 0 && len(negative) == 0 {
		x.addStep(
			fmt.Sprintf("%s is FALSE (no rules conclude %s, default is false)", fact, fact),
			fmt.Sprintf("%s = ⊥", fact),
		)
		return infer.False
	}

	canBeTrue := false
	undetermined := false

	if len(positive) > 0 {
		x.addStep(fmt.Sprintf("Checking rules that can conclude %s:", fact), "")
		x.depth++
		for i, rn := range positive {
			x.addStep(
				fmt.Sprintf("Rule %d: IF %s THEN %s", i+1,
					Natural(rn.Rule.Condition), Natural(rn.Rule.Conclusion)),
				Formal(rn.Rule.Condition)+" ⇒ "+Formal(rn.Rule.Conclusion),
			)

			x.depth++
			cond := x.explainExpr(rn.Rule.Condition)
			x.depth--

			condStr := Formal(rn.Rule.Condition)
			switch cond {
			case infer.True:
				switch infer.Concludes(rn.Rule.Conclusion, fact) {
				case infer.True:
					x.addStep(
						fmt.Sprintf("Condition is TRUE, so %s is TRUE", fact),
						fmt.Sprintf("%s = ⊤ → %s = ⊤", condStr, fact),
					)
					canBeTrue = true
				default:
					x.addStep(
						fmt.Sprintf("Condition is TRUE, but the conclusion does not pin %s down", fact),
						fmt.Sprintf("%s = ?", fact),
					)
					undetermined = true
				}
			case infer.Undetermined:
				x.addStep("Condition is UNDETERMINED", condStr+" = ?")
				undetermined = true
			default:
				x.addStep("Condition is FALSE, rule does not apply", condStr+" = ⊥")
			}
			if canBeTrue {
				break
			}
		}
		x.depth--
	}

	provenFalse := false
	if len(negative) > 0 {
		x.addStep(fmt.Sprintf("Checking rules that can conclude NOT %s:", fact), "")
		x.depth++
		for _, rn := range negative {
			x.depth++
			cond := x.explainExpr(rn.Rule.Condition)
			x.depth--
			switch cond {
			case infer.True:
				provenFalse = true
			case infer.Undetermined:
				undetermined = true
			}
		}
		x.depth--
	}

	switch {
	case canBeTrue && provenFalse:
		x.addStep(
			fmt.Sprintf("Contradiction: %s can be both TRUE and FALSE", fact),
			fmt.Sprintf("%s = ⊤ ∧ %s = ⊥ → %s = ?", fact, fact, fact),
		)
		return infer.Undetermined
	case canBeTrue:
		return infer.True
	case undetermined:
		x.addStep(
			fmt.Sprintf("%s is UNDETERMINED (insufficient information)", fact),
			fmt.Sprintf("%s = ?", fact),
		)
		return infer.Undetermined
	default:
		x.addStep(
			fmt.Sprintf("%s is FALSE (no rule proves it true)", fact),
			fmt.Sprintf("%s = ⊥", fact),
		)
		return infer.False
	}
}

func (x *Explainer) explainExpr(expr parser.Expr) infer.Truth {
	switch n := expr.(type) {
	case *parser.FactExpr:
		return x.explainFact(n.Name)

	case *parser.NotExpr:
		x.addStep("Evaluating NOT "+Formal(n.Operand), "")
		x.depth++
		operand := x.explainExpr(n.Operand)
		x.depth--

		result := infer.Not(operand)
		x.addStep(
			fmt.Sprintf("NOT %s = %s", operand, result),
			"¬"+operand.Symbol()+" = "+result.Symbol(),
		)
		return result

	case *parser.BinaryExpr:
		x.addStep("Evaluating "+Natural(n), Formal(n))
		x.depth++
		left := x.explainExpr(n.Left)
		right := x.explainExpr(n.Right)
		x.depth--

		var result infer.Truth
		switch n.Op {
		case parser.OpAnd:
			result = infer.And(left, right)
		case parser.OpOr:
			result = infer.Or(left, right)
		case parser.OpXor:
			result = infer.Xor(left, right)
		case parser.OpImplies:
			result = infer.Implies(left, right)
		case parser.OpIff:
			result = infer.Iff(left, right)
		}
		x.addStep(
			fmt.Sprintf("%s=%s %s %s=%s = %s",
				Formal(n.Left), left, naturalOps[n.Op], Formal(n.Right), right, result),
			Formal(n.Left)+" "+formalOps[n.Op]+" "+Formal(n.Right)+" = "+result.Symbol(),
		)
		return result
	}
	return infer.Undetermined
}

func (x *Explainer) summary(fact string, value infer.Truth) string {
	switch value {
	case infer.True:
		if x.g.IsInitial(fact) {
			return fmt.Sprintf("✓ %s is TRUE (given as initial fact)", fact)
		}
		return fmt.Sprintf("✓ %s is TRUE (proven by the rules)", fact)
	case infer.False:
		return fmt.Sprintf("✗ %s is FALSE (not proven true by any rule)", fact)
	default:
		return fmt.Sprintf("? %s is UNDETERMINED (insufficient information)", fact)
	}
}
