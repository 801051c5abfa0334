package infer

import (
	"testing"

	"github.com/cognicore/axiom/pkg/axiom/rulefile"
)

func engine(t *testing.T, text string) *Engine {
	t.Helper()
	in := rulefile.Parse(text)
	if len(in.Warnings) != 0 {
		t.Fatalf("Unexpected extraction warnings: %v", in.Warnings)
	}
	return New(in.Rules, in.InitialFacts)
}

func TestInitialFactsAreTrue(t *testing.T) {
	e := engine(t, "A => B\n=AC\n?ABC\n")
	for _, fact := range []string{"A", "C"} {
		if got := e.Query(fact); got != True {
			t.Errorf("Initial fact %s = %s, want TRUE", fact, got)
		}
	}
}

func TestUnknownFactIsFalse(t *testing.T) {
	e := engine(t, "A => B\n=A\n?Z\n")
	if got := e.Query("Z"); got != False {
		t.Errorf("Fact with no rules and not initial = %s, want FALSE", got)
	}
}

func TestSimpleChain(t *testing.T) {
	e := engine(t, "A + B => C\nC => D\n=AB\n?CD\n")
	if got := e.Query("C"); got != True {
		t.Errorf("C = %s, want TRUE", got)
	}
	if got := e.Query("D"); got != True {
		t.Errorf("D = %s, want TRUE", got)
	}
}

func TestChainWithNoInitialFacts(t *testing.T) {
	e := engine(t, "A => B\n=\n?AB\n")
	if got := e.Query("A"); got != False {
		t.Errorf("A = %s, want FALSE", got)
	}
	if got := e.Query("B"); got != False {
		t.Errorf("B = %s, want FALSE", got)
	}
}

func TestSelfReferenceIsUndetermined(t *testing.T) {
	e := engine(t, "A => A\n=\n?A\n")
	if got := e.Query("A"); got != Undetermined {
		t.Errorf("Self-referential A = %s, want UNDETERMINED", got)
	}
}

func TestMutualRecursion(t *testing.T) {
	// A and B only support each other; neither is grounded.
	e := engine(t, "A => B\nB => A\n=\n?AB\n")
	for _, fact := range []string{"A", "B"} {
		if got := e.Query(fact); got != Undetermined {
			t.Errorf("%s = %s, want UNDETERMINED", fact, got)
		}
	}
}

func TestContradictionIsUndetermined(t *testing.T) {
	e := engine(t, "B => A\nC => !A\n=BC\n?A\n")
	if got := e.Query("A"); got != Undetermined {
		t.Errorf("Contradicted A = %s, want UNDETERMINED", got)
	}
}

func TestNegationRuleAloneDoesNotFalsify(t *testing.T) {
	// A proof of !A with no proof of A leaves A at the closed-world
	// default.
	e := engine(t, "B => !A\n=B\n?A\n")
	if got := e.Query("A"); got != False {
		t.Errorf("A = %s, want FALSE", got)
	}
}

func TestAndConclusionAssertsBothConjuncts(t *testing.T) {
	e := engine(t, "X => A + B\n=X\n?AB\n")
	if got := e.Query("A"); got != True {
		t.Errorf("A = %s, want TRUE", got)
	}
	if got := e.Query("B"); got != True {
		t.Errorf("B = %s, want TRUE", got)
	}
}

func TestOrConclusionPinsNeitherDisjunct(t *testing.T) {
	e := engine(t, "X => (A | B)\n=X\n?AB\n")
	for _, fact := range []string{"A", "B"} {
		if got := e.Query(fact); got != Undetermined {
			t.Errorf("%s = %s, want UNDETERMINED", fact, got)
		}
	}
}

func TestXorConclusionPinsNeitherOperand(t *testing.T) {
	e := engine(t, "X => (A ^ B)\n=X\n?AB\n")
	for _, fact := range []string{"A", "B"} {
		if got := e.Query(fact); got != Undetermined {
			t.Errorf("%s = %s, want UNDETERMINED", fact, got)
		}
	}
}

func TestBiconditionalForwardAndBackward(t *testing.T) {
	e := engine(t, "A <=> B\n=A\n?B\n")
	if got := e.Query("B"); got != True {
		t.Errorf("B = %s, want TRUE with =A", got)
	}

	e = engine(t, "A <=> B\n=B\n?A\n")
	if got := e.Query("A"); got != True {
		t.Errorf("A = %s, want TRUE with =B", got)
	}
}

func TestBiconditionalFollowedByPlainRule(t *testing.T) {
	// The plain rule after the biconditional must not displace the
	// reverse direction in the index.
	e := engine(t, "A <=> B\nC => D\n=B\n?A\n")
	if got := e.Query("A"); got != True {
		t.Errorf("A = %s, want TRUE (B is initial and B => A via the biconditional)", got)
	}
	if got := e.Query("D"); got != False {
		t.Errorf("D = %s, want FALSE (C is not established)", got)
	}
}

func TestBiconditionalWithNoFactsIsUngrounded(t *testing.T) {
	// Each side depends only on the other; the cycle-breaking rule
	// resolves the loop as UNDETERMINED.
	e := engine(t, "A <=> B\n=\n?B\n")
	if got := e.Query("B"); got != Undetermined {
		t.Errorf("B = %s, want UNDETERMINED", got)
	}
}

func TestNegatedCondition(t *testing.T) {
	e := engine(t, "!A => B\n=\n?B\n")
	if got := e.Query("B"); got != True {
		t.Errorf("B = %s, want TRUE (A defaults false, so !A holds)", got)
	}
}

func TestParenthesizedConditions(t *testing.T) {
	e := engine(t, "(A | B) + C => D\n=BC\n?D\n")
	if got := e.Query("D"); got != True {
		t.Errorf("D = %s, want TRUE", got)
	}
}

func TestXorCondition(t *testing.T) {
	e := engine(t, "A ^ B => C\n=A\n?C\n")
	if got := e.Query("C"); got != True {
		t.Errorf("C = %s, want TRUE (A true, B false)", got)
	}

	e = engine(t, "A ^ B => C\n=AB\n?C\n")
	if got := e.Query("C"); got != False {
		t.Errorf("C = %s, want FALSE (both operands true)", got)
	}
}

func TestIdempotenceAndCaching(t *testing.T) {
	e := engine(t, "A + B => C\nC => D\n=AB\n?D\n")

	first := e.Query("D")
	second := e.Query("D")
	if first != second {
		t.Fatalf("Query not idempotent: %s then %s", first, second)
	}

	// Definite results are memoized.
	if v, ok := e.cache["D"]; !ok || v != True {
		t.Error("TRUE result should be cached")
	}
}

func TestUndeterminedNotCached(t *testing.T) {
	e := engine(t, "A => A\n=\n?A\n")
	e.Query("A")
	if _, ok := e.cache["A"]; ok {
		t.Error("UNDETERMINED results must not be cached")
	}
}

func TestEvaluatingSetClearedBetweenQueries(t *testing.T) {
	e := engine(t, "A => B\nB => A\nC => D\n=C\n?ABD\n")

	e.Query("A")
	if len(e.evaluating) != 0 {
		t.Fatalf("Evaluating set should be empty after a query, got %v", e.evaluating)
	}
	if got := e.Query("D"); got != True {
		t.Errorf("D = %s, want TRUE after an undetermined query", got)
	}
}

func TestQueryAllPreservesOrderAndDuplicates(t *testing.T) {
	e := engine(t, "A => B\n=A\n?BAB\n")
	results := e.QueryAll([]string{"B", "A", "B"})
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Fact != "B" || results[1].Fact != "A" || results[2].Fact != "B" {
		t.Errorf("Order not preserved: %v", results)
	}
	for _, r := range results {
		if r.Value != True {
			t.Errorf("%s = %s, want TRUE", r.Fact, r.Value)
		}
	}
}

func TestResetCache(t *testing.T) {
	e := engine(t, "A => B\n=A\n?B\n")
	e.Query("B")
	if len(e.cache) == 0 {
		t.Fatal("Expected cached entries before reset")
	}
	e.ResetCache()
	if len(e.cache) != 0 || len(e.evaluating) != 0 {
		t.Error("ResetCache should clear cache and evaluating set")
	}
	if got := e.Query("B"); got != True {
		t.Errorf("B = %s after reset, want TRUE", got)
	}
}

func TestFirstDerivationWins(t *testing.T) {
	// Two independent derivations of C; the first suffices.
	e := engine(t, "A => C\nB => C\n=A\n?C\n")
	if got := e.Query("C"); got != True {
		t.Errorf("C = %s, want TRUE", got)
	}
}

func TestUndeterminedRuleThenTrueRule(t *testing.T) {
	// The first rule's condition is undetermined, the second proves C.
	e := engine(t, "U => C\nA => C\n=A\nU => U\n?C\n")
	if got := e.Query("C"); got != True {
		t.Errorf("C = %s, want TRUE despite an undetermined sibling rule", got)
	}
}

func TestRulesConcluding(t *testing.T) {
	e := engine(t, "A => C\nB => C\n=A\n?C\n")
	rules := e.RulesConcluding("C")
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules concluding C, got %d", len(rules))
	}
	if rules[0].String() != "A => C" {
		t.Errorf("Rule order wrong: %v", rules)
	}
}
