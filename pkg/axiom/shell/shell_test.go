package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/axiom/pkg/axiom/parser"
)

func newTestSession(t *testing.T, rules []string, facts string, opts ...Option) (*Session, *strings.Builder) {
	t.Helper()
	parsed := make([]parser.Rule, 0, len(rules))
	for _, r := range rules {
		rule, err := parser.ParseRule(r)
		if err != nil {
			t.Fatalf("ParseRule(%q): %v", r, err)
		}
		parsed = append(parsed, rule)
	}
	initial := make(map[string]struct{})
	for _, c := range facts {
		initial[string(c)] = struct{}{}
	}
	var out strings.Builder
	return NewSession(parsed, initial, &out, opts...), &out
}

func TestQueryUsesCurrentFacts(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "")

	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✗ FALSE") {
		t.Errorf("output missing FALSE result:\n%s", out.String())
	}

	out.Reset()
	s.Execute("+A")
	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✓ TRUE") {
		t.Errorf("output missing TRUE result after +A:\n%s", out.String())
	}
}

func TestAddRemoveFacts(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")

	s.Execute("-A")
	if !strings.Contains(out.String(), "Removed fact(s): A") {
		t.Errorf("output missing removal:\n%s", out.String())
	}
	if _, ok := s.current["A"]; ok {
		t.Error("A still in current facts after -A")
	}

	out.Reset()
	s.Execute("+AC")
	if diff := cmp.Diff([]string{"A", "C"}, sortedKeys(s.current)); diff != "" {
		t.Errorf("current facts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Added fact(s): A, C") {
		t.Errorf("output missing addition:\n%s", out.String())
	}
}

func TestInvalidFactRejected(t *testing.T) {
	s, out := newTestSession(t, nil, "")

	s.Execute("+1")
	if !strings.Contains(out.String(), "Invalid fact: 1") {
		t.Errorf("output missing invalid-fact message:\n%s", out.String())
	}
	if len(s.current) != 0 {
		t.Errorf("current facts = %v, want empty", sortedKeys(s.current))
	}
}

func TestReset(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")

	s.Execute("-A")
	s.Execute("+C")
	s.Execute("push +D")
	s.Execute("reset")

	if !strings.Contains(out.String(), "Reset to original facts.") {
		t.Errorf("output missing reset message:\n%s", out.String())
	}
	if diff := cmp.Diff([]string{"A"}, sortedKeys(s.current)); diff != "" {
		t.Errorf("facts after reset mismatch (-want +got):\n%s", diff)
	}
	if len(s.temp) != 0 {
		t.Error("what-if stack not cleared by reset")
	}
}

func TestWhatIfStack(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "")

	s.Execute("push +A")
	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✓ TRUE") {
		t.Errorf("pushed assertion not visible to query:\n%s", out.String())
	}

	out.Reset()
	s.Execute("pop")
	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✗ FALSE") {
		t.Errorf("popped assertion still visible:\n%s", out.String())
	}
}

func TestWhatIfRemoval(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")

	s.Execute("push -A")
	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✗ FALSE") {
		t.Errorf("pushed removal not applied:\n%s", out.String())
	}

	out.Reset()
	s.Execute("clear_temp")
	s.Execute("?B")
	if !strings.Contains(out.String(), "B: ✓ TRUE") {
		t.Errorf("clear_temp did not restore facts:\n%s", out.String())
	}
}

func TestTempListing(t *testing.T) {
	s, out := newTestSession(t, nil, "")

	s.Execute("temp")
	if !strings.Contains(out.String(), "Temporary stack is empty.") {
		t.Errorf("output missing empty-stack message:\n%s", out.String())
	}

	out.Reset()
	s.Execute("push +AB")
	s.Execute("temp")
	if !strings.Contains(out.String(), "1. +AB -") {
		t.Errorf("output missing stack entry:\n%s", out.String())
	}
}

func TestPopEmptyStack(t *testing.T) {
	s, out := newTestSession(t, nil, "")

	s.Execute("pop")
	if !strings.Contains(out.String(), "No temporary assertions to pop.") {
		t.Errorf("output missing empty-pop message:\n%s", out.String())
	}
}

func TestSuggest(t *testing.T) {
	s, out := newTestSession(t, []string{"A + B => C"}, "A")

	s.Execute("suggest C")
	if !strings.Contains(out.String(), "Asserting any of these would make C TRUE: B") {
		t.Errorf("output missing suggestion:\n%s", out.String())
	}
}

func TestSuggestAlreadyTrue(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")

	s.Execute("suggest B")
	if !strings.Contains(out.String(), "B is already TRUE with current facts.") {
		t.Errorf("output missing already-true message:\n%s", out.String())
	}
}

func TestSuggestNoSolution(t *testing.T) {
	s, out := newTestSession(t, []string{"A + B => C"}, "")

	s.Execute("suggest C")
	if !strings.Contains(out.String(), "No single-fact suggestion found to make C TRUE.") {
		t.Errorf("output missing no-suggestion message:\n%s", out.String())
	}
}

func TestRulesListing(t *testing.T) {
	s, out := newTestSession(t, []string{"A + B => C", "C <=> D"}, "")

	s.Execute("rules")
	text := out.String()
	if !strings.Contains(text, "1. A + B => C") {
		t.Errorf("output missing first rule:\n%s", text)
	}
	if !strings.Contains(text, "2. C <=> D") {
		t.Errorf("output missing second rule:\n%s", text)
	}
}

func TestExportDOT(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")
	path := filepath.Join(t.TempDir(), "graph.dot")

	s.Execute("export dot " + path)
	if !strings.Contains(out.String(), "Graph exported to "+path) {
		t.Errorf("output missing export confirmation:\n%s", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph JustificationGraph") {
		t.Errorf("exported file is not DOT:\n%s", data)
	}
}

func TestExportBadFormat(t *testing.T) {
	s, out := newTestSession(t, nil, "")

	s.Execute("export csv file.csv")
	if !strings.Contains(out.String(), `Format must be "dot" or "json"`) {
		t.Errorf("output missing format error:\n%s", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	s, out := newTestSession(t, nil, "")

	s.Execute("frobnicate")
	if !strings.Contains(out.String(), "Unknown command: frobnicate") {
		t.Errorf("output missing unknown-command message:\n%s", out.String())
	}
}

func TestQuit(t *testing.T) {
	s, _ := newTestSession(t, nil, "")

	for _, cmd := range []string{"quit", "exit", "q"} {
		if !s.Execute(cmd) {
			t.Errorf("Execute(%q) = false, want quit", cmd)
		}
	}
	if s.Execute("facts") {
		t.Error("Execute(facts) = true, want to continue")
	}
}

func TestHistoryLimit(t *testing.T) {
	s, _ := newTestSession(t, nil, "", WithHistoryLimit(2))

	s.Execute("facts")
	s.Execute("rules")
	s.Execute("temp")

	if diff := cmp.Diff([]string{"rules", "temp"}, s.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTerminatesOnEOF(t *testing.T) {
	s, out := newTestSession(t, []string{"A => B"}, "A")

	input := strings.NewReader("?B\nfacts\n")
	if err := s.Run(input); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "INTERACTIVE FACT VALIDATION MODE") {
		t.Errorf("banner missing:\n%s", text)
	}
	if !strings.Contains(text, "B: ✓ TRUE") {
		t.Errorf("query result missing:\n%s", text)
	}
	if !strings.Contains(text, "Exiting interactive mode.") {
		t.Errorf("exit message missing:\n%s", text)
	}
}
