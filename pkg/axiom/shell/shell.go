// Package shell implements an interactive fact validation session. Facts
// can be toggled and queried without editing the source file, and a
// what-if stack holds temporary assertions on top of the persistent set.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/axiom/pkg/axiom/export"
	"github.com/cognicore/axiom/pkg/axiom/infer"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// assertion is one entry on the what-if stack.
type assertion struct {
	add    map[string]struct{}
	remove map[string]struct{}
}

func (a assertion) String() string {
	return "+" + strings.Join(sortedKeys(a.add), "") + " -" + strings.Join(sortedKeys(a.remove), "")
}

// Session holds the interactive state: the loaded rules, the persistent
// fact set, and the temporary what-if stack. Queries always build a
// fresh engine over the effective fact set.
type Session struct {
	rules    []parser.Rule
	original map[string]struct{}
	current  map[string]struct{}
	temp     []assertion
	allFacts []string

	history      []string
	historyLimit int

	out io.Writer
}

// Option adjusts session construction.
type Option func(*Session)

// WithHistoryLimit caps the number of commands kept in history.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

// NewSession creates a session over the given rules and initial facts.
// Output is written to out.
func NewSession(rules []parser.Rule, initialFacts map[string]struct{}, out io.Writer, opts ...Option) *Session {
	s := &Session{
		rules:        rules,
		original:     copySet(initialFacts),
		current:      copySet(initialFacts),
		historyLimit: 1000,
		out:          out,
	}

	facts := make(map[string]struct{})
	for _, rule := range rules {
		for _, f := range rule.AllFacts() {
			facts[f] = struct{}{}
		}
	}
	for f := range initialFacts {
		facts[f] = struct{}{}
	}
	s.allFacts = sortedKeys(facts)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EffectiveFacts returns the persistent facts with the what-if stack
// applied bottom to top.
func (s *Session) EffectiveFacts() map[string]struct{} {
	eff := copySet(s.current)
	for _, a := range s.temp {
		for f := range a.add {
			eff[f] = struct{}{}
		}
		for f := range a.remove {
			delete(eff, f)
		}
	}
	return eff
}

// History returns the executed commands, oldest first.
func (s *Session) History() []string { return s.history }

// Run reads commands from r until quit or EOF.
func (s *Session) Run(r io.Reader) error {
	s.banner()
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(s.out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out, "\nExiting interactive mode.")
			return scanner.Err()
		}
		if s.Execute(scanner.Text()) {
			return nil
		}
	}
}

func (s *Session) banner() {
	sep := strings.Repeat("=", 70)
	fmt.Fprintln(s.out, sep)
	fmt.Fprintln(s.out, "INTERACTIVE FACT VALIDATION MODE")
	fmt.Fprintln(s.out, sep)
	fmt.Fprintf(s.out, "Loaded %d rule(s)\n", len(s.rules))
	s.printFacts()
	s.printHelp()
}

// Execute runs a single command line and reports whether the session
// should end.
func (s *Session) Execute(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	s.remember(line)

	cmd := strings.ToLower(line)
	switch {
	case cmd == "quit" || cmd == "exit" || cmd == "q":
		fmt.Fprintln(s.out, "Exiting interactive mode.")
		return true
	case cmd == "help":
		s.printHelp()
	case cmd == "facts":
		s.printFacts()
	case cmd == "reset":
		s.current = copySet(s.original)
		s.temp = nil
		fmt.Fprintln(s.out, "Reset to original facts.")
		s.printFacts()
	case cmd == "rules":
		fmt.Fprintf(s.out, "\nLoaded %d rule(s):\n", len(s.rules))
		for i, rule := range s.rules {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, rule)
		}
	case cmd == "history":
		for i, h := range s.history {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, h)
		}
	case strings.HasPrefix(line, "+"):
		s.addFacts(line[1:])
	case strings.HasPrefix(line, "-"):
		s.removeFacts(line[1:])
	case strings.HasPrefix(cmd, "push"):
		s.push(strings.TrimSpace(line[4:]))
	case cmd == "pop":
		s.pop()
	case cmd == "temp":
		s.printTemp()
	case cmd == "clear_temp":
		s.temp = nil
		fmt.Fprintln(s.out, "Cleared temporary assertions.")
	case strings.HasPrefix(cmd, "suggest"):
		s.suggest(strings.Fields(line))
	case strings.HasPrefix(cmd, "export"):
		s.export(strings.Fields(line))
	case strings.HasPrefix(line, "?"):
		s.query(line[1:])
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", line)
		fmt.Fprintln(s.out, "Type 'help' for available commands.")
	}
	return false
}

func (s *Session) remember(line string) {
	s.history = append(s.history, line)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `
Interactive Mode Commands:
  +A, +B, ...  - Set fact(s) to TRUE (persist)
  -A, -B, ...  - Remove fact(s) from current facts (persist)
  ?A, ?B, ...  - Query fact(s) using current facts + what-if stack
  facts        - Show current facts
  reset        - Reset to original initial facts
  rules        - Show loaded rules
  push +A      - Push a temporary assertion (what-if)
  pop          - Pop last temporary assertion
  temp         - Show temporary assertions stack
  clear_temp   - Clear temporary assertions
  suggest A    - Try single-fact additions to make A TRUE
  export dot <f>  - Export justification graph as DOT file
  export json <f> - Export justification graph as JSON file
  history      - Show command history
  help         - Show this help
  quit, exit   - Exit interactive mode

`)
}

func (s *Session) printFacts() {
	if len(s.current) == 0 {
		fmt.Fprintln(s.out, "Currently TRUE facts: (none)")
		return
	}
	fmt.Fprintf(s.out, "Currently TRUE facts: %s\n", strings.Join(sortedKeys(s.current), ", "))
}

// parseFactList extracts single-letter fact names from user input,
// reporting anything else as invalid.
func (s *Session) parseFactList(arg string) []string {
	cleaned := strings.ToUpper(strings.NewReplacer(",", "", " ", "").Replace(arg))
	var facts []string
	for _, r := range cleaned {
		if r >= 'A' && r <= 'Z' {
			facts = append(facts, string(r))
		} else {
			fmt.Fprintf(s.out, "Invalid fact: %c\n", r)
		}
	}
	return facts
}

func (s *Session) addFacts(arg string) {
	added := s.parseFactList(arg)
	for _, f := range added {
		s.current[f] = struct{}{}
	}
	if len(added) > 0 {
		fmt.Fprintf(s.out, "Added fact(s): %s\n", strings.Join(added, ", "))
		s.printFacts()
	}
}

func (s *Session) removeFacts(arg string) {
	removed := s.parseFactList(arg)
	for _, f := range removed {
		delete(s.current, f)
	}
	if len(removed) > 0 {
		fmt.Fprintf(s.out, "Removed fact(s): %s\n", strings.Join(removed, ", "))
		s.printFacts()
	}
}

func (s *Session) push(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: push +A or push -A (use + to add, - to remove)")
		return
	}
	a := assertion{add: make(map[string]struct{}), remove: make(map[string]struct{})}
	switch {
	case strings.HasPrefix(arg, "+"):
		for _, f := range s.parseFactList(arg[1:]) {
			a.add[f] = struct{}{}
		}
	case strings.HasPrefix(arg, "-"):
		for _, f := range s.parseFactList(arg[1:]) {
			a.remove[f] = struct{}{}
		}
	default:
		fmt.Fprintln(s.out, "Push must start with + or -")
		return
	}
	s.temp = append(s.temp, a)
	fmt.Fprintf(s.out, "Pushed temporary assertion: %s\n", a)
}

func (s *Session) pop() {
	if len(s.temp) == 0 {
		fmt.Fprintln(s.out, "No temporary assertions to pop.")
		return
	}
	a := s.temp[len(s.temp)-1]
	s.temp = s.temp[:len(s.temp)-1]
	fmt.Fprintf(s.out, "Popped: %s\n", a)
}

func (s *Session) printTemp() {
	if len(s.temp) == 0 {
		fmt.Fprintln(s.out, "Temporary stack is empty.")
		return
	}
	fmt.Fprintln(s.out, "Temporary assertions (last is top):")
	for i, a := range s.temp {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, a)
	}
}

func (s *Session) query(arg string) {
	facts := s.parseFactList(arg)
	if len(facts) == 0 {
		fmt.Fprintln(s.out, "No queries specified.")
		return
	}

	eng := infer.New(s.rules, s.EffectiveFacts())

	sep := strings.Repeat("=", 70)
	fmt.Fprintln(s.out, sep)
	fmt.Fprintln(s.out, "QUERY RESULTS")
	fmt.Fprintln(s.out, sep)

	for _, f := range facts {
		value := eng.Query(f)
		symbol := "?"
		switch value {
		case infer.True:
			symbol = "✓"
		case infer.False:
			symbol = "✗"
		}
		fmt.Fprintf(s.out, "%s: %s %s\n", f, symbol, value)
	}
}

func (s *Session) suggest(parts []string) {
	if len(parts) != 2 {
		fmt.Fprintln(s.out, "Usage: suggest A")
		return
	}
	target := strings.ToUpper(parts[1])
	if len(target) != 1 || target[0] < 'A' || target[0] > 'Z' {
		fmt.Fprintln(s.out, "Suggestion target must be a single fact letter.")
		return
	}

	base := s.EffectiveFacts()
	if infer.New(s.rules, base).Query(target) == infer.True {
		fmt.Fprintf(s.out, "%s is already TRUE with current facts.\n", target)
		return
	}

	var suggestions []string
	for _, cand := range s.allFacts {
		if cand == target {
			continue
		}
		if _, ok := base[cand]; ok {
			continue
		}
		trial := copySet(base)
		trial[cand] = struct{}{}
		if infer.New(s.rules, trial).Query(target) == infer.True {
			suggestions = append(suggestions, cand)
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(s.out, "Asserting any of these would make %s TRUE: %s\n",
			target, strings.Join(suggestions, ", "))
	} else {
		fmt.Fprintf(s.out, "No single-fact suggestion found to make %s TRUE.\n", target)
	}
}

func (s *Session) export(parts []string) {
	if len(parts) < 3 {
		fmt.Fprintln(s.out, "Usage: export dot <filename> or export json <filename>")
		return
	}
	format := strings.ToLower(parts[1])
	if format != "dot" && format != "json" {
		fmt.Fprintln(s.out, `Format must be "dot" or "json"`)
		return
	}
	path := parts[2]

	eng := infer.New(s.rules, s.EffectiveFacts())
	g := export.Build(eng, s.allFacts)

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(s.out, "Export failed: %v\n", err)
		return
	}
	defer f.Close()

	if format == "dot" {
		err = g.WriteDOT(f)
	} else {
		err = g.WriteJSON(f)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Graph exported to %s (%s format)\n", path, strings.ToUpper(format))
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
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
