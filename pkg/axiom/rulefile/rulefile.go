// Package rulefile reads rule-set input text: rule lines, initial-fact
// lines, query lines and comments.
package rulefile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/axiom/pkg/axiom/lexer"
	"github.com/cognicore/axiom/pkg/axiom/parser"
)

// Warning records a line that was skipped during extraction.
type Warning struct {
	Line int
	Text string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: could not parse %q: %v", w.Line, w.Text, w.Err)
}

// Input is the result of extracting a rule file.
type Input struct {
	Rules        []parser.Rule
	InitialFacts map[string]struct{}
	Queries      []string
	Warnings     []Warning
}

// HasInitialFact reports whether fact was asserted true in the input.
func (in Input) HasInitialFact(fact string) bool {
	_, ok := in.InitialFacts[fact]
	return ok
}

// Parse extracts rules, initial facts and queries from the full input text.
//
// Lines are classified independently: `=`-prefixed lines contribute initial
// facts, `?`-prefixed lines contribute queries in order (duplicates kept),
// and any other non-empty line containing an implication operator is parsed
// as a rule. A rule line that fails to tokenize or parse is skipped with a
// warning; one bad line never aborts the rest of the file.
func Parse(text string) Input {
	in := Input{InitialFacts: make(map[string]struct{})}

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "="):
			tokens, err := lexer.Tokenize(strings.TrimSpace(line[1:]))
			if err != nil {
				in.Warnings = append(in.Warnings, Warning{Line: lineNum, Text: line, Err: err})
				continue
			}
			for _, tok := range tokens {
				if tok.Kind == lexer.Fact {
					in.InitialFacts[tok.Lexeme] = struct{}{}
				}
			}

		case strings.HasPrefix(line, "?"):
			tokens, err := lexer.Tokenize(strings.TrimSpace(line[1:]))
			if err != nil {
				in.Warnings = append(in.Warnings, Warning{Line: lineNum, Text: line, Err: err})
				continue
			}
			for _, tok := range tokens {
				if tok.Kind == lexer.Fact {
					in.Queries = append(in.Queries, tok.Lexeme)
				}
			}

		default:
			tokens, err := lexer.Tokenize(line)
			if err != nil {
				in.Warnings = append(in.Warnings, Warning{Line: lineNum, Text: line, Err: err})
				continue
			}

			hasImplication := false
			for _, tok := range tokens {
				if tok.Kind == lexer.Implies || tok.Kind == lexer.Iff {
					hasImplication = true
					break
				}
			}
			// Counting the terminating EOF token, a viable rule line has
			// more than two tokens.
			if !hasImplication || len(tokens) <= 2 {
				continue
			}

			rule, err := parser.ParseRule(line)
			if err != nil {
				in.Warnings = append(in.Warnings, Warning{Line: lineNum, Text: line, Err: err})
				continue
			}
			in.Rules = append(in.Rules, rule)
		}
	}

	return in
}

// ParseFile reads and extracts a rule file from disk.
func ParseFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, err
	}
	return Parse(string(data)), nil
}
