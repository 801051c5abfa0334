package lexer

import (
	"errors"
	"testing"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeRuleLine(t *testing.T) {
	tokens, err := Tokenize("A + B => C")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []Kind{Fact, And, Fact, Implies, Fact, EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if tokens[0].Lexeme != "A" || tokens[2].Lexeme != "B" || tokens[4].Lexeme != "C" {
		t.Errorf("Fact lexemes wrong: %v", tokens)
	}
}

func TestTokenizeAllOperators(t *testing.T) {
	tokens, err := Tokenize("!(A | B) ^ C <=> D")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []Kind{Not, LParen, Fact, Or, Fact, RParen, Xor, Fact, Iff, Fact, EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("Expected %d tokens, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestEqualsDisambiguation(t *testing.T) {
	tokens, err := Tokenize("=AB")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if tokens[0].Kind != Equals {
		t.Errorf("Bare = should be EQUALS, got %s", tokens[0].Kind)
	}

	tokens, err = Tokenize("=>")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if tokens[0].Kind != Implies {
		t.Errorf("=> should be IMPLIES, got %s", tokens[0].Kind)
	}
}

func TestQueryMarker(t *testing.T) {
	tokens, err := Tokenize("?XYZ")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []Kind{Query, Fact, Fact, Fact, EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCommentsSkipped(t *testing.T) {
	tokens, err := Tokenize("A => B # this is ignored ?!@\nC")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []Kind{Fact, Implies, Fact, Fact, EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(got), tokens)
	}
}

func TestPositionTrackingAcrossNewlines(t *testing.T) {
	tokens, err := Tokenize("A => B\n  C => D")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	// C is the fourth token, on line 2 column 3.
	c := tokens[3]
	if c.Lexeme != "C" {
		t.Fatalf("Expected fact C, got %v", c)
	}
	if c.Line != 2 || c.Column != 3 {
		t.Errorf("Expected C at L2:C3, got L%d:C%d", c.Line, c.Column)
	}
}

func TestMultiCharOperatorPosition(t *testing.T) {
	tokens, err := Tokenize("A <=> B")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	iff := tokens[1]
	if iff.Kind != Iff {
		t.Fatalf("Expected IFF, got %s", iff.Kind)
	}
	// Column points at the < that starts the operator.
	if iff.Column != 3 {
		t.Errorf("Expected IFF at column 3, got %d", iff.Column)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("A & B")
	if err == nil {
		t.Fatal("Expected error for unknown character '&'")
	}

	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("Expected *lexer.Error, got %T", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 3 {
		t.Errorf("Expected error at L1:C3, got L%d:C%d", lexErr.Line, lexErr.Column)
	}
}

func TestLoneAngleBracket(t *testing.T) {
	_, err := Tokenize("A <= B")
	if err == nil {
		t.Fatal("'<' not followed by '=>' must be a lex error")
	}
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("Expected *lexer.Error, got %T", err)
	}
}

func TestLowercaseRejected(t *testing.T) {
	if _, err := Tokenize("a => B"); err == nil {
		t.Error("Lowercase letters are not facts and must fail")
	}
}

func TestEmptyInput(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != EOF {
		t.Errorf("Empty input should produce only EOF, got %v", tokens)
	}
}
