// Package lexer tokenizes the propositional rule language.
//
// The language consists of single uppercase-letter facts, the operators
// ! + | ^ => <=>, parentheses, the initial-fact marker =, the query
// marker ?, and # comments running to end of line.
package lexer

import "fmt"

// Kind identifies a token type.
type Kind int

const (
	LParen Kind = iota // (
	RParen             // )
	Not                // !
	And                // +
	Or                 // |
	Xor                // ^
	Implies            // =>
	Iff                // <=>
	Fact               // A-Z
	Equals             // =
	Query              // ?
	EOF
)

var kindNames = map[Kind]string{
	LParen:  "LPAREN",
	RParen:  "RPAREN",
	Not:     "NOT",
	And:     "AND",
	Or:      "OR",
	Xor:     "XOR",
	Implies: "IMPLIES",
	Iff:     "IFF",
	Fact:    "FACT",
	Equals:  "EQUALS",
	Query:   "QUERY",
	EOF:     "EOF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexeme with its source position. Tokens are immutable
// once produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, L%d:C%d)", t.Kind, t.Lexeme, t.Line, t.Column)
}

// Error reports an unrecognized or malformed character with its position.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Lexer scans rule-language text into tokens.
type Lexer struct {
	text   []rune
	pos    int
	line   int
	column int
}

// New creates a lexer over the given text.
func New(text string) *Lexer {
	return &Lexer{
		text:   []rune(text),
		line:   1,
		column: 1,
	}
}

// Tokenize scans the entire input and returns the token stream terminated
// by an EOF token, or an *Error on the first unrecognized character.
func Tokenize(text string) ([]Token, error) {
	return New(text).Tokenize()
}

func (l *Lexer) current() (rune, bool) {
	if l.pos >= len(l.text) {
		return 0, false
	}
	return l.text[l.pos], true
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos+1 >= len(l.text) {
		return 0, false
	}
	return l.text[l.pos+1], true
}

func (l *Lexer) advance() {
	if l.pos >= len(l.text) {
		return
	}
	if l.text[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipComment() {
	for {
		ch, ok := l.current()
		if !ok || ch == '\n' {
			return
		}
		l.advance()
	}
}

// Tokenize scans the remaining input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	single := map[rune]Kind{
		'(': LParen,
		')': RParen,
		'!': Not,
		'+': And,
		'|': Or,
		'^': Xor,
		'?': Query,
	}

	for {
		ch, ok := l.current()
		if !ok {
			break
		}

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()

		case ch == '#':
			l.skipComment()

		case ch == '<':
			// Only valid as the start of <=>.
			line, col := l.line, l.column
			l.advance()
			eq, okEq := l.current()
			gt, okGt := l.peek()
			if okEq && eq == '=' && okGt && gt == '>' {
				l.advance()
				l.advance()
				tokens = append(tokens, Token{Iff, "<=>", line, col})
			} else {
				return nil, &Error{Message: "invalid character '<'", Line: line, Column: col}
			}

		case ch == '=':
			// => is IMPLIES, a bare = marks the initial-fact line.
			line, col := l.line, l.column
			l.advance()
			if next, okNext := l.current(); okNext && next == '>' {
				l.advance()
				tokens = append(tokens, Token{Implies, "=>", line, col})
			} else {
				tokens = append(tokens, Token{Equals, "=", line, col})
			}

		case ch >= 'A' && ch <= 'Z':
			tokens = append(tokens, Token{Fact, string(ch), l.line, l.column})
			l.advance()

		default:
			if kind, known := single[ch]; known {
				tokens = append(tokens, Token{kind, string(ch), l.line, l.column})
				l.advance()
				break
			}
			return nil, &Error{
				Message: fmt.Sprintf("unexpected character %q", ch),
				Line:    l.line,
				Column:  l.column,
			}
		}
	}

	tokens = append(tokens, Token{EOF, "", l.line, l.column})
	return tokens, nil
}
