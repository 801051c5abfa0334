package parser

import (
	"fmt"

	"github.com/cognicore/axiom/pkg/axiom/lexer"
)

// Error reports a grammar violation with its source position.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Parser consumes a token stream produced by the lexer. The stream must be
// EOF-terminated.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a parser over tokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpression tokenizes and parses a standalone expression.
func ParseExpression(text string) (Expr, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	expr, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseRule tokenizes and parses a full rule statement.
func ParseRule(text string) (Rule, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return Rule{}, err
	}
	p := New(tokens)
	rule, err := p.Rule()
	if err != nil {
		return Rule{}, err
	}
	if err := p.expectEOF(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, &Error{
			Message: fmt.Sprintf("expected %s, got %s", kind, tok.Kind),
			Line:    tok.Line,
			Column:  tok.Column,
		}
	}
	p.advance()
	return tok, nil
}

func (p *Parser) expectEOF() error {
	if tok := p.current(); tok.Kind != lexer.EOF {
		return &Error{
			Message: fmt.Sprintf("unexpected trailing %s", tok.Kind),
			Line:    tok.Line,
			Column:  tok.Column,
		}
	}
	return nil
}

// Expression parses one complete expression at the lowest precedence level.
func (p *Parser) Expression() (Expr, error) {
	return p.iff()
}

// Rule parses an expression and requires its root to be an implication or
// biconditional, splitting it into condition and conclusion.
func (p *Parser) Rule() (Rule, error) {
	start := p.current()

	expr, err := p.iff()
	if err != nil {
		return Rule{}, err
	}

	if bin, ok := expr.(*BinaryExpr); ok {
		switch bin.Op {
		case OpImplies:
			return Rule{Condition: bin.Left, Conclusion: bin.Right}, nil
		case OpIff:
			return Rule{Condition: bin.Left, Conclusion: bin.Right, Biconditional: true}, nil
		}
	}

	return Rule{}, &Error{
		Message: fmt.Sprintf("expected a rule with '=>' or '<=>', got expression %s", expr),
		Line:    start.Line,
		Column:  start.Column,
	}
}

func (p *Parser) iff() (Expr, error) {
	left, err := p.implies()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == lexer.Iff {
		p.advance()
		right, err := p.implies()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpIff, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) implies() (Expr, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == lexer.Implies {
		p.advance()
		right, err := p.or()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpImplies, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) or() (Expr, error) {
	left, err := p.xor()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == lexer.Or {
		p.advance()
		right, err := p.xor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) xor() (Expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == lexer.Xor {
		p.advance()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpXor, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) and() (Expr, error) {
	left, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == lexer.And {
		p.advance()
		right, err := p.not()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) not() (Expr, error) {
	if p.current().Kind == lexer.Not {
		p.advance()
		operand, err := p.not()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Expr, error) {
	tok := p.current()

	switch tok.Kind {
	case lexer.LParen:
		p.advance()
		expr, err := p.iff()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.Fact:
		p.advance()
		return &FactExpr{Name: tok.Lexeme}, nil
	}

	return nil, &Error{
		Message: fmt.Sprintf("expected '(' or FACT, got %s", tok.Kind),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}
