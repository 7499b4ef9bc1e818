// Package formula evaluates template amount expressions over a deliberately
// closed grammar: decimal literals, named period variables, the operators
// + - *, unary minus, and parentheses. Nothing else parses, which keeps
// stored formulas inert data rather than executable code.
package formula

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	tokens []token
	pos    int
	vars   map[string]decimal.Decimal
	// lenient resolves unknown identifiers to zero so that Validate can check
	// structure without knowing run-time variable bindings.
	lenient bool
}

// Eval parses and evaluates expr against the given variables. An empty or
// blank expression evaluates to zero.
func Eval(expr string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(expr) == "" {
		return decimal.Zero, nil
	}

	tokens, err := scan(expr)
	if err != nil {
		return decimal.Zero, err
	}

	p := &parser{tokens: tokens, vars: vars}
	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	if p.peek().kind != tokEOF {
		return decimal.Zero, fmt.Errorf("unexpected token %q at position %d", p.peek().text, p.peek().pos)
	}
	return result, nil
}

// Validate checks that expr parses under the closed grammar without evaluating
// variable references. Used when templates are saved.
func Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	tokens, err := scan(expr)
	if err != nil {
		return err
	}
	p := &parser{tokens: tokens, lenient: true}
	if _, err := p.parseExpr(); err != nil {
		return err
	}
	if p.peek().kind != tokEOF {
		return fmt.Errorf("unexpected token %q at position %d", p.peek().text, p.peek().pos)
	}
	return nil
}

func scan(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+':
			tokens = append(tokens, token{tokPlus, "+", i})
			i++
		case r == '-':
			tokens = append(tokens, token{tokMinus, "-", i})
			i++
		case r == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case r == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case r == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokNumber, string(runes[start:i]), start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{tokIdent, string(runes[start:i]), start})
		default:
			return nil, fmt.Errorf("illegal character %q at position %d", string(r), i)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(runes)})
	return tokens, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term { ("+" | "-") term }
func (p *parser) parseExpr() (decimal.Decimal, error) {
	result, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			result = result.Add(rhs)
		case tokMinus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			result = result.Sub(rhs)
		default:
			return result, nil
		}
	}
}

// term := factor { "*" factor }
func (p *parser) parseTerm() (decimal.Decimal, error) {
	result, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for p.peek().kind == tokStar {
		p.next()
		rhs, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		result = result.Mul(rhs)
	}
	return result, nil
}

// factor := number | ident | "(" expr ")" | "-" factor
func (p *parser) parseFactor() (decimal.Decimal, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		value, err := decimal.NewFromString(t.text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid number %q at position %d", t.text, t.pos)
		}
		return value, nil
	case tokIdent:
		value, ok := p.vars[t.text]
		if !ok {
			if p.lenient {
				return decimal.Zero, nil
			}
			return decimal.Zero, fmt.Errorf("unknown variable %q at position %d", t.text, t.pos)
		}
		return value, nil
	case tokMinus:
		value, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil
	case tokLParen:
		value, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return decimal.Zero, fmt.Errorf("expected ')' at position %d", closing.pos)
		}
		return value, nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
	}
}
