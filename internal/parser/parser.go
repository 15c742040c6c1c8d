// Package parser turns formula text like "y ~ a + b*c + (1|g)" into an
// expression tree. The core term algebra treats the parser as an external
// front-end; this one exists so the CLI and tests can run end to end.
//
// Precedence, loosest to tightest: ~ then + - | then * / & then ^, with
// unary minus, parentheses, function calls and numeric literals at the
// bottom. + - | and * / & share levels so a & b + c parses as (a & b) + c
// and grouping terms like 1|g sit naturally inside parentheses.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/statmodel/formula/internal/expr"
	"github.com/statmodel/formula/internal/formula"
)

// ParseError reports a syntax error with its byte offset in the input.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Message)
}

// Parse parses a formula. The input must contain exactly one ~; a missing
// left-hand side ("~ x") yields a one-sided formula.
func Parse(src string) (formula.Formula, error) {
	p := &parser{src: src}
	p.next()

	var lhs expr.Node
	if p.tok.kind != tokTilde {
		node, err := p.parseExpr(0)
		if err != nil {
			return formula.Formula{}, err
		}
		lhs = node
	}
	if p.tok.kind != tokTilde {
		return formula.Formula{}, &ParseError{Pos: p.tok.pos, Message: "expected ~"}
	}
	p.next()

	rhs, err := p.parseExpr(0)
	if err != nil {
		return formula.Formula{}, err
	}
	if p.tok.kind != tokEOF {
		return formula.Formula{}, &ParseError{Pos: p.tok.pos, Message: "unexpected trailing input"}
	}
	return formula.Formula{LHS: lhs, RHS: rhs}, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokTilde
	tokOp     // + - * / & | ^
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) next() {
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	ch := p.src[p.off]
	switch {
	case ch == '~':
		p.off++
		p.tok = token{kind: tokTilde, text: "~", pos: start}
	case strings.ContainsRune("+-*/&|^", rune(ch)):
		p.off++
		p.tok = token{kind: tokOp, text: string(ch), pos: start}
	case ch == '(':
		p.off++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case ch == ')':
		p.off++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case ch == ',':
		p.off++
		p.tok = token{kind: tokComma, text: ",", pos: start}
	case ch >= '0' && ch <= '9' || ch == '.':
		for p.off < len(p.src) && (p.src[p.off] >= '0' && p.src[p.off] <= '9' || p.src[p.off] == '.') {
			p.off++
		}
		p.tok = token{kind: tokNumber, text: p.src[start:p.off], pos: start}
	case isIdentStart(rune(ch)):
		for p.off < len(p.src) && isIdentPart(rune(p.src[p.off])) {
			p.off++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.off], pos: start}
	default:
		p.tok = token{kind: tokEOF, text: string(ch), pos: start}
		p.off = len(p.src) // force termination; Parse reports trailing input
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// binding returns the left-binding power of a binary operator token,
// or 0 when the token is not a binary operator.
func binding(t token) int {
	if t.kind != tokOp {
		return 0
	}
	switch t.text {
	case "+", "-", "|":
		return 1
	case "*", "/", "&":
		return 2
	case "^":
		return 3
	}
	return 0
}

// parseExpr is a precedence-climbing expression parser producing binary
// calls; the term algebra flattens associative chains afterwards.
func (p *parser) parseExpr(minBind int) (expr.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		b := binding(p.tok)
		if b == 0 || b <= minBind {
			return left, nil
		}
		op := p.tok.text
		p.next()
		// ^ is right-associative; everything else is left-associative.
		nextMin := b
		if op == "^" {
			nextMin = b - 1
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = expr.NewCall(op, left, right)
	}
}

func (p *parser) parsePrimary() (expr.Node, error) {
	switch p.tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, &ParseError{Pos: p.tok.pos, Message: "invalid number " + p.tok.text}
		}
		p.next()
		return expr.NewLiteral(v), nil

	case tokOp:
		if p.tok.text != "-" {
			return nil, &ParseError{Pos: p.tok.pos, Message: "unexpected operator " + p.tok.text}
		}
		p.next()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(*expr.Literal); ok {
			return expr.NewLiteral(-lit.Value), nil
		}
		return expr.NewCall("-", operand), nil

	case tokLParen:
		p.next()
		node, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, &ParseError{Pos: p.tok.pos, Message: "expected )"}
		}
		p.next()
		return node, nil

	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.kind != tokLParen {
			return expr.NewSymbol(name), nil
		}
		// Function call: f(arg, ...).
		p.next()
		var args []expr.Node
		if p.tok.kind != tokRParen {
			for {
				arg, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind != tokComma {
					break
				}
				p.next()
			}
		}
		if p.tok.kind != tokRParen {
			return nil, &ParseError{Pos: p.tok.pos, Message: "expected ) after arguments"}
		}
		p.next()
		return expr.NewCall(name, args...), nil

	default:
		return nil, &ParseError{Pos: p.tok.pos, Message: "unexpected token " + p.tok.text}
	}
}
