package expr

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Operators contains the operator names the term algebra recognizes.
// Compile-time immutable lookup table; callers must not mutate it.
var Operators = map[string]bool{
	"~": true,
	"+": true,
	"-": true,
	"*": true,
	"/": true,
	"&": true,
	"|": true,
	"^": true,
}

// Name renders a node to its canonical string form. The rendered form is
// the identity used for vocabulary deduplication and column resolution, so
// it must be deterministic: operator calls render infix with a single space
// around the operator, function calls render as f(a, b), and nested operator
// calls of a different operator are parenthesized.
func Name(n Node) string {
	var sb strings.Builder
	render(&sb, n, "")
	return norm.NFC.String(sb.String())
}

func render(sb *strings.Builder, n Node, parentOp string) {
	switch v := n.(type) {
	case *Symbol:
		sb.WriteString(v.Name)
	case *Literal:
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *Call:
		if Operators[v.Op] && len(v.Args) >= 2 {
			renderInfix(sb, v, parentOp)
			return
		}
		if Operators[v.Op] && len(v.Args) == 1 {
			// Unary operator, e.g. -(x).
			sb.WriteString(v.Op)
			render(sb, v.Args[0], v.Op)
			return
		}
		sb.WriteString(v.Op)
		sb.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, a, "")
		}
		sb.WriteByte(')')
	}
}

func renderInfix(sb *strings.Builder, c *Call, parentOp string) {
	paren := parentOp != "" && parentOp != c.Op
	if paren {
		sb.WriteByte('(')
	}
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(c.Op)
			sb.WriteByte(' ')
		}
		render(sb, a, c.Op)
	}
	if paren {
		sb.WriteByte(')')
	}
}
