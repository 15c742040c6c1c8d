package formula

import (
	"github.com/statmodel/formula/internal/expr"
)

// associativeOps are the operators whose nested calls flatten into one call.
// Compile-time immutable lookup table; callers must not mutate it.
var associativeOps = map[string]bool{
	"+": true,
	"*": true,
	"&": true,
}

// canonicalize rewrites a raw right-hand side into canonical form:
// every * distributed into sums of interactions, then nested calls of the
// associative operators merged. Opaque calls such as log(c) are left
// untouched, arguments included.
func canonicalize(n expr.Node) (expr.Node, error) {
	d, err := distribute(n)
	if err != nil {
		return nil, err
	}
	return flatten(d), nil
}

// distribute rewrites *(a, b, ..., k) into sums of interaction terms.
//
// The two-operand rule is a*b -> a + b + a&b. For more operands the call
// reduces right-to-left: the suffix *(b, ..., k) is distributed first, then
// the two-operand rule is applied between the first operand and the reduced
// suffix. This pairwise fold is reproduced exactly; it is not the full
// power-set expansion for four-or-more-way products.
func distribute(n expr.Node) (expr.Node, error) {
	if n == nil {
		return nil, NewMalformedError("nil expression node", nil)
	}
	c, ok := n.(*expr.Call)
	if !ok {
		return n, nil
	}
	if !expr.Operators[c.Op] {
		// Opaque call: log(c), poly(x, 2), ... left for external evaluation.
		return n, nil
	}
	if len(c.Args) == 0 {
		return nil, NewMalformedError("operator call with no operands", n)
	}
	args := make([]expr.Node, len(c.Args))
	for i, a := range c.Args {
		da, err := distribute(a)
		if err != nil {
			return nil, err
		}
		args[i] = da
	}
	if c.Op != "*" {
		return &expr.Call{Op: c.Op, Args: args}, nil
	}
	if len(args) < 2 {
		return nil, NewMalformedError("* requires at least two operands", n)
	}
	return distributeStar(args), nil
}

// distributeStar applies the pairwise fold to already-distributed operands.
func distributeStar(args []expr.Node) expr.Node {
	if len(args) == 2 {
		return pairRule(args[0], args[1])
	}
	suffix := distributeStar(args[1:])
	return pairRule(args[0], suffix)
}

// pairRule implements a*b -> a + b + a&b. Both operands are cloned into the
// interaction so the three summands never alias one another.
func pairRule(a, b expr.Node) expr.Node {
	return &expr.Call{Op: "+", Args: []expr.Node{
		a,
		b,
		&expr.Call{Op: "&", Args: []expr.Node{expr.Clone(a), expr.Clone(b)}},
	}}
}

// flatten merges nested calls of the same associative operator into a single
// call with a flattened argument list: a+(b+c) becomes a+b+c. The walk is
// bottom-up, so one pass reaches the fixpoint. Opaque calls are not entered.
func flatten(n expr.Node) expr.Node {
	c, ok := n.(*expr.Call)
	if !ok || !expr.Operators[c.Op] {
		return n
	}
	args := make([]expr.Node, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, flatten(a))
	}
	if !associativeOps[c.Op] {
		return &expr.Call{Op: c.Op, Args: args}
	}
	merged := make([]expr.Node, 0, len(args))
	for _, a := range args {
		if ac, ok := a.(*expr.Call); ok && ac.Op == c.Op {
			merged = append(merged, ac.Args...)
			continue
		}
		merged = append(merged, a)
	}
	return &expr.Call{Op: c.Op, Args: merged}
}

// splitTerms breaks a canonicalized right-hand side into its additive terms
// and consumes the intercept markers.
//
// A literal 1 term is dropped. A literal 0 or -1 term is dropped and clears
// the intercept. A two-operand - call whose subtrahend is literal 1 or 0
// contributes the minuend's terms and clears the intercept; any other -
// call survives as an opaque term.
func splitTerms(rhs expr.Node) (terms []expr.Node, intercept bool, err error) {
	intercept = true
	var walk func(n expr.Node) error
	walk = func(n expr.Node) error {
		if n == nil {
			return NewMalformedError("nil term", nil)
		}
		if c, ok := n.(*expr.Call); ok {
			switch {
			case c.Op == "+":
				for _, a := range c.Args {
					if err := walk(a); err != nil {
						return err
					}
				}
				return nil
			case c.Op == "-" && len(c.Args) == 2 &&
				(expr.IsLiteral(c.Args[1], 1) || expr.IsLiteral(c.Args[1], 0)):
				intercept = false
				return walk(c.Args[0])
			}
		}
		switch {
		case expr.IsLiteral(n, 1):
			// Explicit intercept marker; the intercept defaults to true anyway.
		case expr.IsLiteral(n, 0), expr.IsLiteral(n, -1):
			intercept = false
		default:
			terms = append(terms, n)
		}
		return nil
	}
	if err := walk(rhs); err != nil {
		return nil, false, err
	}
	return terms, intercept, nil
}

// interactionOrder returns the number of evaluation terms combined by & in
// a term: len(args) for an & call, 1 otherwise.
func interactionOrder(t expr.Node) int {
	if c, ok := t.(*expr.Call); ok && c.Op == "&" {
		return len(c.Args)
	}
	return 1
}

// evalTerms extracts the evaluation-term set of a term: the minimal
// expressions that must be materialized against data to support it.
//
// For an & or | call, each operand contributes its own top-level + arguments
// (or itself when it is not a + call), with literal numeric entries
// discarded. Every other term evaluates as itself.
func evalTerms(t expr.Node) []expr.Node {
	c, ok := t.(*expr.Call)
	if !ok || (c.Op != "&" && c.Op != "|") {
		return []expr.Node{t}
	}
	var out []expr.Node
	for _, operand := range c.Args {
		for _, s := range topSumArgs(operand) {
			if _, isLit := s.(*expr.Literal); isLit {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// topSumArgs returns the top-level + arguments of n, or n itself when it is
// not a + call.
func topSumArgs(n expr.Node) []expr.Node {
	if c, ok := n.(*expr.Call); ok && c.Op == "+" {
		return c.Args
	}
	return []expr.Node{n}
}
