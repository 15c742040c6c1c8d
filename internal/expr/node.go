package expr

import (
	"golang.org/x/text/unicode/norm"
)

// Node is a sealed interface over the three expression shapes a formula
// front-end can deliver. Only Symbol, Call, and Literal implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the term algebra.
type Node interface {
	exprNode() // Sealed - only types in this package implement it
}

// Symbol is a named variable reference, e.g. "x" in y ~ x.
type Symbol struct {
	Name string
}

func (*Symbol) exprNode() {}

// Call is an operator or function application with ordered arguments,
// e.g. &(a, b) or log(c). Op holds the operator/function name.
type Call struct {
	Op   string
	Args []Node
}

func (*Call) exprNode() {}

// Literal is a numeric constant. Formulas use literals almost exclusively
// as intercept markers (1, 0, -1).
type Literal struct {
	Value float64
}

func (*Literal) exprNode() {}

// NewSymbol creates a Symbol with an NFC-normalized name.
// Normalizing at construction means every later comparison and rendering
// sees one canonical spelling.
func NewSymbol(name string) *Symbol {
	return &Symbol{Name: norm.NFC.String(name)}
}

// NewCall creates a Call node.
func NewCall(op string, args ...Node) *Call {
	return &Call{Op: op, Args: args}
}

// NewLiteral creates a Literal node.
func NewLiteral(v float64) *Literal {
	return &Literal{Value: v}
}

// Clone returns a deep copy of n. Rewrites in the term algebra clone their
// inputs first so recursive expansion never aliases shared subtrees.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Symbol:
		return &Symbol{Name: v.Name}
	case *Call:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = Clone(a)
		}
		return &Call{Op: v.Op, Args: args}
	case *Literal:
		return &Literal{Value: v.Value}
	default:
		return nil
	}
}

// Equal reports structural equality of two nodes.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av.Name == bv.Name
	case *Call:
		bv, ok := b.(*Call)
		if !ok || av.Op != bv.Op || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *Literal:
		bv, ok := b.(*Literal)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}

// IsLiteral reports whether n is a Literal with the given value.
func IsLiteral(n Node, v float64) bool {
	lit, ok := n.(*Literal)
	return ok && lit.Value == v
}
