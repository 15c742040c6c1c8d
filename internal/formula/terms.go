package formula

import (
	"sort"

	"github.com/statmodel/formula/internal/expr"
)

// Formula pairs an optional response expression with a right-hand side.
// A nil LHS means a one-sided formula.
type Formula struct {
	LHS expr.Node
	RHS expr.Node
}

// HasResponse reports whether the formula carries a response.
func (f Formula) HasResponse() bool {
	return f.LHS != nil
}

// TermsTable is the canonical record of a formula's structure: its terms in
// final order, the evaluation-term vocabulary, and the incidence between
// the two.
type TermsTable struct {
	// Terms are the right-hand-side terms, stable-sorted by non-decreasing
	// interaction order. The response is not a term.
	Terms []expr.Node

	// Order[j] is the interaction order of Terms[j]: the number of
	// evaluation terms combined by & (1 for a bare term).
	Order []int

	// EvalTerms is the vocabulary: unique evaluation terms in first-seen
	// order. When a response is present it sits at index 0.
	EvalTerms []expr.Node

	// Incidence[i][j] is 1 iff EvalTerms[i] participates in incidence
	// column j. When a response is present, column 0 is the synthetic
	// response term and column j+1 corresponds to Terms[j]; otherwise
	// column j corresponds to Terms[j] directly.
	Incidence [][]int

	// Response reports whether a left-hand side is present.
	Response bool

	// Intercept is true unless the right-hand side contained an explicit
	// literal 0 or -1 term.
	Intercept bool
}

// ColumnOffset returns the incidence-column index of Terms[0]:
// 1 when a response column is present, else 0.
func (t *TermsTable) ColumnOffset() int {
	if t.Response {
		return 1
	}
	return 0
}

// EvalNames returns the canonical rendered names of the vocabulary, in
// vocabulary order.
func (t *TermsTable) EvalNames() []string {
	names := make([]string, len(t.EvalTerms))
	for i, et := range t.EvalTerms {
		names[i] = expr.Name(et)
	}
	return names
}

// Expand rewrites a formula into its TermsTable.
func Expand(f Formula) (*TermsTable, error) {
	if f.RHS == nil {
		return nil, NewMalformedError("formula has no right-hand side", nil)
	}

	canon, err := canonicalize(f.RHS)
	if err != nil {
		return nil, err
	}
	terms, intercept, err := splitTerms(canon)
	if err != nil {
		return nil, err
	}

	orders := make([]int, len(terms))
	for i, t := range terms {
		orders[i] = interactionOrder(t)
	}

	// Stable sort by interaction order; ties keep their original relative
	// order so a + b stays a, b.
	perm := make([]int, len(terms))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return orders[perm[a]] < orders[perm[b]]
	})
	sorted := make([]expr.Node, len(terms))
	sortedOrders := make([]int, len(terms))
	for i, p := range perm {
		sorted[i] = terms[p]
		sortedOrders[i] = orders[p]
	}

	// Per-column evaluation-term sets; the synthetic response term comes
	// first when a left-hand side is present.
	sets := make([][]expr.Node, 0, len(sorted)+1)
	if f.LHS != nil {
		sets = append(sets, []expr.Node{f.LHS})
	}
	for _, t := range sorted {
		sets = append(sets, evalTerms(t))
	}

	// Vocabulary: unique evaluation terms in first-seen order, keyed by
	// canonical rendered name.
	var vocab []expr.Node
	index := make(map[string]int)
	for _, set := range sets {
		for _, et := range set {
			name := expr.Name(et)
			if _, seen := index[name]; !seen {
				index[name] = len(vocab)
				vocab = append(vocab, et)
			}
		}
	}

	incidence := make([][]int, len(vocab))
	for i := range incidence {
		incidence[i] = make([]int, len(sets))
	}
	for j, set := range sets {
		for _, et := range set {
			incidence[index[expr.Name(et)]][j] = 1
		}
	}

	return &TermsTable{
		Terms:     sorted,
		Order:     sortedOrders,
		EvalTerms: vocab,
		Incidence: incidence,
		Response:  f.LHS != nil,
		Intercept: intercept,
	}, nil
}

// IsGrouping reports whether a term is a grouping term: a call whose top
// operator is |. Grouping terms are recognized so the matrix builder can
// exclude them from the fixed-effect matrix; their semantics are otherwise
// out of scope.
func IsGrouping(t expr.Node) bool {
	c, ok := t.(*expr.Call)
	return ok && c.Op == "|"
}
