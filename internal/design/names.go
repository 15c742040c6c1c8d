package design

import (
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/frame"
	"github.com/statmodel/formula/internal/table"
)

// CoefficientNames derives the human-readable labels for the matrix
// columns, in matrix-column order: "(Intercept)" first when present, then
// one label per column of each fixed-effect term.
//
// Only single-evaluation-term naming is defined. A term spanning several
// evaluation terms (a true multi-variable interaction) fails with
// COMPOSITE_TERM_NAME rather than inventing a product-of-level-labels
// scheme.
func CoefficientNames(mf *frame.ModelFrame) ([]string, error) {
	tt := mf.Terms
	offset := tt.ColumnOffset()

	var names []string
	if tt.Intercept {
		names = append(names, "(Intercept)")
	}

	for j, t := range tt.Terms {
		if formula.IsGrouping(t) {
			continue
		}
		vocab := -1
		count := 0
		for i := range tt.EvalTerms {
			if tt.Incidence[i][offset+j] == 1 {
				vocab = i
				count++
			}
		}
		if count > 1 {
			return nil, &formula.BuildError{
				Code:    formula.ErrCodeCompositeTermName,
				Message: "no naming scheme for terms spanning multiple evaluation terms",
				Expr:    t,
			}
		}
		if count == 0 {
			continue
		}
		switch col := mf.Columns[vocab].(type) {
		case *table.Categorical:
			// One label per retained non-base level, base level 1 dropped.
			for _, level := range col.Levels[1:] {
				names = append(names, termName(t)+" - "+level)
			}
		default:
			names = append(names, termName(t))
		}
	}

	return names, nil
}
