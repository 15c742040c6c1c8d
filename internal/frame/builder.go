// Package frame materializes a model frame: the source table restricted to
// the vocabulary's columns, with missing rows dropped and unused categorical
// levels pruned. The frame owns copies of everything it holds; the source
// table is never aliased or mutated.
package frame

import (
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/table"
)

// ModelFrame is the working table behind matrix construction: one column
// per vocabulary evaluation term, in vocabulary order, containing only the
// retained rows.
type ModelFrame struct {
	// Terms is the terms table this frame was built for.
	Terms *formula.TermsTable

	// Names are the canonical vocabulary names, aligned with Columns.
	Names []string

	// Columns hold the selected, pruned columns, restricted to retained rows.
	Columns []table.Column

	// Retained is the per-original-row mask: true = row kept.
	Retained []bool
}

// Build resolves the vocabulary against a source table and produces the
// model frame plus its retained-row mask.
//
// A row is retained only if none of the selected columns is missing there.
// Every retained categorical column has its level pool pruned to the levels
// actually observed among retained rows, re-coded to a contiguous 1-based
// range, so contrast coding later produces exactly one block column per
// occurring non-base level.
func Build(tt *formula.TermsTable, src table.Source) (*ModelFrame, error) {
	names := tt.EvalNames()
	selected := make([]table.Column, len(names))
	for i, name := range names {
		col, ok := src.ColumnNamed(name)
		if !ok {
			return nil, formula.NewUnknownColumnError(name)
		}
		selected[i] = col
	}

	rows := src.RowCount()
	retained := make([]bool, rows)
	kept := 0
	for r := 0; r < rows; r++ {
		keep := true
		for _, name := range names {
			if src.IsMissing(r, name) {
				keep = false
				break
			}
		}
		retained[r] = keep
		if keep {
			kept++
		}
	}

	columns := make([]table.Column, len(selected))
	for i, col := range selected {
		columns[i] = restrict(col, retained, kept)
	}

	return &ModelFrame{
		Terms:    tt,
		Names:    names,
		Columns:  columns,
		Retained: retained,
	}, nil
}

// restrict copies a column down to the retained rows. Categorical columns
// are pruned and re-coded; the source column is left untouched.
func restrict(col table.Column, retained []bool, kept int) table.Column {
	switch c := col.(type) {
	case *table.Numeric:
		out := &table.Numeric{Values: make([]float64, 0, kept)}
		for r, keep := range retained {
			if keep {
				out.Values = append(out.Values, c.Values[r])
			}
		}
		return out
	case *table.Categorical:
		return pruneLevels(c, retained, kept)
	default:
		return col.Clone()
	}
}

// pruneLevels rebuilds a categorical column over the retained rows only,
// keeping the original pool order restricted to observed levels and
// remapping references to 1..m.
func pruneLevels(c *table.Categorical, retained []bool, kept int) *table.Categorical {
	observed := make([]bool, len(c.Levels))
	for r, keep := range retained {
		if keep && c.Refs[r] > 0 {
			observed[c.Refs[r]-1] = true
		}
	}

	remap := make([]int, len(c.Levels))
	var levels []string
	for i, label := range c.Levels {
		if observed[i] {
			levels = append(levels, label)
			remap[i] = len(levels)
		}
	}

	refs := make([]int, 0, kept)
	for r, keep := range retained {
		if keep {
			refs = append(refs, remap[c.Refs[r]-1])
		}
	}
	return &table.Categorical{Levels: levels, Refs: refs}
}

// RowCount returns the number of retained rows.
func (mf *ModelFrame) RowCount() int {
	if len(mf.Columns) == 0 {
		n := 0
		for _, keep := range mf.Retained {
			if keep {
				n++
			}
		}
		return n
	}
	return mf.Columns[0].Len()
}

// Column returns the frame column for a canonical vocabulary name.
func (mf *ModelFrame) Column(name string) (table.Column, bool) {
	for i, n := range mf.Names {
		if n == name {
			return mf.Columns[i], true
		}
	}
	return nil, false
}

// Response returns the response column. Fails with MISSING_RESPONSE on a
// one-sided formula.
func (mf *ModelFrame) Response() (table.Column, error) {
	if !mf.Terms.Response {
		return nil, &formula.BuildError{
			Code:    formula.ErrCodeMissingResponse,
			Message: "one-sided formula has no response",
		}
	}
	return mf.Columns[0], nil
}
