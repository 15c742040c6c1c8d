package design

import (
	"github.com/statmodel/formula/internal/expr"
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/frame"
	"github.com/statmodel/formula/internal/table"
)

// ModelMatrix is the dense numeric design matrix plus the assign vector:
// one entry per output column giving the 1-based index of the term that
// produced it, with 0 reserved for the intercept column.
type ModelMatrix struct {
	// NRows is the number of retained data rows.
	NRows int

	// Cols holds the matrix column-major: Cols[j][i] is row i of column j.
	Cols [][]float64

	// Assign maps each output column to its source term.
	Assign []int
}

// NCols returns the number of output columns.
func (m *ModelMatrix) NCols() int { return len(m.Cols) }

// At returns the matrix entry at row i, column j.
func (m *ModelMatrix) At(i, j int) float64 { return m.Cols[j][i] }

// Build assembles the model matrix from a model frame.
//
// Only fixed-effect terms contribute columns: grouping terms (top operator
// |) and the response are excluded. Evaluation terms never referenced by a
// fixed-effect term are not coded at all, so unused high-cardinality
// categorical columns cost nothing.
func Build(mf *frame.ModelFrame) (*ModelMatrix, error) {
	tt := mf.Terms
	n := mf.RowCount()
	offset := tt.ColumnOffset()

	fixed := make([]bool, len(tt.Terms))
	for j, t := range tt.Terms {
		fixed[j] = !formula.IsGrouping(t)
	}

	// Code only the vocabulary entries some fixed-effect term touches.
	blocks := make([][][]float64, len(tt.EvalTerms))
	for i := range tt.EvalTerms {
		used := false
		for j := range tt.Terms {
			if fixed[j] && tt.Incidence[i][offset+j] == 1 {
				used = true
				break
			}
		}
		if !used {
			continue
		}
		block, err := codeColumn(mf.Columns[i], n)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	m := &ModelMatrix{NRows: n}
	if tt.Intercept {
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		m.Cols = append(m.Cols, ones)
		m.Assign = append(m.Assign, 0)
	}

	for j, t := range tt.Terms {
		if !fixed[j] {
			continue
		}
		var parts [][][]float64
		for i := range tt.EvalTerms {
			if tt.Incidence[i][offset+j] == 1 {
				parts = append(parts, blocks[i])
			}
		}
		var block [][]float64
		switch len(parts) {
		case 0:
			continue
		case 1:
			block = parts[0]
		case 2:
			block = ExpandCols(parts[0], parts[1])
		default:
			return nil, &formula.BuildError{
				Code:    formula.ErrCodeUnsupportedInteractionOrder,
				Message: "interactions of three or more evaluation terms are not supported",
				Expr:    t,
			}
		}
		for _, col := range block {
			m.Cols = append(m.Cols, col)
			m.Assign = append(m.Assign, j+1)
		}
	}

	return m, nil
}

// codeColumn turns one frame column into its numeric column block.
// Numeric columns code as themselves; categorical columns code as treatment
// contrasts with base level 1, one column per non-base level.
func codeColumn(col table.Column, n int) ([][]float64, error) {
	switch c := col.(type) {
	case *table.Numeric:
		return [][]float64{append([]float64(nil), c.Values...)}, nil
	case *table.Categorical:
		k := len(c.Levels)
		contrast, err := Treatment(k, true, 1)
		if err != nil {
			return nil, err
		}
		block := make([][]float64, k-1)
		for j := range block {
			block[j] = make([]float64, n)
		}
		for r, ref := range c.Refs {
			for j := range block {
				block[j][r] = contrast[ref-1][j]
			}
		}
		return block, nil
	default:
		return nil, formula.NewMalformedError("unsupported column shape", nil)
	}
}

// ExpandCols expands two column blocks into their row-wise interaction
// product. For A with p columns and B with q columns the result has p*q
// columns ordered with A's index outermost:
// (A1·B1, A1·B2, ..., A1·Bq, A2·B1, ...).
func ExpandCols(a, b [][]float64) [][]float64 {
	out := make([][]float64, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			col := make([]float64, len(ca))
			for r := range col {
				col[r] = ca[r] * cb[r]
			}
			out = append(out, col)
		}
	}
	return out
}

// termName renders a term for labels and diagnostics.
func termName(t expr.Node) string { return expr.Name(t) }
