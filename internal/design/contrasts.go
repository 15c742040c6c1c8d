package design

import (
	"fmt"

	"github.com/statmodel/formula/internal/formula"
)

// Treatment builds the treatment-contrast matrix for a categorical column
// with k levels. Row i is the coded row for level i+1.
//
// With useContrasts false the result is the k×k one-hot indicator block.
// With useContrasts true the column for the base level (1-based) is removed,
// giving a k×(k-1) block compatible with an intercept column.
func Treatment(k int, useContrasts bool, base int) ([][]float64, error) {
	if useContrasts && (base < 1 || base > k) {
		return nil, &formula.BuildError{
			Code:    formula.ErrCodeInvalidBase,
			Message: fmt.Sprintf("base level %d outside 1..%d", base, k),
		}
	}
	if useContrasts && k < 2 {
		return nil, &formula.BuildError{
			Code:    formula.ErrCodeInsufficientLevels,
			Message: fmt.Sprintf("contrasts need at least 2 levels, got %d", k),
		}
	}

	width := k
	if useContrasts {
		width = k - 1
	}
	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		row := make([]float64, width)
		col := i
		if useContrasts {
			if i == base-1 {
				// Base level codes as all zeros.
				out[i] = row
				continue
			}
			if i > base-1 {
				col = i - 1
			}
		}
		row[col] = 1
		out[i] = row
	}
	return out, nil
}
