package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statmodel/formula/internal/formula"
)

// TestTreatment_OneHot tests the full indicator block.
func TestTreatment_OneHot(t *testing.T) {
	got, err := Treatment(3, false, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}, got)
}

// TestTreatment_BaseDrop tests that contrasts equal the one-hot block with
// the base column removed.
func TestTreatment_BaseDrop(t *testing.T) {
	got, err := Treatment(4, true, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}, got)
}

// TestTreatment_BaseOne tests the default base.
func TestTreatment_BaseOne(t *testing.T) {
	got, err := Treatment(2, true, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {1}}, got)
}

// TestTreatment_Failures tests the error taxonomy.
func TestTreatment_Failures(t *testing.T) {
	_, err := Treatment(1, true, 1)
	assert.Equal(t, formula.ErrCodeInsufficientLevels, formula.CodeOf(err))

	_, err = Treatment(4, true, 0)
	assert.Equal(t, formula.ErrCodeInvalidBase, formula.CodeOf(err))

	_, err = Treatment(4, true, 5)
	assert.Equal(t, formula.ErrCodeInvalidBase, formula.CodeOf(err))
}
