package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewCategorical_PoolOrder tests first-observed level pooling.
func TestNewCategorical_PoolOrder(t *testing.T) {
	col := NewCategorical([]string{"q", "p", "q", "r", "p"}, nil)

	assert.Equal(t, []string{"q", "p", "r"}, col.Levels)
	assert.Equal(t, []int{1, 2, 1, 3, 2}, col.Refs)
	assert.Equal(t, "r", col.Level(3))
	assert.False(t, col.Missing(0))
}

// TestNewCategorical_Missing tests that missing rows get reference 0 and
// contribute no level.
func TestNewCategorical_Missing(t *testing.T) {
	col := NewCategorical([]string{"p", "", "q"}, []bool{false, true, false})

	assert.Equal(t, []string{"p", "q"}, col.Levels)
	assert.Equal(t, []int{1, 0, 2}, col.Refs)
	assert.True(t, col.Missing(1))
	assert.Equal(t, "", col.Level(1))
}

// TestClone_Independence tests that cloned columns share no storage.
func TestClone_Independence(t *testing.T) {
	num := &Numeric{Values: []float64{1, 2}, NA: []bool{false, true}}
	numCopy := num.Clone().(*Numeric)
	numCopy.Values[0] = 99
	numCopy.NA[1] = false
	assert.Equal(t, 1.0, num.Values[0])
	assert.True(t, num.Missing(1))

	cat := NewCategorical([]string{"p", "q"}, nil)
	catCopy := cat.Clone().(*Categorical)
	catCopy.Levels[0] = "z"
	catCopy.Refs[1] = 1
	assert.Equal(t, "p", cat.Levels[0])
	assert.Equal(t, 2, cat.Refs[1])
}

// TestMemSource_Basics tests column registration and lookup.
func TestMemSource_Basics(t *testing.T) {
	src := NewMemSource()
	require.NoError(t, src.AddColumn("a", &Numeric{Values: []float64{1, 2, 3}}))
	require.NoError(t, src.AddColumn("b", NewCategorical([]string{"p", "q", "p"}, nil)))

	assert.Equal(t, 3, src.RowCount())
	assert.Equal(t, []string{"a", "b"}, src.Names())

	col, ok := src.ColumnNamed("a")
	require.True(t, ok)
	assert.Equal(t, 3, col.Len())

	_, ok = src.ColumnNamed("nope")
	assert.False(t, ok)
	assert.False(t, src.IsMissing(0, "nope"))
}

// TestMemSource_RowCountMismatch tests that ragged columns are rejected.
func TestMemSource_RowCountMismatch(t *testing.T) {
	src := NewMemSource()
	require.NoError(t, src.AddColumn("a", &Numeric{Values: []float64{1, 2}}))
	err := src.AddColumn("b", &Numeric{Values: []float64{1}})
	assert.Error(t, err)

	err = src.AddColumn("a", &Numeric{Values: []float64{3, 4}})
	assert.Error(t, err, "duplicate names are rejected")
}

// TestMemSource_IsMissing tests the per-cell missing query.
func TestMemSource_IsMissing(t *testing.T) {
	src := NewMemSource()
	require.NoError(t, src.AddColumn("g", NewCategorical(
		[]string{"p", "", "q"}, []bool{false, true, false})))

	assert.False(t, src.IsMissing(0, "g"))
	assert.True(t, src.IsMissing(1, "g"))
	assert.False(t, src.IsMissing(2, "g"))
}
