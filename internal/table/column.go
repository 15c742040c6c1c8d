package table

import (
	"golang.org/x/text/unicode/norm"
)

// Column is a sealed interface over the two column shapes.
// Only Numeric and Categorical implement it.
type Column interface {
	column() // Sealed - only types in this package implement it

	// Len returns the number of rows.
	Len() int

	// Missing reports whether the value at row i is missing.
	Missing(i int) bool

	// Clone returns an independent deep copy.
	Clone() Column
}

// Numeric is a floating-point column. NA marks missing rows; a nil NA
// slice means no row is missing.
type Numeric struct {
	Values []float64
	NA     []bool
}

func (*Numeric) column() {}

// Len returns the number of rows.
func (c *Numeric) Len() int { return len(c.Values) }

// Missing reports whether row i holds a missing value.
func (c *Numeric) Missing(i int) bool { return c.NA != nil && c.NA[i] }

// Clone returns an independent deep copy.
func (c *Numeric) Clone() Column {
	out := &Numeric{Values: append([]float64(nil), c.Values...)}
	if c.NA != nil {
		out.NA = append([]bool(nil), c.NA...)
	}
	return out
}

// Categorical is a pooled column: Levels holds the distinct level labels
// and Refs[i] is a 1-based index into Levels (0 = missing).
type Categorical struct {
	Levels []string
	Refs   []int
}

func (*Categorical) column() {}

// Len returns the number of rows.
func (c *Categorical) Len() int { return len(c.Refs) }

// Missing reports whether row i holds a missing value.
func (c *Categorical) Missing(i int) bool { return c.Refs[i] == 0 }

// Clone returns an independent deep copy.
func (c *Categorical) Clone() Column {
	return &Categorical{
		Levels: append([]string(nil), c.Levels...),
		Refs:   append([]int(nil), c.Refs...),
	}
}

// Level returns the label at row i, or "" for a missing row.
func (c *Categorical) Level(i int) string {
	if c.Refs[i] == 0 {
		return ""
	}
	return c.Levels[c.Refs[i]-1]
}

// NewCategorical builds a categorical column from raw labels, pooling the
// distinct levels in first-observed order. Labels are NFC normalized so two
// spellings of a level never split the pool. A nil entry in missing means
// no row is missing.
func NewCategorical(labels []string, missing []bool) *Categorical {
	col := &Categorical{Refs: make([]int, len(labels))}
	index := make(map[string]int)
	for i, raw := range labels {
		if missing != nil && missing[i] {
			continue
		}
		label := norm.NFC.String(raw)
		ref, ok := index[label]
		if !ok {
			col.Levels = append(col.Levels, label)
			ref = len(col.Levels)
			index[label] = ref
		}
		col.Refs[i] = ref
	}
	return col
}
