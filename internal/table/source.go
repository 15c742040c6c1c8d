package table

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Source is the capability an external storage component exposes to the
// frame builder: named column lookup, a row count, and per-cell missing
// queries. Composite evaluation terms (e.g. log(c)) are resolved by their
// canonical rendered name, so a source that can evaluate expressions simply
// exposes the result under that name.
type Source interface {
	// ColumnNamed returns the column with the given canonical name.
	ColumnNamed(name string) (Column, bool)

	// RowCount returns the number of rows.
	RowCount() int

	// IsMissing reports whether the cell at (row, name) is missing.
	// Unknown names report false; resolution errors belong to ColumnNamed.
	IsMissing(row int, name string) bool
}

// MemSource is an in-memory Source with insertion-ordered columns.
type MemSource struct {
	names []string
	cols  map[string]Column
	rows  int
}

// NewMemSource creates an empty in-memory source.
func NewMemSource() *MemSource {
	return &MemSource{cols: make(map[string]Column)}
}

// AddColumn adds a column under an NFC-normalized name. All columns must
// agree on the row count; the first column fixes it.
func (s *MemSource) AddColumn(name string, col Column) error {
	name = norm.NFC.String(name)
	if _, exists := s.cols[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(s.names) == 0 {
		s.rows = col.Len()
	} else if col.Len() != s.rows {
		return fmt.Errorf("column %q has %d rows, want %d", name, col.Len(), s.rows)
	}
	s.names = append(s.names, name)
	s.cols[name] = col
	return nil
}

// Names returns the column names in insertion order.
func (s *MemSource) Names() []string {
	return append([]string(nil), s.names...)
}

// ColumnNamed implements Source.
func (s *MemSource) ColumnNamed(name string) (Column, bool) {
	col, ok := s.cols[norm.NFC.String(name)]
	return col, ok
}

// RowCount implements Source.
func (s *MemSource) RowCount() int { return s.rows }

// IsMissing implements Source.
func (s *MemSource) IsMissing(row int, name string) bool {
	col, ok := s.ColumnNamed(name)
	if !ok {
		return false
	}
	return col.Missing(row)
}
