// Package table defines the tabular inputs the pipeline reads: typed
// columns, the Source interface an external storage component satisfies,
// an in-memory implementation, and a read-only SQLite adapter.
//
// Column is a closed union: Numeric and Categorical are the only shapes.
// A categorical column is a pool of distinct levels plus 1-based per-row
// references into that pool; reference 0 marks a missing value.
package table
