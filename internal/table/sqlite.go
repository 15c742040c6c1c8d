package table

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite reads one table of a SQLite database into an in-memory Source.
//
// Column typing follows the declared affinity: INTEGER/REAL/NUMERIC columns
// become Numeric, everything else becomes Categorical with the level pool in
// first-observed row order. NULL cells become missing values.
//
// The connection is opened read-only and closed before returning; the
// resulting source owns all of its data.
func OpenSQLite(path, tableName string) (*MemSource, error) {
	if !identRe.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single reader, no writes.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s"`, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", tableName, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect column types: %w", err)
	}

	numeric := make([]bool, len(names))
	for i, ct := range types {
		numeric[i] = numericAffinity(ct.DatabaseTypeName())
	}

	values := make([][]float64, len(names))
	labels := make([][]string, len(names))
	missing := make([][]bool, len(names))

	dest := make([]any, len(names))
	nums := make([]sql.NullFloat64, len(names))
	strs := make([]sql.NullString, len(names))
	for i := range names {
		if numeric[i] {
			dest[i] = &nums[i]
		} else {
			dest[i] = &strs[i]
		}
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range names {
			if numeric[i] {
				values[i] = append(values[i], nums[i].Float64)
				missing[i] = append(missing[i], !nums[i].Valid)
			} else {
				labels[i] = append(labels[i], strs[i].String)
				missing[i] = append(missing[i], !strs[i].Valid)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while reading rows: %w", err)
	}

	src := NewMemSource()
	for i, name := range names {
		var col Column
		if numeric[i] {
			col = &Numeric{Values: values[i], NA: missing[i]}
		} else {
			col = NewCategorical(labels[i], missing[i])
		}
		if err := src.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// numericAffinity classifies a declared SQLite type name.
func numericAffinity(typeName string) bool {
	t := strings.ToUpper(typeName)
	for _, kw := range []string{"INT", "REAL", "FLOA", "DOUB", "NUMERIC", "DECIMAL"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
