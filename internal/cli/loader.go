package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/statmodel/formula/internal/table"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeNotFound  = "E002" // Path not found
	ErrCodeBadYAML   = "E003" // YAML parse error
	ErrCodeSchema    = "E004" // Dataset schema violation
	ErrCodeBadValue  = "E005" // Cell value of the wrong kind
	ErrCodeSQLite    = "E006" // SQLite open/scan error
	ErrCodeBadFormat = "E007" // Unrecognized dataset file extension

	// Build-phase errors
	ErrCodeParse  = "E101" // Formula syntax error
	ErrCodeTerms  = "E102" // Term expansion failed
	ErrCodeFrame  = "E103" // Frame build failed
	ErrCodeMatrix = "E104" // Matrix build failed
)

// datasetSchema constrains the YAML dataset format. Data is unified with
// #Dataset before any column is materialized, so shape errors surface with
// CUE's path-qualified messages instead of panics deep in the loader.
const datasetSchema = `
#Column: {
	name: string & !=""
	kind: "numeric" | "categorical"
	levels?: [...string]
	values: [..._]
}

#Dataset: {
	name?: string
	columns: [...#Column]
}
`

// LoadError represents an error that occurred during dataset loading.
type LoadError struct {
	Code    string
	Message string
	Path    string // dataset file, when known
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type datasetFile struct {
	Name    string          `yaml:"name"`
	Columns []datasetColumn `yaml:"columns"`
}

type datasetColumn struct {
	Name   string   `yaml:"name"`
	Kind   string   `yaml:"kind"`
	Levels []string `yaml:"levels"`
	Values []any    `yaml:"values"`
}

// LoadSource loads a dataset file into a column source. YAML files go
// through schema validation and column materialization; .db/.sqlite files
// are handed to the SQLite reader with the given table name.
func LoadSource(path, sqliteTable string) (table.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadDataset(path)
	case ".db", ".sqlite", ".sqlite3":
		src, err := table.OpenSQLite(path, sqliteTable)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSQLite, Message: err.Error(), Path: path}
		}
		return src, nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeBadFormat,
			Message: fmt.Sprintf("unrecognized dataset extension %q (want .yaml or .sqlite)", filepath.Ext(path)),
			Path:    path,
		}
	}
}

// LoadDataset reads a YAML dataset, validates it against the embedded CUE
// schema, and materializes its columns into an in-memory source.
func LoadDataset(path string) (*table.MemSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "dataset file not found", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Path: path}
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, &LoadError{Code: ErrCodeBadYAML, Message: err.Error(), Path: path}
	}
	if err := validateDataset(generic); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Path: path}
	}

	var file datasetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &LoadError{Code: ErrCodeBadYAML, Message: err.Error(), Path: path}
	}
	if len(file.Columns) == 0 {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "dataset has no columns", Path: path}
	}

	src := table.NewMemSource()
	for _, spec := range file.Columns {
		col, err := buildColumn(spec)
		if err != nil {
			if loadErr, ok := err.(*LoadError); ok {
				loadErr.Path = path
			}
			return nil, err
		}
		if err := src.AddColumn(spec.Name, col); err != nil {
			return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Path: path}
		}
	}
	return src, nil
}

// validateDataset unifies the decoded YAML value with the #Dataset schema.
func validateDataset(data any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(datasetSchema).LookupPath(cue.ParsePath("#Dataset"))
	if err := schema.Err(); err != nil {
		return err
	}
	unified := schema.Unify(ctx.Encode(data))
	return unified.Validate(cue.Concrete(true), cue.Final())
}

func buildColumn(spec datasetColumn) (table.Column, error) {
	switch spec.Kind {
	case "numeric":
		if spec.Levels != nil {
			return nil, &LoadError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("column %q: levels are only valid for categorical columns", spec.Name),
			}
		}
		return buildNumeric(spec)
	case "categorical":
		return buildCategorical(spec)
	default:
		// Unreachable after schema validation.
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("column %q: unknown kind %q", spec.Name, spec.Kind)}
	}
}

func buildNumeric(spec datasetColumn) (table.Column, error) {
	col := &table.Numeric{
		Values: make([]float64, len(spec.Values)),
		NA:     make([]bool, len(spec.Values)),
	}
	for i, v := range spec.Values {
		switch x := v.(type) {
		case nil:
			col.NA[i] = true
		case int:
			col.Values[i] = float64(x)
		case float64:
			col.Values[i] = x
		default:
			return nil, &LoadError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("column %q row %d: want a number or null, got %T", spec.Name, i, v),
			}
		}
	}
	return col, nil
}

func buildCategorical(spec datasetColumn) (table.Column, error) {
	labels := make([]string, len(spec.Values))
	missing := make([]bool, len(spec.Values))
	for i, v := range spec.Values {
		switch x := v.(type) {
		case nil:
			missing[i] = true
		case string:
			labels[i] = x
		default:
			return nil, &LoadError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("column %q row %d: want a string or null, got %T", spec.Name, i, v),
			}
		}
	}

	if spec.Levels == nil {
		return table.NewCategorical(labels, missing), nil
	}

	// Explicit levels fix the pool order; every observed label must be in it.
	col := &table.Categorical{Refs: make([]int, len(labels))}
	index := make(map[string]int)
	for _, raw := range spec.Levels {
		level := norm.NFC.String(raw)
		if _, dup := index[level]; dup {
			return nil, &LoadError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("column %q: duplicate level %q", spec.Name, level),
			}
		}
		col.Levels = append(col.Levels, level)
		index[level] = len(col.Levels)
	}
	for i, raw := range labels {
		if missing[i] {
			continue
		}
		ref, ok := index[norm.NFC.String(raw)]
		if !ok {
			return nil, &LoadError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("column %q row %d: label %q is not a declared level", spec.Name, i, raw),
			}
		}
		col.Refs[i] = ref
	}
	return col, nil
}
