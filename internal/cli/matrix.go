package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/statmodel/formula/internal/design"
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/frame"
	"github.com/statmodel/formula/internal/parser"
	"github.com/statmodel/formula/internal/table"
)

// MatrixOptions holds flags for the matrix command.
type MatrixOptions struct {
	Table string // SQLite table name for .db/.sqlite datasets
}

// NewMatrixCommand creates the matrix command.
func NewMatrixCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatrixOptions{}

	cmd := &cobra.Command{
		Use:   "matrix <formula> <dataset>",
		Short: "Build the design matrix for a formula against a dataset",
		Long: `Expand a formula, materialize its model frame from the dataset, and
build the fixed-effect design matrix.

Rows with a missing value in any used column are dropped before coding.
The dataset is a YAML file, or a SQLite database when the path ends in
.db/.sqlite (select the table with --table).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(rootOpts, opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "data", "table name for SQLite datasets")

	return cmd
}

func runMatrix(rootOpts *RootOptions, opts *MatrixOptions, src, dataset string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	parsed, err := parser.Parse(src)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	tt, err := formula.Expand(parsed)
	if err != nil {
		_ = formatter.Error(ErrCodeTerms, err.Error(), buildErrorDetails(err))
		return NewExitError(ExitFailure, err.Error())
	}

	source, err := loadSourceForCommand(formatter, dataset, opts.Table)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %s (%d rows)", dataset, source.RowCount())

	mf, err := frame.Build(tt, source)
	if err != nil {
		_ = formatter.Error(ErrCodeFrame, err.Error(), buildErrorDetails(err))
		return NewExitError(ExitFailure, err.Error())
	}

	m, err := design.Build(mf)
	if err != nil {
		_ = formatter.Error(ErrCodeMatrix, err.Error(), buildErrorDetails(err))
		return NewExitError(ExitFailure, err.Error())
	}

	// Coefficient names are a best effort: terms spanning several
	// evaluation terms have no defined labels, and the matrix is still
	// worth printing without them.
	coefs, err := design.CoefficientNames(mf)
	if err != nil {
		if formula.CodeOf(err) != formula.ErrCodeCompositeTermName {
			_ = formatter.Error(ErrCodeMatrix, err.Error(), buildErrorDetails(err))
			return NewExitError(ExitFailure, err.Error())
		}
		formatter.VerboseLog("Coefficient names unavailable: %v", err)
		coefs = nil
	}

	report := newMatrixReport(src, dataset, mf, m, coefs)
	if formatter.Format == "json" {
		return formatter.JSON(report)
	}
	renderMatrixText(formatter.Writer, report)
	return nil
}

// loadSourceForCommand loads a dataset and maps loader failures onto the
// command-error exit code.
func loadSourceForCommand(formatter *OutputFormatter, dataset, sqliteTable string) (table.Source, error) {
	source, err := LoadSource(dataset, sqliteTable)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, map[string]string{"path": dataset})
		} else {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		}
		return nil, NewExitError(ExitCommandError, err.Error())
	}
	return source, nil
}
