package cli

import (
	"github.com/spf13/cobra"

	"github.com/statmodel/formula/internal/design"
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/frame"
	"github.com/statmodel/formula/internal/parser"
)

// NewNamesCommand creates the names command.
func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatrixOptions{}

	cmd := &cobra.Command{
		Use:   "names <formula> <dataset>",
		Short: "Print the coefficient names for a formula against a dataset",
		Long: `Print the design-matrix column labels: "(Intercept)" when present,
the term name for numeric terms, and "<term> - <level>" per non-base
level for categorical terms. Level sets come from the dataset, so the
same formula can label differently against different data.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNames(rootOpts, opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "data", "table name for SQLite datasets")

	return cmd
}

func runNames(rootOpts *RootOptions, opts *MatrixOptions, src, dataset string, cmd *cobra.Command) error {
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

	mf, err := frame.Build(tt, source)
	if err != nil {
		_ = formatter.Error(ErrCodeFrame, err.Error(), buildErrorDetails(err))
		return NewExitError(ExitFailure, err.Error())
	}

	coefs, err := design.CoefficientNames(mf)
	if err != nil {
		_ = formatter.Error(ErrCodeMatrix, err.Error(), buildErrorDetails(err))
		return NewExitError(ExitFailure, err.Error())
	}

	report := &NamesReport{Formula: src, Coefficients: coefs}
	if formatter.Format == "json" {
		return formatter.JSON(report)
	}
	renderNamesText(formatter.Writer, report)
	return nil
}
