package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Validate a YAML dataset without building anything",
		Long: `Check a YAML dataset against the dataset schema and materialize its
columns, without expanding a formula. Faster feedback than matrix when
iterating on data files.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dataset string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	src, err := LoadDataset(dataset)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, map[string]string{"path": dataset})
		} else {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		}
		return NewExitError(ExitFailure, err.Error())
	}

	report := &ValidateReport{
		Dataset: dataset,
		Valid:   true,
		Columns: len(src.Names()),
		Rows:    src.RowCount(),
	}
	if formatter.Format == "json" {
		return formatter.JSON(report)
	}
	renderValidateText(formatter.Writer, report)
	return nil
}
