package cli

import (
	"github.com/spf13/cobra"

	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/parser"
)

// NewTermsCommand creates the terms command.
func NewTermsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms <formula>",
		Short: "Expand a formula into its sorted terms table",
		Long: `Parse a model formula and print its terms table.

Shows the right-hand-side terms sorted by interaction order, the
evaluation-term vocabulary, and the incidence between the two. No
dataset is needed; this is the purely symbolic phase.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerms(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTerms(opts *RootOptions, src string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
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
	formatter.VerboseLog("Expanded %d term(s) over %d evaluation term(s)", len(tt.Terms), len(tt.EvalTerms))

	report := newTermsReport(src, tt)
	if formatter.Format == "json" {
		return formatter.JSON(report)
	}
	renderTermsText(formatter.Writer, report)
	return nil
}

// buildErrorDetails extracts the structured error code for JSON details.
func buildErrorDetails(err error) interface{} {
	if code := formula.CodeOf(err); code != "" {
		return map[string]string{"code": string(code)}
	}
	return nil
}
