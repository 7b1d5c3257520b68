package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forma-tools/forma/internal/parser"
)

// ErrCodeSyntax is the code reported for lex/parse failures. Unlike semantic
// diagnostics, a syntax failure aborts the pipeline with no partial output.
const ErrCodeSyntax = "E000"

// NewParseCommand creates the parse command: parse a .forma file and print
// its IR (YAML in text mode, a JSON envelope in json mode).
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "parse <model.forma>",
		Short:         "Parse a Forma model and print its IR",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
}

func runParse(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Parsing %s", path)

	doc, err := parser.Parse(source)
	if err != nil {
		_ = formatter.Error(ErrCodeSyntax, fmt.Sprintf("parse failure: %v", err), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(doc.CanonicalValue())
	}

	out, err := doc.MarshalYAML()
	if err != nil {
		_ = formatter.Error(ErrCodeRead, fmt.Sprintf("rendering IR: %v", err), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	_, err = formatter.Writer.Write(out)
	return err
}
