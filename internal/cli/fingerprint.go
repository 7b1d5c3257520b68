package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forma-tools/forma/internal/ir"
	"github.com/forma-tools/forma/internal/parser"
)

// FingerprintResult is the JSON payload of the fingerprint command.
type FingerprintResult struct {
	Model       ModelInfo `json:"model"`
	Fingerprint string    `json:"fingerprint"`
}

// NewFingerprintCommand creates the fingerprint command: print the
// content-addressed identity of a model. The fingerprint is stable across
// parses and independent of output format, so it can be used to detect
// model drift between versions of a file.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "fingerprint <model.forma>",
		Short:         "Print the content-addressed fingerprint of a model",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	doc, err := parser.Parse(source)
	if err != nil {
		_ = formatter.Error(ErrCodeSyntax, fmt.Sprintf("parse failure: %v", err), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	fp, err := ir.Fingerprint(doc)
	if err != nil {
		_ = formatter.Error(ErrCodeSyntax, fmt.Sprintf("fingerprint: %v", err), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(FingerprintResult{Model: modelInfo(doc), Fingerprint: fp})
	}
	fmt.Fprintln(formatter.Writer, fp)
	return nil
}
