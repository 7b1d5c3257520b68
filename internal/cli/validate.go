package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forma-tools/forma/internal/ir"
	"github.com/forma-tools/forma/internal/parser"
	"github.com/forma-tools/forma/internal/validator"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid    bool             `json:"valid"`
	Model    ModelInfo        `json:"model"`
	Errors   []DiagnosticJSON `json:"errors,omitempty"`
	Warnings []DiagnosticJSON `json:"warnings,omitempty"`
}

// ModelInfo is the meta summary echoed back by validate.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DiagnosticJSON is the wire form of a validator diagnostic.
type DiagnosticJSON struct {
	Code     string `json:"code"`
	Level    string `json:"level"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model.forma>",
		Short: "Validate a Forma model",
		Long: `Validate a Forma model: structure, required sections, type
resolution, generic mixin arity and substitution, and mixin composition
including cycle detection.

Exit codes: 0 when the model is valid (warnings allowed), 1 when errors are
found or the file fails to parse, 2 for usage and file errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Validating %s", path)

	doc, err := parser.Parse(source)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeSyntax, fmt.Sprintf("parse failure: %v", err), nil)
		} else {
			fmt.Fprintf(formatter.Writer, "error[%s]: parse failure\n  %v\n", ErrCodeSyntax, err)
		}
		return NewExitError(ExitFailure, err.Error())
	}

	errors, warnings := validator.New(doc).Validate()

	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:    len(errors) == 0,
			Model:    modelInfo(doc),
			Errors:   toDiagnosticJSON(errors),
			Warnings: toDiagnosticJSON(warnings),
		}
		if len(errors) > 0 {
			_ = formatter.encode(CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: errors[0].Code, Message: errors[0].Message},
			})
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errors)))
		}
		return formatter.Success(result)
	}

	WriteReport(formatter.Writer, doc, errors, warnings)
	if len(errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errors)))
	}
	return nil
}

// WriteReport renders the human-readable report: every diagnostic in
// accumulation order (errors before warnings), then a summary line.
func WriteReport(w io.Writer, doc *ir.Document, errors, warnings []validator.Diagnostic) {
	for _, diag := range errors {
		fmt.Fprintln(w, diag)
		fmt.Fprintln(w)
	}
	for _, diag := range warnings {
		fmt.Fprintln(w, diag)
		fmt.Fprintln(w)
	}

	info := modelInfo(doc)
	switch {
	case len(errors) == 0 && len(warnings) == 0:
		fmt.Fprintf(w, "[OK] Model %q v%s is valid.\n", info.Name, info.Version)
	case len(errors) == 0:
		fmt.Fprintf(w, "[OK] Model %q v%s is valid (%d warning(s)).\n", info.Name, info.Version, len(warnings))
	default:
		fmt.Fprintf(w, "Found %d error(s) and %d warning(s).\n", len(errors), len(warnings))
	}
}

func modelInfo(doc *ir.Document) ModelInfo {
	info := ModelInfo{Name: "<unnamed>", Version: "?"}
	if doc.Meta != nil {
		if doc.Meta.Name != "" {
			info.Name = doc.Meta.Name
		}
		if doc.Meta.Version != "" {
			info.Version = doc.Meta.Version
		}
	}
	return info
}

func toDiagnosticJSON(diags []validator.Diagnostic) []DiagnosticJSON {
	out := make([]DiagnosticJSON, len(diags))
	for i, d := range diags {
		out[i] = DiagnosticJSON{
			Code:     d.Code,
			Level:    string(d.Level),
			Message:  d.Message,
			Location: d.Location,
		}
	}
	return out
}
