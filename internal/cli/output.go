package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/phoneloc/internal/provider"
	"github.com/roach88/phoneloc/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Storage failure or partial import
	ExitCommandError = 2 // Command error (bad address, bad flags, database not openable, etc.)
)

// Error codes reported in CLI responses.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeRouting    = "E101"
	ErrCodeMisuse     = "E102"
	ErrCodeValidation = "E103"
	ErrCodeStorage    = "E104"
	ErrCodeConfig     = "E201"
	ErrCodeOpen       = "E202"
	ErrCodeFixture    = "E203"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E101", "E102", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt's default formatting.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Records writes recs as a table in text mode or as the data payload in
// JSON mode.
func (f *OutputFormatter) Records(recs []store.Record) error {
	if f.Format == "json" {
		return f.Success(recs)
	}

	if len(recs) == 0 {
		fmt.Fprintln(f.Writer, "No records")
		return nil
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "_ID\tNUMBER\tLOCATION\tPHONE_TYPE\tENGINE_TYPE\tUSER_MARK\tUPDATE_TIME")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%d\n",
			r.ID, r.Number, r.Location, r.PhoneType, r.EngineType, r.UserMark, r.UpdateTime)
	}
	return tw.Flush()
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// faultDetails is the details payload for provider faults.
type faultDetails struct {
	Kind    string `json:"kind"`
	Op      string `json:"op"`
	Address string `json:"address"`
}

// outputFault reports err and returns the matching ExitError. Provider
// faults get a code per kind; storage faults exit 1, all others 2.
func outputFault(f *OutputFormatter, err error) error {
	var fault *provider.Fault
	if !errors.As(err, &fault) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "command failed", err)
	}

	code, exit := ErrCodeStorage, ExitFailure
	switch fault.Kind {
	case provider.KindRouting:
		code, exit = ErrCodeRouting, ExitCommandError
	case provider.KindMisuse:
		code, exit = ErrCodeMisuse, ExitCommandError
	case provider.KindValidation:
		code, exit = ErrCodeValidation, ExitCommandError
	}

	_ = f.Error(code, fault.Err.Error(), faultDetails{
		Kind:    string(fault.Kind),
		Op:      fault.Op,
		Address: fault.Address,
	})
	return WrapExitError(exit, fmt.Sprintf("%s: %s", code, fault.Op), fault)
}
