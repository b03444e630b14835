// Package cli wires the memplan pass, graph loader, and device config into
// cobra subcommands, in the RootOptions/OutputFormatter pattern of
// roach88-nysm/brutalist's internal/cli package.
package cli

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Exit codes, mirroring brutalist's cli package.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries the process exit code an error should produce.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the process exit code an error should produce,
// defaulting to ExitFailure for errors that aren't an *ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter gates --verbose diagnostics and, for the locale-aware
// byte counts printed alongside a report, renders them through
// golang.org/x/text/message's grouping printer. The report's own
// print surface (Report.WriteEntries/WriteSummary) never goes through
// this type: that text is a byte-for-byte contract and stays as-is.
type OutputFormatter struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool

	printer *message.Printer
}

func NewOutputFormatter(w, errW io.Writer, verbose bool) *OutputFormatter {
	return &OutputFormatter{
		Writer:    w,
		ErrWriter: errW,
		Verbose:   verbose,
		printer:   message.NewPrinter(language.English),
	}
}

// VerboseLog writes a diagnostic line to ErrWriter, only when verbose
// mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.GetErrWriter()
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns ErrWriter, falling back to Writer when unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// FormatBytes renders a byte count with thousands grouping, e.g.
// "1,048,576 bytes" — used in --verbose diagnostics and in the plan
// command's over-budget warning on the error writer, never in the
// report's own print surface.
func (f *OutputFormatter) FormatBytes(n uint64) string {
	return f.printer.Sprintf("%d bytes", n)
}
