package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure, protected record, not found
	ExitCommandError = 2 // Command error (bad flags, missing files, I/O)
)

// ExitError carries a specific exit code out of a command.
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Returns ExitFailure
// when the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool

	printer *message.Printer
}

// Response is the standard JSON response envelope for CLI output.
type Response struct {
	Status string `json:"status"`          // "ok" or "error"
	Data   any    `json:"data,omitempty"`  // success payload
	Error  string `json:"error,omitempty"` // error message
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool { return f.Format == "json" }

// Success outputs a successful result in the configured format. In text
// mode, text is printed and data ignored; in JSON mode, data is wrapped in
// the response envelope.
func (f *OutputFormatter) Success(text string, data any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if text != "" {
		fmt.Fprintln(f.Writer, text)
	}
	return nil
}

// Textf prints formatted text output. No-op in JSON mode.
func (f *OutputFormatter) Textf(format string, args ...any) {
	if !f.JSON() {
		fmt.Fprintf(f.Writer, format, args...)
	}
}

// Money renders an amount rounded to cents with locale-aware digit
// grouping, e.g. "1,234.50 USD".
func (f *OutputFormatter) Money(amount decimal.Decimal, currency string) string {
	if f.printer == nil {
		f.printer = message.NewPrinter(language.English)
	}
	// Round before splitting so a fraction that carries (9.999 -> 10.00)
	// lands in the integer digits.
	r := amount.Round(2)
	sign := ""
	if r.Sign() < 0 {
		sign = "-"
	}
	abs := r.Abs()
	fixed := abs.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.')+1:]
	return f.printer.Sprintf("%s%d.%s %s", sign, abs.IntPart(), frac, currency)
}
