package toolchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// HumanReadable errors have a terse rendering meant for end users.
type HumanReadable interface {
	HumanReadable() string
}

// FormatKnownError renders errors that have a human-readable form. It is
// used as the error formatter of tasks that call the toolchain.
func FormatKnownError(err error) (string, bool) {
	var hr HumanReadable
	if errors.As(err, &hr) {
		return hr.HumanReadable(), true
	}
	return "", false
}

// Diagnostic is one compiler message.
type Diagnostic struct {
	Code    int    `json:"code"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// Location renders the diagnostic position, or "" for global diagnostics.
func (d Diagnostic) Location() string {
	if d.File == "" {
		return ""
	}
	return fmt.Sprintf("%s(%d,%d)", d.File, d.Line, d.Column)
}

// CompilerError reports compiler diagnostics.
type CompilerError struct {
	Diagnostics []Diagnostic
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("compiler reported %d error(s)", len(e.Diagnostics))
}

func (e *CompilerError) ErrorKind() errs.Kind {
	return errs.KindCompiler
}

func (e *CompilerError) HumanReadable() string {
	lines := []string{"Compiler errors:"}
	for _, d := range e.Diagnostics {
		cols := []string{fmt.Sprintf("[TS%d]", d.Code)}
		if loc := d.Location(); loc != "" {
			cols = append(cols, loc+"\n   ")
		}
		cols = append(cols, d.Message)
		lines = append(lines, "  "+strings.Join(cols, " "))
	}
	return strings.Join(lines, "\n")
}

// CircularDependencyError reports import cycles, each as the ordered list
// of files that form it.
type CircularDependencyError struct {
	Cycles [][]string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("found %d circular dependencies", len(e.Cycles))
}

func (e *CircularDependencyError) ErrorKind() errs.Kind {
	return errs.KindCircularDependency
}

func (e *CircularDependencyError) HumanReadable() string {
	lines := []string{"Detected circular dependencies:"}
	for _, cycle := range e.Cycles {
		indent := 2
		for _, file := range cycle {
			lines = append(lines, strings.Repeat(" ", indent)+"↳ "+file)
			indent += 2
		}
	}
	return strings.Join(lines, "\n")
}

// FormatAssertionError lists files that are not formatted.
type FormatAssertionError struct {
	Files []string
}

func (e *FormatAssertionError) Error() string {
	return "One or more files do not conform to Prettier's style"
}

func (e *FormatAssertionError) ErrorKind() errs.Kind {
	return errs.KindFormatAssertion
}

func (e *FormatAssertionError) HumanReadable() string {
	lines := []string{"One or more files do not conform to Prettier's style:"}
	for _, file := range e.Files {
		lines = append(lines, "  "+file)
	}
	lines = append(lines, "Rebuild your project to fix this error.")
	return strings.Join(lines, "\n")
}
