package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Kind classifies a batterypack failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindConfigSchema
	KindConfigVersion
	KindSubprojectCycle
	KindTask
	KindCompiler
	KindCircularDependency
	KindFormatAssertion
	KindCredential
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindConfigMissing:      "config_missing",
	KindConfigSchema:       "config_schema",
	KindConfigVersion:      "config_version",
	KindSubprojectCycle:    "subproject_cycle",
	KindTask:               "task",
	KindCompiler:           "compiler",
	KindCircularDependency: "circular_dependency",
	KindFormatAssertion:    "format_assertion",
	KindCredential:         "credential",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type surfaced to users. Minimal errors are
// printed as their message only; others are printed with their full chain.
type Error struct {
	Kind    Kind
	Msg     string
	Minimal bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a full-detail error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Minimalf returns an error that is printed without any extra detail.
func Minimalf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Minimal: true}
}

// Wrap attaches a kind and message to err. A nil err yields nil.
func Wrap(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Kinded is implemented by error types outside this package that belong to
// a kind.
type Kinded interface {
	error
	ErrorKind() Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

// IsMinimal reports whether the outermost *Error in err's chain is minimal.
func IsMinimal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Minimal
}

// IsNotExist reports whether err means a path vanished or never existed.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Message renders err the way the CLI prints it: minimal errors as their
// bare message, everything else with its full chain.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Minimal {
		return e.Msg
	}
	return Describe(err)
}

// Describe prints every link of err's chain, one per line, with its type.
func Describe(err error) string {
	var b strings.Builder
	depth := 0
	for err != nil {
		if depth > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("caused by: ")
		}
		var e *Error
		if errors.As(err, &e) && e == err {
			fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Msg)
			if e.Msg == "" && e.Err != nil {
				b.WriteString(e.Err.Error())
				break
			}
		} else {
			fmt.Fprintf(&b, "%s (%T)", err.Error(), err)
			if errors.Unwrap(err) != nil {
				// wrapped via fmt.Errorf; the message already includes the cause
				break
			}
		}
		err = errors.Unwrap(err)
		depth++
	}
	return b.String()
}
