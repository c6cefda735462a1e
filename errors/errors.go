// Package errors defines the error taxonomy shared by the lexer, parser,
// analyzer and builder.
package errors

import "fmt"

// Kind classifies why an Error was raised.
type Kind int

const (
	// IO covers missing files, unreadable files, and glob expansion
	// failures.
	IO Kind = iota
	// Syntax covers unexpected "}", unterminated comments/quotes/variable
	// expansions, and brace imbalance.
	Syntax
	// Context covers a directive appearing in a block where it isn't
	// allowed.
	Context
	// Arguments covers wrong arity or an invalid FLAG value.
	Arguments
	// Unknown covers an unrecognized directive under strict mode.
	Unknown
	// Extension covers errors raised by a lex or build hook.
	Extension
)

// String returns a human label for the kind, used only in %v-style
// debugging; it never appears in Error() output.
func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case Syntax:
		return "syntax"
	case Context:
		return "context"
	case Arguments:
		return "arguments"
	case Unknown:
		return "unknown-directive"
	case Extension:
		return "extension"
	default:
		return "error"
	}
}

// Error is the error type raised anywhere in the pipeline. Its string
// form is deterministic and matches "<message> in <file>:<line>", or
// "<message> in <file>" when Line is unset, per the toolkit's external
// contract.
type Error struct {
	Kind    Kind
	Message string
	File    string
	Line    int // 0 means unknown
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s in %s:%d", e.Message, e.File, e.Line)
	}
	if e.File != "" {
		return fmt.Sprintf("%s in %s", e.Message, e.File)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with a known line.
func New(kind Kind, file string, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), File: file, Line: line}
}

// NewNoLine builds an Error whose line is unknown (e.g. file-open
// failures before any token has been read).
func NewNoLine(kind Kind, file string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), File: file}
}

// Wrap attaches kind/file/line context to an underlying error, keeping it
// reachable via Unwrap.
func Wrap(kind Kind, file string, line int, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), File: file, Line: line, Cause: cause}
}
