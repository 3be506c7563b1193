package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/tinyts/internal/token"
)

// ErrorCode identifies the kind of a diagnostic.
type ErrorCode string

// Type errors
const (
	ErrT001 ErrorCode = "T001" // condition is not boolean
	ErrT002 ErrorCode = "T002" // branches have different types
	ErrT003 ErrorCode = "T003" // operand of + is not a number
	ErrT004 ErrorCode = "T004" // unknown variable
	ErrT005 ErrorCode = "T005" // callee is not a function
	ErrT006 ErrorCode = "T006" // wrong number of arguments
	ErrT007 ErrorCode = "T007" // argument type does not match parameter
	ErrT008 ErrorCode = "T008" // term shape not supported
)

// Aliases naming the type errors by what they mean.
const (
	ConditionNotBoolean  = ErrT001
	BranchTypeMismatch   = ErrT002
	OperandNotNumber     = ErrT003
	UnknownVariable      = ErrT004
	NotAFunction         = ErrT005
	ArityMismatch        = ErrT006
	ArgumentTypeMismatch = ErrT007
	NotImplemented       = ErrT008
)

// Input errors, raised while decoding a term document
const (
	ErrD001 ErrorCode = "D001" // malformed document
	ErrD002 ErrorCode = "D002" // missing or invalid field
	ErrD003 ErrorCode = "D003" // invalid type annotation
)

// Driver errors
const (
	ErrC001 ErrorCode = "C001" // reading input
	ErrC002 ErrorCode = "C002" // result cache
)

var errorMessages = map[ErrorCode]string{
	ErrT001: "boolean expected, got %s",
	ErrT002: "then and else have different types: %s vs %s",
	ErrT003: "number expected, got %s",
	ErrT004: "unknown variable %s",
	ErrT005: "function type expected, got %s",
	ErrT006: "wrong number of arguments: expected %d, got %d",
	ErrT007: "parameter type mismatch at argument %d: expected %s, got %s",
	ErrT008: "not implemented yet: %s",
	ErrD001: "malformed term document: %s",
	ErrD002: "%s",
	ErrD003: "invalid type: %s",
	ErrC001: "%s",
	ErrC002: "cache: %s",
}

// DiagnosticError is a single reported problem.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     token.Position
	Message string

	// Name is the unresolved variable for ErrT004.
	Name string
	// Index is the mismatched argument position for ErrT007, -1 otherwise.
	Index int
}

// NewError creates a diagnostic, formatting args into the code's message template.
func NewError(code ErrorCode, pos token.Position, args ...interface{}) *DiagnosticError {
	msg, ok := errorMessages[code]
	if !ok {
		msg = "unknown error"
	} else {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{Code: code, Pos: pos, Message: msg, Index: -1}
}

// WithName attaches the offending variable name.
func (e *DiagnosticError) WithName(name string) *DiagnosticError {
	e.Name = name
	return e
}

// WithIndex attaches the offending argument index.
func (e *DiagnosticError) WithIndex(i int) *DiagnosticError {
	e.Index = i
	return e
}

func (e *DiagnosticError) Error() string {
	if p := e.Pos.String(); p != "" {
		return fmt.Sprintf("%s: error [%s]: %s", p, e.Code, e.Message)
	}
	return fmt.Sprintf("error [%s]: %s", e.Code, e.Message)
}

// IsTypeError reports whether the code belongs to the type checker.
func (c ErrorCode) IsTypeError() bool {
	return len(c) > 0 && c[0] == 'T'
}

// CodeOf extracts the diagnostic code from err, or "" if err is not a diagnostic.
func CodeOf(err error) ErrorCode {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Wrap converts an arbitrary error into a diagnostic with the given code.
func Wrap(code ErrorCode, pos token.Position, err error) *DiagnosticError {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de
	}
	return NewError(code, pos, err.Error())
}
