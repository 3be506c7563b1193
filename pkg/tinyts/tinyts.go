// Package tinyts is the embedding API of the checker: build a term with the
// constructors below (or decode one from YAML/JSON) and ask for its type.
package tinyts

import (
	"github.com/funvibe/tinyts/internal/analyzer"
	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/prettyprinter"
	"github.com/funvibe/tinyts/internal/termcodec"
	"github.com/funvibe/tinyts/internal/typesystem"
)

type (
	Type  = typesystem.Type
	Param = typesystem.Param
	Env   = typesystem.Env
	Term  = ast.Term

	// Error is returned for every failed check; Code identifies the kind.
	Error     = diagnostics.DiagnosticError
	ErrorCode = diagnostics.ErrorCode
)

var (
	Boolean Type = typesystem.Boolean
	Number  Type = typesystem.Number
)

const (
	ConditionNotBoolean  = diagnostics.ConditionNotBoolean
	BranchTypeMismatch   = diagnostics.BranchTypeMismatch
	OperandNotNumber     = diagnostics.OperandNotNumber
	UnknownVariable      = diagnostics.UnknownVariable
	NotAFunction         = diagnostics.NotAFunction
	ArityMismatch        = diagnostics.ArityMismatch
	ArgumentTypeMismatch = diagnostics.ArgumentTypeMismatch
	NotImplemented       = diagnostics.NotImplemented
)

// Check returns the type of term under env. A nil env is empty.
func Check(term Term, env *Env) (Type, error) {
	return analyzer.Typecheck(term, env)
}

// CheckSource decodes a YAML or JSON term document and checks it.
func CheckSource(data []byte, env *Env) (Type, error) {
	term, err := termcodec.DecodeTerm("", data)
	if err != nil {
		return nil, err
	}
	return Check(term, env)
}

// Format renders term as TypeScript source.
func Format(term Term) string { return prettyprinter.Format(term) }

// Equal compares types structurally, ignoring parameter names.
func Equal(a, b Type) bool { return typesystem.Equal(a, b) }

// CodeOf extracts the error code from err, or "" if err is not a check error.
func CodeOf(err error) ErrorCode { return diagnostics.CodeOf(err) }

// Types

func Func(params []Param, ret Type) Type { return typesystem.NewFunc(params, ret) }
func P(name string, typ Type) Param      { return typesystem.Param{Name: name, Type: typ} }
func EmptyEnv() *Env                     { return typesystem.EmptyEnv() }
func EnvFrom(params ...Param) *Env       { return typesystem.EnvFrom(params) }

// Terms

func True() Term                              { return ast.Bool(true) }
func False() Term                             { return ast.Bool(false) }
func Num(v float64) Term                      { return ast.Num(v) }
func If(cond, then, els Term) Term            { return ast.If(cond, then, els) }
func Add(left, right Term) Term               { return ast.Add(left, right) }
func Var(name string) Term                    { return ast.Var(name) }
func Lambda(params []Param, body Term) Term   { return ast.Func(params, body) }
func Call(fn Term, args ...Term) Term         { return ast.Call(fn, args...) }
func Seq(body, rest Term) Term                { return ast.Seq(body, rest) }
func Const(name string, init, rest Term) Term { return ast.Const(name, init, rest) }
