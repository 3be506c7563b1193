package typesystem

import (
	"strings"

	"github.com/funvibe/tinyts/internal/config"
)

// Type is the interface for all types in our system.
// The set of implementations is closed: TBoolean, TNumber and TFunc.
type Type interface {
	String() string
	Tag() string
	typeNode()
}

// TBoolean is the type of true and false.
type TBoolean struct{}

func (TBoolean) String() string { return "boolean" }
func (TBoolean) Tag() string    { return config.BooleanTypeTag }
func (TBoolean) typeNode()      {}

// TNumber is the type of numeric literals and of addition.
type TNumber struct{}

func (TNumber) String() string { return "number" }
func (TNumber) Tag() string    { return config.NumberTypeTag }
func (TNumber) typeNode()      {}

// Param is a named, typed function parameter.
type Param struct {
	Name string
	Type Type
}

func (p Param) String() string {
	return p.Name + ": " + typeString(p.Type)
}

// TFunc is a function type: an ordered parameter list and a return type.
// Params must not be mutated once the TFunc is built.
type TFunc struct {
	Params     []Param
	ReturnType Type
}

func (t TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + typeString(t.ReturnType)
}

func (TFunc) Tag() string { return config.FuncTypeTag }
func (TFunc) typeNode()   {}

// NewFunc builds a function type over a private copy of params.
func NewFunc(params []Param, ret Type) TFunc {
	ps := make([]Param, len(params))
	copy(ps, params)
	return TFunc{Params: ps, ReturnType: ret}
}

// Arity returns the declared parameter count.
func (t TFunc) Arity() int {
	return len(t.Params)
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Common singletons.
var (
	Boolean Type = TBoolean{}
	Number  Type = TNumber{}
)
