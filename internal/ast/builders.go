package ast

import "github.com/funvibe/tinyts/internal/typesystem"

// Constructors for building terms in code. Positions are left unknown.

func Bool(v bool) *BooleanLiteral { return &BooleanLiteral{Value: v} }

func Num(v float64) *NumberLiteral { return &NumberLiteral{Value: v} }

func If(cond, then, els Term) *IfExpression {
	return &IfExpression{Cond: cond, Then: then, Else: els}
}

func Add(left, right Term) *AddExpression {
	return &AddExpression{Left: left, Right: right}
}

func Var(name string) *Identifier { return &Identifier{Name: name} }

func Func(params []typesystem.Param, body Term) *FunctionLiteral {
	return &FunctionLiteral{Params: params, Body: body}
}

func Call(fn Term, args ...Term) *CallExpression {
	return &CallExpression{Function: fn, Arguments: args}
}

func Seq(body, rest Term) *SequenceExpression {
	return &SequenceExpression{Body: body, Rest: rest}
}

func Const(name string, init, rest Term) *ConstDeclaration {
	return &ConstDeclaration{Name: name, Init: init, Rest: rest}
}

// P is shorthand for a typed parameter.
func P(name string, typ typesystem.Type) typesystem.Param {
	return typesystem.Param{Name: name, Type: typ}
}
