package ast

import (
	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/typesystem"
)

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Node
	Value bool
}

func (b *BooleanLiteral) Tag() string {
	if b.Value {
		return config.TrueTag
	}
	return config.FalseTag
}
func (b *BooleanLiteral) termNode() {}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Node
	Value float64
}

func (n *NumberLiteral) Tag() string { return config.NumberTag }
func (n *NumberLiteral) termNode()   {}

// IfExpression represents `if (Cond) { Then } else { Else }`.
type IfExpression struct {
	Node
	Cond Term
	Then Term
	Else Term
}

func (ie *IfExpression) Tag() string { return config.IfTag }
func (ie *IfExpression) termNode()   {}

// AddExpression represents `Left + Right`.
type AddExpression struct {
	Node
	Left  Term
	Right Term
}

func (ae *AddExpression) Tag() string { return config.AddTag }
func (ae *AddExpression) termNode()   {}

// Identifier is a variable reference.
type Identifier struct {
	Node
	Name string
}

func (i *Identifier) Tag() string { return config.VarTag }
func (i *Identifier) termNode()   {}

// FunctionLiteral represents `(p1: T1, p2: T2) => Body`.
// Every parameter carries an explicit type annotation.
type FunctionLiteral struct {
	Node
	Params []typesystem.Param
	Body   Term
}

func (fl *FunctionLiteral) Tag() string { return config.FuncTag }
func (fl *FunctionLiteral) termNode()   {}

// CallExpression represents `Function(Arguments...)`.
type CallExpression struct {
	Node
	Function  Term
	Arguments []Term
}

func (ce *CallExpression) Tag() string { return config.CallTag }
func (ce *CallExpression) termNode()   {}

// SequenceExpression represents `Body; Rest`.
type SequenceExpression struct {
	Node
	Body Term
	Rest Term
}

func (se *SequenceExpression) Tag() string { return config.SeqTag }
func (se *SequenceExpression) termNode()   {}

// ConstDeclaration represents `const Name = Init; Rest`.
// Name is in scope in Rest only.
type ConstDeclaration struct {
	Node
	Name string
	Init Term
	Rest Term
}

func (cd *ConstDeclaration) Tag() string { return config.ConstTag }
func (cd *ConstDeclaration) termNode()   {}

// Unsupported stands for a node the upstream parser knows but the checker does not.
type Unsupported struct {
	Node
	Kind string
}

func (u *Unsupported) Tag() string { return u.Kind }
func (u *Unsupported) termNode()   {}
