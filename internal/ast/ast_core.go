package ast

import (
	"github.com/funvibe/tinyts/internal/token"
)

// Term is a node of the program's abstract syntax tree.
// Every node exclusively owns its children: trees never share subterms.
type Term interface {
	// Tag is the upstream parser's name for the node shape.
	Tag() string
	// Pos is where the node was decoded from.
	Pos() token.Position
	termNode()
}

// Node carries the position shared by all terms.
type Node struct {
	Position token.Position
}

func (n Node) Pos() token.Position { return n.Position }

// IsNil reports whether t is nil, including a nil pointer of a node type.
func IsNil(t Term) bool {
	switch n := t.(type) {
	case nil:
		return true
	case *BooleanLiteral:
		return n == nil
	case *NumberLiteral:
		return n == nil
	case *IfExpression:
		return n == nil
	case *AddExpression:
		return n == nil
	case *Identifier:
		return n == nil
	case *FunctionLiteral:
		return n == nil
	case *CallExpression:
		return n == nil
	case *SequenceExpression:
		return n == nil
	case *ConstDeclaration:
		return n == nil
	case *Unsupported:
		return n == nil
	}
	return false
}

// Children returns the direct subterms of t in evaluation order.
func Children(t Term) []Term {
	if IsNil(t) {
		return nil
	}
	switch n := t.(type) {
	case *IfExpression:
		return []Term{n.Cond, n.Then, n.Else}
	case *AddExpression:
		return []Term{n.Left, n.Right}
	case *FunctionLiteral:
		return []Term{n.Body}
	case *CallExpression:
		out := make([]Term, 0, len(n.Arguments)+1)
		out = append(out, n.Function)
		return append(out, n.Arguments...)
	case *SequenceExpression:
		return []Term{n.Body, n.Rest}
	case *ConstDeclaration:
		return []Term{n.Init, n.Rest}
	}
	return nil
}

// Walk visits t and its subterms depth-first, left to right.
// Returning false from fn skips the node's children.
func Walk(t Term, fn func(Term) bool) {
	if IsNil(t) || !fn(t) {
		return
	}
	for _, c := range Children(t) {
		Walk(c, fn)
	}
}

// Depth returns the height of the tree rooted at t.
func Depth(t Term) int {
	if IsNil(t) {
		return 0
	}
	deepest := 0
	for _, c := range Children(t) {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
