package prettyprinter

import (
	"bytes"
	"math"
	"strconv"

	"github.com/funvibe/tinyts/internal/ast"
)

// --- Code Printer (Output looks like TypeScript source) ---

// Precedence levels (higher = binds tighter)
const (
	precArrow       = 0
	precConditional = 1
	precAdd         = 7
	precCall        = 10
)

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format renders t as a TypeScript program.
func Format(t ast.Term) string {
	p := NewCodePrinter()
	p.PrintProgram(t)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// PrintProgram prints t at statement level, one statement per line.
func (p *CodePrinter) PrintProgram(t ast.Term) {
	p.printStatements(t, "")
}

// printStatements unrolls seq and const chains into statements. The final
// expression is prefixed with last ("" or "return ").
func (p *CodePrinter) printStatements(t ast.Term, last string) {
	for {
		p.writeIndent()
		if ast.IsNil(t) {
			t = nil
		}
		switch s := t.(type) {
		case *ast.SequenceExpression:
			p.printExpr(s.Body, precArrow, false)
			p.write(";")
			p.writeln()
			t = s.Rest
			continue
		case *ast.ConstDeclaration:
			p.write("const " + s.Name + " = ")
			p.printExpr(s.Init, precArrow, false)
			p.write(";")
			p.writeln()
			t = s.Rest
			continue
		}
		p.write(last)
		p.printExpr(t, precArrow, false)
		p.write(";")
		p.writeln()
		return
	}
}

func isBlock(t ast.Term) bool {
	switch t.(type) {
	case *ast.SequenceExpression, *ast.ConstDeclaration:
		return true
	}
	return false
}

// printBlock prints `{ ...; return x; }` with the closing brace on its own line.
func (p *CodePrinter) printBlock(t ast.Term) {
	p.write("{")
	p.writeln()
	p.indent++
	p.printStatements(t, "return ")
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(t ast.Term, parentPrec int, isRight bool) {
	if ast.IsNil(t) {
		p.write("<???>")
		return
	}
	switch e := t.(type) {
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.NumberLiteral:
		// A leading minus is a unary operator: -1(x) would call 1
		needParens := parentPrec >= precCall && math.Signbit(e.Value) && !math.IsNaN(e.Value)
		p.open(needParens)
		p.write(formatNumber(e.Value))
		p.close(needParens)
	case *ast.Identifier:
		p.write(e.Name)
	case *ast.AddExpression:
		// Left-associative: a + (b + c) keeps its parentheses
		needParens := precAdd < parentPrec || (precAdd == parentPrec && isRight)
		p.open(needParens)
		p.printExpr(e.Left, precAdd, false)
		p.write(" + ")
		p.printExpr(e.Right, precAdd, true)
		p.close(needParens)
	case *ast.IfExpression:
		needParens := precConditional < parentPrec || (precConditional == parentPrec && !isRight)
		p.open(needParens)
		p.printExpr(e.Cond, precConditional+1, false)
		p.write(" ? ")
		p.printExpr(e.Then, precConditional, true)
		p.write(" : ")
		p.printExpr(e.Else, precConditional, true)
		p.close(needParens)
	case *ast.FunctionLiteral:
		needParens := parentPrec > precArrow
		p.open(needParens)
		p.write("(")
		for i, param := range e.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
			if param.Type != nil {
				p.write(": " + param.Type.String())
			}
		}
		p.write(") => ")
		if isBlock(e.Body) {
			p.printBlock(e.Body)
		} else {
			p.printExpr(e.Body, precArrow, false)
		}
		p.close(needParens)
	case *ast.CallExpression:
		p.printExpr(e.Function, precCall, false)
		p.write("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg, precArrow, false)
		}
		p.write(")")
	case *ast.SequenceExpression, *ast.ConstDeclaration:
		// No expression form in TypeScript, wrap in an immediately invoked arrow
		p.write("(() => ")
		p.printBlock(t)
		p.write(")()")
	case *ast.Unsupported:
		p.write("<" + e.Kind + ">")
	default:
		p.write("<" + t.Tag() + ">")
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *CodePrinter) open(needParens bool) {
	if needParens {
		p.write("(")
	}
}

func (p *CodePrinter) close(needParens bool) {
	if needParens {
		p.write(")")
	}
}
