package analyzer

import (
	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/token"
	"github.com/funvibe/tinyts/internal/typesystem"
)

// Typecheck computes the type of t under env, or returns the first type
// error met during a left-to-right walk of the term. The returned error is
// always a *diagnostics.DiagnosticError.
//
// A nil env is the empty environment. Neither t nor env is modified.
func Typecheck(t ast.Term, env *typesystem.Env) (typesystem.Type, error) {
	if env == nil {
		env = typesystem.EmptyEnv()
	}
	typ, err := check(t, env)
	if err != nil {
		return nil, err
	}
	return typ, nil
}

func check(t ast.Term, env *typesystem.Env) (typesystem.Type, *diagnostics.DiagnosticError) {
	if ast.IsNil(t) {
		return nil, notImplemented(nil)
	}
	switch n := t.(type) {
	case *ast.BooleanLiteral:
		return typesystem.Boolean, nil

	case *ast.NumberLiteral:
		return typesystem.Number, nil

	case *ast.IfExpression:
		return checkIf(n, env)

	case *ast.AddExpression:
		return checkAdd(n, env)

	case *ast.Identifier:
		typ, ok := env.Lookup(n.Name)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrT004, n.Pos(), n.Name).WithName(n.Name)
		}
		return typ, nil

	case *ast.FunctionLiteral:
		// Parameters shadow outer bindings; env itself is left untouched.
		bodyEnv := env.ExtendParams(n.Params)
		retType, err := check(n.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Params: n.Params, ReturnType: retType}, nil

	case *ast.CallExpression:
		return checkCall(n, env)

	case *ast.SequenceExpression:
		if _, err := check(n.Body, env); err != nil {
			return nil, err
		}
		return check(n.Rest, env)

	case *ast.ConstDeclaration:
		initType, err := check(n.Init, env)
		if err != nil {
			return nil, err
		}
		return check(n.Rest, env.Extend(n.Name, initType))
	}

	return nil, notImplemented(t)
}

func checkIf(n *ast.IfExpression, env *typesystem.Env) (typesystem.Type, *diagnostics.DiagnosticError) {
	condType, err := check(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if _, ok := condType.(typesystem.TBoolean); !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT001, posOf(n.Cond, n), condType)
	}

	thenType, err := check(n.Then, env)
	if err != nil {
		return nil, err
	}
	elseType, err := check(n.Else, env)
	if err != nil {
		return nil, err
	}
	if !typesystem.Equal(thenType, elseType) {
		return nil, diagnostics.NewError(diagnostics.ErrT002, n.Pos(), thenType, elseType)
	}
	return thenType, nil
}

func checkAdd(n *ast.AddExpression, env *typesystem.Env) (typesystem.Type, *diagnostics.DiagnosticError) {
	leftType, err := check(n.Left, env)
	if err != nil {
		return nil, err
	}
	if _, ok := leftType.(typesystem.TNumber); !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT003, posOf(n.Left, n), leftType)
	}

	rightType, err := check(n.Right, env)
	if err != nil {
		return nil, err
	}
	if _, ok := rightType.(typesystem.TNumber); !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT003, posOf(n.Right, n), rightType)
	}
	return typesystem.Number, nil
}

func checkCall(n *ast.CallExpression, env *typesystem.Env) (typesystem.Type, *diagnostics.DiagnosticError) {
	calleeType, err := check(n.Function, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeType.(typesystem.TFunc)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT005, posOf(n.Function, n), calleeType)
	}

	if len(n.Arguments) != len(fn.Params) {
		return nil, diagnostics.NewError(diagnostics.ErrT006, n.Pos(), len(fn.Params), len(n.Arguments))
	}

	for i, arg := range n.Arguments {
		argType, err := check(arg, env)
		if err != nil {
			return nil, err
		}
		want := fn.Params[i].Type
		if !typesystem.Equal(argType, want) {
			return nil, diagnostics.NewError(diagnostics.ErrT007, posOf(arg, n), i, want, argType).WithIndex(i)
		}
	}
	return fn.ReturnType, nil
}

func notImplemented(t ast.Term) *diagnostics.DiagnosticError {
	if ast.IsNil(t) {
		return diagnostics.NewError(diagnostics.ErrT008, token.Position{}, "<missing term>")
	}
	return diagnostics.NewError(diagnostics.ErrT008, t.Pos(), t.Tag())
}

// posOf prefers the position of the offending subterm, falling back to its parent.
func posOf(t ast.Term, parent ast.Term) token.Position {
	if !ast.IsNil(t) {
		if p := t.Pos(); p.IsValid() {
			return p
		}
	}
	return parent.Pos()
}
