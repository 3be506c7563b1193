package analyzer

import (
	"testing"

	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/pipeline"
	"github.com/funvibe/tinyts/internal/typesystem"
)

// expectType asserts that checking term under env yields want.
func expectType(t *testing.T, term ast.Term, env *typesystem.Env, want typesystem.Type) typesystem.Type {
	t.Helper()
	got, err := Typecheck(term, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !typesystem.Equal(got, want) {
		t.Fatalf("got type %s, want %s", got, want)
	}
	return got
}

func TestScenarios(t *testing.T) {
	identityBool := ast.Func([]typesystem.Param{ast.P("x", typesystem.Boolean)}, ast.Var("x"))

	tests := []struct {
		name string
		term ast.Term
		want typesystem.Type
	}{
		{"true", ast.Bool(true), typesystem.Boolean},
		{"false", ast.Bool(false), typesystem.Boolean},
		{"number", ast.Num(42), typesystem.Number},
		{"1 + 2", ast.Add(ast.Num(1), ast.Num(2)), typesystem.Number},
		{"if (true) { 1 } else { 2 }", ast.If(ast.Bool(true), ast.Num(1), ast.Num(2)), typesystem.Number},
		{"((x: boolean) => x)(true)", ast.Call(identityBool, ast.Bool(true)), typesystem.Boolean},
		{"const x = 1; x + 2", ast.Const("x", ast.Num(1), ast.Add(ast.Var("x"), ast.Num(2))), typesystem.Number},
		{"1; true", ast.Seq(ast.Num(1), ast.Bool(true)), typesystem.Boolean},
		{"nested adds", ast.Add(ast.Add(ast.Num(1), ast.Num(2)), ast.Add(ast.Num(3), ast.Num(4))), typesystem.Number},
		{
			"zero-arity call",
			ast.Call(ast.Func(nil, ast.Num(1))),
			typesystem.Number,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectType(t, tt.term, typesystem.EmptyEnv(), tt.want)
		})
	}
}

func TestFunctionLiteralEchoesParams(t *testing.T) {
	params := []typesystem.Param{ast.P("a", typesystem.Number), ast.P("b", typesystem.Boolean)}
	fn := ast.Func(params, ast.If(ast.Var("b"), ast.Var("a"), ast.Num(0)))

	got := expectType(t, fn, nil, typesystem.NewFunc(params, typesystem.Number))
	tf := got.(typesystem.TFunc)
	if len(tf.Params) != 2 || tf.Params[0].Name != "a" || tf.Params[1].Name != "b" {
		t.Errorf("params not echoed verbatim: %s", tf)
	}
	if tf.String() != "(a: number, b: boolean) => number" {
		t.Errorf("String() = %q", tf.String())
	}
}

func TestHigherOrderFunction(t *testing.T) {
	// (f: (n: number) => number, v: number) => f(f(v))
	fType := typesystem.NewFunc([]typesystem.Param{{Name: "n", Type: typesystem.Number}}, typesystem.Number)
	twice := ast.Func(
		[]typesystem.Param{ast.P("f", fType), ast.P("v", typesystem.Number)},
		ast.Call(ast.Var("f"), ast.Call(ast.Var("f"), ast.Var("v"))),
	)
	// twice((m: number) => m + 1, 3): argument parameter names differ from the declared ones
	inc := ast.Func([]typesystem.Param{ast.P("m", typesystem.Number)}, ast.Add(ast.Var("m"), ast.Num(1)))
	expectType(t, ast.Call(twice, inc, ast.Num(3)), nil, typesystem.Number)
}

func TestCallReturnsDeclaredReturnType(t *testing.T) {
	// A global whose declared return type is a function: mk()(true)
	inner := typesystem.NewFunc([]typesystem.Param{{Name: "b", Type: typesystem.Boolean}}, typesystem.Number)
	env := typesystem.EmptyEnv().Extend("mk", typesystem.NewFunc(nil, inner))
	expectType(t, ast.Call(ast.Call(ast.Var("mk")), ast.Bool(true)), env, typesystem.Number)
}

func TestParameterShadowsOuterBinding(t *testing.T) {
	// const x = 1; ((x: boolean) => x)
	fn := ast.Func([]typesystem.Param{ast.P("x", typesystem.Boolean)}, ast.Var("x"))
	want := typesystem.NewFunc([]typesystem.Param{{Name: "x", Type: typesystem.Boolean}}, typesystem.Boolean)
	expectType(t, ast.Const("x", ast.Num(1), fn), nil, want)
}

func TestDuplicateParametersLastWins(t *testing.T) {
	fn := ast.Func([]typesystem.Param{ast.P("x", typesystem.Number), ast.P("x", typesystem.Boolean)}, ast.Var("x"))
	got := expectType(t, fn, nil, typesystem.NewFunc(
		[]typesystem.Param{{Name: "x", Type: typesystem.Number}, {Name: "x", Type: typesystem.Boolean}},
		typesystem.Boolean,
	))
	if got.(typesystem.TFunc).ReturnType.String() != "boolean" {
		t.Errorf("later parameter should shadow earlier one")
	}
}

func TestConstShadowsConst(t *testing.T) {
	// const x = 1; const x = true; x
	term := ast.Const("x", ast.Num(1), ast.Const("x", ast.Bool(true), ast.Var("x")))
	expectType(t, term, nil, typesystem.Boolean)
}

func TestConstInitSeesOuterBindingOfSameName(t *testing.T) {
	// x: number in scope; const x = x + 1; x
	env := typesystem.EmptyEnv().Extend("x", typesystem.Number)
	term := ast.Const("x", ast.Add(ast.Var("x"), ast.Num(1)), ast.Var("x"))
	expectType(t, term, env, typesystem.Number)
}

func TestSequenceBodyMustTypecheck(t *testing.T) {
	_, err := Typecheck(ast.Seq(ast.Add(ast.Num(1), ast.Bool(true)), ast.Num(2)), nil)
	if err == nil {
		t.Fatal("expected the discarded body to be checked")
	}
}

func TestSequenceIntroducesNoBindings(t *testing.T) {
	// (const a = 1; a); a
	term := ast.Seq(ast.Const("a", ast.Num(1), ast.Var("a")), ast.Var("a"))
	if _, err := Typecheck(term, nil); err == nil {
		t.Fatal("binding leaked out of its const scope")
	}
}

func TestEnvIsNotMutated(t *testing.T) {
	env := typesystem.EmptyEnv().Extend("g", typesystem.Number)
	term := ast.Seq(
		ast.Func([]typesystem.Param{ast.P("p", typesystem.Boolean)}, ast.Var("p")),
		ast.Const("c", ast.Num(1), ast.Var("c")),
	)
	expectType(t, term, env, typesystem.Number)

	if env.Len() != 1 {
		t.Errorf("env grew to %d bindings", env.Len())
	}
	for _, name := range []string{"p", "c"} {
		if _, ok := env.Lookup(name); ok {
			t.Errorf("%s leaked into the caller's environment", name)
		}
	}
}

func TestGlobalsFromEnv(t *testing.T) {
	inc := typesystem.NewFunc([]typesystem.Param{{Name: "n", Type: typesystem.Number}}, typesystem.Number)
	env := typesystem.EmptyEnv().Extend("inc", inc).Extend("flag", typesystem.Boolean)
	term := ast.If(ast.Var("flag"), ast.Call(ast.Var("inc"), ast.Num(1)), ast.Num(0))
	expectType(t, term, env, typesystem.Number)
}

func TestDeterministicFirstError(t *testing.T) {
	term := ast.Call(
		ast.Func([]typesystem.Param{ast.P("a", typesystem.Number), ast.P("b", typesystem.Number)}, ast.Var("a")),
		ast.Bool(true),
		ast.Var("ghost"),
	)
	_, first := Typecheck(term, nil)
	for i := 0; i < 10; i++ {
		_, again := Typecheck(term, nil)
		if again.Error() != first.Error() {
			t.Fatalf("run %d reported %q, first run %q", i, again, first)
		}
	}
}

func TestTypecheckProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("f.yaml", nil, nil)
	ctx.Term = ast.Add(ast.Num(1), ast.Num(2))
	ctx = (&TypecheckProcessor{}).Process(ctx)
	if ctx.Err() != nil {
		t.Fatalf("unexpected error: %v", ctx.Err())
	}
	if !typesystem.Equal(ctx.Result, typesystem.Number) {
		t.Errorf("Result = %v, want number", ctx.Result)
	}
}

func TestTypecheckProcessorRecordsError(t *testing.T) {
	ctx := pipeline.NewPipelineContext("f.yaml", nil, nil)
	ctx.Term = ast.Var("x")
	ctx = (&TypecheckProcessor{}).Process(ctx)
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(ctx.Errors))
	}
	if ctx.Result != nil {
		t.Errorf("failed check must not set a result")
	}
}

func TestTypecheckProcessorSkipsFinishedContext(t *testing.T) {
	ctx := pipeline.NewPipelineContext("f.yaml", nil, nil)
	ctx.Term = ast.Var("x")
	ctx.Result = typesystem.Boolean
	ctx.CacheHit = true
	ctx = (&TypecheckProcessor{}).Process(ctx)
	if len(ctx.Errors) != 0 {
		t.Errorf("processor should not re-check a cached verdict")
	}
}
