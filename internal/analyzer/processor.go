package analyzer

import (
	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/pipeline"
)

// TypecheckProcessor runs the type checker over the decoded term.
type TypecheckProcessor struct{}

func (tp *TypecheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// Decoding failed or a cached verdict is already in place
	if ast.IsNil(ctx.Term) || ctx.Done() {
		return ctx
	}

	typ, err := Typecheck(ctx.Term, ctx.Env)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.Wrap(diagnostics.ErrT008, ctx.Term.Pos(), err))
		return ctx
	}

	ctx.Result = typ
	return ctx
}
