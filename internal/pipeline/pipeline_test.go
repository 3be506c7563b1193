package pipeline

import (
	"testing"

	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/token"
	"github.com/funvibe/tinyts/internal/typesystem"
)

func TestRunVisitsEveryStageInOrder(t *testing.T) {
	var order []int
	stage := func(n int) Processor {
		return ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			order = append(order, n)
			return ctx
		})
	}

	New(stage(1), stage(2), stage(3)).Run(NewPipelineContext("f", nil, nil))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("stages ran in order %v", order)
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	fail := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrD001, token.Position{}, "bad"))
		return ctx
	})
	sawError := false
	observe := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		sawError = ctx.Err() != nil
		return ctx
	})

	ctx := New(fail, observe).Run(NewPipelineContext("f", nil, nil))
	if !sawError {
		t.Error("later stage should observe earlier errors")
	}
	if !ctx.Done() {
		t.Error("context with an error should be done")
	}
}

func TestNewPipelineContextDefaultsEnv(t *testing.T) {
	ctx := NewPipelineContext("f", []byte("tag: \"true\""), nil)
	if ctx.Env == nil || ctx.Env.Len() != 0 {
		t.Fatalf("expected empty env, got %v", ctx.Env)
	}
	if ctx.Done() {
		t.Error("fresh context should not be done")
	}
	ctx.Result = typesystem.Boolean
	if !ctx.Done() {
		t.Error("context with a result should be done")
	}
}
