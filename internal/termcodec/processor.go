package termcodec

import (
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/pipeline"
	"github.com/funvibe/tinyts/internal/token"
)

// DecodeProcessor turns ctx.Source into ctx.Term.
type DecodeProcessor struct{}

func (dp *DecodeProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// Already decoded, or a cached verdict makes decoding unnecessary
	if ctx.Term != nil || ctx.Done() {
		return ctx
	}

	term, err := DecodeTerm(ctx.FilePath, ctx.Source)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.Wrap(diagnostics.ErrD001, token.Position{File: ctx.FilePath}, err))
		return ctx
	}
	ctx.Term = term
	return ctx
}
