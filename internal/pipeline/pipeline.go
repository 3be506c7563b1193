package pipeline

import (
	"context"

	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/typesystem"
)

// Processor is a single stage of the check pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one file through the stages.
type PipelineContext struct {
	// Context bounds blocking work done by stages, such as cache queries.
	Context context.Context

	FilePath string
	Source   []byte
	RunID    string

	// Env is the initial typing environment.
	Env *typesystem.Env

	Term ast.Term

	// Result is the program's type once checked (or recovered from the cache).
	Result typesystem.Type
	Errors []*diagnostics.DiagnosticError

	CacheKey string
	CacheHit bool
}

// NewPipelineContext creates a context for checking source under env.
func NewPipelineContext(path string, source []byte, env *typesystem.Env) *PipelineContext {
	if env == nil {
		env = typesystem.EmptyEnv()
	}
	return &PipelineContext{
		Context:  context.Background(),
		FilePath: path,
		Source:   source,
		Env:      env,
	}
}

// Done reports whether a verdict has been reached: a type or an error.
func (ctx *PipelineContext) Done() bool {
	return ctx.Result != nil || len(ctx.Errors) > 0
}

// Err returns the first error, or nil.
func (ctx *PipelineContext) Err() error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Stages decide for themselves whether to act on a finished context;
		// the cache store stage must still see results and errors.
	}
	return ctx
}
