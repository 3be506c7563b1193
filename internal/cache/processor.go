package cache

import (
	"log"

	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/pipeline"
	"github.com/funvibe/tinyts/internal/termcodec"
	"github.com/funvibe/tinyts/internal/token"
)

// LookupProcessor restores a cached verdict for ctx.Source.
// Cache failures are logged and treated as misses.
type LookupProcessor struct {
	Store *Store
}

func (lp *LookupProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if lp.Store == nil || ctx.Done() {
		return ctx
	}

	ctx.CacheKey = Key(ctx.Source, ctx.Env)
	entry, ok, err := lp.Store.Lookup(ctx.Context, ctx.CacheKey)
	if err != nil {
		log.Printf("cache: %v", err)
		return ctx
	}
	if !ok {
		return ctx
	}

	if entry.Failed() {
		de := &diagnostics.DiagnosticError{
			Code:    diagnostics.ErrorCode(entry.Code),
			Pos:     token.Position{File: ctx.FilePath, Line: entry.Line, Column: entry.Column},
			Message: entry.Message,
			Name:    entry.Name,
			Index:   entry.Index,
		}
		ctx.Errors = append(ctx.Errors, de)
		ctx.CacheHit = true
		return ctx
	}

	typ, err := termcodec.DecodeType(ctx.FilePath, []byte(entry.TypeYAML))
	if err != nil {
		// Unreadable entry: fall through and re-check
		log.Printf("cache: entry for %s: %v", ctx.FilePath, err)
		return ctx
	}
	ctx.Result = typ
	ctx.CacheHit = true
	return ctx
}

// StoreProcessor records a fresh verdict.
type StoreProcessor struct {
	Store *Store
}

func (sp *StoreProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if sp.Store == nil || ctx.CacheHit || !ctx.Done() {
		return ctx
	}
	if ctx.CacheKey == "" {
		ctx.CacheKey = Key(ctx.Source, ctx.Env)
	}

	entry := Entry{
		Key:   ctx.CacheKey,
		Path:  ctx.FilePath,
		RunID: ctx.RunID,
		Index: -1,
	}

	if len(ctx.Errors) > 0 {
		de := ctx.Errors[0]
		entry.Code = string(de.Code)
		entry.Message = de.Message
		entry.Line = de.Pos.Line
		entry.Column = de.Pos.Column
		entry.Name = de.Name
		entry.Index = de.Index
	} else {
		data, err := termcodec.MarshalType(ctx.Result)
		if err != nil {
			log.Printf("cache: encoding type for %s: %v", ctx.FilePath, err)
			return ctx
		}
		entry.TypeYAML = string(data)
	}

	if err := sp.Store.Put(ctx.Context, entry); err != nil {
		log.Printf("cache: %v", err)
	}
	return ctx
}
