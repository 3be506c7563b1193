package driver

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/funvibe/tinyts/internal/analyzer"
	"github.com/funvibe/tinyts/internal/cache"
	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/pipeline"
	"github.com/funvibe/tinyts/internal/report"
	"github.com/funvibe/tinyts/internal/termcodec"
	"github.com/funvibe/tinyts/internal/token"
	"github.com/funvibe/tinyts/internal/typesystem"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Driver checks batches of term files.
type Driver struct {
	Env     *typesystem.Env
	Store   *cache.Store // nil disables caching
	Workers int
	RunID   string
	Verbose bool
}

// New creates a driver whose initial environment comes from cfg's globals.
func New(cfg *config.Config, store *cache.Store) (*Driver, error) {
	env, err := termcodec.DecodeEnv(config.ProjectFileName, cfg.Globals)
	if err != nil {
		return nil, err
	}
	return &Driver{
		Env:     env,
		Store:   store,
		Workers: cfg.WorkerCount(),
		RunID:   NewRunID(),
	}, nil
}

// NewRunID returns a time-ordered identifier for one invocation.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IsSourceFile checks if a file has a recognized source extension
func IsSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (d *Driver) pipeline() *pipeline.Pipeline {
	return pipeline.New(
		&cache.LookupProcessor{Store: d.Store},
		&termcodec.DecodeProcessor{},
		&analyzer.TypecheckProcessor{},
		&cache.StoreProcessor{Store: d.Store},
	)
}

// CheckSource runs the pipeline over in-memory source.
func (d *Driver) CheckSource(ctx context.Context, path string, source []byte) report.Result {
	pctx := pipeline.NewPipelineContext(path, source, d.Env)
	pctx.Context = ctx
	pctx.RunID = d.RunID

	pctx = d.pipeline().Run(pctx)

	res := report.Result{Path: path, Type: pctx.Result, CacheHit: pctx.CacheHit}
	if len(pctx.Errors) > 0 {
		res.Err = pctx.Errors[0]
		res.Type = nil
	}
	if d.Verbose {
		log.Printf("[%s] %s: cached=%v ok=%v", d.RunID, path, res.CacheHit, res.OK())
	}
	return res
}

// CheckFiles checks every path, at most Workers at a time.
// Results are returned in the order of paths regardless of completion order.
func (d *Driver) CheckFiles(ctx context.Context, paths []string) ([]report.Result, error) {
	results := make([]report.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := d.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				results[i] = report.Result{
					Path: path,
					Err:  diagnostics.NewError(diagnostics.ErrC001, token.Position{File: path}, err.Error()),
				}
				return nil
			}
			results[i] = d.CheckSource(gctx, path, source)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Failed counts results that did not type-check.
func Failed(results []report.Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
