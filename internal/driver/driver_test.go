package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/tinyts/internal/cache"
	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/diagnostics"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckFilesKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("tag: add\nleft: {tag: number, n: %d}\nright: {tag: number, n: 1}\n", i)
		if i%3 == 0 {
			content = "tag: var\nname: missing\n"
		}
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%02d.yaml", i), content))
	}

	d := &Driver{Workers: 4, RunID: "run"}
	results, err := d.CheckFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Fatalf("result %d is for %s, want %s", i, r.Path, paths[i])
		}
		wantOK := i%3 != 0
		if r.OK() != wantOK {
			t.Errorf("%s: ok=%v, want %v (err=%v)", r.Path, r.OK(), wantOK, r.Err)
		}
		if wantOK && r.Type.String() != "number" {
			t.Errorf("%s: type %s", r.Path, r.Type)
		}
		if !wantOK && r.Err.Code != diagnostics.UnknownVariable {
			t.Errorf("%s: code %s", r.Path, r.Err.Code)
		}
	}
	if Failed(results) != 7 {
		t.Errorf("Failed() = %d, want 7", Failed(results))
	}
}

func TestCheckFilesMissingFile(t *testing.T) {
	d := &Driver{Workers: 1}
	results, err := d.CheckFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.yaml")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].OK() || results[0].Err.Code != diagnostics.ErrC001 {
		t.Errorf("result = %+v", results[0])
	}
}

func TestNewUsesConfiguredGlobals(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.ProjectFileName, `
workers: 2
globals:
  - name: inc
    type: {tag: Func, params: [{name: n, type: {tag: Number}}], retType: {tag: Number}}
`)
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Workers != 2 || d.RunID == "" {
		t.Errorf("driver = %+v", d)
	}

	res := d.CheckSource(context.Background(), "main.yaml", []byte(`
tag: call
func: {tag: var, name: inc}
args: [{tag: number, n: 41}]
`))
	if !res.OK() || res.Type.String() != "number" {
		t.Errorf("result = %+v", res)
	}
}

func TestCheckFilesWithCache(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Open(context.Background(), filepath.Join(dir, config.DefaultCachePath))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	path := writeFile(t, dir, "p.yaml", "tag: if\ncond: {tag: \"true\"}\nthn: {tag: number, n: 1}\nels: {tag: \"false\"}\n")

	d := &Driver{Store: store, Workers: 2, RunID: NewRunID()}
	first, err := d.CheckFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].CacheHit || first[0].Err == nil || first[0].Err.Code != diagnostics.BranchTypeMismatch {
		t.Fatalf("first = %+v", first[0])
	}

	d.RunID = NewRunID()
	second, err := d.CheckFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].CacheHit || second[0].Err.Code != diagnostics.BranchTypeMismatch {
		t.Errorf("second = %+v", second[0])
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Driver{Workers: 1}
	if _, err := d.CheckFiles(ctx, []string{"a.yaml"}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestIsSourceFile(t *testing.T) {
	for _, p := range []string{"a.yaml", "b.tt.json", "c.yml", "d.json"} {
		if !IsSourceFile(p) {
			t.Errorf("%s should be a source file", p)
		}
	}
	for _, p := range []string{"a.ts", "README.md", "yaml"} {
		if IsSourceFile(p) {
			t.Errorf("%s should not be a source file", p)
		}
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("run ids %q, %q", a, b)
	}
}
