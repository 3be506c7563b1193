package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/token"
	"github.com/funvibe/tinyts/internal/typesystem"

	"gopkg.in/yaml.v3"
)

func sampleResults() []Result {
	fn := typesystem.NewFunc([]typesystem.Param{{Name: "x", Type: typesystem.Boolean}}, typesystem.Boolean)
	unknown := diagnostics.NewError(diagnostics.ErrT004, token.Position{File: "b.yaml", Line: 2, Column: 3}, "y").WithName("y")
	mismatch := diagnostics.NewError(diagnostics.ErrT007, token.Position{}, 0, "boolean", "number").WithIndex(0)
	return []Result{
		{Path: "a.yaml", Type: fn},
		{Path: "b.yaml", Err: unknown},
		{Path: "c.yaml", Err: mismatch, CacheHit: true},
	}
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatText, config.ColorNever)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Print(sampleResults()); err != nil {
		t.Fatal(err)
	}
	want := "a.yaml: (x: boolean) => boolean\n" +
		"b.yaml:2:3: error [T004]: unknown variable y\n" +
		"c.yaml: error [T007]: parameter type mismatch at argument 0: expected boolean, got number\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintTextColor(t *testing.T) {
	var buf bytes.Buffer
	p, _ := NewPrinter(&buf, FormatText, config.ColorAlways)
	p.Print(sampleResults()[:2])
	out := buf.String()
	if !strings.Contains(out, colorGreen+"(x: boolean) => boolean"+colorReset) {
		t.Errorf("type should be painted: %q", out)
	}
	if !strings.Contains(out, colorBold+colorRed+"error [T004]"+colorReset) {
		t.Errorf("error label should be painted: %q", out)
	}
}

func TestAutoColorOffForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p, _ := NewPrinter(&buf, FormatText, config.ColorAuto)
	if p.color {
		t.Error("auto mode must not colour a non-terminal writer")
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatYAML, config.ColorNever)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Print(sampleResults()); err != nil {
		t.Fatal(err)
	}

	type errDoc struct {
		Code    string `yaml:"code"`
		Message string `yaml:"message"`
		Line    int    `yaml:"line"`
		Column  int    `yaml:"column"`
		Name    string `yaml:"name"`
		Index   *int   `yaml:"index"`
	}
	type doc struct {
		File   string                 `yaml:"file"`
		Type   map[string]interface{} `yaml:"type"`
		Error  *errDoc                `yaml:"error"`
		Cached bool                   `yaml:"cached"`
	}

	dec := yaml.NewDecoder(strings.NewReader(buf.String()))
	var docs []doc
	for {
		var d doc
		if err := dec.Decode(&d); err != nil {
			break
		}
		docs = append(docs, d)
	}
	if len(docs) != 3 {
		t.Fatalf("decoded %d documents from:\n%s", len(docs), buf.String())
	}

	if docs[0].File != "a.yaml" || docs[0].Type["tag"] != "Func" || docs[0].Error != nil {
		t.Errorf("doc 0 = %+v", docs[0])
	}
	if e := docs[1].Error; e == nil || e.Code != "T004" || e.Name != "y" || e.Line != 2 || e.Index != nil {
		t.Errorf("doc 1 error = %+v", docs[1].Error)
	}
	if e := docs[2].Error; e == nil || e.Index == nil || *e.Index != 0 || e.Line != 0 {
		t.Errorf("doc 2 error = %+v", docs[2].Error)
	}
	if !docs[2].Cached || docs[0].Cached {
		t.Errorf("cached flags = %v, %v", docs[0].Cached, docs[2].Cached)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := NewPrinter(&bytes.Buffer{}, "xml", config.ColorNever); err == nil {
		t.Error("expected error for unknown format")
	}
}
