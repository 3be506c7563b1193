package report

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/termcodec"
	"github.com/funvibe/tinyts/internal/typesystem"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Result is the verdict for one checked file.
type Result struct {
	Path     string
	Type     typesystem.Type
	Err      *diagnostics.DiagnosticError
	CacheHit bool
}

// OK reports whether the file type-checked.
func (r Result) OK() bool {
	return r.Err == nil
}

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// Printer writes results in the chosen format.
type Printer struct {
	w      io.Writer
	format string
	color  bool
}

// NewPrinter creates a printer. Colour is resolved from mode and whether w is a terminal.
func NewPrinter(w io.Writer, format, colorMode string) (*Printer, error) {
	switch format {
	case FormatText, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or yaml)", format)
	}
	return &Printer{w: w, format: format, color: useColor(w, colorMode)}, nil
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if config.IsTestMode {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print writes every result in order.
func (p *Printer) Print(results []Result) error {
	for _, r := range results {
		var err error
		if p.format == FormatYAML {
			err = p.printYAML(r)
		} else {
			err = p.printText(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printText(r Result) error {
	if r.OK() {
		_, err := fmt.Fprintf(p.w, "%s: %s\n", r.Path, p.paint(colorGreen, r.Type.String()))
		return err
	}

	loc := r.Err.Pos.String()
	if loc == "" {
		loc = r.Path
	}
	label := p.paint(colorBold+colorRed, fmt.Sprintf("error [%s]", r.Err.Code))
	_, err := fmt.Fprintf(p.w, "%s: %s: %s\n", loc, label, r.Err.Message)
	return err
}

func (p *Printer) printYAML(r Result) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content, str("file"), str(r.Path))

	if r.OK() {
		doc.Content = append(doc.Content, str("type"), termcodec.EncodeType(r.Type))
	} else {
		e := &yaml.Node{Kind: yaml.MappingNode}
		e.Content = append(e.Content,
			str("code"), str(string(r.Err.Code)),
			str("message"), str(r.Err.Message),
		)
		if r.Err.Pos.IsValid() {
			e.Content = append(e.Content,
				str("line"), num(r.Err.Pos.Line),
				str("column"), num(r.Err.Pos.Column),
			)
		}
		if r.Err.Name != "" {
			e.Content = append(e.Content, str("name"), str(r.Err.Name))
		}
		if r.Err.Index >= 0 {
			e.Content = append(e.Content, str("index"), num(r.Err.Index))
		}
		doc.Content = append(doc.Content, str("error"), e)
	}
	if r.CacheHit {
		doc.Content = append(doc.Content, str("cached"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}

	if _, err := io.WriteString(p.w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func num(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)}
}
