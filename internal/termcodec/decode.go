// Package termcodec reads term trees and type annotations produced by the
// upstream parser. Documents are YAML or JSON in the parser's tag form:
//
//	tag: call
//	func: {tag: func, params: [{name: x, type: {tag: Boolean}}], body: {tag: var, name: x}}
//	args: [{tag: "true"}]
//
// Term shapes the checker does not know decode to *ast.Unsupported so the
// checker, not the codec, decides how to report them.
package termcodec

import (
	"fmt"

	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/diagnostics"
	"github.com/funvibe/tinyts/internal/token"
	"github.com/funvibe/tinyts/internal/typesystem"

	"gopkg.in/yaml.v3"
)

// Decoder converts yaml nodes to terms and types, stamping positions with File.
type Decoder struct {
	File string
}

// DecodeTerm parses a whole document into a term.
func DecodeTerm(file string, data []byte) (ast.Term, error) {
	root, err := parseDocument(file, data)
	if err != nil {
		return nil, err
	}
	d := &Decoder{File: file}
	term, derr := d.Term(root)
	if derr != nil {
		return nil, derr
	}
	return term, nil
}

// DecodeType parses a whole document into a type.
func DecodeType(file string, data []byte) (typesystem.Type, error) {
	root, err := parseDocument(file, data)
	if err != nil {
		return nil, err
	}
	d := &Decoder{File: file}
	typ, derr := d.Type(root)
	if derr != nil {
		return nil, derr
	}
	return typ, nil
}

// DecodeEnv builds the initial typing environment from configured globals.
func DecodeEnv(file string, globals []config.Global) (*typesystem.Env, error) {
	d := &Decoder{File: file}
	env := typesystem.EmptyEnv()
	for i := range globals {
		typ, err := d.Type(&globals[i].Type)
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", globals[i].Name, err)
		}
		env = env.Extend(globals[i].Name, typ)
	}
	return env, nil
}

func parseDocument(file string, data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrD001, token.Position{File: file}, err.Error())
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrD001, token.Position{File: file}, "empty document")
	}
	return doc.Content[0], nil
}

func (d *Decoder) pos(n *yaml.Node) token.Position {
	return token.Position{File: d.File, Line: n.Line, Column: n.Column}
}

// Term decodes a single term node.
func (d *Decoder) Term(n *yaml.Node) (ast.Term, *diagnostics.DiagnosticError) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, diagnostics.NewError(diagnostics.ErrD002, d.pos(n), "term must be a mapping with a tag")
	}
	tagNode := field(n, "tag")
	if tagNode == nil || tagNode.Kind != yaml.ScalarNode || tagNode.Value == "" {
		return nil, diagnostics.NewError(diagnostics.ErrD002, d.pos(n), "term is missing its tag")
	}

	base := ast.Node{Position: d.pos(n)}
	tag := tagNode.Value

	switch tag {
	case config.TrueTag:
		return &ast.BooleanLiteral{Node: base, Value: true}, nil

	case config.FalseTag:
		return &ast.BooleanLiteral{Node: base, Value: false}, nil

	case config.NumberTag:
		v, err := d.requireScalar(n, tag, "n")
		if err != nil {
			return nil, err
		}
		var f float64
		if decErr := v.Decode(&f); decErr != nil {
			return nil, diagnostics.NewError(diagnostics.ErrD002, d.pos(v), fmt.Sprintf("field \"n\" of number term must be numeric, got %q", v.Value))
		}
		return &ast.NumberLiteral{Node: base, Value: f}, nil

	case config.IfTag:
		subs, err := d.subterms(n, tag, "cond", "thn", "els")
		if err != nil {
			return nil, err
		}
		return &ast.IfExpression{Node: base, Cond: subs[0], Then: subs[1], Else: subs[2]}, nil

	case config.AddTag:
		subs, err := d.subterms(n, tag, "left", "right")
		if err != nil {
			return nil, err
		}
		return &ast.AddExpression{Node: base, Left: subs[0], Right: subs[1]}, nil

	case config.VarTag:
		v, err := d.requireScalar(n, tag, "name")
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{Node: base, Name: v.Value}, nil

	case config.FuncTag:
		params, err := d.params(n, tag)
		if err != nil {
			return nil, err
		}
		subs, err := d.subterms(n, tag, "body")
		if err != nil {
			return nil, err
		}
		return &ast.FunctionLiteral{Node: base, Params: params, Body: subs[0]}, nil

	case config.CallTag:
		subs, err := d.subterms(n, tag, "func")
		if err != nil {
			return nil, err
		}
		argsNode, err := d.requireKind(n, tag, "args", yaml.SequenceNode, "sequence")
		if err != nil {
			return nil, err
		}
		args := make([]ast.Term, 0, len(argsNode.Content))
		for _, a := range argsNode.Content {
			arg, err := d.Term(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &ast.CallExpression{Node: base, Function: subs[0], Arguments: args}, nil

	case config.SeqTag:
		subs, err := d.subterms(n, tag, "body", "rest")
		if err != nil {
			return nil, err
		}
		return &ast.SequenceExpression{Node: base, Body: subs[0], Rest: subs[1]}, nil

	case config.ConstTag:
		name, err := d.requireScalar(n, tag, "name")
		if err != nil {
			return nil, err
		}
		subs, err := d.subterms(n, tag, "init", "rest")
		if err != nil {
			return nil, err
		}
		return &ast.ConstDeclaration{Node: base, Name: name.Value, Init: subs[0], Rest: subs[1]}, nil
	}

	return &ast.Unsupported{Node: base, Kind: tag}, nil
}

// Type decodes a type annotation node.
func (d *Decoder) Type(n *yaml.Node) (typesystem.Type, *diagnostics.DiagnosticError) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, diagnostics.NewError(diagnostics.ErrD003, d.pos(n), "type must be a mapping with a tag")
	}
	tagNode := field(n, "tag")
	if tagNode == nil || tagNode.Kind != yaml.ScalarNode {
		return nil, diagnostics.NewError(diagnostics.ErrD003, d.pos(n), "type is missing its tag")
	}

	switch tagNode.Value {
	case config.BooleanTypeTag:
		return typesystem.Boolean, nil
	case config.NumberTypeTag:
		return typesystem.Number, nil
	case config.FuncTypeTag:
		params, err := d.params(n, config.FuncTypeTag)
		if err != nil {
			return nil, err
		}
		retNode := field(n, "retType")
		if retNode == nil {
			return nil, diagnostics.NewError(diagnostics.ErrD003, d.pos(n), "Func type is missing retType")
		}
		ret, err := d.Type(retNode)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Params: params, ReturnType: ret}, nil
	}

	return nil, diagnostics.NewError(diagnostics.ErrD003, d.pos(tagNode), fmt.Sprintf("unknown type tag %q", tagNode.Value))
}

func (d *Decoder) params(n *yaml.Node, owner string) ([]typesystem.Param, *diagnostics.DiagnosticError) {
	seq, err := d.requireKind(n, owner, "params", yaml.SequenceNode, "sequence")
	if err != nil {
		return nil, err
	}
	params := make([]typesystem.Param, 0, len(seq.Content))
	for _, pn := range seq.Content {
		pn = resolve(pn)
		if pn.Kind != yaml.MappingNode {
			return nil, diagnostics.NewError(diagnostics.ErrD002, d.pos(pn), "parameter must be a mapping with name and type")
		}
		name, err := d.requireScalar(pn, "parameter", "name")
		if err != nil {
			return nil, err
		}
		typeNode := field(pn, "type")
		if typeNode == nil {
			return nil, diagnostics.NewError(diagnostics.ErrD003, d.pos(pn), fmt.Sprintf("parameter %s has no type annotation", name.Value))
		}
		typ, err := d.Type(typeNode)
		if err != nil {
			return nil, err
		}
		params = append(params, typesystem.Param{Name: name.Value, Type: typ})
	}
	return params, nil
}

func (d *Decoder) subterms(n *yaml.Node, owner string, keys ...string) ([]ast.Term, *diagnostics.DiagnosticError) {
	out := make([]ast.Term, len(keys))
	for i, key := range keys {
		child := field(n, key)
		if child == nil {
			return nil, missing(d.pos(n), owner, key)
		}
		term, err := d.Term(child)
		if err != nil {
			return nil, err
		}
		out[i] = term
	}
	return out, nil
}

func (d *Decoder) requireScalar(n *yaml.Node, owner, key string) (*yaml.Node, *diagnostics.DiagnosticError) {
	return d.requireKind(n, owner, key, yaml.ScalarNode, "scalar")
}

func (d *Decoder) requireKind(n *yaml.Node, owner, key string, kind yaml.Kind, kindName string) (*yaml.Node, *diagnostics.DiagnosticError) {
	v := field(n, key)
	if v == nil {
		return nil, missing(d.pos(n), owner, key)
	}
	if v.Kind != kind {
		return nil, diagnostics.NewError(diagnostics.ErrD002, d.pos(v), fmt.Sprintf("field %q of %s must be a %s", key, owner, kindName))
	}
	return v, nil
}

func missing(pos token.Position, owner, key string) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrD002, pos, fmt.Sprintf("missing field %q in %s", key, owner))
}

// field looks key up in a mapping node.
func field(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
