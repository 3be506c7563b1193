package termcodec

import (
	"github.com/funvibe/tinyts/internal/typesystem"

	"gopkg.in/yaml.v3"
)

// EncodeType renders a type in the tag form accepted by Decoder.Type.
func EncodeType(t typesystem.Type) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	if t == nil {
		return n
	}
	n.Content = append(n.Content, scalar("tag"), scalar(t.Tag()))

	if fn, ok := t.(typesystem.TFunc); ok {
		params := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, p := range fn.Params {
			pn := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
			pn.Content = append(pn.Content,
				scalar("name"), scalar(p.Name),
				scalar("type"), EncodeType(p.Type),
			)
			params.Content = append(params.Content, pn)
		}
		n.Content = append(n.Content,
			scalar("params"), params,
			scalar("retType"), EncodeType(fn.ReturnType),
		)
	}
	return n
}

// MarshalType encodes a type as a single-line YAML flow document.
func MarshalType(t typesystem.Type) ([]byte, error) {
	return yaml.Marshal(EncodeType(t))
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
