package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// YAMLOptions controls how EncodeYAML renders a document. Output is always
// block style.
type YAMLOptions struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// EmptyNull renders nil values as an empty scalar ("key:") instead of
	// the literal "null".
	EmptyNull bool
}

// DefaultYAMLOptions returns the options used for Ansible host_vars and
// inventory files.
func DefaultYAMLOptions() YAMLOptions {
	return YAMLOptions{Indent: 2, EmptyNull: true}
}

// MapItem is a single key/value pair of a MapSlice.
type MapItem struct {
	Key   string
	Value any
}

// MapSlice is a mapping that keeps its insertion order when encoded. Plain
// Go maps are encoded with sorted keys.
type MapSlice []MapItem

// Keys returns the keys of the mapping in order.
func (ms MapSlice) Keys() []string {
	keys := make([]string, 0, len(ms))
	for _, item := range ms {
		keys = append(keys, item.Key)
	}
	return keys
}

// MarshalYAML renders v as a YAML document using opts.
func MarshalYAML(v any, opts YAMLOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, v, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes v to w as a single YAML document using opts.
func EncodeYAML(w io.Writer, v any, opts YAMLOptions) error {
	node, err := ToNode(v, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	if opts.Indent > 0 {
		enc.SetIndent(opts.Indent)
	}
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// ToNode converts v into a yaml.Node tree. JSON numbers keep their textual
// form, MapSlice keeps its order and plain maps are sorted by key.
func ToNode(v any, opts YAMLOptions) (*yaml.Node, error) {
	switch value := v.(type) {
	case nil:
		return nullNode(opts), nil
	case *yaml.Node:
		return value, nil
	case MapSlice:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, item := range value {
			if err := appendPair(node, item.Key, item.Value, opts); err != nil {
				return nil, err
			}
		}
		return node, nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode}
		keys := maps.Keys(value)
		slices.Sort(keys)
		for _, key := range keys {
			if err := appendPair(node, key, value[key], opts); err != nil {
				return nil, err
			}
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, elem := range value {
			child, err := ToNode(elem, opts)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case json.Number:
		return numberNode(value), nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode %T: %w", v, err)
		}
		if opts.EmptyNull {
			emptyNulls(node)
		}
		return node, nil
	}
}

func appendPair(node *yaml.Node, key string, value any, opts YAMLOptions) error {
	keyNode := &yaml.Node{}
	if err := keyNode.Encode(key); err != nil {
		return fmt.Errorf("failed to encode key %q: %w", key, err)
	}
	valueNode, err := ToNode(value, opts)
	if err != nil {
		return err
	}
	node.Content = append(node.Content, keyNode, valueNode)
	return nil
}

func nullNode(opts YAMLOptions) *yaml.Node {
	if opts.EmptyNull {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: ""}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
}

// every JSON number resolves as a YAML int or float, so it is emitted
// untagged and unquoted. YAML 1.1 readers only take exponent forms as floats
// with a dot in the mantissa and a signed exponent.
func numberNode(n json.Number) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: yaml11Float(n.String())}
}

func yaml11Float(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return s
	}
	mantissa, exp := s[:i], s[i+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	if !strings.HasPrefix(exp, "-") && !strings.HasPrefix(exp, "+") {
		exp = "+" + exp
	}
	return mantissa + s[i:i+1] + exp
}

func emptyNulls(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode && node.Tag == nullTag {
		node.Value = ""
		return
	}
	for _, child := range node.Content {
		emptyNulls(child)
	}
}
