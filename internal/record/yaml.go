package record

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the record as a YAML mapping in key order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range r.keys {
		var value yaml.Node
		if err := value.Encode(yamlValue(r.values[key])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	return node, nil
}

// yamlValue turns decoded JSON numbers back into numbers so they are not
// quoted as strings.
func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = yamlValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}
