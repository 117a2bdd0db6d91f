// Package yaml decodes YAML bytes into the any-shaped values schema nodes
// consume. Mappings with non-string keys are preserved as map[any]any so Map
// schemas can validate their keys.
package yaml

import (
	y "gopkg.in/yaml.v3"
)

// Decode decodes a single YAML document.
func Decode(data []byte) (any, error) {
	var v any
	if err := y.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// normalize converts yaml.v3 output into the canonical any-shape: mappings
// whose keys are all strings become map[string]any, everything else keeps
// map[any]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		allString := true
		for k := range t {
			if _, ok := k.(string); !ok {
				allString = false
				break
			}
		}
		if allString {
			out := make(map[string]any, len(t))
			for k, val := range t {
				out[k.(string)] = normalize(val)
			}
			return out
		}
		out := make(map[any]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
