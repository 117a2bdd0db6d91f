package dsl

import (
	"context"
	"fmt"
	"sort"

	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Record returns a node for objects whose keys are validated by key (which
// must parse keys to strings) and whose values are validated by value.
func Record(key, value schema.Schema) schema.Schema {
	return &recordSchema{key: key, value: value}
}

type recordSchema struct{ key, value schema.Schema }

var _ schema.KeyValue = (*recordSchema)(nil)

func (r *recordSchema) Kind() schema.Kind    { return schema.KindRecord }
func (r *recordSchema) Key() schema.Schema   { return r.key }
func (r *recordSchema) Value() schema.Schema { return r.value }

func (r *recordSchema) Parse(ctx context.Context, v any) (any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("expected object")
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(src))
	var iss schema.Issues
	for _, k := range keys {
		kk, err := r.key.Parse(ctx, k)
		if err != nil {
			iss = schema.AppendIssues(iss, schema.PrefixIssues("/"+k, err)...)
			continue
		}
		ks, ok := kk.(string)
		if !ok {
			iss = schema.AppendIssues(iss, schema.Issue{Path: "/" + k, Code: schema.CodeInvalidType, Message: "record key must parse to string"})
			continue
		}
		vv, err := r.value.Parse(ctx, src[k])
		if err != nil {
			iss = schema.AppendIssues(iss, schema.PrefixIssues("/"+k, err)...)
			continue
		}
		out[ks] = vv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (r *recordSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := r.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (r *recordSchema) JSONSchema() (*js.Schema, error) {
	vs, err := r.value.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
}

// Map returns a node like Record but with arbitrary (non-string) keys
// allowed: map[any]any input (YAML mappings) is accepted and keys are parsed
// through the key schema.
func Map(key, value schema.Schema) schema.Schema {
	return &mapSchema{key: key, value: value}
}

type mapSchema struct{ key, value schema.Schema }

var _ schema.KeyValue = (*mapSchema)(nil)

func (m *mapSchema) Kind() schema.Kind    { return schema.KindMap }
func (m *mapSchema) Key() schema.Schema   { return m.key }
func (m *mapSchema) Value() schema.Schema { return m.value }

func (m *mapSchema) Parse(ctx context.Context, v any) (any, error) {
	switch src := v.(type) {
	case map[string]any:
		entries := make(map[any]any, len(src))
		for k, vv := range src {
			entries[k] = vv
		}
		return m.parseEntries(ctx, entries)
	case map[any]any:
		return m.parseEntries(ctx, src)
	default:
		return nil, invalidType("expected map")
	}
}

func (m *mapSchema) parseEntries(ctx context.Context, src map[any]any) (any, error) {
	// deterministic issue order: sort by rendered key
	keys := make([]any, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	out := make(map[any]any, len(src))
	var iss schema.Issues
	for _, k := range keys {
		base := "/" + fmt.Sprint(k)
		kk, err := m.key.Parse(ctx, k)
		if err != nil {
			iss = schema.AppendIssues(iss, schema.PrefixIssues(base, err)...)
			continue
		}
		vv, err := m.value.Parse(ctx, src[k])
		if err != nil {
			iss = schema.AppendIssues(iss, schema.PrefixIssues(base, err)...)
			continue
		}
		out[kk] = vv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (m *mapSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := m.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (m *mapSchema) JSONSchema() (*js.Schema, error) {
	vs, err := m.value.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
}
