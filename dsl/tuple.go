package dsl

import (
	"context"
	"strconv"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Tuple returns a fixed-arity node with one schema per position.
func Tuple(items ...schema.Schema) schema.Schema {
	return &tupleSchema{items: append([]schema.Schema(nil), items...)}
}

type tupleSchema struct{ items []schema.Schema }

var _ schema.Tuple = (*tupleSchema)(nil)

func (t *tupleSchema) Kind() schema.Kind      { return schema.KindTuple }
func (t *tupleSchema) Items() []schema.Schema { return append([]schema.Schema(nil), t.items...) }

func (t *tupleSchema) Parse(ctx context.Context, v any) (any, error) {
	src, ok := v.([]any)
	if !ok {
		return nil, invalidType("expected tuple")
	}
	if len(src) < len(t.items) {
		return nil, schema.Issues{schema.Issue{Path: "/", Code: schema.CodeTooShort, Message: i18n.T(schema.CodeTooShort, nil), Hint: "tuple arity is " + strconv.Itoa(len(t.items))}}
	}
	if len(src) > len(t.items) {
		return nil, schema.Issues{schema.Issue{Path: "/", Code: schema.CodeTooLong, Message: i18n.T(schema.CodeTooLong, nil), Hint: "tuple arity is " + strconv.Itoa(len(t.items))}}
	}
	out := make([]any, 0, len(src))
	var iss schema.Issues
	for i, item := range t.items {
		ev, err := item.Parse(ctx, src[i])
		if err != nil {
			iss = schema.AppendIssues(iss, schema.PrefixIssues("/"+strconv.Itoa(i), err)...)
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t *tupleSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := t.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (t *tupleSchema) JSONSchema() (*js.Schema, error) {
	prefix := make([]*js.Schema, 0, len(t.items))
	for _, item := range t.items {
		is, err := item.JSONSchema()
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, is)
	}
	n := len(t.items)
	return &js.Schema{Type: "array", PrefixItems: prefix, MinItems: &n, MaxItems: &n}, nil
}
