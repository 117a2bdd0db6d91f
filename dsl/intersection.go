package dsl

import (
	"context"
	"reflect"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Intersection returns a node accepting values that satisfy both operands.
// The two parse results are merged; results that cannot be merged are
// reported as intersection_conflict.
func Intersection(left, right schema.Schema) schema.Schema {
	return &intersectionSchema{left: left, right: right}
}

type intersectionSchema struct{ left, right schema.Schema }

var _ schema.Intersection = (*intersectionSchema)(nil)

func (x *intersectionSchema) Kind() schema.Kind    { return schema.KindIntersection }
func (x *intersectionSchema) Left() schema.Schema  { return x.left }
func (x *intersectionSchema) Right() schema.Schema { return x.right }

func (x *intersectionSchema) Parse(ctx context.Context, v any) (any, error) {
	lv, lerr := x.left.Parse(ctx, v)
	rv, rerr := x.right.Parse(ctx, v)
	// both operands parse the same value, so their issue paths are already
	// rooted at this node and are collected as-is
	iss := schema.AppendIssues(nil, operandIssues(lerr)...)
	iss = schema.AppendIssues(iss, operandIssues(rerr)...)
	if len(iss) > 0 {
		return nil, iss
	}
	merged, ok := mergeValues(lv, rv)
	if !ok {
		return nil, schema.Issues{schema.Issue{Path: "/", Code: schema.CodeIntersectionConflict, Message: i18n.T(schema.CodeIntersectionConflict, nil)}}
	}
	return merged, nil
}

func (x *intersectionSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := x.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (x *intersectionSchema) JSONSchema() (*js.Schema, error) {
	ls, err := x.left.JSONSchema()
	if err != nil {
		return nil, err
	}
	rs, err := x.right.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{AllOf: []*js.Schema{ls, rs}}, nil
}

func operandIssues(err error) schema.Issues {
	if err == nil {
		return nil
	}
	if iss, ok := schema.AsIssues(err); ok {
		return iss
	}
	return schema.Issues{schema.Issue{Path: "/", Code: schema.CodeParseError, Message: err.Error(), Cause: err}}
}

// mergeValues combines the two sides of an intersection parse: objects merge
// key-wise, equal-length arrays merge element-wise, identical values pass
// through. Anything else cannot be merged.
func mergeValues(a, b any) (any, bool) {
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(am)+len(bm))
		for k, av := range am {
			out[k] = av
		}
		for k, bv := range bm {
			if av, exists := out[k]; exists {
				mv, ok := mergeValues(av, bv)
				if !ok {
					return nil, false
				}
				out[k] = mv
				continue
			}
			out[k] = bv
		}
		return out, true
	}
	if aa, ok := a.([]any); ok {
		ba, ok := b.([]any)
		if !ok || len(aa) != len(ba) {
			return nil, false
		}
		out := make([]any, len(aa))
		for i := range aa {
			mv, ok := mergeValues(aa[i], ba[i])
			if !ok {
				return nil, false
			}
			out[i] = mv
		}
		return out, true
	}
	if reflect.DeepEqual(a, b) {
		return a, true
	}
	return nil, false
}
