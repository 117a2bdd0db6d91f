package dsl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// String returns the minimal string leaf.
func String() schema.Schema { return stringSchema{} }

// Bool returns the minimal bool leaf.
func Bool() schema.Schema { return boolSchema{} }

// Int returns an integer leaf. json.Number and integral float64 inputs are
// accepted and normalized to int64.
func Int() schema.Schema { return intSchema{} }

// Float returns a float leaf. Numeric inputs are normalized to float64.
func Float() schema.Schema { return floatSchema{} }

// NumberJSON returns a json.Number leaf preserving the exact wire digits.
func NumberJSON() schema.Schema { return numberJSONSchema{} }

// Any returns a leaf that accepts anything present, including null.
func Any() schema.Schema { return anySchema{} }

// Literal returns a leaf that accepts exactly the given value. Discriminated
// union options carry their tag as a required Literal field.
func Literal(value any) schema.Schema { return literalSchema{value: value} }

// Enum returns a string leaf restricted to the given members.
func Enum(members ...string) schema.Schema {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return enumSchema{members: append([]string(nil), members...), set: set}
}

func invalidType(hint string) schema.Issues {
	return schema.Issues{schema.Issue{Path: "/", Code: schema.CodeInvalidType, Message: i18n.T(schema.CodeInvalidType, nil), Hint: hint}}
}

// ---- string ----

type stringSchema struct{}

var _ schema.Schema = stringSchema{}

func (stringSchema) Kind() schema.Kind { return schema.KindLeaf }

func (stringSchema) Parse(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("expected string")
	}
	return s, nil
}

func (stringSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	s, err := (stringSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: s, Presence: schema.RootSeen()}, err
}

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// ---- bool ----

type boolSchema struct{}

func (boolSchema) Kind() schema.Kind { return schema.KindLeaf }

func (boolSchema) Parse(ctx context.Context, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, invalidType("expected boolean")
	}
	return b, nil
}

func (boolSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	b, err := (boolSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: b, Presence: schema.RootSeen()}, err
}

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// ---- int ----

type intSchema struct{}

func (intSchema) Kind() schema.Kind { return schema.KindLeaf }

func (intSchema) Parse(ctx context.Context, v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, schema.Issues{schema.Issue{Path: "/", Code: schema.CodeTooBig, Message: i18n.T(schema.CodeTooBig, nil), Hint: "integer overflow"}}
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, invalidType("expected integer")
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), nil
		}
		return nil, invalidType("expected integer")
	default:
		return nil, invalidType("expected integer")
	}
}

func (intSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	i, err := (intSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: i, Presence: schema.RootSeen()}, err
}

func (intSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

// ---- float ----

type floatSchema struct{}

func (floatSchema) Kind() schema.Kind { return schema.KindLeaf }

func (floatSchema) Parse(ctx context.Context, v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, invalidType("expected number")
		}
		return f, nil
	default:
		return nil, invalidType("expected number")
	}
}

func (floatSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	f, err := (floatSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: f, Presence: schema.RootSeen()}, err
}

func (floatSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// ---- json.Number ----

type numberJSONSchema struct{}

func (numberJSONSchema) Kind() schema.Kind { return schema.KindLeaf }

func (numberJSONSchema) Parse(ctx context.Context, v any) (any, error) {
	switch n := v.(type) {
	case json.Number:
		return n, nil
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), nil
	case int:
		return json.Number(strconv.Itoa(n)), nil
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), nil
	default:
		return nil, invalidType("expected number")
	}
}

func (numberJSONSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	n, err := (numberJSONSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: n, Presence: schema.RootSeen()}, err
}

func (numberJSONSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// ---- any ----

type anySchema struct{}

func (anySchema) Kind() schema.Kind { return schema.KindLeaf }

func (anySchema) Parse(ctx context.Context, v any) (any, error) {
	if v == schema.Absent {
		return nil, invalidType("value missing")
	}
	return v, nil
}

func (anySchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := (anySchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (anySchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

// ---- literal ----

type literalSchema struct{ value any }

var _ schema.Literal = literalSchema{}

func (l literalSchema) Kind() schema.Kind { return schema.KindLeaf }
func (l literalSchema) LiteralValue() any { return l.value }

func (l literalSchema) Parse(ctx context.Context, v any) (any, error) {
	if literalEqual(v, l.value) {
		return l.value, nil
	}
	return nil, schema.Issues{schema.Issue{
		Path:    "/",
		Code:    schema.CodeInvalidLiteral,
		Message: i18n.T(schema.CodeInvalidLiteral, nil),
		Hint:    fmt.Sprintf("expected %v", l.value),
	}}
}

func (l literalSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := l.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (l literalSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Const: l.value}, nil }

// literalEqual compares a wire value against a literal, bridging the
// json.Number representation produced by the decoders.
func literalEqual(v, lit any) bool {
	if v == lit {
		return true
	}
	vf, vok := numericValue(v)
	lf, lok := numericValue(lit)
	return vok && lok && vf == lf
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// CanonicalTag normalizes a literal or wire value for use as a discriminator
// tag key: numeric representations collapse to float64, everything else is
// used as-is.
func CanonicalTag(v any) any {
	if f, ok := numericValue(v); ok {
		return f
	}
	return v
}

// ---- enum ----

type enumSchema struct {
	members []string
	set     map[string]struct{}
}

func (e enumSchema) Kind() schema.Kind { return schema.KindLeaf }

func (e enumSchema) Parse(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("expected string")
	}
	if _, ok := e.set[s]; !ok {
		return nil, schema.Issues{schema.Issue{
			Path:    "/",
			Code:    schema.CodeInvalidEnum,
			Message: i18n.T(schema.CodeInvalidEnum, nil),
			Hint:    "allowed: " + strings.Join(e.members, "|"),
		}}
	}
	return s, nil
}

func (e enumSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := e.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (e enumSchema) JSONSchema() (*js.Schema, error) {
	vals := make([]any, 0, len(e.members))
	for _, m := range e.members {
		vals = append(vals, m)
	}
	return &js.Schema{Type: "string", Enum: vals}, nil
}
