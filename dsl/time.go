package dsl

import (
	"context"
	"time"

	"github.com/itchyny/timefmt-go"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Time returns a leaf accepting RFC3339 strings (nanosecond precision
// optional), parsed to time.Time. time.Time values pass through unchanged.
func Time() schema.Schema { return timeSchema{} }

// TimeLayout returns a leaf accepting strings in the given strptime-style
// layout (for example "%Y-%m-%d"), parsed to time.Time.
func TimeLayout(layout string) schema.Schema { return timeLayoutSchema{layout: layout} }

func invalidTimeFormat(hint string, cause error) schema.Issues {
	return schema.Issues{schema.Issue{Path: "/", Code: schema.CodeInvalidFormat, Message: i18n.T(schema.CodeInvalidFormat, nil), Hint: hint, Cause: cause}}
}

type timeSchema struct{}

func (timeSchema) Kind() schema.Kind { return schema.KindLeaf }

func (timeSchema) Parse(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		// Accept RFC3339Nano (trailing zeros optional)
		if out, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return out, nil
		}
		out, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return nil, invalidTimeFormat("expected RFC3339 timestamp", err)
		}
		return out, nil
	default:
		return nil, invalidType("expected string")
	}
}

func (timeSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	t, err := (timeSchema{}).Parse(ctx, v)
	return schema.Decoded[any]{Value: t, Presence: schema.RootSeen()}, err
}

func (timeSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

type timeLayoutSchema struct{ layout string }

func (s timeLayoutSchema) Kind() schema.Kind { return schema.KindLeaf }

func (s timeLayoutSchema) Parse(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		out, err := timefmt.Parse(t, s.layout)
		if err != nil {
			return nil, invalidTimeFormat("expected layout "+s.layout, err)
		}
		return out, nil
	default:
		return nil, invalidType("expected string")
	}
}

func (s timeLayoutSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	t, err := s.Parse(ctx, v)
	return schema.Decoded[any]{Value: t, Presence: schema.RootSeen()}, err
}

func (s timeLayoutSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: s.layout}, nil
}
