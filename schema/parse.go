package schema

import (
	"context"

	srcjson "github.com/reoring/deeppartial/source/json"
	srcyaml "github.com/reoring/deeppartial/source/yaml"
)

// ParseJSON decodes a JSON document and validates it against s.
func ParseJSON(ctx context.Context, s Schema, data []byte) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := srcjson.Decode(data)
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.Parse(ctx, v)
}

// ParseJSONWithMeta is ParseJSON collecting presence metadata.
func ParseJSONWithMeta(ctx context.Context, s Schema, data []byte) (Decoded[any], error) {
	var zero Decoded[any]
	if s == nil {
		return zero, Issues{Issue{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := srcjson.Decode(data)
	if err != nil {
		return zero, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.ParseWithMeta(ctx, v)
}

// ParseYAML decodes a YAML document and validates it against s.
func ParseYAML(ctx context.Context, s Schema, data []byte) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := srcyaml.Decode(data)
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.Parse(ctx, v)
}

// Parse validates v against s and asserts the parsed result to T.
func Parse[T any](ctx context.Context, s Schema, v any) (T, error) {
	var zero T
	out, err := s.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	tv, ok := out.(T)
	if !ok {
		return zero, Issues{Issue{Path: "/", Code: CodeInvalidType, Message: "parsed value has unexpected dynamic type"}}
	}
	return tv, nil
}

// SafeParse parses v, returning (nil, false) on validation error.
func SafeParse(ctx context.Context, s Schema, v any) (any, bool) {
	out, err := s.Parse(ctx, v)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Is returns true if v conforms to the schema s.
func Is(ctx context.Context, s Schema, v any) bool {
	_, err := s.Parse(ctx, v)
	return err == nil
}
