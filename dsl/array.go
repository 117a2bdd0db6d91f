package dsl

import (
	"context"
	"strconv"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Array returns an array node with the given element schema.
func Array(elem schema.Schema) *ArraySchema {
	return &ArraySchema{elem: elem, minLen: -1, maxLen: -1}
}

// ArraySchema implements the array node with optional Min/Max length rules.
type ArraySchema struct {
	elem   schema.Schema
	minLen int
	maxLen int
}

var _ schema.Array = (*ArraySchema)(nil)

// Min sets the minimum length.
func (a *ArraySchema) Min(n int) *ArraySchema { a.minLen = n; return a }

// Max sets the maximum length.
func (a *ArraySchema) Max(n int) *ArraySchema { a.maxLen = n; return a }

func (a *ArraySchema) Kind() schema.Kind      { return schema.KindArray }
func (a *ArraySchema) Element() schema.Schema { return a.elem }

// Bounds reports the configured length rules; -1 means unset.
func (a *ArraySchema) Bounds() (min, max int) { return a.minLen, a.maxLen }

func (a *ArraySchema) Parse(ctx context.Context, v any) (any, error) {
	src, ok := v.([]any)
	if !ok {
		return nil, invalidType("expected array")
	}
	if iss := a.checkLen(len(src)); len(iss) > 0 {
		return nil, iss
	}
	out := make([]any, 0, len(src))
	var iss schema.Issues
	for i := range src {
		ev, err := a.elem.Parse(ctx, src[i])
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

func (a *ArraySchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	arr, err := a.Parse(ctx, v)
	return schema.Decoded[any]{Value: arr, Presence: schema.RootSeen()}, err
}

func (a *ArraySchema) checkLen(n int) schema.Issues {
	var iss schema.Issues
	if a.minLen >= 0 && n < a.minLen {
		iss = schema.AppendIssues(iss, schema.Issue{Path: "/", Code: schema.CodeTooShort, Message: i18n.T(schema.CodeTooShort, nil), Hint: "array is shorter than min"})
	}
	if a.maxLen >= 0 && n > a.maxLen {
		iss = schema.AppendIssues(iss, schema.Issue{Path: "/", Code: schema.CodeTooLong, Message: i18n.T(schema.CodeTooLong, nil), Hint: "array is longer than max"})
	}
	return iss
}

func (a *ArraySchema) JSONSchema() (*js.Schema, error) {
	es, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: es}
	if a.minLen >= 0 {
		n := a.minLen
		s.MinItems = &n
	}
	if a.maxLen >= 0 {
		n := a.maxLen
		s.MaxItems = &n
	}
	return s, nil
}
