package dsl

import (
	"context"
	"fmt"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Union returns an untagged union node. Parsing tries the options in
// declared order; the first success wins.
func Union(options ...schema.Schema) schema.Schema {
	return &unionSchema{options: append([]schema.Schema(nil), options...)}
}

type unionSchema struct{ options []schema.Schema }

var _ schema.Union = (*unionSchema)(nil)

func (u *unionSchema) Kind() schema.Kind        { return schema.KindUnion }
func (u *unionSchema) Options() []schema.Schema { return append([]schema.Schema(nil), u.options...) }

func (u *unionSchema) Parse(ctx context.Context, v any) (any, error) {
	var firstErr error
	for _, opt := range u.options {
		out, err := opt.Parse(ctx, v)
		if err == nil {
			return out, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	iss := schema.Issue{Path: "/", Code: schema.CodeUnionNoMatch, Message: i18n.T(schema.CodeUnionNoMatch, nil)}
	if firstErr != nil {
		iss.Hint = "first option: " + firstErr.Error()
	}
	return nil, schema.Issues{iss}
}

func (u *unionSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	out, err := u.Parse(ctx, v)
	return schema.Decoded[any]{Value: out, Presence: schema.RootSeen()}, err
}

func (u *unionSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{}
	out.AnyOf = make([]*js.Schema, 0, len(u.options))
	for _, opt := range u.options {
		os, err := opt.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, os)
	}
	return out, nil
}

// DiscriminatedUnion returns a tagged union node. Every option must be an
// object whose discriminator field is a required Literal with a unique tag
// value; violations are construction errors, not validation issues.
func DiscriminatedUnion(discriminator string, options ...schema.Schema) (schema.Schema, error) {
	if discriminator == "" {
		return nil, schema.MalformedSchemaf("discriminated union: empty discriminator")
	}
	if len(options) == 0 {
		return nil, schema.MalformedSchemaf("discriminated union: no options")
	}
	mapping := make(map[any]schema.Schema, len(options))
	for i, opt := range options {
		obj, ok := opt.(schema.Object)
		if !ok || opt.Kind() != schema.KindObject {
			kind := schema.KindLeaf
			if opt != nil {
				kind = opt.Kind()
			}
			return nil, schema.MalformedSchemaf("discriminated union: option %d is %s, want object", i, kind)
		}
		f, ok := obj.Shape()[discriminator]
		if !ok {
			return nil, schema.MalformedSchemaf("discriminated union: option %d lacks discriminator %q", i, discriminator)
		}
		lit, ok := f.(schema.Literal)
		if !ok {
			return nil, schema.MalformedSchemaf("discriminated union: option %d discriminator %q must be a required literal", i, discriminator)
		}
		tag := CanonicalTag(lit.LiteralValue())
		if _, dup := mapping[tag]; dup {
			return nil, schema.MalformedSchemaf("discriminated union: duplicate tag %v", lit.LiteralValue())
		}
		mapping[tag] = opt
	}
	return &discriminatedSchema{
		discriminator: discriminator,
		options:       append([]schema.Schema(nil), options...),
		mapping:       mapping,
	}, nil
}

// MustDiscriminatedUnion is like DiscriminatedUnion but panics on error.
func MustDiscriminatedUnion(discriminator string, options ...schema.Schema) schema.Schema {
	s, err := DiscriminatedUnion(discriminator, options...)
	if err != nil {
		panic(err)
	}
	return s
}

type discriminatedSchema struct {
	discriminator string
	options       []schema.Schema
	mapping       map[any]schema.Schema // canonical tag -> option
}

var _ schema.Discriminated = (*discriminatedSchema)(nil)

func (d *discriminatedSchema) Kind() schema.Kind     { return schema.KindDiscriminatedUnion }
func (d *discriminatedSchema) Discriminator() string { return d.discriminator }
func (d *discriminatedSchema) Options() []schema.Schema {
	return append([]schema.Schema(nil), d.options...)
}

func (d *discriminatedSchema) Parse(ctx context.Context, v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("expected object")
	}
	raw, ok := m[d.discriminator]
	if !ok {
		return nil, schema.Issues{schema.Issue{Path: "/" + d.discriminator, Code: schema.CodeDiscriminatorMissing, Message: i18n.T(schema.CodeDiscriminatorMissing, nil), Hint: "discriminator missing"}}
	}
	opt, ok := d.mapping[CanonicalTag(raw)]
	if !ok {
		return nil, schema.Issues{schema.Issue{Path: "/" + d.discriminator, Code: schema.CodeDiscriminatorUnknown, Message: i18n.T(schema.CodeDiscriminatorUnknown, nil), Hint: fmt.Sprintf("unknown variant: '%v'", raw)}}
	}
	return opt.Parse(ctx, v)
}

func (d *discriminatedSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	m, ok := v.(map[string]any)
	if !ok {
		return schema.Decoded[any]{Presence: schema.RootSeen()}, invalidType("expected object")
	}
	raw, ok := m[d.discriminator]
	if !ok {
		return schema.Decoded[any]{Presence: schema.RootSeen()}, schema.Issues{schema.Issue{Path: "/" + d.discriminator, Code: schema.CodeDiscriminatorMissing, Message: i18n.T(schema.CodeDiscriminatorMissing, nil), Hint: "discriminator missing"}}
	}
	opt, ok := d.mapping[CanonicalTag(raw)]
	if !ok {
		return schema.Decoded[any]{Presence: schema.RootSeen()}, schema.Issues{schema.Issue{Path: "/" + d.discriminator, Code: schema.CodeDiscriminatorUnknown, Message: i18n.T(schema.CodeDiscriminatorUnknown, nil), Hint: fmt.Sprintf("unknown variant: '%v'", raw)}}
	}
	return opt.ParseWithMeta(ctx, v)
}

func (d *discriminatedSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{}
	out.OneOf = make([]*js.Schema, 0, len(d.options))
	for _, opt := range d.options {
		os, err := opt.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, os)
	}
	return out, nil
}
