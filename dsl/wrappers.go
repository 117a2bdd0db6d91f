package dsl

import (
	"context"
	"sync"

	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

// Optional wraps s so that an absent value is accepted. Wrapping an already
// optional schema is a no-op: optional-on-optional stays a single layer.
func Optional(s schema.Schema) schema.Schema {
	if s.Kind() == schema.KindOptional {
		return s
	}
	return &optionalSchema{inner: s}
}

type optionalSchema struct{ inner schema.Schema }

var _ schema.Wrapped = (*optionalSchema)(nil)

func (o *optionalSchema) Kind() schema.Kind     { return schema.KindOptional }
func (o *optionalSchema) Unwrap() schema.Schema { return o.inner }

func (o *optionalSchema) Parse(ctx context.Context, v any) (any, error) {
	if v == schema.Absent {
		return nil, nil
	}
	return o.inner.Parse(ctx, v)
}

func (o *optionalSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	if v == schema.Absent {
		return schema.Decoded[any]{Value: nil, Presence: schema.PresenceMap{}}, nil
	}
	return o.inner.ParseWithMeta(ctx, v)
}

// JSONSchema delegates to the inner schema; optionality is expressed by the
// enclosing object's required list, not by the property schema itself.
func (o *optionalSchema) JSONSchema() (*js.Schema, error) { return o.inner.JSONSchema() }

// Nullable wraps s so that an explicit null is accepted. Nullability and
// optionality are distinct: nullable permits the literal null value, optional
// permits the value being entirely absent.
func Nullable(s schema.Schema) schema.Schema {
	if s.Kind() == schema.KindNullable {
		return s
	}
	return &nullableSchema{inner: s}
}

type nullableSchema struct{ inner schema.Schema }

var _ schema.Wrapped = (*nullableSchema)(nil)

func (n *nullableSchema) Kind() schema.Kind     { return schema.KindNullable }
func (n *nullableSchema) Unwrap() schema.Schema { return n.inner }

func (n *nullableSchema) Parse(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.Parse(ctx, v)
}

func (n *nullableSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	if v == nil {
		return schema.Decoded[any]{Value: nil, Presence: schema.PresenceMap{"/": schema.PresenceSeen | schema.PresenceWasNull}}, nil
	}
	return n.inner.ParseWithMeta(ctx, v)
}

func (n *nullableSchema) JSONSchema() (*js.Schema, error) {
	inner, err := n.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	out := *inner
	out.Nullable = true
	return &out, nil
}

// Default wraps s with a default applied when the value is absent. The
// default is parsed through s so it follows the same validation path as
// ordinary input.
func Default(s schema.Schema, value any) schema.Schema {
	return &defaultSchema{inner: s, value: value}
}

type defaultSchema struct {
	inner schema.Schema
	value any
}

var _ schema.Defaulted = (*defaultSchema)(nil)

func (d *defaultSchema) Kind() schema.Kind     { return schema.KindDefault }
func (d *defaultSchema) Unwrap() schema.Schema { return d.inner }
func (d *defaultSchema) DefaultValue() any     { return d.value }

func (d *defaultSchema) Parse(ctx context.Context, v any) (any, error) {
	if v == schema.Absent {
		return d.inner.Parse(ctx, d.value)
	}
	return d.inner.Parse(ctx, v)
}

func (d *defaultSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	if v == schema.Absent {
		dv, err := d.inner.Parse(ctx, d.value)
		return schema.Decoded[any]{Value: dv, Presence: schema.PresenceMap{"/": schema.PresenceDefaultApplied}}, err
	}
	return d.inner.ParseWithMeta(ctx, v)
}

func (d *defaultSchema) JSONSchema() (*js.Schema, error) {
	inner, err := d.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	out := *inner
	out.Default = d.value
	return &out, nil
}

// Lazy wraps a deferred getter so self-referential schemas can be built
// without infinite eager recursion. The getter is not invoked until the node
// is first parsed; it must be idempotent and side-effect-free.
func Lazy(getter func() schema.Schema) schema.Schema {
	return &lazySchema{getter: getter}
}

type lazySchema struct {
	getter   func() schema.Schema
	once     sync.Once
	resolved schema.Schema
}

var _ schema.Lazy = (*lazySchema)(nil)

func (l *lazySchema) Kind() schema.Kind            { return schema.KindLazy }
func (l *lazySchema) Getter() func() schema.Schema { return l.getter }

func (l *lazySchema) resolve() schema.Schema {
	l.once.Do(func() { l.resolved = l.getter() })
	return l.resolved
}

func (l *lazySchema) Parse(ctx context.Context, v any) (any, error) {
	return l.resolve().Parse(ctx, v)
}

func (l *lazySchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	return l.resolve().ParseWithMeta(ctx, v)
}

// JSONSchema returns an unconstrained schema: self-referential trees cannot
// be projected without $ref support, which this export does not model.
func (l *lazySchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }
