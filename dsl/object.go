package dsl

import (
	"context"
	"sort"

	"github.com/reoring/deeppartial/i18n"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

type objectBuilder struct {
	fields        map[string]schema.Schema
	required      map[string]struct{}
	defaults      map[string]any
	unknownPolicy schema.UnknownPolicy
	unknownTarget string
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]schema.Schema{},
		required:      map[string]struct{}{},
		defaults:      map[string]any{},
		unknownPolicy: schema.UnknownStrict,
	}
}

// Field registers a field with its schema. Fields are optional unless marked
// Require'd or given a Default.
func (b *objectBuilder) Field(name string, s schema.Schema) *fieldStep {
	b.fields[name] = s
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (the default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a default for the current field. The default value is parsed
// through the field schema when applied.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.b.defaults[f.name] = v
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) Field(name string, s schema.Schema) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Require(names ...string) *objectBuilder        { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder                 { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                  { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}
func (f *fieldStep) Build() (schema.Schema, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() schema.Schema      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = schema.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = schema.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough sets unknown policy to Passthrough with a target field.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = schema.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Build validates the builder and returns the object node. Optionality is
// materialized into the tree: fields without Require/Default are wrapped
// Optional, defaulted fields are wrapped Default.
func (b *objectBuilder) Build() (schema.Schema, error) {
	for n := range b.required {
		if _, ok := b.fields[n]; !ok {
			return nil, schema.MalformedSchemaf("object: required field %q not registered", n)
		}
	}
	fields := make(map[string]schema.Schema, len(b.fields))
	for k, s := range b.fields {
		if s == nil {
			return nil, schema.MalformedSchemaf("object: field %q has nil schema", k)
		}
		if dv, ok := b.defaults[k]; ok {
			fields[k] = Default(s, dv)
			continue
		}
		if _, req := b.required[k]; req {
			fields[k] = s
			continue
		}
		fields[k] = Optional(s)
	}
	if b.unknownPolicy == schema.UnknownPassthrough {
		tf, ok := fields[b.unknownTarget]
		if !ok || b.unknownTarget == "" {
			return nil, schema.MalformedSchemaf("object: passthrough target %q not registered", b.unknownTarget)
		}
		// the target must accept an object value
		if _, err := tf.Parse(context.Background(), map[string]any{}); err != nil {
			return nil, schema.MalformedSchemaf("object: passthrough target %q does not accept objects", b.unknownTarget)
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &objectSchema{
		fields:        fields,
		keys:          keys,
		unknownPolicy: b.unknownPolicy,
		unknownTarget: b.unknownTarget,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() schema.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ObjectOf builds an object node directly from a materialized field map.
// Shape is taken as-is: wrap fields Optional/Default yourself. Tree
// transformers rebuild through this instead of replaying builder steps.
func ObjectOf(shape map[string]schema.Schema, policy schema.UnknownPolicy, target string) (schema.Schema, error) {
	b := Object()
	for k, s := range shape {
		b.fields[k] = s
		if s != nil && s.Kind() != schema.KindOptional && s.Kind() != schema.KindDefault {
			b.required[k] = struct{}{}
		}
	}
	switch policy {
	case schema.UnknownStrip:
		b.UnknownStrip()
	case schema.UnknownPassthrough:
		b.UnknownPassthrough(target)
	default:
		b.UnknownStrict()
	}
	return b.Build()
}

// ---- node ----

type objectSchema struct {
	fields        map[string]schema.Schema
	keys          []string // ascending, cached at build time
	unknownPolicy schema.UnknownPolicy
	unknownTarget string
}

var _ schema.Object = (*objectSchema)(nil)

func (o *objectSchema) Kind() schema.Kind { return schema.KindObject }

func (o *objectSchema) Shape() map[string]schema.Schema {
	out := make(map[string]schema.Schema, len(o.fields))
	for k, s := range o.fields {
		out[k] = s
	}
	return out
}

func (o *objectSchema) Keys() []string                { return append([]string(nil), o.keys...) }
func (o *objectSchema) Unknown() schema.UnknownPolicy { return o.unknownPolicy }
func (o *objectSchema) UnknownTarget() string         { return o.unknownTarget }

func (o *objectSchema) Parse(ctx context.Context, v any) (any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("expected object")
	}
	out, iss := o.collectKnown(ctx, src, nil)
	iss = schema.AppendIssues(iss, o.collectUnknown(src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (o *objectSchema) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	pm := schema.PresenceMap{"/": schema.PresenceSeen}
	src, ok := v.(map[string]any)
	if !ok {
		return schema.Decoded[any]{Presence: pm}, invalidType("expected object")
	}
	out, iss := o.collectKnown(ctx, src, pm)
	iss = schema.AppendIssues(iss, o.collectUnknown(src, out)...)
	if len(iss) > 0 {
		return schema.Decoded[any]{Presence: pm}, iss
	}
	return schema.Decoded[any]{Value: out, Presence: pm}, nil
}

// collectKnown parses known fields in key order, applying defaults and
// recording presence flags when pm is non-nil.
func (o *objectSchema) collectKnown(ctx context.Context, src map[string]any, pm schema.PresenceMap) (map[string]any, schema.Issues) {
	out := make(map[string]any, len(src))
	var iss schema.Issues
	for _, k := range o.keys {
		f := o.fields[k]
		if val, exists := src[k]; exists {
			if pm != nil {
				pm["/"+k] |= schema.PresenceSeen
				if val == nil {
					pm["/"+k] |= schema.PresenceWasNull
				}
			}
			parsed, err := f.Parse(ctx, val)
			if err != nil {
				iss = schema.AppendIssues(iss, schema.PrefixIssues("/"+k, err)...)
				continue
			}
			out[k] = parsed
			continue
		}
		dv, applied, i2 := applyFieldDefault(ctx, k, f)
		if len(i2) > 0 {
			iss = schema.AppendIssues(iss, i2...)
			continue
		}
		if applied {
			if pm != nil {
				pm["/"+k] |= schema.PresenceDefaultApplied
			}
			out[k] = dv
			continue
		}
		if isOptionalField(f) {
			continue
		}
		iss = schema.AppendIssues(iss, schema.Issue{Path: "/" + k, Code: schema.CodeRequired, Message: i18n.T(schema.CodeRequired, nil), Hint: "required property missing"})
	}
	return out, iss
}

// applyFieldDefault resolves a Default reachable through Optional/Nullable
// wrappers and parses its value. applied is false when no default exists.
func applyFieldDefault(ctx context.Context, key string, f schema.Schema) (any, bool, schema.Issues) {
	for {
		switch f.Kind() {
		case schema.KindDefault:
			d := f.(schema.Defaulted)
			dv, err := d.Parse(ctx, schema.Absent)
			if err != nil {
				return nil, true, schema.PrefixIssues("/"+key, err)
			}
			return dv, true, nil
		case schema.KindOptional, schema.KindNullable:
			f = f.(schema.Wrapped).Unwrap()
		default:
			return nil, false, nil
		}
	}
}

// isOptionalField reports whether a missing value is acceptable for f.
func isOptionalField(f schema.Schema) bool {
	return f.Kind() == schema.KindOptional
}

// collectUnknown processes unknown keys according to the policy and may
// write into out for passthrough.
func (o *objectSchema) collectUnknown(src map[string]any, out map[string]any) schema.Issues {
	var iss schema.Issues
	// unknown keys in key-sorted order
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		switch o.unknownPolicy {
		case schema.UnknownStrict:
			iss = schema.AppendIssues(iss, schema.Issue{Path: "/" + k, Code: schema.CodeUnknownKey, Message: i18n.T(schema.CodeUnknownKey, nil)})
		case schema.UnknownStrip:
			// drop
		case schema.UnknownPassthrough:
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = src[k]
			out[o.unknownTarget] = extra
		}
	}
	return iss
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	req := make([]string, 0, len(o.fields))
	for _, k := range o.keys {
		f := o.fields[k]
		ps, err := f.JSONSchema()
		if err != nil {
			return nil, err
		}
		props[k] = ps
		if f.Kind() != schema.KindOptional && f.Kind() != schema.KindDefault {
			req = append(req, k)
		}
	}
	var additional any
	switch o.unknownPolicy {
	case schema.UnknownStrict:
		additional = false
	default:
		// Strip accepts-then-discards and Passthrough accepts, so both map to
		// additionalProperties true.
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}, nil
}
