package deeppartial

import (
	"github.com/reoring/deeppartial/dsl"
	"github.com/reoring/deeppartial/schema"
)

// Apply returns a new schema in which every field at every depth is optional
// while validation of present values is unchanged. The input tree is not
// mutated. Apply fails only on malformed input trees (errors.Is
// schema.ErrMalformedSchema); it performs no data validation itself.
func Apply(s schema.Schema) (schema.Schema, error) {
	return transform(s, true)
}

// MustApply is like Apply but panics on error.
func MustApply(s schema.Schema) schema.Schema {
	out, err := Apply(s)
	if err != nil {
		panic(err)
	}
	return out
}

// transform rebuilds one node. Wrapper kinds are matched before composite
// kinds so they are unwrapped rather than treated as opaque leaves. root is
// true only for the outermost call and affects only the object branch.
func transform(s schema.Schema, root bool) (schema.Schema, error) {
	if s == nil {
		return nil, schema.MalformedSchemaf("deep partial: nil schema")
	}
	switch s.Kind() {
	case schema.KindOptional:
		w, ok := s.(schema.Wrapped)
		if !ok {
			return nil, badContract(s)
		}
		inner, err := transform(w.Unwrap(), false)
		if err != nil {
			return nil, err
		}
		return dsl.Optional(inner), nil

	case schema.KindNullable:
		w, ok := s.(schema.Wrapped)
		if !ok {
			return nil, badContract(s)
		}
		inner, err := transform(w.Unwrap(), false)
		if err != nil {
			return nil, err
		}
		return dsl.Nullable(inner), nil

	case schema.KindObject:
		obj, ok := s.(schema.Object)
		if !ok {
			return nil, badContract(s)
		}
		return transformObject(obj, root, "", false)

	case schema.KindArray:
		arr, ok := s.(schema.Array)
		if !ok {
			return nil, badContract(s)
		}
		elem, err := transform(arr.Element(), false)
		if err != nil {
			return nil, err
		}
		out := dsl.Array(elem)
		if mn, mx := arr.Bounds(); mn >= 0 || mx >= 0 {
			if mn >= 0 {
				out = out.Min(mn)
			}
			if mx >= 0 {
				out = out.Max(mx)
			}
		}
		return dsl.Optional(out), nil

	case schema.KindRecord, schema.KindMap:
		kv, ok := s.(schema.KeyValue)
		if !ok {
			return nil, badContract(s)
		}
		// keys pass through the same transform as everything else; the
		// dispatch stays total instead of special-casing primitive keys
		k, err := transform(kv.Key(), false)
		if err != nil {
			return nil, err
		}
		v, err := transform(kv.Value(), false)
		if err != nil {
			return nil, err
		}
		if s.Kind() == schema.KindMap {
			return dsl.Optional(dsl.Map(k, v)), nil
		}
		return dsl.Optional(dsl.Record(k, v)), nil

	case schema.KindUnion:
		u, ok := s.(schema.Union)
		if !ok {
			return nil, badContract(s)
		}
		opts := u.Options()
		out := make([]schema.Schema, 0, len(opts))
		for _, opt := range opts {
			t, err := transform(opt, false)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return dsl.Optional(dsl.Union(out...)), nil

	case schema.KindIntersection:
		x, ok := s.(schema.Intersection)
		if !ok {
			return nil, badContract(s)
		}
		left, err := transform(x.Left(), false)
		if err != nil {
			return nil, err
		}
		right, err := transform(x.Right(), false)
		if err != nil {
			return nil, err
		}
		return dsl.Optional(dsl.Intersection(left, right)), nil

	case schema.KindTuple:
		t, ok := s.(schema.Tuple)
		if !ok {
			return nil, badContract(s)
		}
		items := t.Items()
		out := make([]schema.Schema, 0, len(items))
		for _, item := range items {
			ti, err := transform(item, false)
			if err != nil {
				return nil, err
			}
			out = append(out, ti)
		}
		return dsl.Optional(dsl.Tuple(out...)), nil

	case schema.KindLazy:
		lz, ok := s.(schema.Lazy)
		if !ok {
			return nil, badContract(s)
		}
		// The original getter must not be forced here; only its replacement
		// is built eagerly. Each Apply call owns a fresh closure, so reusing
		// the input schema across calls yields independent lazies. A
		// malformed subtree behind the getter is a programming error and
		// panics when forced.
		get := lz.Getter()
		deferred := dsl.Lazy(func() schema.Schema {
			inner, err := transform(get(), false)
			if err != nil {
				panic(err)
			}
			return inner
		})
		return dsl.Optional(deferred), nil

	case schema.KindDiscriminatedUnion:
		d, ok := s.(schema.Discriminated)
		if !ok {
			return nil, badContract(s)
		}
		disc := d.Discriminator()
		opts := d.Options()
		out := make([]schema.Schema, 0, len(opts))
		for i, opt := range opts {
			obj, ok := opt.(schema.Object)
			if !ok || opt.Kind() != schema.KindObject {
				return nil, schema.MalformedSchemaf("deep partial: discriminated union option %d is not an object", i)
			}
			no, err := transformObject(obj, false, disc, true)
			if err != nil {
				return nil, err
			}
			out = append(out, no)
		}
		return dsl.DiscriminatedUnion(disc, out...)

	case schema.KindDefault:
		dv, ok := s.(schema.Defaulted)
		if !ok {
			return nil, badContract(s)
		}
		inner, err := transform(dv.Unwrap(), false)
		if err != nil {
			return nil, err
		}
		return dsl.Default(inner, dv.DefaultValue()), nil

	default:
		// KindLeaf and anything a newer library revision may add.
		return dsl.Optional(s), nil
	}
}

// transformObject rebuilds an object with every field transformed and wrapped
// Optional. The root object is closed against unknown keys; nested objects
// keep their own policy. When hasKeep is set, keep names a field copied
// through untouched and left required (the discriminator of a tagged union
// option); the flag is separate because "" is a legal field name.
func transformObject(obj schema.Object, root bool, keep string, hasKeep bool) (schema.Schema, error) {
	shape := obj.Shape()
	out := make(map[string]schema.Schema, len(shape))
	for _, k := range obj.Keys() {
		if hasKeep && k == keep {
			out[k] = shape[k]
			continue
		}
		t, err := transform(shape[k], false)
		if err != nil {
			return nil, err
		}
		out[k] = dsl.Optional(t)
	}
	policy, target := obj.Unknown(), obj.UnknownTarget()
	if root {
		policy, target = schema.UnknownStrict, ""
	}
	return dsl.ObjectOf(out, policy, target)
}

func badContract(s schema.Schema) error {
	return schema.MalformedSchemaf("deep partial: node reports kind %s but lacks its introspection contract", s.Kind())
}
