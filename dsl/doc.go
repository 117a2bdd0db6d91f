package dsl

// Package dsl provides the constructors for every schema node kind: leaves
// (String, Bool, Int, Float, NumberJSON, Any, Literal, Enum, Time), the
// composites (Object builder, Array, Tuple, Union, DiscriminatedUnion,
// Intersection, Record, Map) and the wrappers (Optional, Nullable, Default,
// Lazy).
//
// Conventions:
//
//   - Constructors return schema.Schema values; nodes are immutable after
//     construction.
//   - Field optionality is materialized structurally at Build time: a field
//     not marked Require'd and without a Default is wrapped Optional, so the
//     node tree is the single source of truth for introspection.
//   - Construction problems are reported via schema.ErrMalformedSchema,
//     never as validation Issues.
