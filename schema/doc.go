package schema

// Package schema defines the node contract shared by every schema kind:
//
// - Schema, the untyped node interface (Kind/Parse/ParseWithMeta/JSONSchema)
// - one introspection interface per composite kind (Object, Array, Tuple,
//   Union, Discriminated, Intersection, KeyValue, Lazy, Wrapped, Defaulted)
// - a stable error model via Issues (JSON Pointer, code, message), with
//   construction errors kept in a separate domain behind ErrMalformedSchema
// - Presence metadata for WithMeta APIs
//
// Design policy:
// - The Kind set is closed. Tree transformers switch over it exhaustively and
//   route anything unrecognized through the leaf fallback.
// - Nodes are immutable after construction; walkers rebuild, never mutate.
// - Constructors live under dsl/; this package holds only the contract.
