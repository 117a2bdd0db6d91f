package schema

import (
	"context"

	js "github.com/reoring/deeppartial/jsonschema"
)

// Schema is the untyped node contract every schema kind implements.
// Nodes are immutable after construction; Parse never mutates the node.
type Schema interface {
	// Kind reports the node kind. Tree walkers dispatch on it.
	Kind() Kind
	// Parse coerces and validates an unknown input, returning the parsed
	// value or Issues.
	Parse(ctx context.Context, v any) (any, error)
	// ParseWithMeta returns the parsed value together with presence metadata.
	ParseWithMeta(ctx context.Context, v any) (Decoded[any], error)
	// JSONSchema projects the node into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Absent represents a value that was not present in the input at all, as
// opposed to an explicit JSON null. Containers never produce it; it exists so
// optionality (value may be missing) and nullability (value may be null) stay
// distinguishable at the root of a parse.
var Absent any = absent{}

type absent struct{}

func (absent) String() string { return "<absent>" }

// ---- introspection contracts ----
//
// One interface per composite kind, exposing the child accessors tree
// transformers rebuild from. Accessor names are a version contract: renaming
// one is a breaking change for every consumer that walks schema trees.

// Wrapped is implemented by Optional and Nullable nodes.
type Wrapped interface {
	Schema
	Unwrap() Schema
}

// Defaulted is implemented by Default nodes.
type Defaulted interface {
	Schema
	Unwrap() Schema
	DefaultValue() any
}

// Object exposes the field shape of an object node. Optionality of a field
// is structural: a field is optional exactly when its schema in Shape is an
// Optional (or Default) node.
type Object interface {
	Schema
	// Shape returns a copy of the field mapping; mutating it does not affect
	// the node.
	Shape() map[string]Schema
	// Keys returns the field names in ascending order.
	Keys() []string
	Unknown() UnknownPolicy
	UnknownTarget() string
}

// Array exposes the element schema and length rules of an array node.
type Array interface {
	Schema
	Element() Schema
	// Bounds reports the configured length rules; -1 means unset.
	Bounds() (min, max int)
}

// Tuple exposes the positional item schemas of a fixed-arity tuple node.
type Tuple interface {
	Schema
	Items() []Schema
}

// Union exposes the ordered options of an untagged union node.
type Union interface {
	Schema
	Options() []Schema
}

// Discriminated exposes the discriminator and ordered object options of a
// discriminated union node.
type Discriminated interface {
	Schema
	Discriminator() string
	Options() []Schema
}

// Intersection exposes the two operands of an intersection node.
type Intersection interface {
	Schema
	Left() Schema
	Right() Schema
}

// KeyValue exposes the key and value schemas of record and map nodes.
type KeyValue interface {
	Schema
	Key() Schema
	Value() Schema
}

// Lazy exposes the deferred getter of a lazy node. The getter must be
// idempotent and side-effect-free; it may be forced repeatedly.
type Lazy interface {
	Schema
	Getter() func() Schema
}

// Literal is implemented by literal leaves. Discriminated unions read their
// tag values through it.
type Literal interface {
	Schema
	LiteralValue() any
}
