package deeppartial

// Package deeppartial rewrites a schema tree so that every field, at every
// nesting depth, accepts absence while validation of present values is
// preserved.
//
// The entry point is Apply (and its panicking twin MustApply):
//
//	user := dsl.Object().
//		Field("name", dsl.String()).Required().
//		Field("address", dsl.Object().
//			Field("city", dsl.String()).Required().
//			MustBuild()).Required().
//		MustBuild()
//
//	patch, err := deeppartial.Apply(user)
//	// patch accepts {}, {"name":"n"} and {"address":{}},
//	// but still rejects {"name": 42}.
//
// Apply walks the tree once, dispatching on schema.Kind, and rebuilds a fresh
// tree; the input is never mutated and stays independently usable. Kinds are
// handled as follows:
//
//   - Optional / Nullable / Default wrappers are unwrapped, their child is
//     transformed, and the same wrapper is put back. Optional-on-optional
//     collapses to a single layer.
//   - Object fields are each transformed and wrapped Optional, so an empty
//     object validates. The outermost object is additionally made strict
//     about unknown keys; nested objects keep the unknown-key policy they
//     were built with.
//   - Array, Tuple, Union, Intersection, Record and Map are rebuilt with
//     transformed children and wrapped Optional.
//   - Lazy nodes get a new deferred getter that transforms whatever the
//     original getter yields when it is eventually forced, which keeps
//     self-referential schemas finite at transform time.
//   - Discriminated unions keep the discriminator field of every option
//     required and untouched so branch selection still works; all other
//     option fields become optional. The union itself is not made optional.
//   - Leaves and unrecognized kinds are wrapped Optional, with no descent.
//
// Apply never validates data. Its only failure mode is a malformed input
// tree, reported via schema.ErrMalformedSchema and kept distinct from the
// schema.Issues returned by validation.
