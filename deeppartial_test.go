package deeppartial_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	deeppartial "github.com/reoring/deeppartial"
	d "github.com/reoring/deeppartial/dsl"
	js "github.com/reoring/deeppartial/jsonschema"
	"github.com/reoring/deeppartial/schema"
)

func userSchema(t *testing.T) schema.Schema {
	t.Helper()
	address := d.Object().
		Field("city", d.String()).Required().
		Field("zip", d.String()).Required().
		MustBuild()
	return d.Object().
		Field("name", d.String()).Required().
		Field("age", d.Int()).Required().
		Field("address", address).Required().
		MustBuild()
}

func issueCode(t *testing.T, err error, code string) schema.Issue {
	t.Helper()
	iss, ok := schema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got: %v", err)
	}
	for _, it := range iss {
		if it.Code == code {
			return it
		}
	}
	t.Fatalf("expected %s, got: %v", code, iss)
	return schema.Issue{}
}

func TestApply_EmptyObjectAccepted(t *testing.T) {
	ctx := context.Background()

	dp, err := deeppartial.Apply(userSchema(t))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	v, err := dp.Parse(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("empty object should validate: %v", err)
	}
	if m, ok := v.(map[string]any); !ok || len(m) != 0 {
		t.Fatalf("unexpected value: %#v", v)
	}

	// partially filled objects keep validating what is present
	if _, err := dp.Parse(ctx, map[string]any{"name": "alice", "address": map[string]any{}}); err != nil {
		t.Fatalf("partial object should validate: %v", err)
	}
	_, err = dp.Parse(ctx, map[string]any{"name": 42})
	issueCode(t, err, schema.CodeInvalidType)
}

func TestApply_AbsentAcceptedAtCompositeRoots(t *testing.T) {
	ctx := context.Background()

	roots := map[string]schema.Schema{
		"array":        d.Array(d.String()),
		"tuple":        d.Tuple(d.String(), d.Int()),
		"union":        d.Union(d.String(), d.Int()),
		"record":       d.Record(d.String(), d.Int()),
		"map":          d.Map(d.Int(), d.String()),
		"intersection": d.Intersection(d.Any(), d.Any()),
		"leaf":         d.String(),
	}
	for name, s := range roots {
		dp, err := deeppartial.Apply(s)
		if err != nil {
			t.Fatalf("%s: apply: %v", name, err)
		}
		if _, err := dp.Parse(ctx, schema.Absent); err != nil {
			t.Fatalf("%s: absent root should validate: %v", name, err)
		}
	}
}

func TestApply_ShapePreserved(t *testing.T) {
	in := userSchema(t)
	dp := deeppartial.MustApply(in)

	inObj := in.(schema.Object)
	outObj := dp.(schema.Object)
	if diff := cmp.Diff(inObj.Keys(), outObj.Keys()); diff != "" {
		t.Fatalf("field names changed (-in +out):\n%s", diff)
	}
	for _, k := range outObj.Keys() {
		if outObj.Shape()[k].Kind() != schema.KindOptional {
			t.Fatalf("field %q not optional after transform", k)
		}
	}

	tup := deeppartial.MustApply(d.Tuple(d.String(), d.Int(), d.Bool()))
	items := tup.(schema.Wrapped).Unwrap().(schema.Tuple).Items()
	if len(items) != 3 {
		t.Fatalf("tuple arity changed: %d", len(items))
	}

	un := deeppartial.MustApply(d.Union(d.String(), d.Int()))
	opts := un.(schema.Wrapped).Unwrap().(schema.Union).Options()
	if len(opts) != 2 {
		t.Fatalf("union option count changed: %d", len(opts))
	}

	x := deeppartial.MustApply(d.Intersection(d.Any(), d.Any()))
	ix := x.(schema.Wrapped).Unwrap().(schema.Intersection)
	if ix.Left() == nil || ix.Right() == nil {
		t.Fatalf("intersection lost an operand")
	}
}

func TestApply_DiscriminatorStaysMandatory(t *testing.T) {
	ctx := context.Background()

	optA := d.Object().
		Field("type", d.Literal("A")).Required().
		Field("a", d.String()).Required().
		Field("common", d.Int()).Required().
		MustBuild()
	optB := d.Object().
		Field("type", d.Literal("B")).Required().
		Field("b", d.Int()).Required().
		Field("common", d.Int()).Required().
		MustBuild()
	du := d.MustDiscriminatedUnion("type", optA, optB)

	dp, err := deeppartial.Apply(du)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, ok := range []map[string]any{
		{"type": "A"},
		{"type": "A", "common": 10},
		{"type": "B"},
	} {
		if _, err := dp.Parse(ctx, ok); err != nil {
			t.Fatalf("should validate %#v: %v", ok, err)
		}
	}

	_, err = dp.Parse(ctx, map[string]any{"common": 10})
	issueCode(t, err, schema.CodeDiscriminatorMissing)

	_, err = dp.Parse(ctx, map[string]any{"type": "C"})
	issueCode(t, err, schema.CodeDiscriminatorUnknown)

	_, err = dp.Parse(ctx, map[string]any{"type": "B", "b": "123"})
	it := issueCode(t, err, schema.CodeInvalidType)
	if it.Path != "/b" {
		t.Fatalf("unexpected path: %q", it.Path)
	}
}

func TestApply_RootClosedNestedPolicyKept(t *testing.T) {
	ctx := context.Background()

	nested := d.Object().
		Field("tag", d.String()).Required().
		UnknownStrip().
		MustBuild()
	root := d.Object().
		Field("name", d.String()).Required().
		Field("meta", nested).Required().
		UnknownStrip().
		MustBuild()

	dp := deeppartial.MustApply(root)

	// the outermost object is closed even though it was built with Strip
	_, err := dp.Parse(ctx, map[string]any{"name": "test", "extra": "field"})
	it := issueCode(t, err, schema.CodeUnknownKey)
	if it.Path != "/extra" {
		t.Fatalf("unexpected path: %q", it.Path)
	}

	// the nested object keeps its own policy
	v, err := dp.Parse(ctx, map[string]any{"meta": map[string]any{"extra": "field"}})
	if err != nil {
		t.Fatalf("nested unknown key should be stripped: %v", err)
	}
	meta := v.(map[string]any)["meta"].(map[string]any)
	if _, leaked := meta["extra"]; leaked {
		t.Fatalf("nested unknown key survived strip: %#v", meta)
	}
}

func TestApply_RecursiveSchema(t *testing.T) {
	ctx := context.Background()

	var node schema.Schema
	node = d.Object().
		Field("value", d.String()).Required().
		Field("children", d.Array(d.Lazy(func() schema.Schema { return node }))).Required().
		MustBuild()

	dp, err := deeppartial.Apply(node)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, ok := range []map[string]any{
		{},
		{"value": "root"},
		{"value": "root", "children": []any{map[string]any{}}},
		{"value": "root", "children": []any{map[string]any{"children": []any{map[string]any{"value": "leaf"}}}}},
	} {
		if _, err := dp.Parse(ctx, ok); err != nil {
			t.Fatalf("should validate %#v: %v", ok, err)
		}
	}

	_, err = dp.Parse(ctx, map[string]any{"value": "root", "children": []any{map[string]any{"value": 123}}})
	it := issueCode(t, err, schema.CodeInvalidType)
	if it.Path != "/children/0/value" {
		t.Fatalf("unexpected path: %q", it.Path)
	}
}

func TestApply_IndependentClosuresPerCall(t *testing.T) {
	ctx := context.Background()

	var node schema.Schema
	node = d.Object().
		Field("children", d.Array(d.Lazy(func() schema.Schema { return node }))).Required().
		MustBuild()

	a := deeppartial.MustApply(node)
	b := deeppartial.MustApply(node)
	doc := map[string]any{"children": []any{map[string]any{}}}
	if _, err := a.Parse(ctx, doc); err != nil {
		t.Fatalf("first transform: %v", err)
	}
	if _, err := b.Parse(ctx, doc); err != nil {
		t.Fatalf("second transform: %v", err)
	}
}

func TestApply_WrapperIdempotence(t *testing.T) {
	ctx := context.Background()

	probes := []any{schema.Absent, "x", 42, nil}

	once := deeppartial.MustApply(d.Optional(d.String()))
	twice := deeppartial.MustApply(once)
	for _, p := range probes {
		_, e1 := once.Parse(ctx, p)
		_, e2 := twice.Parse(ctx, p)
		if (e1 == nil) != (e2 == nil) {
			t.Fatalf("optional: accept/reject diverged for %#v: %v vs %v", p, e1, e2)
		}
	}

	nOnce := deeppartial.MustApply(d.Nullable(d.String()))
	nTwice := deeppartial.MustApply(nOnce)
	for _, p := range probes {
		_, e1 := nOnce.Parse(ctx, p)
		_, e2 := nTwice.Parse(ctx, p)
		if (e1 == nil) != (e2 == nil) {
			t.Fatalf("nullable: accept/reject diverged for %#v: %v vs %v", p, e1, e2)
		}
	}
}

func TestApply_NullableStaysNullable(t *testing.T) {
	ctx := context.Background()

	s := d.Object().
		Field("note", d.Nullable(d.String())).Required().
		MustBuild()
	dp := deeppartial.MustApply(s)

	if _, err := dp.Parse(ctx, map[string]any{"note": nil}); err != nil {
		t.Fatalf("null should stay accepted: %v", err)
	}
	if _, err := dp.Parse(ctx, map[string]any{}); err != nil {
		t.Fatalf("absence should now be accepted: %v", err)
	}
	_, err := dp.Parse(ctx, map[string]any{"note": 42})
	issueCode(t, err, schema.CodeInvalidType)
}

func TestApply_DefaultValuePreserved(t *testing.T) {
	ctx := context.Background()

	s := d.Object().
		Field("retries", d.Int()).Default(3).
		MustBuild()
	dp := deeppartial.MustApply(s)

	v, err := dp.Parse(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := v.(map[string]any)["retries"]; got != int64(3) {
		t.Fatalf("default lost: %#v", got)
	}
}

func TestApply_InputTreeUntouched(t *testing.T) {
	ctx := context.Background()

	in := userSchema(t)
	dp := deeppartial.MustApply(in)

	// the original still enforces its required fields
	_, err := in.Parse(ctx, map[string]any{})
	issueCode(t, err, schema.CodeRequired)

	if _, err := dp.Parse(ctx, map[string]any{}); err != nil {
		t.Fatalf("transformed copy should accept {}: %v", err)
	}
}

func TestApply_RecordAndMapChildren(t *testing.T) {
	ctx := context.Background()

	rec := deeppartial.MustApply(d.Record(d.String(), d.Int()))
	if _, err := rec.Parse(ctx, map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_, err := rec.Parse(ctx, map[string]any{"a": "nope"})
	it := issueCode(t, err, schema.CodeInvalidType)
	if it.Path != "/a" {
		t.Fatalf("unexpected path: %q", it.Path)
	}

	m := deeppartial.MustApply(d.Map(d.Int(), d.String()))
	if _, err := m.Parse(ctx, map[any]any{1: "one", 2: "two"}); err != nil {
		t.Fatalf("map: %v", err)
	}
}

func TestApply_EmptyNamedFieldBecomesOptional(t *testing.T) {
	ctx := context.Background()

	// "" is a legal JSON key and must not be mistaken for the absence of a
	// discriminator
	s := d.Object().
		Field("", d.String()).Required().
		Field("name", d.String()).Required().
		MustBuild()
	dp := deeppartial.MustApply(s)

	if _, err := dp.Parse(ctx, map[string]any{}); err != nil {
		t.Fatalf("empty-named field should be optional after transform: %v", err)
	}
	if out, ok := dp.(schema.Object); !ok || out.Shape()[""].Kind() != schema.KindOptional {
		t.Fatalf("empty-named field not optional-wrapped")
	}
	_, err := dp.Parse(ctx, map[string]any{"": 42})
	issueCode(t, err, schema.CodeInvalidType)
}

func TestApply_ArrayBoundsPreserved(t *testing.T) {
	ctx := context.Background()

	dp := deeppartial.MustApply(d.Array(d.String()).Min(1).Max(2))
	_, err := dp.Parse(ctx, []any{})
	issueCode(t, err, schema.CodeTooShort)
	_, err = dp.Parse(ctx, []any{"a", "b", "c"})
	issueCode(t, err, schema.CodeTooLong)
	if _, err := dp.Parse(ctx, []any{"a"}); err != nil {
		t.Fatalf("in-bounds array should validate: %v", err)
	}

	// the rebuilt node reports its rules through the published contract
	arr := dp.(schema.Wrapped).Unwrap().(schema.Array)
	mn, mx := arr.Bounds()
	if mn != 1 || mx != 2 {
		t.Fatalf("bounds not carried over: min=%d max=%d", mn, mx)
	}
}

// taggedStub reports itself as a discriminated union but carries a non-object
// option, which Apply must reject as a construction error.
type taggedStub struct{ opts []schema.Schema }

func (f taggedStub) Kind() schema.Kind        { return schema.KindDiscriminatedUnion }
func (f taggedStub) Discriminator() string    { return "type" }
func (f taggedStub) Options() []schema.Schema { return f.opts }
func (f taggedStub) Parse(ctx context.Context, v any) (any, error) {
	return v, nil
}
func (f taggedStub) ParseWithMeta(ctx context.Context, v any) (schema.Decoded[any], error) {
	return schema.Decoded[any]{Value: v}, nil
}
func (f taggedStub) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

func TestApply_MalformedTaggedUnionFailsFast(t *testing.T) {
	_, err := deeppartial.Apply(taggedStub{opts: []schema.Schema{d.String()}})
	if !errors.Is(err, schema.ErrMalformedSchema) {
		t.Fatalf("expected ErrMalformedSchema, got: %v", err)
	}
	if _, ok := schema.AsIssues(err); ok {
		t.Fatalf("construction error must not be Issues: %v", err)
	}
}

func TestApply_NilSchema(t *testing.T) {
	_, err := deeppartial.Apply(nil)
	if !errors.Is(err, schema.ErrMalformedSchema) {
		t.Fatalf("expected ErrMalformedSchema, got: %v", err)
	}
}

func TestApply_ParseJSONEndToEnd(t *testing.T) {
	ctx := context.Background()

	dp := deeppartial.MustApply(userSchema(t))
	v, err := schema.ParseJSON(ctx, dp, []byte(`{"name":"alice","age":30}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.(map[string]any)["age"] != int64(30) {
		t.Fatalf("unexpected value: %#v", v)
	}

	_, err = schema.ParseJSON(ctx, dp, []byte(`{"age":"thirty"}`))
	issueCode(t, err, schema.CodeInvalidType)
}
