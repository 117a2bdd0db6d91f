package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/deeppartial/schema"
)

func TestPrefixIssues_Rebasing(t *testing.T) {
	inner := schema.Issues{
		{Path: "/", Code: schema.CodeInvalidType},
		{Path: "/name", Code: schema.CodeRequired},
		{Path: "2", Code: schema.CodeTooLong},
	}
	out := schema.PrefixIssues("/items", error(inner))
	if out[0].Path != "/items" {
		t.Fatalf("root path not rebased: %q", out[0].Path)
	}
	if out[1].Path != "/items/name" {
		t.Fatalf("nested path not rebased: %q", out[1].Path)
	}
	if out[2].Path != "/items/2" {
		t.Fatalf("relative path not rebased: %q", out[2].Path)
	}
}

func TestPrefixIssues_WrapsForeignErrors(t *testing.T) {
	cause := errors.New("boom")
	out := schema.PrefixIssues("/x", cause)
	if len(out) != 1 || out[0].Code != schema.CodeParseError || out[0].Path != "/x" {
		t.Fatalf("unexpected wrap: %v", out)
	}
	if out[0].Cause != cause {
		t.Fatalf("cause not retained")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := schema.Issues{
		{Path: "/a", Code: schema.CodeInvalidType},
		{Path: "/b", Code: schema.CodeRequired},
		{Path: "/c", Code: schema.CodeUnknownKey},
		{Path: "/d", Code: schema.CodeTooLong},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "invalid_type at /a") {
		t.Fatalf("missing first issue: %q", msg)
	}
	if !strings.Contains(msg, "total 4") {
		t.Fatalf("missing overflow marker: %q", msg)
	}
}

func TestMalformedSchemaf_Sentinel(t *testing.T) {
	err := schema.MalformedSchemaf("widget %q", "x")
	if !errors.Is(err, schema.ErrMalformedSchema) {
		t.Fatalf("sentinel lost: %v", err)
	}
	if !strings.Contains(err.Error(), `widget "x"`) {
		t.Fatalf("detail lost: %v", err)
	}
	if _, ok := schema.AsIssues(err); ok {
		t.Fatalf("construction errors must stay outside the Issues domain")
	}
}
