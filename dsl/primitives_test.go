package dsl_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	d "github.com/reoring/deeppartial/dsl"
	"github.com/reoring/deeppartial/schema"
)

func TestInt_Normalization(t *testing.T) {
	ctx := context.Background()
	s := d.Int()

	for _, in := range []any{42, int64(42), float64(42), json.Number("42")} {
		v, err := s.Parse(ctx, in)
		if err != nil {
			t.Fatalf("unexpected err for %T: %v", in, err)
		}
		if v != int64(42) {
			t.Fatalf("unexpected value for %T: %#v", in, v)
		}
	}

	for _, in := range []any{"42", 4.5, json.Number("4.5"), true, nil} {
		if _, err := s.Parse(ctx, in); err == nil {
			t.Fatalf("expected rejection of %#v", in)
		}
	}
}

func TestNumberJSON_PreservesDigits(t *testing.T) {
	ctx := context.Background()

	v, err := d.NumberJSON().Parse(ctx, json.Number("0.10"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v != json.Number("0.10") {
		t.Fatalf("wire digits lost: %#v", v)
	}
}

func TestLiteral_MatchAndMismatch(t *testing.T) {
	ctx := context.Background()

	s := d.Literal("A")
	if _, err := s.Parse(ctx, "A"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, "B")
	if firstIssue(t, err).Code != schema.CodeInvalidLiteral {
		t.Fatalf("expected invalid_literal, got: %v", err)
	}

	// numeric literals match across wire representations
	n := d.Literal(2)
	for _, in := range []any{2, int64(2), float64(2), json.Number("2")} {
		if _, err := n.Parse(ctx, in); err != nil {
			t.Fatalf("unexpected err for %T: %v", in, err)
		}
	}
}

func TestEnum_Membership(t *testing.T) {
	ctx := context.Background()

	s := d.Enum("red", "green", "blue")
	if _, err := s.Parse(ctx, "green"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, "yellow")
	it := firstIssue(t, err)
	if it.Code != schema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got: %v", it)
	}
}

func TestTime_RFC3339(t *testing.T) {
	ctx := context.Background()
	s := d.Time()

	v, err := s.Parse(ctx, "2026-01-02T03:04:05Z")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.(time.Time).Year() != 2026 {
		t.Fatalf("unexpected value: %#v", v)
	}

	if _, err := s.Parse(ctx, "2026-01-02T03:04:05.123456789Z"); err != nil {
		t.Fatalf("nano precision should be accepted: %v", err)
	}

	_, err = s.Parse(ctx, "02 Jan 2026")
	if firstIssue(t, err).Code != schema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got: %v", err)
	}
}

func TestTimeLayout_Strptime(t *testing.T) {
	ctx := context.Background()
	s := d.TimeLayout("%Y-%m-%d")

	v, err := s.Parse(ctx, "2026-08-23")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	tm := v.(time.Time)
	if tm.Year() != 2026 || tm.Month() != time.August || tm.Day() != 23 {
		t.Fatalf("unexpected value: %v", tm)
	}

	_, err = s.Parse(ctx, "23/08/2026")
	if firstIssue(t, err).Code != schema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got: %v", err)
	}
}
