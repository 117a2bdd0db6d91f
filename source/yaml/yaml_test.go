package yaml_test

import (
	"testing"

	srcyaml "github.com/reoring/deeppartial/source/yaml"
)

func TestDecode_StringKeyedMapping(t *testing.T) {
	v, err := srcyaml.Decode([]byte("name: w\nitems:\n  - 1\n  - 2\n"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got: %#v", v)
	}
	if m["name"] != "w" {
		t.Fatalf("unexpected value: %#v", m)
	}
	if items, ok := m["items"].([]any); !ok || len(items) != 2 {
		t.Fatalf("unexpected items: %#v", m["items"])
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := srcyaml.Decode([]byte(":\t:")); err == nil {
		t.Fatalf("expected decode error")
	}
}
