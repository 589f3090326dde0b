package luadump

import (
	"errors"
	"testing"
)

func TestHeuristicValue(t *testing.T) {
	tests := []struct {
		name     string
		pos      int
		value    string
		expected string
	}{
		{"first field is always a string", 1, "007", "[=[007]=]"},
		{"first field even when numeric", 1, "42", "[=[42]=]"},
		{"boolean true stays bare", 2, "true", "true"},
		{"boolean false stays bare", 2, "false", "false"},
		{"case-sensitive boolean match", 2, "True", "[=[True]=]"},
		{"integer stays bare", 2, "123", "123"},
		{"negative integer stays bare", 2, "-7", "-7"},
		{"leading zeros keep integer form", 2, "007", "007"},
		{"integer-valued float collapses", 2, "3.0", "3"},
		{"trailing zeros drop", 2, "3.50", "3.5"},
		{"all-zero fraction keeps integer part", 3, "-2.000", "-2"},
		{"fraction preserved", 4, "0.25", "0.25"},
		{"text becomes long-bracket string", 2, "wh_main_emp_karl", "[=[wh_main_emp_karl]=]"},
		{"text with quotes needs no escaping", 2, `say "hi"`, `[=[say "hi"]=]`},
		{"empty field is an empty string", 2, "", "[=[]=]"},
		{"partial number is a string", 2, "1.2.3", "[=[1.2.3]=]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeuristicValue(tt.pos, tt.value); got != tt.expected {
				t.Errorf("HeuristicValue(%d, %q) = %q, want %q", tt.pos, tt.value, got, tt.expected)
			}
		})
	}
}

func TestCanonNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"3.0", "3"},
		{"3.5", "3.5"},
		{"3.50", "3.5"},
		{"-2.000", "-2"},
		{"0.0", "0"},
		{"100", "100"},
		{"0.0001", "0.0001"},
		{"-17.25", "-17.25"},
	}

	for _, tt := range tests {
		got, err := CanonNumber(tt.in)
		if err != nil {
			t.Fatalf("CanonNumber(%q) error: %v", tt.in, err)
		}
		if got != tt.expected {
			t.Errorf("CanonNumber(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}

	if _, err := CanonNumber("not a number"); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}
}

func TestEncodeIndexed(t *testing.T) {
	enc := &Encoder{Columns: []string{"id", "name"}, Keys: KeyIndexed}

	rec, err := enc.Encode([]string{"1", "Alice"})
	if err != nil {
		t.Fatal(err)
	}

	expected := "{[1]=[=[1]=],[2]=[=[Alice]=]}"
	if rec.Lua != expected {
		t.Errorf("got %q, want %q", rec.Lua, expected)
	}
	if rec.Digest != "" {
		t.Errorf("digest should be empty when disabled, got %q", rec.Digest)
	}
}

func TestEncodeNamed(t *testing.T) {
	enc := &Encoder{Columns: []string{"id", "name"}, Keys: KeyNamed}

	rec, err := enc.Encode([]string{"1", "Alice"})
	if err != nil {
		t.Fatal(err)
	}

	expected := `{["id"]=[=[1]=],["name"]=[=[Alice]=]}`
	if rec.Lua != expected {
		t.Errorf("got %q, want %q", rec.Lua, expected)
	}
}

func TestEncodeHeuristicRow(t *testing.T) {
	enc := &Encoder{
		Columns: []string{"key", "ratio", "enabled", "cost"},
		Keys:    KeyIndexed,
	}

	rec, err := enc.Encode([]string{"007", "3.0", "true", "3.50"})
	if err != nil {
		t.Fatal(err)
	}

	expected := "{[1]=[=[007]=],[2]=3,[3]=true,[4]=3.5}"
	if rec.Lua != expected {
		t.Errorf("got %q, want %q", rec.Lua, expected)
	}
}

func TestEncodeSchemaTyped(t *testing.T) {
	enc := &Encoder{
		Columns: []string{"rank", "key", "enabled", "scale"},
		Keys:    KeyIndexed,
		Converters: Converters{
			"rank":    RenderNumber,
			"key":     RenderString,
			"enabled": RenderBool,
			"scale":   RenderNumber,
		},
	}

	// Schema-typed rendering trusts the declared type for every column,
	// including the first one.
	rec, err := enc.Encode([]string{"3", "unit_a", "false", "1.50"})
	if err != nil {
		t.Fatal(err)
	}

	expected := "{[1]=3,[2]=[=[unit_a]=],[3]=false,[4]=1.5}"
	if rec.Lua != expected {
		t.Errorf("got %q, want %q", rec.Lua, expected)
	}
}

func TestEncodeMissingConverter(t *testing.T) {
	enc := &Encoder{
		Columns:    []string{"id", "mystery"},
		Keys:       KeyIndexed,
		Converters: Converters{"id": RenderString},
	}

	if _, err := enc.Encode([]string{"a", "b"}); !errors.Is(err, ErrNoConverter) {
		t.Errorf("expected ErrNoConverter, got %v", err)
	}
}

func TestEncodeNonNumericTypedValue(t *testing.T) {
	enc := &Encoder{
		Columns:    []string{"rank"},
		Keys:       KeyIndexed,
		Converters: Converters{"rank": RenderNumber},
	}

	if _, err := enc.Encode([]string{"lots"}); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}
}

func TestEncodeExtraFieldsDropped(t *testing.T) {
	enc := &Encoder{Columns: []string{"id"}, Keys: KeyIndexed}

	rec, err := enc.Encode([]string{"a", "stray"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Lua != "{[1]=[=[a]=]}" {
		t.Errorf("extra field should be dropped, got %q", rec.Lua)
	}
}

func TestRecordDigest(t *testing.T) {
	enc := &Encoder{Columns: []string{"a", "b"}, Keys: KeyIndexed, Digest: true}

	r1, err := enc.Encode([]string{"x", "3.0"})
	if err != nil {
		t.Fatal(err)
	}
	if len(r1.Digest) != 32 {
		t.Fatalf("digest should be 32 hex chars, got %q", r1.Digest)
	}

	// Numeric canonicalization feeds the digest: "3.0" and "3" hash the same.
	r2, err := enc.Encode([]string{"x", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if r1.Digest != r2.Digest {
		t.Errorf("canonically equal rows should share a digest: %q vs %q", r1.Digest, r2.Digest)
	}

	r3, err := enc.Encode([]string{"x", "3.1"})
	if err != nil {
		t.Fatal(err)
	}
	if r3.Digest == r1.Digest {
		t.Error("different rows should not share a digest")
	}
}
