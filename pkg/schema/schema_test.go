package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/twdbtools/pkg/luadump"
)

// sampleRON mirrors the shape of RPFM's schema files: a top-level struct with
// a versioned header, a definitions map, and plenty of keys the resolver does
// not care about.
const sampleRON = `(
    version: 4,
    // patches live next to definitions in real files
    patches: {},
    definitions: {
        "land_units_tables": [
            (
                version: 13,
                fields: [
                    (
                        name: "key",
                        field_type: StringU8,
                        is_key: true,
                        default_value: Some("placeholder"),
                        description: "unit \"key\"",
                    ),
                    (
                        name: "num_men",
                        field_type: I32,
                        is_key: false,
                        default_value: None,
                    ),
                    (
                        name: "damage_mod",
                        field_type: F32,
                    ),
                    (
                        name: "is_large",
                        field_type: Boolean,
                    ),
                    (
                        name: "tint",
                        field_type: ColourRGB,
                    ),
                ],
                localised_fields: [
                    (
                        name: "onscreen_name",
                        field_type: StringU8,
                    ),
                ],
            ),
            (
                version: 12,
                fields: [
                    (
                        name: "key",
                        field_type: StringU8,
                    ),
                ],
            ),
        ],
        "exotic_tables": [
            (
                version: 1,
                fields: [
                    (
                        name: "payload",
                        field_type: SequenceU32((version: 0, fields: [])),
                    ),
                ],
            ),
        ],
        "empty_tables": [
            (
                version: 1,
                fields: [],
            ),
        ],
    },
)`

func parseSample(t *testing.T) *Schema {
	t.Helper()
	s, err := parseRON(sampleRON)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseRON(t *testing.T) {
	s := parseSample(t)

	defs, ok := s.Definitions["land_units_tables"]
	if !ok {
		t.Fatal("land_units_tables not parsed")
	}
	if len(defs) != 2 {
		t.Fatalf("definitions = %d, want 2", len(defs))
	}
	if defs[0].Version != 13 || defs[1].Version != 12 {
		t.Errorf("versions = %d, %d; want 13, 12", defs[0].Version, defs[1].Version)
	}
	if len(defs[0].Fields) != 5 {
		t.Fatalf("fields = %d, want 5 (localised fields must not leak in)", len(defs[0].Fields))
	}
	if defs[0].Fields[0].Name != "key" || defs[0].Fields[0].Type != "StringU8" {
		t.Errorf("unexpected first field: %+v", defs[0].Fields[0])
	}
	if defs[0].Fields[2].Type != "F32" {
		t.Errorf("unexpected third field type: %q", defs[0].Fields[2].Type)
	}

	// Enum payloads are skipped but the tag survives.
	exotic := s.Definitions["exotic_tables"][0].Fields[0]
	if exotic.Type != "SequenceU32" {
		t.Errorf("payload-carrying tag = %q, want SequenceU32", exotic.Type)
	}
}

func TestResolve(t *testing.T) {
	s := parseSample(t)

	converters, reason := s.Resolve("land_units_tables", 13)
	if reason != DegradeNone {
		t.Fatalf("unexpected degradation: %v", reason)
	}

	expected := luadump.Converters{
		"key":        luadump.RenderString,
		"num_men":    luadump.RenderNumber,
		"damage_mod": luadump.RenderNumber,
		"is_large":   luadump.RenderBool,
		"tint":       luadump.RenderString,
	}
	if len(converters) != len(expected) {
		t.Fatalf("converters = %d, want %d", len(converters), len(expected))
	}
	for col, want := range expected {
		if got, ok := converters[col]; !ok || got != want {
			t.Errorf("converters[%q] = %v, want %v", col, got, want)
		}
	}
}

func TestResolveDegradations(t *testing.T) {
	s := parseSample(t)

	tests := []struct {
		name     string
		schema   *Schema
		table    string
		version  int
		expected Degradation
	}{
		{"nil schema", nil, "land_units_tables", 13, DegradeNoSchema},
		{"unknown table", s, "no_such_tables", 1, DegradeTableNotFound},
		{"unknown version", s, "land_units_tables", 99, DegradeVersionNotFound},
		{"unknown type tag rejects the whole set", s, "exotic_tables", 1, DegradeUnknownType},
		{"zero fields", s, "empty_tables", 1, DegradeNoFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converters, reason := tt.schema.Resolve(tt.table, tt.version)
			if reason != tt.expected {
				t.Errorf("reason = %v, want %v", reason, tt.expected)
			}
			if converters != nil {
				t.Error("degraded resolution must not return converters")
			}
		})
	}
}

func TestResolveBadField(t *testing.T) {
	s := &Schema{Definitions: map[string][]Definition{
		"t_tables": {{Version: 1, Fields: []Field{{Name: "", Type: "StringU8"}}}},
	}}

	if _, reason := s.Resolve("t_tables", 1); reason != DegradeBadField {
		t.Errorf("reason = %v, want DegradeBadField", reason)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema_wh3.ron")
	if err := os.WriteFile(path, []byte(sampleRON), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Definitions["land_units_tables"]; !ok {
		t.Error("loaded schema is missing land_units_tables")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ron")); err == nil {
		t.Error("expected an error for a missing schema file")
	}
}

func TestParseRONRejectsGarbage(t *testing.T) {
	if _, err := parseRON("just some text"); err == nil {
		t.Error("expected a parse error")
	}
}
