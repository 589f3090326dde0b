// Package schema resolves per-column value converters from an RPFM table
// schema. Resolution degrades rather than fails: when no usable definition
// exists the caller falls back to heuristic typing, and the Degradation value
// says why so the condition can be logged.
package schema

import (
	"fmt"
	"os"

	"github.com/twdbtools/pkg/luadump"
)

// Field is one column declaration inside a table definition.
type Field struct {
	Name string
	Type string // RPFM type tag, e.g. StringU8, I32, Boolean
}

// Definition is one versioned layout of a table.
type Definition struct {
	Version int
	Fields  []Field
}

// Schema holds every table definition of one game schema file.
type Schema struct {
	Definitions map[string][]Definition
}

// renderByType is the fixed mapping from RPFM type tags to Lua value
// rendering. A tag outside this table invalidates the whole converter set
// for its definition; partial schemas are never used partially.
var renderByType = map[string]luadump.ValueRender{
	"Boolean":          luadump.RenderBool,
	"ColourRGB":        luadump.RenderString, // hex text like FFFFFF, not a number
	"F32":              luadump.RenderNumber,
	"F64":              luadump.RenderString,
	"I32":              luadump.RenderNumber,
	"I64":              luadump.RenderString,
	"OptionalStringU8": luadump.RenderString,
	"StringU8":         luadump.RenderString,
	"StringU16":        luadump.RenderString,
}

// Degradation explains why schema-driven typing is unavailable.
type Degradation int

const (
	DegradeNone Degradation = iota
	DegradeNoSchema
	DegradeTableNotFound
	DegradeVersionNotFound
	DegradeBadField
	DegradeUnknownType
	DegradeNoFields
)

func (d Degradation) String() string {
	switch d {
	case DegradeNone:
		return "none"
	case DegradeNoSchema:
		return "no schema loaded"
	case DegradeTableNotFound:
		return "table not found in schema"
	case DegradeVersionNotFound:
		return "no definition matches the requested version"
	case DegradeBadField:
		return "field definition has no name"
	case DegradeUnknownType:
		return "field has an unknown type tag"
	case DegradeNoFields:
		return "definition declares zero fields"
	}
	return "unknown"
}

// Load reads and parses a .ron schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	s, err := parseRON(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %q: %w", path, err)
	}
	return s, nil
}

// Resolve picks the definition of table matching version (first match wins)
// and maps its fields through the fixed type table. On any degradation the
// converter set is nil and the reason is non-zero; a partially resolvable
// definition is rejected whole to avoid silently mistyping some columns.
func (s *Schema) Resolve(table string, version int) (luadump.Converters, Degradation) {
	if s == nil {
		return nil, DegradeNoSchema
	}

	defs, ok := s.Definitions[table]
	if !ok {
		return nil, DegradeTableNotFound
	}

	var def *Definition
	for i := range defs {
		if defs[i].Version == version {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return nil, DegradeVersionNotFound
	}
	if len(def.Fields) == 0 {
		return nil, DegradeNoFields
	}

	converters := make(luadump.Converters, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, DegradeBadField
		}
		render, ok := renderByType[f.Type]
		if !ok {
			return nil, DegradeUnknownType
		}
		converters[f.Name] = render
	}

	return converters, DegradeNone
}
