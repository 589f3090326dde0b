// Package luadump renders extracted database rows as Lua table literals.
package luadump

// KeyStyle selects how record keys are rendered.
type KeyStyle int

const (
	KeyIndexed KeyStyle = iota // [1], [2], ... (1-based field ordinal)
	KeyNamed                   // ["column_name"]
)

// TableStyle selects the shape of the assembled table.
type TableStyle int

const (
	TablePlain       TableStyle = iota // { [1] = {...}, [2] = {...} }
	TableChecksummed                   // { ["checksum"]="...", ["records"]={...} }
)

// ValueRender is how a typed column's raw text becomes a Lua value.
type ValueRender int

const (
	RenderString ValueRender = iota // long-bracket string literal
	RenderNumber                    // shortest numeric representation
	RenderBool                      // passthrough (true/false)
)

func (r ValueRender) String() string {
	switch r {
	case RenderNumber:
		return "number"
	case RenderBool:
		return "boolean"
	}
	return "string"
}

// Converters maps column names to their value rendering, as resolved from a
// table schema. A nil Converters selects heuristic typing instead.
type Converters map[string]ValueRender

// EncodedRecord is one row rendered as a Lua table constructor. Digest is the
// row's content hash (lowercase hex MD5) and is empty when digests are off.
type EncodedRecord struct {
	Lua    string
	Digest string
}

// Encoder turns raw TSV fields into EncodedRecords. Configure it once per
// file; it holds no per-row state.
type Encoder struct {
	Columns    []string
	Keys       KeyStyle
	Converters Converters // nil selects heuristic typing
	Digest     bool
}
