package luadump

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^(-?[0-9]+)\.([0-9]+)$`)
)

// LongBracket wraps a payload in Lua's long-bracket string form. Quotes and
// plain brackets inside the payload never need escaping; only the exact
// closing sequence "]=]" would break it, which does not occur in game data.
func LongBracket(v string) string {
	return "[=[" + v + "]=]"
}

// CanonNumber renders a numeric string in its shortest form: integral values
// drop the fractional part entirely, everything else keeps the shortest
// decimal representation that round-trips ("3.0" -> "3", "3.50" -> "3.5").
func CanonNumber(v string) (string, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotNumeric, v)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// HeuristicValue renders a field without schema information. Rules apply in
// priority order:
//
//  1. field 1 is always a long-bracket string (identifier column, must
//     round-trip exactly, leading zeros included)
//  2. exactly "true" or "false" stays bare
//  3. integers stay bare
//  4. decimals with an all-zero fraction collapse to their integer part;
//     other decimals keep their shortest representation
//  5. anything else is a long-bracket string
//
// pos is the 1-based field ordinal.
func HeuristicValue(pos int, value string) string {
	if pos == 1 {
		return LongBracket(value)
	}
	if value == "true" || value == "false" {
		return value
	}
	if intPattern.MatchString(value) {
		return value
	}
	if m := floatPattern.FindStringSubmatch(value); m != nil {
		if strings.Trim(m[2], "0") == "" {
			return m[1]
		}
		if s, err := CanonNumber(value); err == nil {
			return s
		}
	}
	return LongBracket(value)
}

// Encode renders one row. Fields pair with columns positionally; extra fields
// beyond the header arity are dropped, matching the column zip of the source
// TSV contract.
func (e *Encoder) Encode(fields []string) (EncodedRecord, error) {
	n := min(len(fields), len(e.Columns))

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		column := e.Columns[i]

		var key string
		if e.Keys == KeyNamed {
			key = `["` + column + `"]`
		} else {
			key = "[" + strconv.Itoa(i+1) + "]"
		}

		value, err := e.renderValue(i+1, column, fields[i])
		if err != nil {
			return EncodedRecord{}, err
		}

		parts = append(parts, key+"="+value)
	}

	rec := EncodedRecord{Lua: "{" + strings.Join(parts, ",") + "}"}
	if e.Digest {
		rec.Digest = recordDigest(fields)
	}
	return rec, nil
}

func (e *Encoder) renderValue(pos int, column, value string) (string, error) {
	if e.Converters == nil {
		return HeuristicValue(pos, value), nil
	}

	render, ok := e.Converters[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoConverter, column)
	}

	switch render {
	case RenderNumber:
		s, err := CanonNumber(value)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", column, err)
		}
		return s, nil
	case RenderBool:
		return value, nil
	default:
		return LongBracket(value), nil
	}
}

// recordDigest hashes a row's content key: every raw field, numeric-
// canonicalized when it looks like a decimal, concatenated in column order
// with no separator. MD5 is a change detector here, not a security control.
func recordDigest(fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(digestField(f))
	}
	return hexDigest(b.String())
}

func digestField(v string) string {
	if floatPattern.MatchString(v) {
		if s, err := CanonNumber(v); err == nil {
			return s
		}
	}
	return v
}

func hexDigest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
