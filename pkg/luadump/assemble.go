package luadump

import (
	"fmt"
	"sort"
	"strings"
)

// Assemble joins encoded records into one Lua table literal.
//
// Plain style enumerates records with 1-based ordinals. Checksummed style
// wraps the same sequence in a ["records"] member next to an aggregate
// ["checksum"]: the MD5 of every per-record digest, sorted lexicographically
// before concatenation so the checksum does not depend on row order.
func Assemble(records []EncodedRecord, style TableStyle) string {
	if style == TableChecksummed {
		digests := make([]string, len(records))
		for i, r := range records {
			digests[i] = r.Digest
		}
		sort.Strings(digests)
		checksum := hexDigest(strings.Join(digests, ""))

		return fmt.Sprintf("{\n  [\"checksum\"]=\"%s\",\n  [\"records\"]={\n    %s\n  }\n}",
			checksum, dumpRecords(records, ",\n    "))
	}

	return "{\n  " + dumpRecords(records, ",\n  ") + "\n}"
}

func dumpRecords(records []EncodedRecord, delim string) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = fmt.Sprintf("[%d] = %s", i+1, r.Lua)
	}
	return strings.Join(parts, delim)
}
