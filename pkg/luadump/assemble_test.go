package luadump

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemblePlain(t *testing.T) {
	records := []EncodedRecord{
		{Lua: "{[1]=[=[a]=]}"},
		{Lua: "{[1]=[=[b]=]}"},
	}

	got := Assemble(records, TablePlain)
	expected := "{\n  [1] = {[1]=[=[a]=]},\n  [2] = {[1]=[=[b]=]}\n}"
	assert.Equal(t, expected, got)
}

func TestAssemblePlainSingleRecord(t *testing.T) {
	got := Assemble([]EncodedRecord{{Lua: "{[1]=1}"}}, TablePlain)
	assert.Equal(t, "{\n  [1] = {[1]=1}\n}", got)
}

var checksumPattern = regexp.MustCompile(`\["checksum"\]="([0-9a-f]{32})"`)

func TestAssembleChecksummed(t *testing.T) {
	records := []EncodedRecord{
		{Lua: "{[1]=[=[a]=]}", Digest: "0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a"},
		{Lua: "{[1]=[=[b]=]}", Digest: "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b"},
	}

	got := Assemble(records, TableChecksummed)

	assert.Regexp(t, checksumPattern, got)
	assert.Contains(t, got, "[\"records\"]={\n    [1] = {[1]=[=[a]=]},\n    [2] = {[1]=[=[b]=]}\n  }")

	// The aggregate hashes sorted digests, so row order must not matter.
	swapped := Assemble([]EncodedRecord{records[1], records[0]}, TableChecksummed)
	assert.Equal(t,
		checksumPattern.FindStringSubmatch(got)[1],
		checksumPattern.FindStringSubmatch(swapped)[1],
	)
}

func TestAssembleChecksumSensitivity(t *testing.T) {
	base := []EncodedRecord{
		{Lua: "{}", Digest: "00000000000000000000000000000001"},
		{Lua: "{}", Digest: "00000000000000000000000000000002"},
	}
	changed := []EncodedRecord{
		{Lua: "{}", Digest: "00000000000000000000000000000001"},
		{Lua: "{}", Digest: "00000000000000000000000000000003"},
	}

	a := checksumPattern.FindStringSubmatch(Assemble(base, TableChecksummed))[1]
	b := checksumPattern.FindStringSubmatch(Assemble(changed, TableChecksummed))[1]
	assert.NotEqual(t, a, b)
}
