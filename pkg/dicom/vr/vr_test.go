package vr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClosedSet(t *testing.T) {
	for _, v := range All {
		parsed, ok := Parse(string(v))
		assert.True(t, ok, "vr %s", v)
		assert.Equal(t, v, parsed)
	}
	_, ok := Parse("ZZ")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestLongLengthRule(t *testing.T) {
	long := []VR{OB, OD, OF, OL, OV, OW, SQ, UC, UN, UR, UT}
	isLong := map[VR]bool{}
	for _, v := range long {
		isLong[v] = true
	}
	for _, v := range All {
		assert.Equal(t, isLong[v], v.UsesLongLength(), "vr %s", v)
	}
}

func TestFixedSizes(t *testing.T) {
	tests := []struct {
		vr   VR
		size int
	}{
		{US, 2}, {SS, 2},
		{UL, 4}, {SL, 4}, {FL, 4}, {AT, 4},
		{FD, 8}, {UV, 8}, {SV, 8},
		{CS, 0}, {OB, 0}, {SQ, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.vr.FixedSize(), "vr %s", tt.vr)
	}
}

func TestStringVsBinary(t *testing.T) {
	assert.True(t, PN.IsString())
	assert.True(t, DS.IsString())
	assert.False(t, US.IsString())
	assert.True(t, OB.IsBinary())
	assert.True(t, UN.IsBinary())
	assert.False(t, CS.IsBinary())
	assert.True(t, SQ.IsSequence())
	assert.False(t, UI.IsSequence())
}
