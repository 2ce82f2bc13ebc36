package transfer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVRAndEndianness(t *testing.T) {
	assert.False(t, ImplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ExplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ExplicitVRBigEndian.IsExplicitVR())

	assert.True(t, ImplicitVRLittleEndian.IsLittleEndian())
	assert.False(t, ExplicitVRBigEndian.IsLittleEndian())
	assert.Equal(t, binary.BigEndian, ExplicitVRBigEndian.ByteOrder())
	assert.Equal(t, binary.LittleEndian, ExplicitVRLittleEndian.ByteOrder())
}

func TestEncapsulation(t *testing.T) {
	assert.False(t, ExplicitVRLittleEndian.IsEncapsulated())
	assert.True(t, JPEGBaseline.IsEncapsulated())
	assert.True(t, RLELossless.IsEncapsulated())
}

func TestSupportedSet(t *testing.T) {
	assert.True(t, ImplicitVRLittleEndian.IsSupported())
	assert.True(t, ExplicitVRLittleEndian.IsSupported())
	assert.True(t, ExplicitVRBigEndian.IsSupported())
	assert.False(t, JPEG2000.IsSupported())
	assert.False(t, Syntax("1.2.3.4").IsSupported())
}

func TestName(t *testing.T) {
	assert.Equal(t, "Explicit VR Little Endian", ExplicitVRLittleEndian.Name())
	// Unknown UIDs fall back to the UID itself.
	assert.Equal(t, "1.2.3.4", Syntax("1.2.3.4").Name())
}
