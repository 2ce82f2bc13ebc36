package dicom

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/transfer"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// le appends little-endian values to a byte stream for fixture building.
func le(parts ...interface{}) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			buf.WriteString(v)
		case []byte:
			buf.Write(v)
		default:
			binary.Write(&buf, binary.LittleEndian, v)
		}
	}
	return buf.Bytes()
}

// part10 prepends preamble and magic to a body.
func part10(body []byte) []byte {
	out := make([]byte, 128)
	out = append(out, "DICM"...)
	return append(out, body...)
}

// fileMeta builds a minimal group 0002 with the given transfer syntax.
func fileMeta(ts transfer.Syntax) []byte {
	uid := string(ts)
	if len(uid)%2 != 0 {
		uid += "\x00"
	}
	return le(uint16(0x0002), uint16(0x0010), "UI", uint16(len(uid)), uid)
}

func TestRawDatasetExplicitVR(t *testing.T) {
	// No preamble; bytes 4..6 spell a VR so the stream is explicit.
	buf := le(uint16(0x0008), uint16(0x0005), "CS", uint16(4), "ISO_")

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.True(t, ds.Raw)
	require.Equal(t, 1, ds.Len())

	a, ok := ds.Get(tag.SpecificCharacterSet)
	require.True(t, ok)
	assert.Equal(t, vr.CS, a.VR)
	assert.Equal(t, "ISO_", a.Value)
}

func TestRawDatasetImplicitVR(t *testing.T) {
	buf := le(uint16(0x0010), uint16(0x0020), uint32(4), "1234")

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.True(t, ds.Raw)
	assert.Equal(t, transfer.ImplicitVRLittleEndian, ds.TransferSyntax)

	a, ok := ds.Get(tag.PatientID)
	require.True(t, ok)
	// Implicit VR comes from the dictionary.
	assert.Equal(t, vr.LO, a.VR)
	assert.Equal(t, "1234", a.Value)
}

func TestExplicitVRLittleEndianFile(t *testing.T) {
	body := append(fileMeta(transfer.ExplicitVRLittleEndian),
		le(uint16(0x0010), uint16(0x0010), "PN", uint16(8), "DOE^JANE")...)
	buf := part10(body)

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.False(t, ds.Raw)
	assert.Equal(t, transfer.ExplicitVRLittleEndian, ds.TransferSyntax)
	assert.Equal(t, "DOE^JANE", ds.GetString(tag.PatientName))
}

func TestImplicitVRFile(t *testing.T) {
	body := append(fileMeta(transfer.ImplicitVRLittleEndian),
		le(uint16(0x0010), uint16(0x0020), uint32(4), "1234")...)
	buf := part10(body)

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.Equal(t, "1234", ds.GetString(tag.PatientID))
}

func TestExplicitVRBigEndianFile(t *testing.T) {
	// Dataset attributes switch to big endian after file meta.
	dataset := []byte{
		0x00, 0x28, 0x00, 0x10, // (0028,0010), big endian
		'U', 'S',
		0x00, 0x02, // length 2
		0x00, 0x03, // value 3
	}
	buf := part10(append(fileMeta(transfer.ExplicitVRBigEndian), dataset...))

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	a, ok := ds.Get(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, uint16(3), a.Value)
}

func TestSequenceDefinedLength(t *testing.T) {
	inner := le(uint16(0x0040), uint16(0xA040), "CS", uint16(4), "TEXT")
	item := le(uint16(0xFFFE), uint16(0xE000), uint32(len(inner)), inner)
	seq := le(uint16(0x0040), uint16(0x0275), "SQ", uint16(0), uint32(len(item)), item)

	ds, err := ReadDataset(part10(append(fileMeta(transfer.ExplicitVRLittleEndian), seq...)))
	require.NoError(t, err)

	a, ok := ds.Get(tag.Tag{Group: 0x0040, Element: 0x0275})
	require.True(t, ok)
	items := a.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "TEXT", items[0].GetString(tag.Tag{Group: 0x0040, Element: 0xA040}))
}

func TestSequenceUndefinedLength(t *testing.T) {
	inner := le(uint16(0x0040), uint16(0xA040), "CS", uint16(4), "TEXT")
	item := le(uint16(0xFFFE), uint16(0xE000), uint32(0xFFFFFFFF), inner,
		uint16(0xFFFE), uint16(0xE00D), uint32(0))
	seq := le(uint16(0x0040), uint16(0x0275), "SQ", uint16(0), uint32(0xFFFFFFFF), item,
		uint16(0xFFFE), uint16(0xE0DD), uint32(0))

	ds, err := ReadDataset(part10(append(fileMeta(transfer.ExplicitVRLittleEndian), seq...)))
	require.NoError(t, err)

	a, ok := ds.Get(tag.Tag{Group: 0x0040, Element: 0x0275})
	require.True(t, ok)
	items := a.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "TEXT", items[0].GetString(tag.Tag{Group: 0x0040, Element: 0xA040}))
}

func TestNestedSequences(t *testing.T) {
	leaf := le(uint16(0x0040), uint16(0xA160), "UT", uint16(0), uint32(4), "deep")
	leafItem := le(uint16(0xFFFE), uint16(0xE000), uint32(len(leaf)), leaf)
	innerSeq := le(uint16(0x0040), uint16(0xA730), "SQ", uint16(0), uint32(len(leafItem)), leafItem)
	outerItem := le(uint16(0xFFFE), uint16(0xE000), uint32(len(innerSeq)), innerSeq)
	outerSeq := le(uint16(0x0040), uint16(0x0275), "SQ", uint16(0), uint32(len(outerItem)), outerItem)

	ds, err := ReadDataset(part10(append(fileMeta(transfer.ExplicitVRLittleEndian), outerSeq...)))
	require.NoError(t, err)

	outer, ok := ds.Get(tag.Tag{Group: 0x0040, Element: 0x0275})
	require.True(t, ok)
	require.Len(t, outer.Items(), 1)
	inner, ok := outer.Items()[0].Get(tag.Tag{Group: 0x0040, Element: 0xA730})
	require.True(t, ok)
	require.Len(t, inner.Items(), 1)
	assert.Equal(t, "deep", inner.Items()[0].GetString(tag.Tag{Group: 0x0040, Element: 0xA160}))
}

func TestEncapsulatedPixelData(t *testing.T) {
	frag := []byte{0xAB, 0xCD}
	pixel := le(
		uint16(0x7FE0), uint16(0x0010), "OB", uint16(0), uint32(0xFFFFFFFF),
		uint16(0xFFFE), uint16(0xE000), uint32(4), uint32(0), // basic offset table
		uint16(0xFFFE), uint16(0xE000), uint32(len(frag)), frag,
		uint16(0xFFFE), uint16(0xE0DD), uint32(0),
	)
	buf := part10(append(fileMeta(transfer.JPEGLosslessFirstOrder), pixel...))

	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.True(t, ds.OpaquePixelData)

	a, ok := ds.Get(tag.PixelData)
	require.True(t, ok)
	frags, ok := a.Value.(*Fragments)
	require.True(t, ok)
	assert.Equal(t, []uint32{0}, frags.Offsets)
	require.Len(t, frags.Fragments, 1)
	assert.Equal(t, frag, frags.Fragments[0])
}

func TestSpecificCharacterSetLatin1(t *testing.T) {
	buf := le(
		uint16(0x0008), uint16(0x0005), "CS", uint16(10), "ISO_IR 100",
		uint16(0x0010), uint16(0x0010), "PN", uint16(2), []byte{0xE9, 0x20},
	)
	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	assert.Equal(t, "é", ds.GetString(tag.PatientName))
}

func TestDuplicateTagIsError(t *testing.T) {
	buf := le(
		uint16(0x0010), uint16(0x0020), "LO", uint16(4), "1234",
		uint16(0x0010), uint16(0x0020), "LO", uint16(4), "5678",
	)
	_, err := ReadDataset(buf)
	require.ErrorIs(t, err, ErrDuplicateTag)
}

func TestTruncatedValue(t *testing.T) {
	buf := le(uint16(0x0010), uint16(0x0020), "LO", uint16(16), "shrt")
	_, err := ReadDataset(buf)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestOddLengthStringValue(t *testing.T) {
	buf := le(uint16(0x0008), uint16(0x0060), "CS", uint16(3), "CTx")
	_, err := ReadDataset(buf)
	require.ErrorIs(t, err, ErrOddLength)
}

func TestTooShortBuffer(t *testing.T) {
	_, err := NewReader([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestUnsupportedTransferSyntaxKeepsParsing(t *testing.T) {
	body := append(fileMeta(transfer.JPEGBaseline),
		le(uint16(0x0008), uint16(0x0060), "CS", uint16(2), "CT")...)
	ds, err := ReadDataset(part10(body))
	require.NoError(t, err)
	assert.True(t, ds.OpaquePixelData)
	assert.Equal(t, "CT", ds.GetString(tag.Modality))
}

func TestReaderConsumesWholeBuffer(t *testing.T) {
	body := append(fileMeta(transfer.ExplicitVRLittleEndian),
		le(uint16(0x0010), uint16(0x0010), "PN", uint16(8), "DOE^JANE",
			uint16(0x0010), uint16(0x0020), "LO", uint16(4), "1234")...)
	buf := part10(body)

	r, err := NewReader(buf)
	require.NoError(t, err)
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	// Attribute headers plus values account for every byte consumed.
	assert.Equal(t, len(buf), r.Offset())
}

func TestNumericDecoding(t *testing.T) {
	buf := le(
		uint16(0x0028), uint16(0x0010), "US", uint16(2), uint16(512),
		uint16(0x0028), uint16(0x0030), "DS", uint16(8), "0.5\\0.5 ",
		uint16(0x0018), uint16(0x9328), "FD", uint16(8), float64(1.5),
	)
	ds, err := ReadDataset(buf)
	require.NoError(t, err)

	rows, ok := ds.Get(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, uint16(512), rows.Value)

	// DS stays a string, parsed on access.
	spacing, ok := ds.Get(tag.Tag{Group: 0x0028, Element: 0x0030})
	require.True(t, ok)
	assert.Equal(t, []string{"0.5", "0.5"}, spacing.Strings())

	exposure, ok := ds.Get(tag.Tag{Group: 0x0018, Element: 0x9328})
	require.True(t, ok)
	assert.Equal(t, 1.5, exposure.Value)
}

func TestMultiValuedUSDecodesToSlice(t *testing.T) {
	buf := le(uint16(0x0018), uint16(0x7026), "US", uint16(4), uint16(64), uint16(64))
	ds, err := ReadDataset(buf)
	require.NoError(t, err)
	a, ok := ds.Get(tag.Tag{Group: 0x0018, Element: 0x7026})
	require.True(t, ok)
	assert.Equal(t, []uint16{64, 64}, a.Value)
}
