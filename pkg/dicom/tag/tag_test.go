package tag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

func TestStringRoundTrip(t *testing.T) {
	for _, info := range dict {
		s := info.Tag.String()
		require.Len(t, s, 8)
		assert.Equal(t, strings.ToUpper(s), s)
		parsed, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, info.Tag, parsed)
	}
}

func TestKeywordsAreUniqueCaseInsensitively(t *testing.T) {
	seen := map[string]Tag{}
	for _, info := range dict {
		key := strings.ToLower(info.Keyword)
		if prev, ok := seen[key]; ok {
			t.Fatalf("keyword %q names both %s and %s", info.Keyword, prev, info.Tag)
		}
		seen[key] = info.Tag
	}
}

func TestFindByKeyword(t *testing.T) {
	info, err := Find("PatientName")
	require.NoError(t, err)
	assert.Equal(t, Tag{0x0010, 0x0010}, info.Tag)
	assert.Equal(t, vr.PN, info.VR)

	// Case-insensitive.
	lower, err := Find("patientname")
	require.NoError(t, err)
	assert.Equal(t, info, lower)
}

func TestFindByHexForm(t *testing.T) {
	info, err := Find("0020000D")
	require.NoError(t, err)
	assert.Equal(t, "StudyInstanceUID", info.Keyword)

	// Lowercase hex resolves too.
	info, err = Find("0020000d")
	require.NoError(t, err)
	assert.Equal(t, "StudyInstanceUID", info.Keyword)
}

func TestFindUnknownField(t *testing.T) {
	_, err := Find("NotAKeyword")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestLookupSynthesisesUnknownTags(t *testing.T) {
	info := Lookup(Tag{Group: 0x1234, Element: 0x5678})
	assert.Equal(t, uint16(0x1234), info.Tag.Group)
	assert.Equal(t, uint16(0x5678), info.Tag.Element)
	assert.Empty(t, info.Keyword)
	assert.Empty(t, string(info.VR))
	assert.Zero(t, info.VMMin)
	assert.Zero(t, info.VMMax)
	assert.Equal(t, "Unknown Tag & Data", info.Description)
}

func TestFromUint32(t *testing.T) {
	tg := FromUint32(0x0020000D)
	assert.Equal(t, StudyInstanceUID, tg)
	assert.Equal(t, uint32(0x0020000D), tg.Uint32())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0010", "0010,0010", "ZZZZZZZZ", "0010001000"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrUnknownField, "input %q", s)
	}
}

func TestImplicitVRDefaultsToUN(t *testing.T) {
	assert.Equal(t, vr.LO, ImplicitVR(PatientID))
	assert.Equal(t, vr.UN, ImplicitVR(Tag{Group: 0x0009, Element: 0x0001}))
}

func TestNoWildcardTagsInDictionary(t *testing.T) {
	for _, info := range dict {
		assert.NotContains(t, strings.ToLower(info.Tag.String()), "x")
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Tag{0x0008, 0x0005}.Compare(Tag{0x0010, 0x0010}))
	assert.Equal(t, 1, Tag{0x0010, 0x0020}.Compare(Tag{0x0010, 0x0010}))
	assert.Equal(t, 0, PatientName.Compare(Tag{0x0010, 0x0010}))
}
