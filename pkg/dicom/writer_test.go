package dicom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/transfer"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

func mustAdd(t *testing.T, ds *Dataset, a *Attribute) {
	t.Helper()
	require.NoError(t, ds.Add(a))
}

func TestWriteReadRoundTrip(t *testing.T) {
	ds := NewDataset()
	mustAdd(t, ds, &Attribute{Tag: tag.SOPClassUID, VR: vr.UI, Value: "1.2.840.10008.5.1.4.1.1.2"})
	mustAdd(t, ds, &Attribute{Tag: tag.SOPInstanceUID, VR: vr.UI, Value: "1.2.3.4.5"})
	mustAdd(t, ds, &Attribute{Tag: tag.Modality, VR: vr.CS, Value: "CT"})
	mustAdd(t, ds, &Attribute{Tag: tag.PatientName, VR: vr.PN, Value: "DOE^JANE"})
	mustAdd(t, ds, &Attribute{Tag: tag.Rows, VR: vr.US, Value: uint16(512)})
	mustAdd(t, ds, &Attribute{Tag: tag.Tag{Group: 0x0028, Element: 0x0030}, VR: vr.DS, Value: "0.5\\0.5"})

	var buf bytes.Buffer
	_, err := Write(&buf, ds)
	require.NoError(t, err)

	assert.True(t, HasMagic(buf.Bytes()))

	got, err := ReadDataset(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, transfer.ExplicitVRLittleEndian, got.TransferSyntax)

	assert.Equal(t, "CT", got.GetString(tag.Modality))
	assert.Equal(t, "DOE^JANE", got.GetString(tag.PatientName))
	assert.Equal(t, "1.2.3.4.5", got.GetString(tag.SOPInstanceUID))
	rows, ok := got.Get(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, uint16(512), rows.Value)
	spacing, ok := got.Get(tag.Tag{Group: 0x0028, Element: 0x0030})
	require.True(t, ok)
	assert.Equal(t, []string{"0.5", "0.5"}, spacing.Strings())
}

func TestWriteSynthesisesFileMeta(t *testing.T) {
	ds := NewDataset()
	mustAdd(t, ds, &Attribute{Tag: tag.SOPInstanceUID, VR: vr.UI, Value: "1.2.3"})

	var buf bytes.Buffer
	_, err := Write(&buf, ds)
	require.NoError(t, err)

	got, err := ReadDataset(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, string(transfer.ExplicitVRLittleEndian), got.GetString(tag.TransferSyntaxUID))
	assert.Equal(t, "1.2.3", got.GetString(tag.MediaStorageSOPInstanceUID))
	assert.NotEmpty(t, got.GetString(tag.ImplementationClassUID))
}

func TestWriteSequenceRoundTrip(t *testing.T) {
	item := NewDataset()
	mustAdd(t, item, &Attribute{Tag: tag.Tag{Group: 0x0040, Element: 0xA040}, VR: vr.CS, Value: "TEXT"})
	ds := NewDataset()
	mustAdd(t, ds, &Attribute{Tag: tag.Tag{Group: 0x0040, Element: 0x0275}, VR: vr.SQ, Value: []*Dataset{item}})

	var buf bytes.Buffer
	_, err := Write(&buf, ds)
	require.NoError(t, err)

	got, err := ReadDataset(buf.Bytes())
	require.NoError(t, err)
	a, ok := got.Get(tag.Tag{Group: 0x0040, Element: 0x0275})
	require.True(t, ok)
	require.Len(t, a.Items(), 1)
	assert.Equal(t, "TEXT", a.Items()[0].GetString(tag.Tag{Group: 0x0040, Element: 0xA040}))
}

func TestWriteOddStringIsPadded(t *testing.T) {
	ds := NewDataset()
	mustAdd(t, ds, &Attribute{Tag: tag.Modality, VR: vr.CS, Value: "MR "})

	var buf bytes.Buffer
	_, err := Write(&buf, ds)
	require.NoError(t, err)

	// Every string value lands on an even byte count on the wire.
	got, err := ReadDataset(buf.Bytes())
	require.NoError(t, err)
	a, ok := got.Get(tag.Modality)
	require.True(t, ok)
	assert.Equal(t, uint32(4), a.Length)
	assert.Equal(t, "MR", a.Value)
}

func TestNewUIDShape(t *testing.T) {
	uid := NewUID()
	assert.True(t, len(uid) > 5 && uid[:5] == "2.25.")
	assert.NotEqual(t, uid, NewUID())
}
