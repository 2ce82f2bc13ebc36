package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/transfer"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// implementationVersionName identifies this encoder in file meta.
const implementationVersionName = "rdicom"

// NewUID derives a 2.25-rooted UID from a random uuid, the registration-free
// form the standard allows for generated instances.
func NewUID() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	return "2.25." + n.String()
}

// WriteFile encodes a dataset to a Part 10 file.
func WriteFile(path string, ds *Dataset) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, ds)
}

// Write encodes a dataset as Part 10: preamble, magic, file-meta group in
// Explicit VR Little Endian, then the body, also Explicit VR Little
// Endian. A file-meta group is synthesised when the dataset carries none.
func Write(w io.Writer, ds *Dataset) (int64, error) {
	var out bytes.Buffer
	out.Write(make([]byte, preambleSize))
	out.WriteString(magic)

	if err := writeFileMeta(&out, ds); err != nil {
		return 0, err
	}
	for _, a := range bodyAttributes(ds) {
		if err := writeAttribute(&out, a); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(out.Bytes())
	return int64(n), err
}

// bodyAttributes returns the non-meta attributes in ascending tag order,
// the order the standard requires on the wire.
func bodyAttributes(ds *Dataset) []*Attribute {
	var attrs []*Attribute
	for _, a := range ds.Attributes() {
		if !a.Tag.IsFileMeta() {
			attrs = append(attrs, a)
		}
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Tag.Compare(attrs[j].Tag) < 0
	})
	return attrs
}

// WriteDatasetBody encodes only the dataset attributes (no preamble, no
// file-meta), Explicit VR Little Endian.
func WriteDatasetBody(w io.Writer, ds *Dataset) (int64, error) {
	var out bytes.Buffer
	for _, a := range bodyAttributes(ds) {
		if err := writeAttribute(&out, a); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(out.Bytes())
	return int64(n), err
}

func writeFileMeta(out *bytes.Buffer, ds *Dataset) error {
	str := func(t tag.Tag, fallback string) string {
		if s := ds.GetString(t); s != "" {
			return s
		}
		return fallback
	}
	meta := []*Attribute{
		{Tag: tag.FileMetaInformationVersion, VR: vr.OB, Value: []byte{0x00, 0x01}},
		{Tag: tag.MediaStorageSOPClassUID, VR: vr.UI,
			Value: str(tag.MediaStorageSOPClassUID, ds.GetString(tag.SOPClassUID))},
		{Tag: tag.MediaStorageSOPInstanceUID, VR: vr.UI,
			Value: str(tag.MediaStorageSOPInstanceUID, ds.GetString(tag.SOPInstanceUID))},
		{Tag: tag.TransferSyntaxUID, VR: vr.UI, Value: string(transfer.ExplicitVRLittleEndian)},
		{Tag: tag.ImplementationClassUID, VR: vr.UI,
			Value: str(tag.ImplementationClassUID, NewUID())},
		{Tag: tag.ImplementationVersionName, VR: vr.SH,
			Value: str(tag.ImplementationVersionName, implementationVersionName)},
	}
	var body bytes.Buffer
	for _, a := range meta {
		if err := writeAttribute(&body, a); err != nil {
			return err
		}
	}
	groupLen := &Attribute{Tag: tag.FileMetaInformationGroupLength, VR: vr.UL,
		Value: uint32(body.Len())}
	if err := writeAttribute(out, groupLen); err != nil {
		return err
	}
	out.Write(body.Bytes())
	return nil
}

func writeAttribute(out *bytes.Buffer, a *Attribute) error {
	binary.Write(out, binary.LittleEndian, a.Tag.Group)
	binary.Write(out, binary.LittleEndian, a.Tag.Element)

	v := a.VR
	if len(v) != 2 {
		v = vr.UN
	}
	out.WriteString(string(v))

	valBytes, undefined, err := encodeValue(a, v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", a.Tag, err)
	}

	if v.UsesLongLength() {
		out.Write([]byte{0, 0})
		length := uint32(len(valBytes))
		if undefined {
			length = UndefinedLength
		}
		binary.Write(out, binary.LittleEndian, length)
	} else {
		if undefined {
			return fmt.Errorf("%w: undefined length with short VR %s", ErrInvalidValue, v)
		}
		if len(valBytes) > 0xFFFF {
			return fmt.Errorf("%w: %d bytes under short VR %s", ErrLengthOverflow, len(valBytes), v)
		}
		binary.Write(out, binary.LittleEndian, uint16(len(valBytes)))
	}
	out.Write(valBytes)
	return nil
}

// encodeValue serialises a typed value per its VR. String values are
// padded to even length, with NUL for UI and space for the rest.
func encodeValue(a *Attribute, v vr.VR) ([]byte, bool, error) {
	switch val := a.Value.(type) {
	case nil:
		return nil, false, nil
	case string:
		b := []byte(val)
		if len(b)%2 != 0 {
			pad := byte(' ')
			if v == vr.UI {
				pad = 0
			}
			b = append(b, pad)
		}
		return b, false, nil
	case []byte:
		if len(val)%2 != 0 {
			val = append(append([]byte{}, val...), 0)
		}
		return val, false, nil
	case []*Dataset:
		return encodeItems(val)
	case *Fragments:
		return encodeFragments(val)
	case tag.Tag:
		var buf bytes.Buffer
		binary.Write(&buf, binary.LittleEndian, val.Group)
		binary.Write(&buf, binary.LittleEndian, val.Element)
		return buf.Bytes(), false, nil
	case []tag.Tag:
		var buf bytes.Buffer
		for _, t := range val {
			binary.Write(&buf, binary.LittleEndian, t.Group)
			binary.Write(&buf, binary.LittleEndian, t.Element)
		}
		return buf.Bytes(), false, nil
	case uint16, uint32, int16, int32, float32, float64,
		[]uint16, []uint32, []int16, []int32, []float32, []float64:
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.LittleEndian, val); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	default:
		return nil, false, fmt.Errorf("%w: cannot encode %T", ErrInvalidValue, a.Value)
	}
}

// encodeItems writes sequence items with explicit lengths.
func encodeItems(items []*Dataset) ([]byte, bool, error) {
	var buf bytes.Buffer
	for _, item := range items {
		var body bytes.Buffer
		for _, a := range item.Attributes() {
			if err := writeAttribute(&body, a); err != nil {
				return nil, false, err
			}
		}
		binary.Write(&buf, binary.LittleEndian, tag.Item.Group)
		binary.Write(&buf, binary.LittleEndian, tag.Item.Element)
		binary.Write(&buf, binary.LittleEndian, uint32(body.Len()))
		buf.Write(body.Bytes())
	}
	return buf.Bytes(), false, nil
}

// encodeFragments writes encapsulated pixel data: undefined length, basic
// offset table item, fragment items, sequence delimitation.
func encodeFragments(frags *Fragments) ([]byte, bool, error) {
	var buf bytes.Buffer
	writeItem := func(data []byte) {
		binary.Write(&buf, binary.LittleEndian, tag.Item.Group)
		binary.Write(&buf, binary.LittleEndian, tag.Item.Element)
		binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
		buf.Write(data)
	}
	var bot bytes.Buffer
	for _, off := range frags.Offsets {
		binary.Write(&bot, binary.LittleEndian, off)
	}
	writeItem(bot.Bytes())
	for _, frag := range frags.Fragments {
		writeItem(frag)
	}
	binary.Write(&buf, binary.LittleEndian, tag.SequenceDelimitationItem.Group)
	binary.Write(&buf, binary.LittleEndian, tag.SequenceDelimitationItem.Element)
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	return buf.Bytes(), true, nil
}
