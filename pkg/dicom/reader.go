package dicom

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/transfer"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

const (
	preambleSize = 128
	magic        = "DICM"
)

// HasMagic reports whether the buffer starts with a DICOM Part 10 header:
// 128-byte preamble followed by "DICM".
func HasMagic(buf []byte) bool {
	return len(buf) >= preambleSize+len(magic) &&
		string(buf[preambleSize:preambleSize+len(magic)]) == magic
}

type state int

const (
	stateFileMeta state = iota
	stateDataset
	stateDone
)

// Reader is a streaming attribute decoder over an in-memory buffer. It is
// a state machine driven by the tags encountered: the file-meta group is
// always Explicit VR Little Endian, the remainder follows the
// TransferSyntaxUID found there. Attributes are produced in file order.
type Reader struct {
	buf []byte
	pos int
	st  state

	ts       transfer.Syntax
	explicit bool
	order    binary.ByteOrder
	charset  string

	raw    bool
	opaque bool
}

// NewReader prepares a decoder for buf. A missing preamble is not fatal:
// the buffer is then decoded as a raw dataset from offset 0 and the
// resulting datasets carry the Raw flag. ErrBadMagic is only returned for
// buffers too short to hold a single attribute header.
func NewReader(buf []byte) (*Reader, error) {
	if HasMagic(buf) {
		return &Reader{
			buf:      buf,
			pos:      preambleSize + len(magic),
			st:       stateFileMeta,
			explicit: true,
			order:    binary.LittleEndian,
		}, nil
	}
	if len(buf) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadMagic, len(buf))
	}
	// Raw dataset fallback. Implicit VR Little Endian is the default, but
	// when bytes 4..6 spell a standard VR code the stream is explicit.
	r := &Reader{buf: buf, st: stateDataset, raw: true, order: binary.LittleEndian}
	if _, ok := vr.Parse(string(buf[4:6])); ok {
		r.explicit = true
		r.ts = transfer.ExplicitVRLittleEndian
	} else {
		r.ts = transfer.ImplicitVRLittleEndian
	}
	return r, nil
}

// TransferSyntax returns the negotiated transfer syntax, empty until the
// file-meta group has been consumed.
func (r *Reader) TransferSyntax() transfer.Syntax { return r.ts }

// Raw reports whether the source had no Part 10 header.
func (r *Reader) Raw() bool { return r.raw }

// OpaquePixelData reports whether the transfer syntax is a compressed
// family whose pixel data passes through undecoded.
func (r *Reader) OpaquePixelData() bool { return r.opaque }

// Offset returns the current position in the buffer. A reader state is
// restartable only from offsets recorded here.
func (r *Reader) Offset() int { return r.pos }

// Next decodes the next top-level attribute. io.EOF terminates the
// iteration.
func (r *Reader) Next() (*Attribute, error) {
	if r.st == stateDone || r.pos >= len(r.buf) {
		r.st = stateDone
		return nil, io.EOF
	}
	if r.st == stateFileMeta && r.peekGroup() != 0x0002 {
		r.enterDataset()
	}
	a, err := r.readAttribute(0)
	if err != nil {
		return nil, err
	}
	switch a.Tag {
	case tag.TransferSyntaxUID:
		if r.st == stateFileMeta {
			if uid, ok := a.Value.(string); ok {
				r.ts = transfer.FromUID(uid)
			}
		}
	case tag.SpecificCharacterSet:
		if cs, ok := a.Value.(string); ok {
			r.charset = cs
		}
	}
	return a, nil
}

// enterDataset leaves the file-meta group and installs the encoding the
// TransferSyntaxUID named. Before any file-meta group was seen the default
// is Implicit VR Little Endian.
func (r *Reader) enterDataset() {
	r.st = stateDataset
	if r.ts == "" {
		r.ts = transfer.ImplicitVRLittleEndian
	}
	switch {
	case r.ts == transfer.ImplicitVRLittleEndian:
		r.explicit = false
		r.order = binary.LittleEndian
	case r.ts == transfer.ExplicitVRLittleEndian:
		r.explicit = true
		r.order = binary.LittleEndian
	case r.ts == transfer.ExplicitVRBigEndian:
		r.explicit = true
		r.order = binary.BigEndian
	default:
		// Compressed or otherwise uninterpreted: headers keep parsing as
		// Explicit VR Little Endian, pixel data stays opaque.
		r.explicit = true
		r.order = binary.LittleEndian
		r.opaque = true
	}
}

func (r *Reader) peekGroup() uint16 {
	if r.pos+2 > len(r.buf) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[r.pos:])
}

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncated, n, r.pos, len(r.buf))
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) u16() uint16 { return r.order.Uint16(r.take(2)) }
func (r *Reader) u32() uint32 { return r.order.Uint32(r.take(4)) }

// readHeader decodes (tag, vr, length). Delimiter tags (group FFFE) carry
// no VR.
func (r *Reader) readHeader() (tag.Tag, vr.VR, uint32, error) {
	if err := r.need(8); err != nil {
		return tag.Tag{}, "", 0, err
	}
	t := tag.New(r.u16(), r.u16())
	if t.IsDelimiter() {
		return t, "", r.u32(), nil
	}
	var v vr.VR
	var length uint32
	if r.explicit {
		code := string(r.take(2))
		var ok bool
		v, ok = vr.Parse(code)
		if !ok {
			return t, "", 0, fmt.Errorf("%w: VR %q for %s at offset %d", ErrInvalidValue, code, t, r.pos-2)
		}
		if v.UsesLongLength() {
			if err := r.need(6); err != nil {
				return t, "", 0, err
			}
			r.take(2) // reserved
			length = r.u32()
		} else {
			if err := r.need(2); err != nil {
				return t, "", 0, err
			}
			length = uint32(r.u16())
		}
	} else {
		if err := r.need(4); err != nil {
			return t, "", 0, err
		}
		length = r.u32()
		v = tag.ImplicitVR(t)
	}
	return t, v, length, nil
}

func (r *Reader) readAttribute(depth int) (*Attribute, error) {
	t, v, length, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	a := &Attribute{Tag: t, VR: v, Length: length, Offset: r.pos}

	switch {
	case v == vr.SQ:
		items, err := r.readItems(length, depth)
		if err != nil {
			return nil, fmt.Errorf("sequence %s: %w", t, err)
		}
		a.Value = items
	case length == UndefinedLength:
		if t == tag.PixelData || v == vr.OB || v == vr.OW {
			frags, err := r.readFragments()
			if err != nil {
				return nil, fmt.Errorf("pixel data %s: %w", t, err)
			}
			a.Value = frags
		} else {
			// Implicit VR sequences surface as UN with undefined length.
			items, err := r.readItems(length, depth)
			if err != nil {
				return nil, fmt.Errorf("sequence %s: %w", t, err)
			}
			a.VR = vr.SQ
			a.Value = items
		}
	default:
		if length > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s declares %d bytes", ErrLengthOverflow, t, length)
		}
		if err := r.need(int(length)); err != nil {
			return nil, fmt.Errorf("value of %s: %w", t, err)
		}
		if v.IsString() && length%2 != 0 {
			return nil, fmt.Errorf("%w: %s (%s) length %d", ErrOddLength, t, v, length)
		}
		data := r.take(int(length))
		if t == tag.PixelData {
			// Bulk data stays raw, decoded lazily by the caller.
			a.Value = data
			break
		}
		value, err := parseValue(v, data, r.order, r.charset)
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", t, err)
		}
		a.Value = value
	}
	return a, nil
}

// readItems parses sequence items. With a defined sequence length the run
// ends at that byte count; otherwise it ends at the Sequence Delimitation
// item (FFFE,E0DD).
func (r *Reader) readItems(length uint32, depth int) ([]*Dataset, error) {
	items := []*Dataset{}
	var end int
	if length != UndefinedLength {
		if length > math.MaxInt32 {
			return nil, fmt.Errorf("%w: sequence declares %d bytes", ErrLengthOverflow, length)
		}
		if err := r.need(int(length)); err != nil {
			return nil, err
		}
		end = r.pos + int(length)
	}
	for {
		if length != UndefinedLength && r.pos >= end {
			return items, nil
		}
		t, _, itemLen, err := r.readHeader()
		if err != nil {
			return nil, err
		}
		switch t {
		case tag.SequenceDelimitationItem:
			if length != UndefinedLength {
				return nil, fmt.Errorf("%w: delimiter inside defined-length sequence", ErrUnexpectedTag)
			}
			return items, nil
		case tag.Item:
			item, err := r.readItem(itemLen, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		default:
			return nil, fmt.Errorf("%w: %s in sequence", ErrUnexpectedTag, t)
		}
	}
}

// readItem parses one item's nested dataset. Defined length bounds the
// item; undefined length runs until Item Delimitation (FFFE,E00D).
func (r *Reader) readItem(length uint32, depth int) (*Dataset, error) {
	ds := NewDataset()
	ds.TransferSyntax = r.ts
	var end int
	if length != UndefinedLength {
		if length > math.MaxInt32 {
			return nil, fmt.Errorf("%w: item declares %d bytes", ErrLengthOverflow, length)
		}
		if err := r.need(int(length)); err != nil {
			return nil, err
		}
		end = r.pos + int(length)
	}
	for {
		if length != UndefinedLength {
			if r.pos >= end {
				return ds, nil
			}
		} else if r.pos+8 <= len(r.buf) &&
			r.order.Uint16(r.buf[r.pos:]) == 0xFFFE &&
			r.order.Uint16(r.buf[r.pos+2:]) == 0xE00D {
			r.pos += 4
			r.u32() // zero length
			return ds, nil
		} else if r.pos >= len(r.buf) {
			return nil, fmt.Errorf("%w: unterminated item", ErrTruncated)
		}
		a, err := r.readAttribute(depth)
		if err != nil {
			return nil, err
		}
		if err := ds.Add(a); err != nil {
			return nil, err
		}
	}
}

// readFragments parses encapsulated pixel data: a basic offset table item
// followed by one item per fragment, closed by Sequence Delimitation.
func (r *Reader) readFragments() (*Fragments, error) {
	frags := &Fragments{}
	first := true
	for {
		t, _, itemLen, err := r.readHeader()
		if err != nil {
			return nil, err
		}
		switch t {
		case tag.SequenceDelimitationItem:
			return frags, nil
		case tag.Item:
			if itemLen == UndefinedLength || itemLen > math.MaxInt32 {
				return nil, fmt.Errorf("%w: fragment declares %d bytes", ErrLengthOverflow, itemLen)
			}
			if err := r.need(int(itemLen)); err != nil {
				return nil, err
			}
			data := r.take(int(itemLen))
			if first {
				first = false
				for i := 0; i+4 <= len(data); i += 4 {
					frags.Offsets = append(frags.Offsets, r.order.Uint32(data[i:]))
				}
				continue
			}
			frags.Fragments = append(frags.Fragments, data)
		default:
			return nil, fmt.Errorf("%w: %s in encapsulated pixel data", ErrUnexpectedTag, t)
		}
	}
}

// ReadDataset decodes a complete buffer, file-meta group included.
func ReadDataset(buf []byte) (*Dataset, error) {
	r, err := NewReader(buf)
	if err != nil {
		return nil, err
	}
	ds := NewDataset()
	for {
		a, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ds.Add(a); err != nil {
			return nil, err
		}
	}
	ds.TransferSyntax = r.ts
	ds.Raw = r.raw
	ds.OpaquePixelData = r.opaque
	return ds, nil
}

// ReadFile decodes a DICOM file from disk. The handle is scoped to the
// decode and released on all exit paths.
func ReadFile(path string) (*Dataset, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ReadDataset(buf)
}
