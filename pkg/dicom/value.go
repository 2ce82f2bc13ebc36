package dicom

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// parseValue converts raw value bytes to the typed form for a VR. order is
// the byte order of the current transfer syntax. charset is the value of
// SpecificCharacterSet seen so far, empty for ASCII.
func parseValue(v vr.VR, data []byte, order binary.ByteOrder, charset string) (interface{}, error) {
	if v.IsString() {
		return trimPadding(decodeText(charset, data)), nil
	}
	switch v {
	case vr.AT:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("%w: AT length %d", ErrInvalidValue, len(data))
		}
		tags := make([]tag.Tag, len(data)/4)
		for i := range tags {
			tags[i] = tag.New(order.Uint16(data[i*4:]), order.Uint16(data[i*4+2:]))
		}
		if len(tags) == 1 {
			return tags[0], nil
		}
		return tags, nil
	case vr.US:
		return parseFixed(data, order, 2, ErrInvalidValue, func(b []byte) uint16 { return order.Uint16(b) })
	case vr.SS:
		return parseFixed(data, order, 2, ErrInvalidValue, func(b []byte) int16 { return int16(order.Uint16(b)) })
	case vr.UL:
		return parseFixed(data, order, 4, ErrInvalidValue, func(b []byte) uint32 { return order.Uint32(b) })
	case vr.SL:
		return parseFixed(data, order, 4, ErrInvalidValue, func(b []byte) int32 { return int32(order.Uint32(b)) })
	case vr.FL:
		return parseFixed(data, order, 4, ErrInvalidValue, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
	case vr.FD:
		return parseFixed(data, order, 8, ErrInvalidValue, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
	case vr.OW:
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("%w: OW length %d", ErrOddLength, len(data))
		}
		return data, nil
	default:
		// OB, OD, OF, OL, OV, UN and anything exotic stay raw.
		return data, nil
	}
}

// parseFixed decodes a fixed-width numeric run, returning a scalar for a
// single element and a slice otherwise.
func parseFixed[T any](data []byte, order binary.ByteOrder, width int, errKind error, get func([]byte) T) (interface{}, error) {
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", errKind, len(data), width)
	}
	n := len(data) / width
	if n == 1 {
		return get(data), nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = get(data[i*width:])
	}
	return out, nil
}

// trimPadding removes the trailing space or NUL used to even out string
// values, plus incidental surrounding whitespace, the way dcmdump does.
func trimPadding(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00 "))
}
