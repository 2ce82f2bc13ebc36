// Package tag defines DICOM tags and the standard data dictionary
package tag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// ErrUnknownField is returned when a keyword or textual tag does not
// resolve against the dictionary.
var ErrUnknownField = errors.New("unknown field")

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// FromUint32 builds a Tag from its 32-bit form, group in the high 16 bits.
func FromUint32(v uint32) Tag {
	return Tag{Group: uint16(v >> 16), Element: uint16(v)}
}

// Uint32 returns the 32-bit form of the tag, group in the high 16 bits.
func (t Tag) Uint32() uint32 {
	return uint32(t.Group)<<16 | uint32(t.Element)
}

// String returns the canonical textual form: eight uppercase hex digits,
// group then element, no delimiter.
func (t Tag) String() string {
	return fmt.Sprintf("%04X%04X", t.Group, t.Element)
}

// Equals compares two tags
func (t Tag) Equals(other Tag) bool {
	return t.Group == other.Group && t.Element == other.Element
}

// Compare orders tags by group then element.
func (t Tag) Compare(other Tag) int {
	if t.Group != other.Group {
		if t.Group < other.Group {
			return -1
		}
		return 1
	}
	switch {
	case t.Element < other.Element:
		return -1
	case t.Element > other.Element:
		return 1
	}
	return 0
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsFileMeta returns true if this tag is in the File Meta Information group
func (t Tag) IsFileMeta() bool {
	return t.Group == 0x0002
}

// IsDelimiter returns true for the item/sequence delimitation tags, which
// carry no VR on the wire.
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

// Parse converts the canonical eight-hex-digit form back to a Tag.
func Parse(s string) (Tag, error) {
	if len(s) != 8 {
		return Tag{}, fmt.Errorf("%w: %q is not an eight-digit hex tag", ErrUnknownField, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q is not an eight-digit hex tag", ErrUnknownField, s)
	}
	return FromUint32(uint32(v)), nil
}

// Info is a dictionary record for a standard tag. VMMax == 0 means the
// multiplicity is unbounded.
type Info struct {
	Tag         Tag
	Keyword     string
	VR          vr.VR
	VMMin       uint16
	VMMax       uint16
	Description string
}

var (
	byTag     map[Tag]*Info
	byKeyword map[string]*Info
)

func init() {
	byTag = make(map[Tag]*Info, len(dict))
	byKeyword = make(map[string]*Info, len(dict))
	for i := range dict {
		byTag[dict[i].Tag] = &dict[i]
		byKeyword[strings.ToLower(dict[i].Keyword)] = &dict[i]
	}
}

// Lookup resolves a numeric tag against the dictionary. Unknown tags get a
// synthesised record so decoding never fails on a private or retired tag.
func Lookup(t Tag) Info {
	if info, ok := byTag[t]; ok {
		return *info
	}
	return Info{Tag: t, Description: "Unknown Tag & Data"}
}

// Find resolves a textual field, either a keyword or the eight-hex-digit
// form, case-insensitively.
func Find(field string) (Info, error) {
	if info, ok := byKeyword[strings.ToLower(field)]; ok {
		return *info, nil
	}
	if t, err := Parse(strings.ToUpper(field)); err == nil {
		if info, ok := byTag[t]; ok {
			return *info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// Keyword returns the dictionary keyword for a tag, empty when unknown.
func Keyword(t Tag) string {
	if info, ok := byTag[t]; ok {
		return info.Keyword
	}
	return ""
}

// ImplicitVR returns the dictionary VR for a tag, vr.UN when unknown,
// for use with implicit VR transfer syntaxes.
func ImplicitVR(t Tag) vr.VR {
	if info, ok := byTag[t]; ok && info.VR != "" {
		return info.VR
	}
	return vr.UN
}
