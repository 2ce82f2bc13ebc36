package dicom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/transfer"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// UndefinedLength is the sentinel length of sequences and encapsulated
// pixel data that run until a delimitation item.
const UndefinedLength uint32 = 0xFFFFFFFF

// Attribute is a single decoded data element. Value is one of:
//
//	string      character VRs, multi-valued with `\` separators
//	[]byte      OB/OD/OF/OL/OV/UN and opaque values
//	[]*Dataset  SQ items
//	*Fragments  encapsulated pixel data
//	uint16/uint32/int16/int32/float32/float64 and slices thereof
//	tag.Tag / []tag.Tag  AT
type Attribute struct {
	Tag    tag.Tag
	VR     vr.VR
	Length uint32 // encoded length, UndefinedLength for delimited runs
	Value  interface{}
	// Offset of the value bytes in the source buffer, for lazy access to
	// bulk data.
	Offset int
}

// Fragments is the encapsulated form of pixel data: a basic offset table
// followed by one compressed fragment per item. Fragments are never
// decoded, only carried.
type Fragments struct {
	Offsets   []uint32
	Fragments [][]byte
}

// StringValue renders the attribute value for display and for index rows.
func (a *Attribute) StringValue() string {
	switch v := a.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return hexPreview(v)
	case []*Dataset:
		return fmt.Sprintf("(Sequence #=%d)", len(v))
	case *Fragments:
		return fmt.Sprintf("(Encapsulated #=%d)", len(v.Fragments))
	case tag.Tag:
		return v.String()
	case []tag.Tag:
		parts := make([]string, len(v))
		for i, t := range v {
			parts[i] = t.String()
		}
		return strings.Join(parts, "\\")
	case uint16, uint32, int16, int32:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []uint16:
		return joinInts(v)
	case []uint32:
		return joinInts(v)
	case []int16:
		return joinInts(v)
	case []int32:
		return joinInts(v)
	case []float32:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return strings.Join(parts, "\\")
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, "\\")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Strings splits a multi-valued character attribute on `\`.
func (a *Attribute) Strings() []string {
	s, ok := a.Value.(string)
	if !ok || s == "" {
		return nil
	}
	return strings.Split(s, "\\")
}

// Items returns the nested datasets of an SQ attribute.
func (a *Attribute) Items() []*Dataset {
	items, _ := a.Value.([]*Dataset)
	return items
}

// Int converts numeric and IS/DS values to an int.
func (a *Attribute) Int() (int, bool) {
	switch v := a.Value.(type) {
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	}
	return 0, false
}

// Float converts numeric and DS values to a float64.
func (a *Attribute) Float() (float64, bool) {
	switch v := a.Value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func hexPreview(b []byte) string {
	var sb strings.Builder
	for i, n := range b {
		if sb.Len() >= 64 {
			sb.WriteString("...")
			break
		}
		if i > 0 {
			sb.WriteByte('\\')
		}
		fmt.Fprintf(&sb, "%02x", n)
	}
	return sb.String()
}

func joinInts[T uint16 | uint32 | int16 | int32](v []T) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, "\\")
}

// Dataset is an ordered mapping from tag to attribute. Order equals
// on-disk order. A second occurrence of a tag is a decoding error.
type Dataset struct {
	attrs []*Attribute
	index map[tag.Tag]int

	// TransferSyntax is the negotiated encoding of the dataset body.
	TransferSyntax transfer.Syntax
	// Raw is set when the source had no preamble and was decoded as a
	// bare dataset from offset 0.
	Raw bool
	// OpaquePixelData is set when the transfer syntax is a compressed
	// family the decoder does not interpret.
	OpaquePixelData bool
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{index: make(map[tag.Tag]int)}
}

// Add appends an attribute, preserving insertion order.
func (ds *Dataset) Add(a *Attribute) error {
	if _, ok := ds.index[a.Tag]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, a.Tag)
	}
	ds.index[a.Tag] = len(ds.attrs)
	ds.attrs = append(ds.attrs, a)
	return nil
}

// Get returns the attribute for a tag.
func (ds *Dataset) Get(t tag.Tag) (*Attribute, bool) {
	i, ok := ds.index[t]
	if !ok {
		return nil, false
	}
	return ds.attrs[i], true
}

// GetString returns the display form of a tag's value, empty when absent.
func (ds *Dataset) GetString(t tag.Tag) string {
	if a, ok := ds.Get(t); ok {
		return a.StringValue()
	}
	return ""
}

// Attributes returns the attributes in insertion order. The slice is
// shared; callers must not mutate it.
func (ds *Dataset) Attributes() []*Attribute {
	return ds.attrs
}

// Len returns the number of attributes.
func (ds *Dataset) Len() int {
	return len(ds.attrs)
}

// String renders a one-line-per-attribute summary, nested sequences
// indented.
func (ds *Dataset) String() string {
	var sb strings.Builder
	ds.dump(&sb, 0)
	return sb.String()
}

func (ds *Dataset) dump(sb *strings.Builder, level int) {
	indent := strings.Repeat("  ", level)
	for _, a := range ds.attrs {
		info := tag.Lookup(a.Tag)
		value := a.StringValue()
		if len(value) > 66 {
			value = value[:66] + "..."
		}
		fmt.Fprintf(sb, "%s(%04x,%04x) %s [%s] # %s\n",
			indent, a.Tag.Group, a.Tag.Element, a.VR, value, info.Keyword)
		for _, item := range a.Items() {
			item.dump(sb, level+1)
		}
	}
}
