// Package dicomweb maps datasets to and from the DICOMweb wire shapes:
// DICOM-JSON (PS3.18) and the Native DICOM Model XML (PS3.19). Both
// projections share the dataset as the single in-memory model; round-trip
// identity holds within a format, not across formats.
package dicomweb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// DefaultBulkDataThreshold is the value size above which binary VRs are
// referenced through a BulkDataURI instead of being inlined, when a
// resolver is available.
const DefaultBulkDataThreshold = 1024

// Options tunes both projections.
type Options struct {
	// BulkDataURI resolves a tag to the URI serving its bulk value. When
	// nil, bulk values are inlined as base64.
	BulkDataURI func(t tag.Tag) string
	// BulkDataThreshold overrides DefaultBulkDataThreshold when positive.
	BulkDataThreshold int
}

func (o Options) threshold() int {
	if o.BulkDataThreshold > 0 {
		return o.BulkDataThreshold
	}
	return DefaultBulkDataThreshold
}

// JSONAttribute is one entry of a DICOM-JSON object.
type JSONAttribute struct {
	VR           string        `json:"vr"`
	Value        []interface{} `json:"Value,omitempty"`
	BulkDataURI  string        `json:"BulkDataURI,omitempty"`
	InlineBinary string        `json:"InlineBinary,omitempty"`
}

// JSONDataset is a DICOM-JSON object: a mapping keyed by the eight-hex
// uppercase tag. encoding/json marshals map keys sorted, which yields the
// canonical tag order.
type JSONDataset map[string]JSONAttribute

// EncodeJSON projects a dataset into its DICOM-JSON shape. Group-length
// bookkeeping attributes (element 0000 of any group) are dropped,
// everything else is carried.
func EncodeJSON(ds *dicom.Dataset, opts Options) (JSONDataset, error) {
	out := make(JSONDataset, ds.Len())
	for _, a := range ds.Attributes() {
		if a.Tag.Element == 0x0000 {
			continue
		}
		ja, err := EncodeJSONAttribute(a, opts)
		if err != nil {
			return nil, err
		}
		out[a.Tag.String()] = ja
	}
	return out, nil
}

// MarshalJSON is a convenience over EncodeJSON + json.Marshal.
func MarshalJSON(ds *dicom.Dataset, opts Options) ([]byte, error) {
	obj, err := EncodeJSON(ds, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// EncodeJSONAttribute projects a single attribute, for callers that
// compose objects field by field.
func EncodeJSONAttribute(a *dicom.Attribute, opts Options) (JSONAttribute, error) {
	ja := JSONAttribute{VR: string(a.VR)}
	switch {
	case a.VR == vr.SQ:
		for _, item := range a.Items() {
			nested, err := EncodeJSON(item, opts)
			if err != nil {
				return ja, err
			}
			ja.Value = append(ja.Value, nested)
		}
	case a.VR == vr.PN:
		for _, s := range splitValues(a) {
			ja.Value = append(ja.Value, map[string]string{"Alphabetic": s})
		}
	case a.VR.IsBinary():
		raw := rawBytes(a)
		if uri := opts.BulkDataURI; uri != nil && len(raw) > opts.threshold() {
			ja.BulkDataURI = uri(a.Tag)
		} else if len(raw) > 0 {
			ja.InlineBinary = base64.StdEncoding.EncodeToString(raw)
		}
	default:
		for _, v := range jsonValues(a) {
			ja.Value = append(ja.Value, v)
		}
	}
	return ja, nil
}

// jsonValues renders an attribute as the PS3.18 Value array: numbers for
// numeric VRs, strings for character VRs (DS and IS included, preserving
// their exact decimal text).
func jsonValues(a *dicom.Attribute) []interface{} {
	switch v := a.Value.(type) {
	case nil:
		return nil
	case string:
		var out []interface{}
		for _, s := range splitValues(a) {
			out = append(out, s)
		}
		return out
	case uint16:
		return []interface{}{v}
	case uint32:
		return []interface{}{v}
	case int16:
		return []interface{}{v}
	case int32:
		return []interface{}{v}
	case float32:
		return []interface{}{v}
	case float64:
		return []interface{}{v}
	case tag.Tag:
		return []interface{}{v.String()}
	case []tag.Tag:
		out := make([]interface{}, len(v))
		for i, t := range v {
			out[i] = t.String()
		}
		return out
	case []uint16:
		return toAny(v)
	case []uint32:
		return toAny(v)
	case []int16:
		return toAny(v)
	case []int32:
		return toAny(v)
	case []float32:
		return toAny(v)
	case []float64:
		return toAny(v)
	default:
		return []interface{}{a.StringValue()}
	}
}

func toAny[T any](v []T) []interface{} {
	out := make([]interface{}, len(v))
	for i := range v {
		out[i] = v[i]
	}
	return out
}

func splitValues(a *dicom.Attribute) []string {
	s, ok := a.Value.(string)
	if !ok || s == "" {
		return nil
	}
	return strings.Split(s, "\\")
}

func rawBytes(a *dicom.Attribute) []byte {
	switch v := a.Value.(type) {
	case []byte:
		return v
	case *dicom.Fragments:
		var out []byte
		for _, f := range v.Fragments {
			out = append(out, f...)
		}
		return out
	default:
		return nil
	}
}

// DecodeJSON ingests a DICOM-JSON object back into a dataset. Attributes
// are ordered by ascending tag, the only order the map shape can offer.
func DecodeJSON(obj JSONDataset) (*dicom.Dataset, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ds := dicom.NewDataset()
	for _, k := range keys {
		t, err := tag.Parse(strings.ToUpper(k))
		if err != nil {
			return nil, fmt.Errorf("bad tag key %q: %w", k, err)
		}
		a, err := decodeJSONAttribute(t, obj[k])
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		if err := ds.Add(a); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// UnmarshalJSON is a convenience over json.Unmarshal + DecodeJSON.
func UnmarshalJSON(data []byte) (*dicom.Dataset, error) {
	var obj JSONDataset
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return DecodeJSON(obj)
}

func decodeJSONAttribute(t tag.Tag, ja JSONAttribute) (*dicom.Attribute, error) {
	v, ok := vr.Parse(ja.VR)
	if !ok {
		return nil, fmt.Errorf("%w: vr %q", dicom.ErrInvalidValue, ja.VR)
	}
	a := &dicom.Attribute{Tag: t, VR: v}

	if ja.InlineBinary != "" {
		raw, err := base64.StdEncoding.DecodeString(ja.InlineBinary)
		if err != nil {
			return nil, fmt.Errorf("%w: InlineBinary: %v", dicom.ErrInvalidValue, err)
		}
		a.Value = raw
		return a, nil
	}
	if ja.BulkDataURI != "" {
		// The referenced bytes are not reachable from here; the attribute
		// is carried with an empty value.
		a.Value = []byte(nil)
		return a, nil
	}

	switch {
	case v == vr.SQ:
		var items []*dicom.Dataset
		for i, raw := range ja.Value {
			obj, ok := toJSONDataset(raw)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is not an object", dicom.ErrInvalidValue, i)
			}
			item, err := DecodeJSON(obj)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		a.Value = items
	case v == vr.PN:
		var parts []string
		for _, raw := range ja.Value {
			switch pv := raw.(type) {
			case string:
				parts = append(parts, pv)
			case map[string]interface{}:
				s, _ := pv["Alphabetic"].(string)
				parts = append(parts, s)
			default:
				return nil, fmt.Errorf("%w: person name %v", dicom.ErrInvalidValue, raw)
			}
		}
		a.Value = strings.Join(parts, "\\")
	case v == vr.AT:
		parts := make([]string, 0, len(ja.Value))
		for _, raw := range ja.Value {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: AT value %v", dicom.ErrInvalidValue, raw)
			}
			parts = append(parts, s)
		}
		value, err := parseATValues(parts)
		if err != nil {
			return nil, err
		}
		a.Value = value
	case v.IsString():
		parts := make([]string, 0, len(ja.Value))
		for _, raw := range ja.Value {
			parts = append(parts, fmt.Sprintf("%v", raw))
		}
		a.Value = strings.Join(parts, "\\")
	default:
		value, err := decodeJSONNumbers(v, ja.Value)
		if err != nil {
			return nil, err
		}
		a.Value = value
	}
	return a, nil
}

// parseATValues restores AT values from their eight-hex forms, the
// inverse of the tag.Tag rendering on the encode side.
func parseATValues(parts []string) (interface{}, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	tags := make([]tag.Tag, len(parts))
	for i, s := range parts {
		t, err := tag.Parse(strings.ToUpper(strings.TrimSpace(s)))
		if err != nil {
			return nil, fmt.Errorf("%w: AT value %q", dicom.ErrInvalidValue, s)
		}
		tags[i] = t
	}
	if len(tags) == 1 {
		return tags[0], nil
	}
	return tags, nil
}

func toJSONDataset(raw interface{}) (JSONDataset, bool) {
	switch m := raw.(type) {
	case JSONDataset:
		return m, true
	case map[string]interface{}:
		out := make(JSONDataset, len(m))
		for k, v := range m {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, false
			}
			var ja JSONAttribute
			if err := json.Unmarshal(b, &ja); err != nil {
				return nil, false
			}
			out[k] = ja
		}
		return out, true
	default:
		return nil, false
	}
}

func decodeJSONNumbers(v vr.VR, values []interface{}) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	floats := make([]float64, len(values))
	for i, raw := range values {
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a number", dicom.ErrInvalidValue, raw)
		}
		floats[i] = f
	}
	single := len(floats) == 1
	switch v {
	case vr.US:
		return convertNumbers(floats, single, func(f float64) uint16 { return uint16(f) })
	case vr.SS:
		return convertNumbers(floats, single, func(f float64) int16 { return int16(f) })
	case vr.UL:
		return convertNumbers(floats, single, func(f float64) uint32 { return uint32(f) })
	case vr.SL:
		return convertNumbers(floats, single, func(f float64) int32 { return int32(f) })
	case vr.FL:
		return convertNumbers(floats, single, func(f float64) float32 { return float32(f) })
	case vr.FD:
		if single {
			return floats[0], nil
		}
		return floats, nil
	default:
		return nil, fmt.Errorf("%w: numeric payload under vr %s", dicom.ErrInvalidValue, v)
	}
}

func convertNumbers[T any](floats []float64, single bool, conv func(float64) T) (interface{}, error) {
	if single {
		return conv(floats[0]), nil
	}
	out := make([]T, len(floats))
	for i, f := range floats {
		out[i] = conv(f)
	}
	return out, nil
}
