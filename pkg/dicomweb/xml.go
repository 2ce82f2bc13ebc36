package dicomweb

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// NativeDicomModel is the PS3.19 XML projection: an ordered list of
// DicomAttribute elements, order equal to dataset order.
type NativeDicomModel struct {
	XMLName    xml.Name       `xml:"NativeDicomModel"`
	Attributes []XMLAttribute `xml:"DicomAttribute"`
}

// XMLAttribute is one DicomAttribute element.
type XMLAttribute struct {
	Tag          string       `xml:"tag,attr"`
	VR           string       `xml:"vr,attr"`
	Keyword      string       `xml:"keyword,attr,omitempty"`
	Values       []XMLValue   `xml:"Value,omitempty"`
	Items        []XMLItem    `xml:"Item,omitempty"`
	BulkData     *XMLBulkData `xml:"BulkData,omitempty"`
	InlineBinary string       `xml:"InlineBinary,omitempty"`
}

// XMLValue is one Value element, numbered from 1.
type XMLValue struct {
	Number int    `xml:"number,attr"`
	Text   string `xml:",chardata"`
}

// XMLItem is one sequence item, numbered from 1.
type XMLItem struct {
	Number     int            `xml:"number,attr"`
	Attributes []XMLAttribute `xml:"DicomAttribute"`
}

// XMLBulkData references out-of-band bytes.
type XMLBulkData struct {
	URI string `xml:"uri,attr"`
}

// EncodeXML projects a dataset into its Native DICOM Model shape.
func EncodeXML(ds *dicom.Dataset, opts Options) (*NativeDicomModel, error) {
	attrs, err := encodeXMLAttributes(ds, opts)
	if err != nil {
		return nil, err
	}
	return &NativeDicomModel{Attributes: attrs}, nil
}

// MarshalXML is a convenience over EncodeXML + xml.Marshal, with the XML
// declaration prepended.
func MarshalXML(ds *dicom.Dataset, opts Options) ([]byte, error) {
	model, err := EncodeXML(ds, opts)
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(model, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func encodeXMLAttributes(ds *dicom.Dataset, opts Options) ([]XMLAttribute, error) {
	var out []XMLAttribute
	for _, a := range ds.Attributes() {
		if a.Tag.Element == 0x0000 {
			continue
		}
		xa := XMLAttribute{
			Tag:     a.Tag.String(),
			VR:      string(a.VR),
			Keyword: tag.Keyword(a.Tag),
		}
		switch {
		case a.VR == vr.SQ:
			for i, item := range a.Items() {
				attrs, err := encodeXMLAttributes(item, opts)
				if err != nil {
					return nil, err
				}
				xa.Items = append(xa.Items, XMLItem{Number: i + 1, Attributes: attrs})
			}
		case a.VR.IsBinary():
			raw := rawBytes(a)
			if uri := opts.BulkDataURI; uri != nil && len(raw) > opts.threshold() {
				xa.BulkData = &XMLBulkData{URI: uri(a.Tag)}
			} else if len(raw) > 0 {
				xa.InlineBinary = base64.StdEncoding.EncodeToString(raw)
			}
		default:
			for i, v := range jsonValues(a) {
				xa.Values = append(xa.Values, XMLValue{Number: i + 1, Text: fmt.Sprintf("%v", v)})
			}
		}
		out = append(out, xa)
	}
	return out, nil
}

// DecodeXML ingests a Native DICOM Model document back into a dataset,
// preserving document order. Values are renumbered by their number
// attribute, so a cross-format crossing may reorder but never lose them.
func DecodeXML(model *NativeDicomModel) (*dicom.Dataset, error) {
	return decodeXMLAttributes(model.Attributes)
}

// UnmarshalXML is a convenience over xml.Unmarshal + DecodeXML.
func UnmarshalXML(data []byte) (*dicom.Dataset, error) {
	var model NativeDicomModel
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, err
	}
	return DecodeXML(&model)
}

func decodeXMLAttributes(attrs []XMLAttribute) (*dicom.Dataset, error) {
	ds := dicom.NewDataset()
	for _, xa := range attrs {
		t, err := tag.Parse(strings.ToUpper(xa.Tag))
		if err != nil {
			return nil, fmt.Errorf("bad tag attribute %q: %w", xa.Tag, err)
		}
		a, err := decodeXMLAttribute(t, xa)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", xa.Tag, err)
		}
		if err := ds.Add(a); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func decodeXMLAttribute(t tag.Tag, xa XMLAttribute) (*dicom.Attribute, error) {
	v, ok := vr.Parse(xa.VR)
	if !ok {
		return nil, fmt.Errorf("%w: vr %q", dicom.ErrInvalidValue, xa.VR)
	}
	a := &dicom.Attribute{Tag: t, VR: v}

	switch {
	case xa.InlineBinary != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(xa.InlineBinary))
		if err != nil {
			return nil, fmt.Errorf("%w: InlineBinary: %v", dicom.ErrInvalidValue, err)
		}
		a.Value = raw
	case xa.BulkData != nil:
		a.Value = []byte(nil)
	case v == vr.SQ:
		var items []*dicom.Dataset
		for _, xi := range sortedItems(xa.Items) {
			item, err := decodeXMLAttributes(xi.Attributes)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		a.Value = items
	default:
		values := sortedValues(xa.Values)
		if v.IsString() {
			a.Value = strings.Join(values, "\\")
			break
		}
		if v == vr.AT {
			value, err := parseATValues(values)
			if err != nil {
				return nil, err
			}
			a.Value = value
			break
		}
		anyValues := make([]interface{}, len(values))
		for i, s := range values {
			f, err := parseXMLNumber(s)
			if err != nil {
				return nil, err
			}
			anyValues[i] = f
		}
		value, err := decodeJSONNumbers(v, anyValues)
		if err != nil {
			return nil, err
		}
		a.Value = value
	}
	return a, nil
}

func sortedValues(values []XMLValue) []string {
	out := make([]XMLValue, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	texts := make([]string, len(out))
	for i, v := range out {
		texts[i] = v.Text
	}
	return texts
}

func sortedItems(items []XMLItem) []XMLItem {
	out := make([]XMLItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func parseXMLNumber(s string) (float64, error) {
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%g", &f); err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", dicom.ErrInvalidValue, s)
	}
	return f, nil
}
