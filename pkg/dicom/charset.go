package dicom

import "unicode/utf8"

// decodeText maps raw character-VR bytes to a Go string according to
// SpecificCharacterSet. ASCII and ISO-IR 100 (Latin-1) are interpreted;
// unknown character sets degrade to UTF-8 rather than failing the decode.
func decodeText(charset string, data []byte) string {
	switch charset {
	case "", "ISO_IR 6", "ISO 2022 IR 6":
		return string(data)
	case "ISO_IR 100", "ISO 2022 IR 100":
		return latin1ToUTF8(data)
	case "ISO_IR 192":
		return string(data)
	default:
		if utf8.Valid(data) {
			return string(data)
		}
		return latin1ToUTF8(data)
	}
}

func latin1ToUTF8(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
