package dicom

import "errors"

// Decode and lookup error taxonomy. Decoders never panic on malformed
// input; they return one of these, wrapped with positional context.
var (
	// ErrTruncated means the input ended inside an attribute. Fatal to the
	// current decode, not to a scan.
	ErrTruncated = errors.New("truncated input")

	// ErrBadMagic means the buffer has no DICOM preamble and does not look
	// like a raw dataset either. Files failing this way are silently
	// skipped during scanning.
	ErrBadMagic = errors.New("not a DICOM file")

	// ErrUnsupportedTransferSyntax names a transfer syntax the decoder
	// cannot fully interpret. The reader does not return it: header parsing
	// continues as Explicit VR Little Endian, pixel data is kept opaque and
	// the dataset's OpaquePixelData flag is set instead.
	ErrUnsupportedTransferSyntax = errors.New("unsupported transfer syntax")

	// ErrUnexpectedTag means a sequence or fragment run contained a tag
	// that is not legal at that point.
	ErrUnexpectedTag = errors.New("unexpected tag")

	// ErrOddLength means a VR requiring even-length values carried an odd
	// length.
	ErrOddLength = errors.New("odd value length")

	// ErrLengthOverflow means a length does not fit where it is used: above
	// 2^31-1 when decoding, undefined for an encapsulated fragment, or over
	// 0xFFFF under a short-length VR when encoding. A length that merely
	// runs past the end of the buffer is ErrTruncated.
	ErrLengthOverflow = errors.New("value length overflow")

	// ErrInvalidValue means a value violates its VR's encoding rules.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDuplicateTag means a dataset contained the same tag twice.
	ErrDuplicateTag = errors.New("duplicate tag in dataset")

	// ErrTagNotFound is returned by dataset and instance lookups.
	ErrTagNotFound = errors.New("tag not found")
)
