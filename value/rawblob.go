package value

import "github.com/arloliu/kvon/z85"

// RawBlob models the 'r' scalar kind: an opaque binary payload that on the
// wire is Z85-encoded text, and in memory holds either raw bytes or encoded
// text as ground truth, never both. It is a three-state tagged
// variant (Empty, Packed, Unpacked) rather than two nullable fields, per the
// a known porting hazard across implementations with different string types.
type rawBlobState uint8

const (
	rawEmpty rawBlobState = iota
	rawPacked
	rawUnpacked
)

type RawBlob struct {
	state rawBlobState
	text  string // Z85-encoded form, valid when state == rawPacked
	bytes []byte // raw bytes, valid when state == rawUnpacked
}

// NewRawBlobFromBytes creates an unpacked RawBlob from raw bytes.
func NewRawBlobFromBytes(b []byte) *RawBlob {
	if len(b) == 0 {
		return &RawBlob{state: rawEmpty}
	}

	return &RawBlob{state: rawUnpacked, bytes: b}
}

// NewRawBlobFromText creates a packed RawBlob from its Z85-encoded text form.
// The text is not validated here; validation happens on Unpack.
func NewRawBlobFromText(text string) *RawBlob {
	if text == "" {
		return &RawBlob{state: rawEmpty}
	}

	return &RawBlob{state: rawPacked, text: text}
}

// IsEmpty reports whether the blob holds no data in either representation.
func (b *RawBlob) IsEmpty() bool { return b.state == rawEmpty }

// IsPacked reports whether the blob's ground truth is currently Z85 text.
func (b *RawBlob) IsPacked() bool { return b.state == rawPacked }

// IsUnpacked reports whether the blob's ground truth is currently raw bytes.
func (b *RawBlob) IsUnpacked() bool { return b.state == rawUnpacked }

// PackedText returns the Z85-encoded text if the blob is currently packed.
func (b *RawBlob) PackedText() (string, bool) {
	if b.state != rawPacked {
		return "", false
	}

	return b.text, true
}

// UnpackedBytes returns the raw bytes if the blob is currently unpacked.
func (b *RawBlob) UnpackedBytes() ([]byte, bool) {
	if b.state != rawUnpacked {
		return nil, false
	}

	return b.bytes, true
}

// Equal compares two RawBlobs by their logical content: two blobs are equal
// if they hold the same bytes, regardless of which representation each is
// currently in. Two empty blobs are equal.
func (b *RawBlob) Equal(other *RawBlob) bool {
	if b == nil || other == nil {
		return b == other
	}

	ab, aok := b.asBytesNoMutate()
	bb, bok := other.asBytesNoMutate()
	if aok != bok {
		return false
	}
	if !aok {
		return true // both empty
	}
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}

	return true
}

// asBytesNoMutate returns the blob's content as bytes without changing its
// state, decoding Z85 text on the fly if necessary. Used by Equal, which
// must not have observable side effects.
func (b *RawBlob) asBytesNoMutate() ([]byte, bool) {
	switch b.state {
	case rawEmpty:
		return nil, false
	case rawUnpacked:
		return b.bytes, true
	case rawPacked:
		decoded, err := z85.Decode(b.text)
		if err != nil {
			return nil, false
		}

		return decoded, true
	default:
		return nil, false
	}
}

// Pack moves the blob from the unpacked (bytes) state to the packed (Z85
// text) state. It is a no-op on an already-packed or empty blob — both are
// idempotent on their respective target states.
func (b *RawBlob) Pack() {
	if b.state != rawUnpacked {
		return
	}

	b.text = z85.Encode(b.bytes)
	b.bytes = nil
	b.state = rawPacked
}

// Unpack moves the blob from the packed (Z85 text) state to the unpacked
// (bytes) state, decoding the Z85 text. It is a no-op on an already-unpacked
// or empty blob. Returns a KindInvalidZ85 error if the text is malformed.
func (b *RawBlob) Unpack() error {
	if b.state != rawPacked {
		return nil
	}

	decoded, err := z85.Decode(b.text)
	if err != nil {
		return err
	}

	b.bytes = decoded
	b.text = ""
	b.state = rawUnpacked

	return nil
}
