// Package z85 implements the Base-85 byte/text codec used to carry opaque
// binary payloads (the kvon 'r' scalar kind) inside the otherwise-textual
// wire format.
//
// This is a variant of ZeroMQ's Z85 (itself RFC1924-adjacent): four input
// bytes map to five output characters from an 85-character alphabet. Unlike
// classic Z85, which requires the input length to be a multiple of 4, this
// variant appends a single trailing padding-marker character ('1', '2' or
// '3') when the input length is not a multiple of 4, so arbitrary byte
// lengths round-trip. The encode/decode-chunk shape is grounded
// on the RFC1924 base85 codec in the kitty terminal's tools/utils/base85
// package, adapted to this format's alphabet and padding rule.
package z85

import "github.com/arloliu/kvon/kverr"

// alphabet is the 85-character table, index 0..84, used for encoding.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#"

// decodeTable maps byte-32..byte-127 to their alphabet index; 0xff marks an
// invalid character. Built once at package init.
var decodeTable = func() [96]byte {
	var t [96]byte
	for i := range t {
		t[i] = 0xff
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]-32] = byte(i)
	}

	return t
}()

func decodeChar(c byte) (byte, bool) {
	if c < 32 || c > 127 {
		return 0, false
	}

	v := decodeTable[c-32]

	return v, v != 0xff
}

// Encode converts arbitrary bytes to Z85 text. The empty input produces the
// empty string with no padding marker.
func Encode(data []byte) string {
	n := len(data)
	if n == 0 {
		return ""
	}

	padding := (4 - n%4) % 4
	fullBlocks := n / 4
	outLen := (fullBlocks) * 5
	if padding > 0 {
		outLen += 5 + 1
	}

	out := make([]byte, 0, outLen)
	for i := 0; i < fullBlocks; i++ {
		v := uint32(data[i*4])<<24 | uint32(data[i*4+1])<<16 | uint32(data[i*4+2])<<8 | uint32(data[i*4+3])
		out = appendBlock(out, v)
	}

	if padding > 0 {
		tail := data[fullBlocks*4:]
		var v uint32
		switch len(tail) {
		case 3:
			v = uint32(tail[0])<<24 | uint32(tail[1])<<16 | uint32(tail[2])<<8
		case 2:
			v = uint32(tail[0])<<24 | uint32(tail[1])<<16
		case 1:
			v = uint32(tail[0]) << 24
		}
		out = appendBlock(out, v)
		out = append(out, '0'+byte(padding))
	}

	return string(out)
}

func appendBlock(out []byte, v uint32) []byte {
	var chars [5]byte
	for i := 4; i >= 0; i-- {
		chars[i] = alphabet[v%85]
		v /= 85
	}

	return append(out, chars[:]...)
}

// Decode converts Z85 text back to its original bytes. Returns a
// KindInvalidZ85 error if the text contains a character outside the
// alphabet or has an invalid length.
func Decode(text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}

	padding := byte(0)
	payload := text
	last := text[len(text)-1]
	// Only padded output has a length of 5k+1; an unpadded payload may
	// legitimately end in '1'..'3'.
	if len(text)%5 == 1 && last >= '1' && last <= '3' {
		padding = last - '0'
		payload = text[:len(text)-1]
	}

	if len(payload)%5 != 0 {
		return nil, kverr.New(kverr.KindInvalidZ85, "Z85 payload length is not a multiple of 5")
	}

	groups := len(payload) / 5
	out := make([]byte, 0, groups*4)
	for g := 0; g < groups; g++ {
		var v uint32
		for j := 0; j < 5; j++ {
			d, ok := decodeChar(payload[g*5+j])
			if !ok {
				return nil, kverr.At(kverr.KindInvalidZ85, "invalid Z85 character", g*5+j)
			}
			v = v*85 + uint32(d)
		}
		out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}

	if padding > 0 {
		if int(padding) > len(out) {
			return nil, kverr.New(kverr.KindInvalidZ85, "padding marker exceeds decoded length")
		}
		out = out[:len(out)-int(padding)]
	}

	return out, nil
}
