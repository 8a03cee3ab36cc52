package codec

import (
	"strconv"

	"github.com/arloliu/kvon/internal/pool"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

// SerializeRecord renders rec as one record line, field order following
// Record's insertion order, with no trailing newline. The caller
// is responsible for appending the line terminator between records.
func SerializeRecord(rec *value.Record) ([]byte, error) {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)
	buf.Reset()

	first := true
	var rerr error
	rec.ForEach(func(key string, val value.Value) bool {
		if !first {
			buf.B = append(buf.B, ',')
		}
		first = false

		if err := writeField(buf, key, val); err != nil {
			rerr = err
			return false
		}

		return true
	})
	if rerr != nil {
		return nil, rerr
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, nil
}

func writeField(buf *pool.ByteBuffer, key string, val value.Value) error {
	buf.WriteString(key)
	buf.B = append(buf.B, '=', val.Kind().Tag(), ':')

	if val.IsArray() {
		return writeArray(buf, val)
	}

	return writeScalar(buf, val)
}

func writeScalar(buf *pool.ByteBuffer, val value.Value) error {
	switch val.Kind() {
	case value.KindBool:
		b, _ := val.Bool()
		if b {
			buf.B = append(buf.B, '1')
		} else {
			buf.B = append(buf.B, '0')
		}

	case value.KindString:
		s, _ := val.String()
		writeQuotedString(buf, s)

	case value.KindRaw:
		blob, _ := val.Raw()
		blob.Pack()
		text, _ := blob.PackedText()
		buf.B = append(buf.B, '"')
		buf.WriteString(text)
		buf.B = append(buf.B, '"')

	default:
		return writeNumeric(buf, val)
	}

	return nil
}

func writeNumeric(buf *pool.ByteBuffer, val value.Value) error {
	switch val.Kind() {
	case value.KindUint8:
		n, _ := val.Uint8()
		buf.B = strconv.AppendUint(buf.B, uint64(n), 10)
	case value.KindInt16:
		n, _ := val.Int16()
		buf.B = strconv.AppendInt(buf.B, int64(n), 10)
	case value.KindInt32:
		n, _ := val.Int32()
		buf.B = strconv.AppendInt(buf.B, int64(n), 10)
	case value.KindUint32:
		n, _ := val.Uint32()
		buf.B = strconv.AppendUint(buf.B, uint64(n), 10)
	case value.KindInt64:
		n, _ := val.Int64()
		buf.B = strconv.AppendInt(buf.B, n, 10)
	case value.KindUint64:
		n, _ := val.Uint64()
		buf.B = strconv.AppendUint(buf.B, n, 10)
	case value.KindFloat32:
		n, _ := val.Float32()
		buf.B = strconv.AppendFloat(buf.B, float64(n), 'g', -1, 32)
	case value.KindFloat64:
		n, _ := val.Float64()
		buf.B = strconv.AppendFloat(buf.B, n, 'g', -1, 64)
	default:
		return kverr.New(kverr.KindUnknownType, "not a numeric kind")
	}

	return nil
}

// escapeTable[c] is the two-byte escape sequence's second byte for a
// control/structural byte that must never appear literally inside a
// quoted string (`"`, `\`, LF, CR, TAB, BS, FF), 0 if none.
var escapeTable = func() [256]byte {
	var t [256]byte
	t['"'] = '"'
	t['\\'] = '\\'
	t['\n'] = 'n'
	t['\r'] = 'r'
	t['\t'] = 't'
	t['\b'] = 'b'
	t['\f'] = 'f'

	return t
}()

// writeQuotedString appends a `"..."` lexeme for s, escaping structural
// bytes per the two-byte escape table and any other byte below 0x20 as
// `\uXXXX`.
func writeQuotedString(buf *pool.ByteBuffer, s string) {
	buf.B = append(buf.B, '"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc := escapeTable[c]; esc != 0 {
			buf.B = append(buf.B, '\\', esc)
			continue
		}

		if c < 0x20 {
			buf.WriteString("\\u00")
			const hex = "0123456789ABCDEF"
			buf.B = append(buf.B, hex[c>>4], hex[c&0xF])
			continue
		}

		buf.B = append(buf.B, c)
	}

	buf.B = append(buf.B, '"')
}

func writeArray(buf *pool.ByteBuffer, val value.Value) error {
	buf.B = append(buf.B, '[')

	n, err := arrayLen(val)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if i > 0 {
			buf.B = append(buf.B, ',')
		}
		if err := writeArrayElem(buf, val, i); err != nil {
			return err
		}
	}

	buf.B = append(buf.B, ']')

	return nil
}

func arrayLen(val value.Value) (int, error) {
	switch val.Kind() {
	case value.KindUint8:
		s, _ := val.Uint8Slice()
		return len(s), nil
	case value.KindInt16:
		s, _ := val.Int16Slice()
		return len(s), nil
	case value.KindInt32:
		s, _ := val.Int32Slice()
		return len(s), nil
	case value.KindUint32:
		s, _ := val.Uint32Slice()
		return len(s), nil
	case value.KindInt64:
		s, _ := val.Int64Slice()
		return len(s), nil
	case value.KindUint64:
		s, _ := val.Uint64Slice()
		return len(s), nil
	case value.KindFloat32:
		s, _ := val.Float32Slice()
		return len(s), nil
	case value.KindFloat64:
		s, _ := val.Float64Slice()
		return len(s), nil
	case value.KindBool:
		s, _ := val.BoolSlice()
		return len(s), nil
	case value.KindString:
		s, _ := val.StringSlice()
		return len(s), nil
	default:
		return 0, kverr.New(kverr.KindKindMismatch, "arrays of raw (kind 'r') are not supported by the format")
	}
}

func writeArrayElem(buf *pool.ByteBuffer, val value.Value, i int) error {
	switch val.Kind() {
	case value.KindUint8:
		s, _ := val.Uint8Slice()
		buf.B = strconv.AppendUint(buf.B, uint64(s[i]), 10)
	case value.KindInt16:
		s, _ := val.Int16Slice()
		buf.B = strconv.AppendInt(buf.B, int64(s[i]), 10)
	case value.KindInt32:
		s, _ := val.Int32Slice()
		buf.B = strconv.AppendInt(buf.B, int64(s[i]), 10)
	case value.KindUint32:
		s, _ := val.Uint32Slice()
		buf.B = strconv.AppendUint(buf.B, uint64(s[i]), 10)
	case value.KindInt64:
		s, _ := val.Int64Slice()
		buf.B = strconv.AppendInt(buf.B, s[i], 10)
	case value.KindUint64:
		s, _ := val.Uint64Slice()
		buf.B = strconv.AppendUint(buf.B, s[i], 10)
	case value.KindFloat32:
		s, _ := val.Float32Slice()
		buf.B = strconv.AppendFloat(buf.B, float64(s[i]), 'g', -1, 32)
	case value.KindFloat64:
		s, _ := val.Float64Slice()
		buf.B = strconv.AppendFloat(buf.B, s[i], 'g', -1, 64)
	case value.KindBool:
		s, _ := val.BoolSlice()
		if s[i] {
			buf.B = append(buf.B, '1')
		} else {
			buf.B = append(buf.B, '0')
		}
	case value.KindString:
		s, _ := val.StringSlice()
		writeQuotedString(buf, s[i])
	default:
		return kverr.New(kverr.KindKindMismatch, "arrays of raw (kind 'r') are not supported by the format")
	}

	return nil
}
