// Package codec implements the line parser (C3) and line serializer (C4):
// the hand-rolled, allocation-minimising state machine that turns one
// record line into a *value.Record and back.
package codec

import (
	"strconv"

	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/internal/pool"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

// ParseLine parses a single record line (no trailing newline) into a
// *value.Record, per the line grammar. An empty slice yields an empty
// Record.
func ParseLine(data []byte, cfg *config.Config) (*value.Record, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	rec := value.NewRecordWithCapacity(estimateFieldCount(data))

	pos := 0
	for pos < len(data) {
		key, cursor, err := scanKey(data, pos)
		if err != nil {
			return nil, err
		}

		tag, cursor, err := scanTag(data, cursor)
		if err != nil {
			return nil, err
		}

		kind, err := value.KindFromTag(tag)
		if err != nil {
			return nil, err
		}

		var (
			val    value.Value
			newPos int
		)
		if cursor < len(data) && data[cursor] == '[' {
			val, newPos, err = parseArray(data, cursor, kind, cfg)
		} else {
			val, newPos, err = parseScalar(data, cursor, kind, cfg)
		}
		if err != nil {
			return nil, err
		}

		if err := rec.Insert(key, val); err != nil {
			return nil, err
		}

		pos = newPos
		if pos < len(data) && data[pos] == ',' {
			pos++
			continue
		}

		break
	}

	return rec, nil
}

// estimateFieldCount gives the Record a starting capacity so insertion
// doesn't reallocate for the common case, by counting top-level commas. It
// is a cheap over-estimate (commas inside quoted strings/arrays count too);
// that's fine, it only sizes a slice.
func estimateFieldCount(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	n := 1
	for _, b := range data {
		if b == ',' {
			n++
		}
	}

	return n
}

// scanKey reads the key token up to the next '=' starting at pos.
func scanKey(data []byte, pos int) (key string, newPos int, err error) {
	eq := indexByteFrom(data, pos, '=')
	if eq == -1 {
		return "", 0, kverr.At(kverr.KindInvalidFormat, "missing '=' after key", pos)
	}

	key = string(data[pos:eq])
	if verr := value.ValidateKey(key); verr != nil {
		return "", 0, verr
	}

	return key, eq + 1, nil
}

// scanTag reads the one-byte type tag and the ':' that follows it.
func scanTag(data []byte, pos int) (tag byte, newPos int, err error) {
	if pos+1 >= len(data) || data[pos+1] != ':' {
		return 0, 0, kverr.At(kverr.KindInvalidFormat, "missing type tag or ':'", pos)
	}

	return data[pos], pos + 2, nil
}

func indexByteFrom(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}

	return -1
}

// quoteClosesAt reports whether data[i] is an unescaped '"'
// defines "unescaped" as simply "the immediately preceding byte is not a
// backslash" (not general odd/even backslash-run counting).
func quoteClosesAt(data []byte, i int) bool {
	return data[i] == '"' && (i == 0 || data[i-1] != '\\')
}

// parseQuoted scans a `"..."` lexeme starting at data[pos] == '"' and
// returns the unescaped-delimiter content and the position just past the
// closing quote.
func parseQuoted(data []byte, pos int) (lexeme []byte, newPos int, err error) {
	if pos >= len(data) || data[pos] != '"' {
		return nil, 0, kverr.At(kverr.KindInvalidFormat, "expected opening '\"'", pos)
	}

	for i := pos + 1; i < len(data); i++ {
		if quoteClosesAt(data, i) {
			return data[pos+1 : i], i + 1, nil
		}
	}

	return nil, 0, kverr.At(kverr.KindInvalidFormat, "unterminated quoted string", pos)
}

// parseScalar dispatches on kind to parse a single (non-array) value
// starting at data[pos]. It returns the position just past the value,
// excluding any trailing comma (the caller swallows that).
func parseScalar(data []byte, pos int, kind value.Kind, cfg *config.Config) (value.Value, int, error) {
	switch kind {
	case value.KindBool:
		if pos >= len(data) {
			return value.Value{}, 0, kverr.At(kverr.KindInvalidFormat, "missing boolean value", pos)
		}

		return value.NewBool(data[pos] != '0'), pos + 1, nil

	case value.KindString:
		lexeme, newPos, err := parseQuoted(data, pos)
		if err != nil {
			return value.Value{}, 0, err
		}

		return value.NewString(unescapeString(lexeme)), newPos, nil

	case value.KindRaw:
		lexeme, newPos, err := parseQuoted(data, pos)
		if err != nil {
			return value.Value{}, 0, err
		}

		blob := value.NewRawBlobFromText(string(lexeme))
		if cfg.EagerUnpackRaw {
			if uerr := blob.Unpack(); uerr != nil {
				return value.Value{}, 0, uerr
			}
		}

		return value.NewRaw(blob), newPos, nil

	default:
		return parseNumeric(data, pos, kind)
	}
}

// numericEnd finds the end of a numeric lexeme: up to the first of ',',
// ']', '\r', '\n', or end-of-slice.
func numericEnd(data []byte, pos int) int {
	i := pos
	for i < len(data) {
		switch data[i] {
		case ',', ']', '\r', '\n':
			return i
		}
		i++
	}

	return i
}

func parseNumeric(data []byte, pos int, kind value.Kind) (value.Value, int, error) {
	end := numericEnd(data, pos)
	lexeme := string(data[pos:end])
	if lexeme == "" {
		return value.Value{}, 0, kverr.At(kverr.KindNumericParse, "empty numeric lexeme", pos)
	}

	switch kind {
	case value.KindUint8:
		n, err := strconv.ParseUint(lexeme, 10, 8)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewUint8(uint8(n)), end, nil

	case value.KindInt16:
		n, err := strconv.ParseInt(lexeme, 10, 16)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewInt16(int16(n)), end, nil

	case value.KindInt32:
		n, err := strconv.ParseInt(lexeme, 10, 32)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewInt32(int32(n)), end, nil

	case value.KindUint32:
		n, err := strconv.ParseUint(lexeme, 10, 32)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewUint32(uint32(n)), end, nil

	case value.KindInt64:
		n, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewInt64(n), end, nil

	case value.KindUint64:
		n, err := strconv.ParseUint(lexeme, 10, 64)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewUint64(n), end, nil

	case value.KindFloat32:
		n, err := strconv.ParseFloat(lexeme, 32)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewFloat32(float32(n)), end, nil

	case value.KindFloat64:
		n, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return value.Value{}, 0, numericErr(err, pos)
		}
		return value.NewFloat64(n), end, nil

	default:
		return value.Value{}, 0, kverr.At(kverr.KindUnknownType, "not a numeric kind", pos)
	}
}

func numericErr(cause error, pos int) *kverr.Error {
	e := kverr.At(kverr.KindNumericParse, "failed to parse numeric value: "+cause.Error(), pos)
	e.Err = cause

	return e
}

// unescapeString expands the recognized escape table. If the lexeme
// contains no backslash it is copied verbatim (the hot-path fast case).
// Escape-bearing strings build into a pooled scratch buffer.
func unescapeString(lexeme []byte) string {
	if indexByteFrom(lexeme, 0, '\\') == -1 {
		return string(lexeme)
	}

	buf := pool.GetEscapeBuffer()
	defer pool.PutEscapeBuffer(buf)
	buf.Reset()

	for i := 0; i < len(lexeme); i++ {
		c := lexeme[i]
		if c != '\\' || i+1 >= len(lexeme) {
			buf.B = append(buf.B, c)
			continue
		}

		switch lexeme[i+1] {
		case '"':
			buf.B = append(buf.B, '"')
		case '\\':
			buf.B = append(buf.B, '\\')
		case 'n':
			buf.B = append(buf.B, '\n')
		case 'r':
			buf.B = append(buf.B, '\r')
		case 't':
			buf.B = append(buf.B, '\t')
		case 'b':
			buf.B = append(buf.B, '\b')
		case 'f':
			buf.B = append(buf.B, '\f')
		case '/':
			buf.B = append(buf.B, '/')
		default:
			// Unknown escape: lenient decoder degrades to the escaped byte
			// itself; a deliberate data-loss risk, not a bug.
			buf.B = append(buf.B, lexeme[i+1])
		}
		i++
	}

	out := make([]byte, len(buf.B))
	copy(out, buf.B)

	return string(out)
}
