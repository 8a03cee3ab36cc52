package codec

import (
	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

// findMatchingBracket returns the index of the ']' that closes the '[' at
// data[open], scanning quote-aware so that brackets inside quoted strings
// never count (the array grammar is non-recursive, but the raw
// blob and string element kinds still carry quotes that must be skipped).
func findMatchingBracket(data []byte, open int) (int, error) {
	depth := 0
	i := open
	for i < len(data) {
		switch {
		case data[i] == '"':
			_, next, err := parseQuoted(data, i)
			if err != nil {
				return 0, err
			}
			i = next
			continue
		case data[i] == '[':
			depth++
		case data[i] == ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
		i++
	}

	return 0, kverr.At(kverr.KindInvalidFormat, "unterminated array", open)
}

// parseArray parses `[elem,elem,...]` starting at data[pos] == '[' into an
// array Value of the given element kind.
func parseArray(data []byte, pos int, kind value.Kind, cfg *config.Config) (value.Value, int, error) {
	closeIdx, err := findMatchingBracket(data, pos)
	if err != nil {
		return value.Value{}, 0, err
	}

	body := data[pos+1 : closeIdx]
	newPos := closeIdx + 1

	if len(body) == 0 && kind != value.KindRaw {
		return emptyArray(kind), newPos, nil
	}

	elems, err := splitArrayElements(body)
	if err != nil {
		return value.Value{}, 0, err
	}

	val, err := buildArray(elems, kind, cfg)
	if err != nil {
		return value.Value{}, 0, err
	}

	return val, newPos, nil
}

// splitArrayElements splits an array body on top-level commas, skipping
// commas inside quoted elements.
func splitArrayElements(body []byte) ([][]byte, error) {
	var elems [][]byte

	start := 0
	i := 0
	for i < len(body) {
		if body[i] == '"' {
			_, next, err := parseQuoted(body, i)
			if err != nil {
				return nil, err
			}
			i = next
			continue
		}
		if body[i] == ',' {
			elems = append(elems, body[start:i])
			i++
			start = i
			continue
		}
		i++
	}
	elems = append(elems, body[start:])

	return elems, nil
}

func emptyArray(kind value.Kind) value.Value {
	switch kind {
	case value.KindUint8:
		return value.NewUint8Array(nil)
	case value.KindInt16:
		return value.NewInt16Array(nil)
	case value.KindInt32:
		return value.NewInt32Array(nil)
	case value.KindUint32:
		return value.NewUint32Array(nil)
	case value.KindInt64:
		return value.NewInt64Array(nil)
	case value.KindUint64:
		return value.NewUint64Array(nil)
	case value.KindFloat32:
		return value.NewFloat32Array(nil)
	case value.KindFloat64:
		return value.NewFloat64Array(nil)
	case value.KindBool:
		return value.NewBoolArray(nil)
	default:
		return value.NewStringArray(nil)
	}
}

func buildArray(elems [][]byte, kind value.Kind, cfg *config.Config) (value.Value, error) {
	switch kind {
	case value.KindUint8:
		out := make([]uint8, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Uint8()
		}
		return value.NewUint8Array(out), nil

	case value.KindInt16:
		out := make([]int16, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Int16()
		}
		return value.NewInt16Array(out), nil

	case value.KindInt32:
		out := make([]int32, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Int32()
		}
		return value.NewInt32Array(out), nil

	case value.KindUint32:
		out := make([]uint32, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Uint32()
		}
		return value.NewUint32Array(out), nil

	case value.KindInt64:
		out := make([]int64, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Int64()
		}
		return value.NewInt64Array(out), nil

	case value.KindUint64:
		out := make([]uint64, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Uint64()
		}
		return value.NewUint64Array(out), nil

	case value.KindFloat32:
		out := make([]float32, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Float32()
		}
		return value.NewFloat32Array(out), nil

	case value.KindFloat64:
		out := make([]float64, len(elems))
		for i, e := range elems {
			v, _, err := parseNumeric(e, 0, kind)
			if err != nil {
				return value.Value{}, err
			}
			out[i], _ = v.Float64()
		}
		return value.NewFloat64Array(out), nil

	case value.KindBool:
		out := make([]bool, len(elems))
		for i, e := range elems {
			if len(e) == 0 {
				return value.Value{}, kverr.At(kverr.KindInvalidFormat, "empty boolean array element", 0)
			}
			out[i] = e[0] != '0'
		}
		return value.NewBoolArray(out), nil

	case value.KindString:
		out := make([]string, len(elems))
		for i, e := range elems {
			lexeme, _, err := parseQuoted(e, 0)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = unescapeString(lexeme)
		}
		return value.NewStringArray(out), nil

	default:
		return value.Value{}, kverr.At(kverr.KindKindMismatch, "arrays of raw (kind 'r') are not supported by the format", 0)
	}
}
