// Package value implements the kvon data model: ScalarKind, Value and Record.
package value

import "github.com/arloliu/kvon/kverr"

// Kind is the closed enumeration of scalar types the format can carry. Each
// kind has a single-character wire tag.
type Kind uint8

const (
	// KindInvalid is the zero value and is never a valid wire tag.
	KindInvalid Kind = iota
	KindUint8         // tag 'e'
	KindInt16         // tag 't'
	KindInt32         // tag 'i'
	KindUint32        // tag 'u'
	KindInt64         // tag 'l'
	KindUint64        // tag 'g'
	KindFloat32       // tag 'f'
	KindFloat64       // tag 'd'
	KindBool          // tag 'b'
	KindString        // tag 's'
	KindRaw           // tag 'r'
)

// Tag returns the single-byte wire tag for the kind.
func (k Kind) Tag() byte {
	switch k {
	case KindUint8:
		return 'e'
	case KindInt16:
		return 't'
	case KindInt32:
		return 'i'
	case KindUint32:
		return 'u'
	case KindInt64:
		return 'l'
	case KindUint64:
		return 'g'
	case KindFloat32:
		return 'f'
	case KindFloat64:
		return 'd'
	case KindBool:
		return 'b'
	case KindString:
		return 's'
	case KindRaw:
		return 'r'
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether the kind is one of the eight numeric kinds.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindUint8, KindInt16, KindInt32, KindUint32, KindInt64, KindUint64, KindFloat32, KindFloat64:
		return true
	default:
		return false
	}
}

// kindByTag maps a wire tag byte to its Kind; zero value means "not found".
var kindByTag = func() [256]Kind {
	var m [256]Kind
	for k := KindUint8; k <= KindRaw; k++ {
		m[k.Tag()] = k
	}
	return m
}()

// KindFromTag resolves a wire tag byte into a Kind.
func KindFromTag(tag byte) (Kind, error) {
	k := kindByTag[tag]
	if k == KindInvalid {
		return KindInvalid, kverr.New(kverr.KindUnknownType, "unrecognized type tag '"+string(tag)+"'")
	}

	return k, nil
}
