package value

import (
	"fmt"

	"github.com/arloliu/kvon/kverr"
)

// Value is a tagged union holding either a single scalar of one ScalarKind,
// or a homogeneous array of one ScalarKind. The zero Value has Kind ==
// KindInvalid and is never valid inside a Record.
//
// Arrays of KindRaw are explicitly unsupported by the format;
// constructing one returns a KindMismatch error.
type Value struct {
	kind  Kind
	array bool
	data  any
}

// Kind returns the ScalarKind of the value (the element kind, for arrays).
func (v Value) Kind() Kind { return v.kind }

// IsArray reports whether the value holds a homogeneous array rather than a scalar.
func (v Value) IsArray() bool { return v.array }

// IsValid reports whether the value was produced by one of the constructors
// below (as opposed to the zero Value).
func (v Value) IsValid() bool { return v.kind != KindInvalid }

func describe(kind Kind, array bool) string {
	if array {
		return kind.String() + "[]"
	}

	return kind.String()
}

func get[T any](v Value, kind Kind, array bool) (T, error) {
	var zero T
	if v.kind != kind || v.array != array {
		return zero, kverr.New(kverr.KindKindMismatch,
			fmt.Sprintf("value holds %s, not %s", describe(v.kind, v.array), describe(kind, array)))
	}

	t, ok := v.data.(T)
	if !ok {
		return zero, kverr.New(kverr.KindKindMismatch, "internal storage mismatch for "+describe(kind, array))
	}

	return t, nil
}

// --- scalar constructors ---

func NewUint8(v uint8) Value    { return Value{kind: KindUint8, data: v} }
func NewInt16(v int16) Value    { return Value{kind: KindInt16, data: v} }
func NewInt32(v int32) Value    { return Value{kind: KindInt32, data: v} }
func NewUint32(v uint32) Value  { return Value{kind: KindUint32, data: v} }
func NewInt64(v int64) Value    { return Value{kind: KindInt64, data: v} }
func NewUint64(v uint64) Value  { return Value{kind: KindUint64, data: v} }
func NewFloat32(v float32) Value { return Value{kind: KindFloat32, data: v} }
func NewFloat64(v float64) Value { return Value{kind: KindFloat64, data: v} }
func NewBool(v bool) Value      { return Value{kind: KindBool, data: v} }
func NewString(v string) Value  { return Value{kind: KindString, data: v} }

// NewRaw wraps a RawBlob as a Value. The blob may be in either the packed or
// unpacked representational state; both serialize identically.
func NewRaw(b *RawBlob) Value { return Value{kind: KindRaw, data: b} }

// --- array constructors ---

func NewUint8Array(v []uint8) Value   { return Value{kind: KindUint8, array: true, data: v} }
func NewInt16Array(v []int16) Value   { return Value{kind: KindInt16, array: true, data: v} }
func NewInt32Array(v []int32) Value   { return Value{kind: KindInt32, array: true, data: v} }
func NewUint32Array(v []uint32) Value { return Value{kind: KindUint32, array: true, data: v} }
func NewInt64Array(v []int64) Value   { return Value{kind: KindInt64, array: true, data: v} }
func NewUint64Array(v []uint64) Value { return Value{kind: KindUint64, array: true, data: v} }
func NewFloat32Array(v []float32) Value { return Value{kind: KindFloat32, array: true, data: v} }
func NewFloat64Array(v []float64) Value { return Value{kind: KindFloat64, array: true, data: v} }
func NewBoolArray(v []bool) Value     { return Value{kind: KindBool, array: true, data: v} }
func NewStringArray(v []string) Value { return Value{kind: KindString, array: true, data: v} }

// NewRawArray always fails: arrays of KindRaw are not representable in the format.
func NewRawArray() (Value, error) {
	return Value{}, kverr.New(kverr.KindKindMismatch, "arrays of raw (kind 'r') are not supported by the format")
}

// --- scalar accessors ---

func (v Value) Uint8() (uint8, error)   { return get[uint8](v, KindUint8, false) }
func (v Value) Int16() (int16, error)   { return get[int16](v, KindInt16, false) }
func (v Value) Int32() (int32, error)   { return get[int32](v, KindInt32, false) }
func (v Value) Uint32() (uint32, error) { return get[uint32](v, KindUint32, false) }
func (v Value) Int64() (int64, error)   { return get[int64](v, KindInt64, false) }
func (v Value) Uint64() (uint64, error) { return get[uint64](v, KindUint64, false) }
func (v Value) Float32() (float32, error) { return get[float32](v, KindFloat32, false) }
func (v Value) Float64() (float64, error) { return get[float64](v, KindFloat64, false) }
func (v Value) Bool() (bool, error)     { return get[bool](v, KindBool, false) }
func (v Value) String() (string, error) { return get[string](v, KindString, false) }
func (v Value) Raw() (*RawBlob, error)  { return get[*RawBlob](v, KindRaw, false) }

// --- array accessors ---

func (v Value) Uint8Slice() ([]uint8, error)   { return get[[]uint8](v, KindUint8, true) }
func (v Value) Int16Slice() ([]int16, error)   { return get[[]int16](v, KindInt16, true) }
func (v Value) Int32Slice() ([]int32, error)   { return get[[]int32](v, KindInt32, true) }
func (v Value) Uint32Slice() ([]uint32, error) { return get[[]uint32](v, KindUint32, true) }
func (v Value) Int64Slice() ([]int64, error)   { return get[[]int64](v, KindInt64, true) }
func (v Value) Uint64Slice() ([]uint64, error) { return get[[]uint64](v, KindUint64, true) }
func (v Value) Float32Slice() ([]float32, error) { return get[[]float32](v, KindFloat32, true) }
func (v Value) Float64Slice() ([]float64, error) { return get[[]float64](v, KindFloat64, true) }
func (v Value) BoolSlice() ([]bool, error)     { return get[[]bool](v, KindBool, true) }
func (v Value) StringSlice() ([]string, error) { return get[[]string](v, KindString, true) }

// Equal reports deep equality between two values, used by the round-trip
// round-trip property tests.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.array != other.array {
		return false
	}

	if v.kind == KindRaw {
		a, aok := v.data.(*RawBlob)
		b, bok := other.data.(*RawBlob)
		if !aok || !bok {
			return false
		}

		return a.Equal(b)
	}

	if !v.array {
		return v.data == other.data
	}

	return sliceEqual(v.data, other.data)
}

func sliceEqual(a, b any) bool {
	switch av := a.(type) {
	case []uint8:
		bv, ok := b.([]uint8)
		return ok && eqSlice(av, bv)
	case []int16:
		bv, ok := b.([]int16)
		return ok && eqSlice(av, bv)
	case []int32:
		bv, ok := b.([]int32)
		return ok && eqSlice(av, bv)
	case []uint32:
		bv, ok := b.([]uint32)
		return ok && eqSlice(av, bv)
	case []int64:
		bv, ok := b.([]int64)
		return ok && eqSlice(av, bv)
	case []uint64:
		bv, ok := b.([]uint64)
		return ok && eqSlice(av, bv)
	case []float32:
		bv, ok := b.([]float32)
		return ok && eqSlice(av, bv)
	case []float64:
		bv, ok := b.([]float64)
		return ok && eqSlice(av, bv)
	case []bool:
		bv, ok := b.([]bool)
		return ok && eqSlice(av, bv)
	case []string:
		bv, ok := b.([]string)
		return ok && eqSlice(av, bv)
	default:
		return false
	}
}

func eqSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
