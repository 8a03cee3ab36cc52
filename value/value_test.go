package value

import (
	"testing"

	"github.com/arloliu/kvon/kverr"
	"github.com/stretchr/testify/require"
)

func TestScalarAccessors(t *testing.T) {
	v := NewInt32(42)
	require.Equal(t, KindInt32, v.Kind())
	require.False(t, v.IsArray())

	got, err := v.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(42), got)

	_, err = v.Int64()
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindKindMismatch))
}

func TestArrayAccessors(t *testing.T) {
	v := NewStringArray([]string{"Alice", "Bob", "Charlie"})
	require.True(t, v.IsArray())

	got, err := v.StringSlice()
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Bob", "Charlie"}, got)

	_, err = v.String()
	require.Error(t, err)
}

func TestNewRawArray_AlwaysFails(t *testing.T) {
	_, err := NewRawArray()
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindKindMismatch))
}

func TestValue_Equal(t *testing.T) {
	require.True(t, NewInt32(5).Equal(NewInt32(5)))
	require.False(t, NewInt32(5).Equal(NewInt32(6)))
	require.False(t, NewInt32(5).Equal(NewInt64(5)))

	require.True(t, NewInt32Array([]int32{1, 2, 3}).Equal(NewInt32Array([]int32{1, 2, 3})))
	require.False(t, NewInt32Array([]int32{1, 2, 3}).Equal(NewInt32Array([]int32{1, 2})))
}

func TestEmptyArrayRoundTripsPerKind(t *testing.T) {
	require.True(t, NewUint8Array(nil).Equal(NewUint8Array([]uint8{})))
	require.True(t, NewStringArray(nil).Equal(NewStringArray([]string{})))
}
