package value

import (
	"testing"

	"github.com/arloliu/kvon/kverr"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	require.NoError(t, ValidateKey("valid_key-1"))
	require.Error(t, ValidateKey(""))

	err := ValidateKey("bad key")
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindInvalidKey))
}

func TestRecord_InsertAndGet(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Insert("id", NewInt32(42)))
	require.NoError(t, r.Insert("name", NewString("test")))

	v, ok := r.Get("id")
	require.True(t, ok)
	got, err := v.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(42), got)

	_, ok = r.Get("missing")
	require.False(t, ok)
}

func TestRecord_DuplicateKeyRejected(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Insert("id", NewInt32(1)))

	err := r.Insert("id", NewInt32(2))
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindDuplicateKey))

	// state must be unmutated
	v, _ := r.Get("id")
	got, _ := v.Int32()
	require.Equal(t, int32(1), got)
	require.Equal(t, 1, r.Len())
}

func TestRecord_PreservesInsertionOrder(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Insert("c", NewBool(true)))
	require.NoError(t, r.Insert("a", NewBool(false)))
	require.NoError(t, r.Insert("b", NewBool(true)))

	require.Equal(t, []string{"c", "a", "b"}, r.Keys())
}

func TestRecord_Equal(t *testing.T) {
	a := NewRecord()
	_ = a.Insert("x", NewInt32(1))
	b := NewRecord()
	_ = b.Insert("x", NewInt32(1))
	require.True(t, a.Equal(b))

	c := NewRecord()
	_ = c.Insert("x", NewInt32(2))
	require.False(t, a.Equal(c))
}

func TestEmptyRecord(t *testing.T) {
	r := NewRecord()
	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Keys())
}
