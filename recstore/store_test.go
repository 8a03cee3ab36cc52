package recstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

func rec(t *testing.T, key string, v value.Value) *value.Record {
	t.Helper()
	r := value.NewRecord()
	require.NoError(t, r.Insert(key, v))

	return r
}

func TestStore_InsertAndGet(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(0, rec(t, "a", value.NewInt32(1))))
	require.NoError(t, s.Insert(2, rec(t, "b", value.NewInt32(2))))

	require.Equal(t, 2, s.Len())

	r0, ok := s.Get(0)
	require.True(t, ok)
	v, _ := r0.Get("a")
	n, _ := v.Int32()
	require.Equal(t, int32(1), n)

	_, ok = s.Get(1)
	require.False(t, ok, "index 1 is a hole")
}

func TestStore_DuplicateIndexRejectedWithoutMutation(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(0, rec(t, "a", value.NewInt32(1))))

	err := s.Insert(0, rec(t, "a", value.NewInt32(999)))
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindDuplicateIndex))

	r0, _ := s.Get(0)
	v, _ := r0.Get("a")
	n, _ := v.Int32()
	require.Equal(t, int32(1), n, "original record must be untouched")
}

func TestStore_ForEachAscendingIndexOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(5, rec(t, "a", value.NewInt32(5))))
	require.NoError(t, s.Insert(1, rec(t, "a", value.NewInt32(1))))
	require.NoError(t, s.Insert(3, rec(t, "a", value.NewInt32(3))))

	var seen []uint64
	s.ForEach(func(idx uint64, r *value.Record) bool {
		seen = append(seen, idx)
		return true
	})

	require.Equal(t, []uint64{1, 3, 5}, seen)
}

func TestStore_BlankLineHoleScenario(t *testing.T) {
	// A blank line leaves a hole: "a=i:1\n\nb=i:2\n" leaves index 1 absent.
	s := New()
	require.NoError(t, s.Insert(0, rec(t, "a", value.NewInt32(1))))
	require.NoError(t, s.Insert(2, rec(t, "b", value.NewInt32(2))))

	require.Equal(t, []uint64{0, 2}, s.Indices())
	_, ok := s.Get(1)
	require.False(t, ok)
}

func TestStore_EqualDetectsDifference(t *testing.T) {
	a := New()
	require.NoError(t, a.Insert(0, rec(t, "a", value.NewInt32(1))))

	b := New()
	require.NoError(t, b.Insert(0, rec(t, "a", value.NewInt32(2))))

	require.False(t, a.Equal(b))

	c := New()
	require.NoError(t, c.Insert(0, rec(t, "a", value.NewInt32(1))))
	require.True(t, a.Equal(c))
}

func TestStore_ChecksumStableAndSensitive(t *testing.T) {
	a := New()
	require.NoError(t, a.Insert(0, rec(t, "a", value.NewInt32(1))))
	require.NoError(t, a.Insert(1, rec(t, "b", value.NewInt32(2))))

	sum1, err := a.Checksum()
	require.NoError(t, err)

	sum2, err := a.Checksum()
	require.NoError(t, err)
	require.Equal(t, sum1, sum2, "checksum must be deterministic across calls")

	b := New()
	require.NoError(t, b.Insert(0, rec(t, "a", value.NewInt32(1))))
	require.NoError(t, b.Insert(1, rec(t, "b", value.NewInt32(3))))

	sum3, err := b.Checksum()
	require.NoError(t, err)
	require.NotEqual(t, sum1, sum3)
}
