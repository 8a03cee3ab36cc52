package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

func TestParseLine_MixedScalars(t *testing.T) {
	line := `id=i:42,name=s:"test",price=f:99.99,active=b:1`
	rec, err := ParseLine([]byte(line), nil)
	require.NoError(t, err)

	id, err := must(rec, "id")
	require.NoError(t, err)
	n, _ := id.Int32()
	require.Equal(t, int32(42), n)

	name, err := must(rec, "name")
	require.NoError(t, err)
	s, _ := name.String()
	require.Equal(t, "test", s)

	price, err := must(rec, "price")
	require.NoError(t, err)
	f, _ := price.Float32()
	require.InDelta(t, 99.99, f, 0.001)

	active, err := must(rec, "active")
	require.NoError(t, err)
	b, _ := active.Bool()
	require.True(t, b)
}

func must(rec *value.Record, key string) (value.Value, error) {
	v, ok := rec.Get(key)
	if !ok {
		return value.Value{}, kverr.ForKey(kverr.KindInvalidFormat, "missing key in test fixture", key)
	}

	return v, nil
}

func TestParseLine_Arrays(t *testing.T) {
	line := `numbers=i:[1,2,3,4,5],names=s:["Alice","Bob","Charlie"]`
	rec, err := ParseLine([]byte(line), nil)
	require.NoError(t, err)

	nv, ok := rec.Get("numbers")
	require.True(t, ok)
	nums, err := nv.Int32Slice()
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3, 4, 5}, nums)

	sv, ok := rec.Get("names")
	require.True(t, ok)
	names, err := sv.StringSlice()
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Bob", "Charlie"}, names)
}

func TestParseLine_EscapedString(t *testing.T) {
	line := `msg=s:"Hello \"World\"\nNew line\tTab\\Backslash"`
	rec, err := ParseLine([]byte(line), nil)
	require.NoError(t, err)

	v, ok := rec.Get("msg")
	require.True(t, ok)
	s, _ := v.String()
	require.Equal(t, "Hello \"World\"\nNew line\tTab\\Backslash", s)
}

func TestParseLine_BareUnknownEscapeDegradesToLiteral(t *testing.T) {
	line := append([]byte(`v=s:"`), '\\', 'u', '0', '0', '0', '1', '"')
	rec, err := ParseLine(line, nil)
	require.NoError(t, err)

	v, _ := rec.Get("v")
	s, _ := v.String()
	require.Equal(t, "u0001", s)
}

func TestParseLine_EmptyLineYieldsEmptyRecord(t *testing.T) {
	rec, err := ParseLine([]byte(""), nil)
	require.NoError(t, err)
	require.Equal(t, 0, rec.Len())
}

func TestParseLine_EmptyArrayEveryKind(t *testing.T) {
	for _, tc := range []struct {
		tag byte
		kind value.Kind
	}{
		{'e', value.KindUint8}, {'t', value.KindInt16}, {'i', value.KindInt32},
		{'u', value.KindUint32}, {'l', value.KindInt64}, {'g', value.KindUint64},
		{'f', value.KindFloat32}, {'d', value.KindFloat64}, {'b', value.KindBool},
		{'s', value.KindString},
	} {
		line := "v=" + string(tc.tag) + ":[]"
		rec, err := ParseLine([]byte(line), nil)
		require.NoError(t, err, tc.kind)

		v, ok := rec.Get("v")
		require.True(t, ok)
		require.True(t, v.IsArray())
		require.Equal(t, tc.kind, v.Kind())
	}
}

func TestParseLine_RawBlob(t *testing.T) {
	rec, err := ParseLine([]byte(`data=r:"HelloWorld"`), nil)
	require.NoError(t, err)

	v, ok := rec.Get("data")
	require.True(t, ok)

	blob, err := v.Raw()
	require.NoError(t, err)
	require.True(t, blob.IsPacked())

	text, ok := blob.PackedText()
	require.True(t, ok)
	require.Equal(t, "HelloWorld", text)
}

func TestParseLine_EagerUnpackRaw(t *testing.T) {
	cfg, err := config.Apply(config.WithEagerUnpackRaw(true))
	require.NoError(t, err)

	rec, err := ParseLine([]byte(`data=r:"HelloWorld"`), cfg)
	require.NoError(t, err)

	v, _ := rec.Get("data")
	blob, _ := v.Raw()
	require.True(t, blob.IsUnpacked() || blob.IsEmpty())
}

func TestParseLine_NumericExtremes(t *testing.T) {
	rec, err := ParseLine([]byte("v=e:255"), nil)
	require.NoError(t, err)
	v, _ := rec.Get("v")
	n, _ := v.Uint8()
	require.Equal(t, uint8(255), n)

	_, err = ParseLine([]byte("v=e:256"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindNumericParse))
}

func TestParseLine_MissingEquals(t *testing.T) {
	_, err := ParseLine([]byte("idi:42"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindInvalidFormat))
}

func TestParseLine_UnknownTypeTag(t *testing.T) {
	_, err := ParseLine([]byte("v=z:1"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindUnknownType))
}

func TestParseLine_UnterminatedQuote(t *testing.T) {
	_, err := ParseLine([]byte(`v=s:"unterminated`), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindInvalidFormat))
}

func TestParseLine_UnmatchedBracket(t *testing.T) {
	_, err := ParseLine([]byte("v=i:[1,2,3"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindInvalidFormat))
}

func TestParseLine_DuplicateKeyRejectedWithoutMutation(t *testing.T) {
	_, err := ParseLine([]byte("v=i:1,v=i:2"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindDuplicateKey))
}

func TestParseLine_InvalidKey(t *testing.T) {
	_, err := ParseLine([]byte("bad key=i:1"), nil)
	require.Error(t, err)
	require.True(t, kverr.Is(err, kverr.KindInvalidKey))
}
