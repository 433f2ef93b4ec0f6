package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

func roundTrip(t *testing.T, v types.FieldValue) types.FieldValue {
	t.Helper()
	w := binary.NewWriter()
	require.NoError(t, EncodeFieldValue(w, v))
	r := binary.NewReader(w.Bytes())
	tag, err := r.ReadTag()
	require.NoError(t, err)
	out, err := DecodeFieldValue(r, tag)
	require.NoError(t, err)
	return out
}

func TestFieldValueRoundTripScalars(t *testing.T) {
	cases := []types.FieldValue{
		types.Null(),
		types.JsonNull(),
		types.Empty(),
		types.Int(42),
		types.Long(1 << 40),
		types.Double(3.5),
		types.Bool(true),
		types.Str("hello"),
		types.Binary([]byte{1, 2, 3}),
		types.Number("12345678901234567890.5"),
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		require.True(t, c.Equal(got), "tag=%v", c.Tag())
	}
}

func TestFieldValueRoundTripTimestampTruncatesToMillis(t *testing.T) {
	ts := types.Timestamp(time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC))
	got := roundTrip(t, ts)
	require.Equal(t, int64(123), int64(got.AsTimestamp().Nanosecond()/1_000_000))
}

func TestFieldValueRoundTripNestedMapAndArray(t *testing.T) {
	v := types.NewMap().
		Put("name", types.Str("alice")).
		Put("tags", types.Array(types.Str("a"), types.Str("b"))).
		Put("address", types.NewMap().Put("city", types.Str("nyc")))

	got := roundTrip(t, v)
	require.True(t, v.Equal(got))
}

func TestMapReaderSkipsUnknownFields(t *testing.T) {
	w := binary.NewWriter()
	w.StartMap()
	w.WriteFieldName("zz") // not in the field-token registry
	w.WriteString("ignored")
	w.WriteFieldName(FRowVersion)
	w.WriteBinary([]byte{9, 9})
	w.EndMap()

	r := binary.NewReader(w.Bytes())
	tag, err := r.ReadTag()
	require.NoError(t, err)
	mr, err := ReadMap(r, tag)
	require.NoError(t, err)

	var version []byte
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FRowVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			version = b
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9}, version)
}
