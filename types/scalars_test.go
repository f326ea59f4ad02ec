package types

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type episode int

func (e episode) String() string { return [...]string{"NEWHOPE", "EMPIRE", "JEDI"}[e] }

func TestBuiltinScalarSerialize(t *testing.T) {
	name := "Leia"
	var nilName *string
	tests := []struct {
		scalar *Scalar
		in     any
		want   any
	}{
		{String, "Luke", "Luke"},
		{String, &name, "Leia"},
		{String, nilName, nil},
		{String, []byte("hi"), "aGk="},
		{String, episode(2), "JEDI"},
		{String, 42, "42"},
		{String, true, "true"},
		{Int, 42, 42},
		{Int, int64(-7), -7},
		{Int, uint8(3), 3},
		{Int, 2.0, 2},
		{Int, true, 1},
		{Float, 1.5, 1.5},
		{Float, float32(0.5), 0.5},
		{Float, 3, 3.0},
		{Boolean, true, true},
		{Boolean, 0, false},
		{ID, "1000", "1000"},
		{ID, 1000, "1000"},
		{ID, uint(7), "7"},
	}
	for _, tt := range tests {
		got, err := tt.scalar.Serialize(tt.in)
		require.NoError(t, err, "%s(%v)", tt.scalar, tt.in)
		require.Equal(t, tt.want, got, "%s(%v)", tt.scalar, tt.in)
	}
}

func TestBuiltinScalarSerializeErrors(t *testing.T) {
	tests := []struct {
		scalar *Scalar
		in     any
		want   string
	}{
		{Int, int64(math.MaxInt32) + 1, "Int cannot represent non 32-bit signed integer value: 2147483648"},
		{Int, uint64(math.MaxUint32), "Int cannot represent non 32-bit signed integer value: 4294967295"},
		{Int, 1.5, "Int cannot represent non-integer value: 1.5"},
		{Int, "12", "Int cannot represent value: 12"},
		{Float, math.NaN(), "Float cannot represent non numeric value: NaN"},
		{Float, "x", "Float cannot represent value: x"},
		{Boolean, "yes", "Boolean cannot represent value: yes"},
		{ID, 1.5, "ID cannot represent value: 1.5"},
		{String, struct{}{}, "String cannot represent value: {}"},
	}
	for _, tt := range tests {
		_, err := tt.scalar.Serialize(tt.in)
		require.EqualError(t, err, tt.want)
	}
}

func TestDateTimeSerialize(t *testing.T) {
	ts := time.Date(2024, 5, 4, 12, 30, 0, 500, time.UTC)
	want := "2024-05-04T12:30:00.0000005Z"

	for _, in := range []any{ts, &ts, timestamppb.New(ts), want} {
		got, err := DateTime.Serialize(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	var nilTime *time.Time
	var nilTimestamp *timestamppb.Timestamp
	for _, in := range []any{nilTime, nilTimestamp} {
		got, err := DateTime.Serialize(in)
		require.NoError(t, err)
		require.Nil(t, got)
	}

	_, err := DateTime.Serialize("not a date")
	require.EqualError(t, err, `DateTime cannot represent value: "not a date"`)
	_, err = DateTime.Serialize(&timestamppb.Timestamp{Seconds: math.MaxInt64})
	require.ErrorContains(t, err, "DateTime cannot represent value")
}

func TestDateTimeSerializeDynamicTimestamp(t *testing.T) {
	md := (&timestamppb.Timestamp{}).ProtoReflect().Descriptor()
	msg := dynamicpb.NewMessage(md)
	msg.Set(md.Fields().ByName("seconds"), protoreflect.ValueOfInt64(1700000000))
	msg.Set(md.Fields().ByName("nanos"), protoreflect.ValueOfInt32(0))

	got, err := DateTime.Serialize(msg)
	require.NoError(t, err)
	require.Equal(t, "2023-11-14T22:13:20Z", got)

	other := dynamicpb.NewMessage(buildDroidDescriptor(t))
	_, err = DateTime.Serialize(other)
	require.EqualError(t, err, "DateTime cannot represent message starwars.Droid")
}

func TestDateTimeParseValue(t *testing.T) {
	got, err := DateTime.ParseValue("2024-05-04T12:30:00+02:00")
	require.NoError(t, err)
	require.True(t, time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC).Equal(got.(time.Time)))

	_, err = DateTime.ParseValue("tomorrow")
	require.ErrorContains(t, err, `DateTime cannot parse "tomorrow"`)
	_, err = DateTime.ParseValue(12)
	require.EqualError(t, err, "DateTime cannot parse value: 12")
}

func TestCustomScalar(t *testing.T) {
	errOdd := errors.New("odd")
	even := MustNewScalar(ScalarConfig{
		Name:        "Even",
		Description: "An even integer.",
		Serialize: func(v any) (any, error) {
			if v.(int)%2 != 0 {
				return nil, errOdd
			}
			return v, nil
		},
	})
	require.Equal(t, "Even", even.Name())
	require.Equal(t, "An even integer.", even.Description())

	got, err := even.Serialize(4)
	require.NoError(t, err)
	require.Equal(t, 4, got)
	_, err = even.Serialize(3)
	require.ErrorIs(t, err, errOdd)

	got, err = even.ParseValue("passthrough")
	require.NoError(t, err)
	require.Equal(t, "passthrough", got)
	got, err = even.Serialize(nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNewScalarErrors(t *testing.T) {
	_, err := NewScalar(ScalarConfig{})
	require.EqualError(t, err, "scalar name is required")

	_, err = NewScalar(ScalarConfig{Name: "Int"})
	require.EqualError(t, err, "Int: cannot redeclare a built-in scalar")
}
