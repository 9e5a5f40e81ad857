package bench

import (
	"bytes"
	"math"
	"net"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDecoderRender(t *testing.T) {
	dec := NewDecoder(DecoderConfig{})
	cases := []struct {
		name string
		in   ColumnValue
		want string
	}{
		{"text", Text("hello, world"), "hello, world"},
		{"bigint", BigInt(-9223372036854775808), "-9223372036854775808"},
		{"timestamp", Timestamp(1700000000123), "1700000000123"},
		{"int", Int(-42), "-42"},
		{"float", Float(1.5), "1.500000"},
		{"double", Double(123456789.125), "123456789.125000"},
		{"tiny negative double", Double(-0.0000004), "-0.000000"},
		{"nan", Double(math.NaN()), "nan"},
		{"inf", Float(float32(math.Inf(-1))), "-inf"},
		{"true", Bool(true), "1"},
		{"false", Bool(false), "0"},
		{"uuid", UUID{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}, "123e4567-e89b-12d3-a456-426614174000"},
		{"inet v4", Inet(net.IPv4(10, 0, 0, 1)), "10.0.0.1"},
		{"inet v6", Inet(net.ParseIP("2001:db8::1")), "2001:db8::1"},
		{"blob is raw", Bytes{0x61, 0x00, 0x62}, "a\x00b"},
		{"null", Null{}, ""},
		{"unsupported", Unsupported{TypeName: "duration"}, ""},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(dec.Render(tc.in)))
		})
	}
	assert.Zero(t, dec.Overflows())
}

func TestDecoderOverflowRendersEmpty(t *testing.T) {
	dec := NewDecoder(DecoderConfig{CellSize: 8})

	assert.Equal(t, "1234567", string(dec.Render(Text("1234567"))))
	assert.Empty(t, dec.Render(Text("12345678")))
	assert.Empty(t, dec.Render(Bytes("123456789")))
	assert.Empty(t, dec.Render(BigInt(-12345678)))
	assert.Equal(t, "1", string(dec.Render(Bool(true))))
	assert.Equal(t, int64(3), dec.Overflows())
}

func TestCellBufferNeverExceedsCapacity(t *testing.T) {
	buf := NewCellBuffer(4)
	dec := NewDecoder(DecoderConfig{})

	assert.True(t, dec.RenderTo(Text("abc"), buf))
	assert.Equal(t, "abc", buf.String())
	assert.False(t, dec.RenderTo(Text("abcd"), buf))
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 4, buf.Cap())
}

func TestProperty_TextRendering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("text shorter than the cell round-trips, longer renders empty", prop.ForAll(
		func(cellSize int, b []byte) bool {
			dec := NewDecoder(DecoderConfig{CellSize: cellSize})
			got := dec.Render(Text(b))
			if len(b) <= cellSize-1 {
				return bytes.Equal(got, b)
			}
			return len(got) == 0
		},
		gen.IntRange(1, 64),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
