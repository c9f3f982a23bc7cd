package encode_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/encode"
	"github.com/cisco/gse/types"
)

func dataBufferOf(t *testing.T, octets ...byte) *encio.DataBuffer {
	t.Helper()
	buff, err := encio.NewDataBufferFrom(octets, len(octets))
	if err != nil {
		t.Fatal(err)
	}
	return buff
}

func TestReadVarUint(t *testing.T) {
	testCases := []types.VarUint{
		0, 1, 63, 64, 127, 128, 8191, 8192, 16383, 16384,
		1048575, 2097151, 2097152, 1<<32 - 1, 1 << 32, 1<<64 - 1,
	}

	ser := encode.Serializer{}
	des := encode.Deserializer{}

	for _, tC := range testCases {
		t.Run(fmt.Sprint(tC), func(t *testing.T) {
			buff := encio.NewDataBuffer(16)

			written, err := ser.WriteVarUint(buff, tC)
			if err != nil {
				t.Fatal(err)
			}

			v, read, err := des.ReadVarUint(buff)
			if err != nil {
				t.Fatal(err)
			}
			if v != tC {
				t.Fatalf("wrong value, wanted %v, got %v", tC, v)
			}
			if read != written {
				t.Fatalf("read %v bytes but wrote %v", read, written)
			}
		})
	}
}

// The decoder accepts wider shapes than the value needed; third parties
// may emit them even though this encoder never does.
func TestReadVarUintOversized(t *testing.T) {
	des := encode.Deserializer{}

	testCases := []struct {
		octets []byte
		value  types.VarUint
	}{
		{[]byte{0x80, 0x05}, 5},
		{[]byte{0xc0, 0x00, 0x05}, 5},
		{[]byte{0xe1, 0x00, 0x00, 0x00, 0x05}, 5},
		{[]byte{0xe2, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05}, 5},
	}

	for _, tC := range testCases {
		t.Run(fmt.Sprintf("% x", tC.octets), func(t *testing.T) {
			buff := dataBufferOf(t, tC.octets...)

			v, read, err := des.ReadVarUint(buff)
			if err != nil {
				t.Fatal(err)
			}
			if v != tC.value {
				t.Fatalf("wrong value, wanted %v, got %v", tC.value, v)
			}
			if read != len(tC.octets) {
				t.Fatalf("read %v bytes of %v", read, len(tC.octets))
			}
		})
	}
}

func TestReadVarUintMalformed(t *testing.T) {
	des := encode.Deserializer{}

	for _, first := range []byte{0xe0, 0xe3, 0xef, 0xff} {
		t.Run(fmt.Sprintf("%#02x", first), func(t *testing.T) {
			buff := dataBufferOf(t, first, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)

			_, _, err := des.ReadVarUint(buff)
			if !errors.Is(err, encio.ErrMalformed) {
				t.Fatalf("wanted ErrMalformed, got %v", err)
			}
		})
	}
}

func TestReadVarInt(t *testing.T) {
	testCases := []types.VarInt{
		0, 1, -1, 63, -64, 64, -65, 8191, -8192, 8192, -8193,
		1048575, -1048576, 1048576, -1048577,
		1<<31 - 1, -(1 << 31), 1 << 31, -(1<<31 + 1),
		math.MaxInt64, math.MinInt64,
	}

	ser := encode.Serializer{}
	des := encode.Deserializer{}

	for _, tC := range testCases {
		t.Run(fmt.Sprint(tC), func(t *testing.T) {
			buff := encio.NewDataBuffer(16)

			written, err := ser.WriteVarInt(buff, tC)
			if err != nil {
				t.Fatal(err)
			}

			v, read, err := des.ReadVarInt(buff)
			if err != nil {
				t.Fatal(err)
			}
			if v != tC {
				t.Fatalf("wrong value, wanted %v, got %v", tC, v)
			}
			if read != written {
				t.Fatalf("read %v bytes but wrote %v", read, written)
			}
		})
	}
}

// Sign extension applies at every payload width.
func TestReadVarIntOversized(t *testing.T) {
	des := encode.Deserializer{}

	testCases := []struct {
		octets []byte
		value  types.VarInt
	}{
		{[]byte{0xbf, 0xff}, -1},
		{[]byte{0xdf, 0xff, 0xff}, -1},
		{[]byte{0xe1, 0xff, 0xff, 0xff, 0xff}, -1},
		{[]byte{0xe2, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, -1},
	}

	for _, tC := range testCases {
		t.Run(fmt.Sprintf("% x", tC.octets), func(t *testing.T) {
			buff := dataBufferOf(t, tC.octets...)

			v, _, err := des.ReadVarInt(buff)
			if err != nil {
				t.Fatal(err)
			}
			if v != tC.value {
				t.Fatalf("wrong value, wanted %v, got %v", tC.value, v)
			}
		})
	}
}

func TestReadFixedWidthRoundTrip(t *testing.T) {
	ser := encode.Serializer{}
	des := encode.Deserializer{}
	buff := encio.NewDataBuffer(128)

	if _, err := ser.WriteUint8(buff, 0xab); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteUint16(buff, 0xabcd); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteUint32(buff, 0xabcdef01); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteUint64(buff, 0xabcdef0123456789); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteInt8(buff, -100); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteInt16(buff, -30000); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteInt32(buff, -2000000000); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteInt64(buff, math.MinInt64); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteFloat32(buff, 1.1); err != nil {
		t.Fatal(err)
	}
	if _, err := ser.WriteFloat64(buff, -3.14159); err != nil {
		t.Fatal(err)
	}

	if u8, _, err := des.ReadUint8(buff); err != nil || u8 != 0xab {
		t.Fatalf("uint8: %v %v", u8, err)
	}
	if u16, _, err := des.ReadUint16(buff); err != nil || u16 != 0xabcd {
		t.Fatalf("uint16: %v %v", u16, err)
	}
	if u32, _, err := des.ReadUint32(buff); err != nil || u32 != 0xabcdef01 {
		t.Fatalf("uint32: %v %v", u32, err)
	}
	if u64, _, err := des.ReadUint64(buff); err != nil || u64 != 0xabcdef0123456789 {
		t.Fatalf("uint64: %v %v", u64, err)
	}
	if i8, _, err := des.ReadInt8(buff); err != nil || i8 != -100 {
		t.Fatalf("int8: %v %v", i8, err)
	}
	if i16, _, err := des.ReadInt16(buff); err != nil || i16 != -30000 {
		t.Fatalf("int16: %v %v", i16, err)
	}
	if i32, _, err := des.ReadInt32(buff); err != nil || i32 != -2000000000 {
		t.Fatalf("int32: %v %v", i32, err)
	}
	if i64, _, err := des.ReadInt64(buff); err != nil || i64 != math.MinInt64 {
		t.Fatalf("int64: %v %v", i64, err)
	}
	if f32, _, err := des.ReadFloat32(buff); err != nil || f32 != 1.1 {
		t.Fatalf("float32: %v %v", f32, err)
	}
	if f64, _, err := des.ReadFloat64(buff); err != nil || f64 != -3.14159 {
		t.Fatalf("float64: %v %v", f64, err)
	}

	if buff.ReadLength() != buff.DataLength() {
		t.Fatalf("data remaining in buffer")
	}
}

func TestReadFloat16(t *testing.T) {
	des := encode.Deserializer{}
	buff := dataBufferOf(t, 0x42, 0x48)

	v, n, err := des.ReadFloat16(buff)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wrong length %v", n)
	}
	if v != 3.140625 {
		t.Fatalf("wrong value %v", v)
	}
}

// Any nonzero octet decodes as true; the writer only ever emits 0x01,
// so a round trip canonicalizes.
func TestReadBool(t *testing.T) {
	des := encode.Deserializer{}

	for _, octet := range []byte{0x01, 0x02, 0xff} {
		buff := dataBufferOf(t, octet)
		v, _, err := des.ReadBool(buff)
		if err != nil {
			t.Fatal(err)
		}
		if !v {
			t.Fatalf("octet %#02x should decode true", octet)
		}
	}

	buff := dataBufferOf(t, 0x00)
	v, _, err := des.ReadBool(buff)
	if err != nil {
		t.Fatal(err)
	}
	if v {
		t.Fatal("octet 0x00 should decode false")
	}
}

func TestReadStringBlob(t *testing.T) {
	ser := encode.Serializer{}
	des := encode.Deserializer{}

	testCases := []string{"", "a", "Hello, World!", string(make([]byte, 200))}

	for _, tC := range testCases {
		t.Run(fmt.Sprintf("len %v", len(tC)), func(t *testing.T) {
			buff := encio.NewDataBuffer(256)

			written, err := ser.WriteString(buff, tC)
			if err != nil {
				t.Fatal(err)
			}

			s, read, err := des.ReadString(buff)
			if err != nil {
				t.Fatal(err)
			}
			if s != tC {
				t.Fatalf("wrong string, wanted %q, got %q", tC, s)
			}
			if read != written {
				t.Fatalf("read %v bytes but wrote %v", read, written)
			}

			buff = encio.NewDataBuffer(256)
			if _, err = ser.WriteBlob(buff, types.Blob(tC)); err != nil {
				t.Fatal(err)
			}
			blob, _, err := des.ReadBlob(buff)
			if err != nil {
				t.Fatal(err)
			}
			if string(blob) != tC {
				t.Fatalf("wrong blob, wanted %q, got %q", tC, blob)
			}
		})
	}
}

// A length prefix larger than the data that follows must fail before any
// allocation, not after.
func TestReadBlobTruncated(t *testing.T) {
	des := encode.Deserializer{}

	buff := dataBufferOf(t, 0x05, 0x01, 0x02)
	if _, _, err := des.ReadBlob(buff); !errors.Is(err, encio.ErrReadPastEnd) {
		t.Fatalf("wanted ErrReadPastEnd, got %v", err)
	}

	// A 64-bit length shape with an absurd value.
	buff = dataBufferOf(t, 0xe2, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	if _, _, err := des.ReadString(buff); !errors.Is(err, encio.ErrReadPastEnd) {
		t.Fatalf("wanted ErrReadPastEnd, got %v", err)
	}
}

func TestReadTruncatedFixed(t *testing.T) {
	des := encode.Deserializer{}

	buff := dataBufferOf(t, 0x01)
	if _, _, err := des.ReadUint32(buff); !errors.Is(err, encio.ErrReadPastEnd) {
		t.Fatalf("wanted ErrReadPastEnd, got %v", err)
	}

	buff = dataBufferOf(t, 0xc0)
	if _, _, err := des.ReadVarUint(buff); !errors.Is(err, encio.ErrReadPastEnd) {
		t.Fatalf("wanted ErrReadPastEnd, got %v", err)
	}
}
