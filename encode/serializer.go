// Package encode implements the primitive wire codec: fixed-width
// integers and floats, variable-length integers, booleans, strings and
// blobs, written to and read from an encio.DataBuffer.
//
// Every write returns the count of octets appended, or that would be
// appended: passing a nil *encio.DataBuffer puts the Serializer in
// size-only mode, where nothing is stored and only the count is produced.
// The intended sequence is "precompute with nil, then reserve, then
// write". Every read returns the count of octets consumed alongside the
// value.
package encode

import (
	"math"

	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/float16"
	"github.com/cisco/gse/types"
)

// Serializer writes primitive values in their wire form. The zero value
// is ready to use.
type Serializer struct{}

// WriteUint8 writes one octet.
func (Serializer) WriteUint8(buf *encio.DataBuffer, value uint8) (int, error) {
	if buf != nil {
		if err := buf.AppendUint8(value); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

// WriteUint16 writes a big-endian uint16.
func (Serializer) WriteUint16(buf *encio.DataBuffer, value uint16) (int, error) {
	if buf != nil {
		if err := buf.AppendUint16(value); err != nil {
			return 0, err
		}
	}
	return 2, nil
}

// WriteUint32 writes a big-endian uint32.
func (Serializer) WriteUint32(buf *encio.DataBuffer, value uint32) (int, error) {
	if buf != nil {
		if err := buf.AppendUint32(value); err != nil {
			return 0, err
		}
	}
	return 4, nil
}

// WriteUint64 writes a uint64 as two big-endian 32-bit halves.
func (Serializer) WriteUint64(buf *encio.DataBuffer, value uint64) (int, error) {
	if buf != nil {
		if err := buf.AppendUint64(value); err != nil {
			return 0, err
		}
	}
	return 8, nil
}

// WriteInt8 writes a two's-complement int8.
func (s Serializer) WriteInt8(buf *encio.DataBuffer, value int8) (int, error) {
	return s.WriteUint8(buf, uint8(value))
}

// WriteInt16 writes a two's-complement big-endian int16.
func (s Serializer) WriteInt16(buf *encio.DataBuffer, value int16) (int, error) {
	return s.WriteUint16(buf, uint16(value))
}

// WriteInt32 writes a two's-complement big-endian int32.
func (s Serializer) WriteInt32(buf *encio.DataBuffer, value int32) (int, error) {
	return s.WriteUint32(buf, uint32(value))
}

// WriteInt64 writes a two's-complement big-endian int64.
func (s Serializer) WriteInt64(buf *encio.DataBuffer, value int64) (int, error) {
	return s.WriteUint64(buf, uint64(value))
}

// WriteVarUint writes a variable-length unsigned integer. The narrowest
// of the five wire shapes that holds the value is always chosen.
func (Serializer) WriteVarUint(buf *encio.DataBuffer, value types.VarUint) (int, error) {
	v := uint64(value)

	// 7-bit form.
	if v <= 0x7f {
		if buf != nil {
			if err := buf.AppendUint8(uint8(v)); err != nil {
				return 0, err
			}
		}
		return 1, nil
	}

	// 14-bit form.
	if v <= 0x3fff {
		if buf != nil {
			if err := buf.AppendUint16(uint16(v) | 0x8000); err != nil {
				return 0, err
			}
		}
		return 2, nil
	}

	// 21-bit form.
	if v <= 0x001f_ffff {
		i := uint32(v) | 0x00c0_0000
		if buf != nil {
			if err := buf.AppendUint8(uint8(i >> 16)); err != nil {
				return 0, err
			}
			if err := buf.AppendUint16(uint16(i)); err != nil {
				return 0, err
			}
		}
		return 3, nil
	}

	// 32-bit form.
	if v <= 0xffff_ffff {
		if buf != nil {
			if err := buf.AppendUint8(0b1110_0001); err != nil {
				return 0, err
			}
			if err := buf.AppendUint32(uint32(v)); err != nil {
				return 0, err
			}
		}
		return 5, nil
	}

	// 64-bit form.
	if buf != nil {
		if err := buf.AppendUint8(0b1110_0010); err != nil {
			return 0, err
		}
		if err := buf.AppendUint64(v); err != nil {
			return 0, err
		}
	}
	return 9, nil
}

// WriteVarInt writes a variable-length signed integer. The shapes are
// those of WriteVarUint with the payload interpreted as two's-complement
// over 7, 14, 21, 32 or 64 bits; the narrowest shape whose signed range
// contains the value is always chosen.
func (Serializer) WriteVarInt(buf *encio.DataBuffer, value types.VarInt) (int, error) {
	v := int64(value)

	// 7-bit form.
	if v >= -(1<<6) && v < 1<<6 {
		if buf != nil {
			if err := buf.AppendUint8(uint8(v) & 0x7f); err != nil {
				return 0, err
			}
		}
		return 1, nil
	}

	// 14-bit form.
	if v >= -(1<<13) && v < 1<<13 {
		if buf != nil {
			if err := buf.AppendUint16(uint16(v)&0x3fff | 0x8000); err != nil {
				return 0, err
			}
		}
		return 2, nil
	}

	// 21-bit form.
	if v >= -(1<<20) && v < 1<<20 {
		i := uint32(v)&0x001f_ffff | 0x00c0_0000
		if buf != nil {
			if err := buf.AppendUint8(uint8(i >> 16)); err != nil {
				return 0, err
			}
			if err := buf.AppendUint16(uint16(i)); err != nil {
				return 0, err
			}
		}
		return 3, nil
	}

	// 32-bit form.
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		if buf != nil {
			if err := buf.AppendUint8(0b1110_0001); err != nil {
				return 0, err
			}
			if err := buf.AppendUint32(uint32(v)); err != nil {
				return 0, err
			}
		}
		return 5, nil
	}

	// 64-bit form.
	if buf != nil {
		if err := buf.AppendUint8(0b1110_0010); err != nil {
			return 0, err
		}
		if err := buf.AppendUint64(uint64(v)); err != nil {
			return 0, err
		}
	}
	return 9, nil
}

// WriteFloat16 narrows the value to binary16 and writes it big-endian.
func (Serializer) WriteFloat16(buf *encio.DataBuffer, value types.Float16) (int, error) {
	if buf != nil {
		if err := buf.AppendUint16(uint16(float16.From(float32(value)))); err != nil {
			return 0, err
		}
	}
	return 2, nil
}

// WriteFloat32 writes an IEEE-754 binary32 value via its bit pattern.
func (Serializer) WriteFloat32(buf *encio.DataBuffer, value float32) (int, error) {
	if buf != nil {
		if err := buf.AppendFloat32(value); err != nil {
			return 0, err
		}
	}
	return 4, nil
}

// WriteFloat64 writes an IEEE-754 binary64 value via its bit pattern.
func (Serializer) WriteFloat64(buf *encio.DataBuffer, value float64) (int, error) {
	if buf != nil {
		if err := buf.AppendFloat64(value); err != nil {
			return 0, err
		}
	}
	return 8, nil
}

// WriteBool writes 0x01 for true and 0x00 for false.
func (Serializer) WriteBool(buf *encio.DataBuffer, value bool) (int, error) {
	octet := uint8(0)
	if value {
		octet = 1
	}
	if buf != nil {
		if err := buf.AppendUint8(octet); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

// WriteString writes the string length as a VarUint followed by the raw
// octets.
func (s Serializer) WriteString(buf *encio.DataBuffer, value types.String) (int, error) {
	total, err := s.WriteVarUint(buf, types.VarUint(len(value)))
	if err != nil {
		return 0, err
	}

	if len(value) == 0 {
		return total, nil
	}

	if buf != nil {
		if err := buf.AppendString(value); err != nil {
			return 0, err
		}
	}
	return total + len(value), nil
}

// WriteBlob writes the octet count as a VarUint followed by the raw
// octets.
func (s Serializer) WriteBlob(buf *encio.DataBuffer, value types.Blob) (int, error) {
	total, err := s.WriteVarUint(buf, types.VarUint(len(value)))
	if err != nil {
		return 0, err
	}

	if len(value) == 0 {
		return total, nil
	}

	if buf != nil {
		if err := buf.Append(value); err != nil {
			return 0, err
		}
	}
	return total + len(value), nil
}
