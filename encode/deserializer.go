package encode

import (
	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/float16"
	"github.com/cisco/gse/types"
)

// Deserializer reads primitive values from their wire form, advancing the
// buffer's read cursor. The zero value is ready to use.
//
// The variable-length integer reads accept any of the five prefix shapes
// regardless of whether the value needed one that wide; only writers are
// bound to the narrowest form.
type Deserializer struct{}

// ReadUint8 reads one octet.
func (Deserializer) ReadUint8(buf *encio.DataBuffer) (uint8, int, error) {
	v, err := buf.ReadUint8()
	if err != nil {
		return 0, 0, err
	}
	return v, 1, nil
}

// ReadUint16 reads a big-endian uint16.
func (Deserializer) ReadUint16(buf *encio.DataBuffer) (uint16, int, error) {
	v, err := buf.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	return v, 2, nil
}

// ReadUint32 reads a big-endian uint32.
func (Deserializer) ReadUint32(buf *encio.DataBuffer) (uint32, int, error) {
	v, err := buf.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	return v, 4, nil
}

// ReadUint64 reads a uint64 stored as two big-endian 32-bit halves.
func (Deserializer) ReadUint64(buf *encio.DataBuffer) (uint64, int, error) {
	v, err := buf.ReadUint64()
	if err != nil {
		return 0, 0, err
	}
	return v, 8, nil
}

// ReadInt8 reads a two's-complement int8.
func (d Deserializer) ReadInt8(buf *encio.DataBuffer) (int8, int, error) {
	v, n, err := d.ReadUint8(buf)
	return int8(v), n, err
}

// ReadInt16 reads a two's-complement big-endian int16.
func (d Deserializer) ReadInt16(buf *encio.DataBuffer) (int16, int, error) {
	v, n, err := d.ReadUint16(buf)
	return int16(v), n, err
}

// ReadInt32 reads a two's-complement big-endian int32.
func (d Deserializer) ReadInt32(buf *encio.DataBuffer) (int32, int, error) {
	v, n, err := d.ReadUint32(buf)
	return int32(v), n, err
}

// ReadInt64 reads a two's-complement big-endian int64.
func (d Deserializer) ReadInt64(buf *encio.DataBuffer) (int64, int, error) {
	v, n, err := d.ReadUint64(buf)
	return int64(v), n, err
}

// ReadVarUint reads a variable-length unsigned integer.
func (Deserializer) ReadVarUint(buf *encio.DataBuffer) (types.VarUint, int, error) {
	octet, err := buf.ReadUint8()
	if err != nil {
		return 0, 0, err
	}

	// 7-bit form.
	if octet&0b1000_0000 == 0 {
		return types.VarUint(octet & 0b0111_1111), 1, nil
	}

	// 14-bit form.
	if octet&0b1100_0000 == 0b1000_0000 {
		low, err := buf.ReadUint8()
		if err != nil {
			return 0, 1, err
		}
		return types.VarUint(octet&0b0011_1111)<<8 | types.VarUint(low), 2, nil
	}

	// 21-bit form.
	if octet&0b1110_0000 == 0b1100_0000 {
		low, err := buf.ReadUint16()
		if err != nil {
			return 0, 1, err
		}
		return types.VarUint(octet&0b0001_1111)<<16 | types.VarUint(low), 3, nil
	}

	// 32-bit form.
	if octet == 0b1110_0001 {
		low, err := buf.ReadUint32()
		if err != nil {
			return 0, 1, err
		}
		return types.VarUint(low), 5, nil
	}

	// 64-bit form.
	if octet == 0b1110_0010 {
		low, err := buf.ReadUint64()
		if err != nil {
			return 0, 1, err
		}
		return types.VarUint(low), 9, nil
	}

	return 0, 1, encio.NewError(encio.ErrMalformed, "invalid VarUint in the data buffer", 0)
}

// ReadVarInt reads a variable-length signed integer, sign-extending the
// payload from its wire width to 64 bits.
func (Deserializer) ReadVarInt(buf *encio.DataBuffer) (types.VarInt, int, error) {
	octet, err := buf.ReadUint8()
	if err != nil {
		return 0, 0, err
	}

	// 7-bit form.
	if octet&0b1000_0000 == 0 {
		value := int64(octet & 0b0111_1111)
		if octet&0b0100_0000 != 0 {
			value |= ^int64(0x7f)
		}
		return types.VarInt(value), 1, nil
	}

	// 14-bit form.
	if octet&0b1100_0000 == 0b1000_0000 {
		value := int64(octet & 0b0011_1111)
		if octet&0b0010_0000 != 0 {
			value |= ^int64(0x3f)
		}
		low, err := buf.ReadUint8()
		if err != nil {
			return 0, 1, err
		}
		return types.VarInt(value<<8 | int64(low)), 2, nil
	}

	// 21-bit form.
	if octet&0b1110_0000 == 0b1100_0000 {
		value := int64(octet & 0b0001_1111)
		if octet&0b0001_0000 != 0 {
			value |= ^int64(0x1f)
		}
		low, err := buf.ReadUint16()
		if err != nil {
			return 0, 1, err
		}
		return types.VarInt(value<<16 | int64(low)), 3, nil
	}

	// 32-bit form.
	if octet == 0b1110_0001 {
		low, err := buf.ReadUint32()
		if err != nil {
			return 0, 1, err
		}
		return types.VarInt(int64(int32(low))), 5, nil
	}

	// 64-bit form.
	if octet == 0b1110_0010 {
		low, err := buf.ReadUint64()
		if err != nil {
			return 0, 1, err
		}
		return types.VarInt(low), 9, nil
	}

	return 0, 1, encio.NewError(encio.ErrMalformed, "invalid VarInt in the data buffer", 0)
}

// ReadFloat16 reads a big-endian binary16 value, widening it to single
// precision.
func (Deserializer) ReadFloat16(buf *encio.DataBuffer) (types.Float16, int, error) {
	bits, err := buf.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	return types.Float16(float16.Number(bits).Float32()), 2, nil
}

// ReadFloat32 reads an IEEE-754 binary32 value via its bit pattern.
func (Deserializer) ReadFloat32(buf *encio.DataBuffer) (float32, int, error) {
	v, err := buf.ReadFloat32()
	if err != nil {
		return 0, 0, err
	}
	return v, 4, nil
}

// ReadFloat64 reads an IEEE-754 binary64 value via its bit pattern.
func (Deserializer) ReadFloat64(buf *encio.DataBuffer) (float64, int, error) {
	v, err := buf.ReadFloat64()
	if err != nil {
		return 0, 0, err
	}
	return v, 8, nil
}

// ReadBool reads one octet; any nonzero value is true.
func (Deserializer) ReadBool(buf *encio.DataBuffer) (bool, int, error) {
	octet, err := buf.ReadUint8()
	if err != nil {
		return false, 0, err
	}
	return octet != 0, 1, nil
}

// ReadString reads a VarUint length followed by that many raw octets.
func (d Deserializer) ReadString(buf *encio.DataBuffer) (types.String, int, error) {
	length, n, err := d.ReadVarUint(buf)
	if err != nil {
		return "", n, err
	}

	remaining := buf.DataLength() - buf.ReadLength()
	if uint64(length) > uint64(remaining) {
		return "", n, encio.NewError(encio.ErrReadPastEnd, "string length exceeds remaining data", 0)
	}
	if length == 0 {
		return "", n, nil
	}

	raw := make([]byte, int(length))
	if err := buf.ReadBytes(raw); err != nil {
		return "", n, err
	}
	return string(raw), n + len(raw), nil
}

// ReadBlob reads a VarUint length followed by that many raw octets.
func (d Deserializer) ReadBlob(buf *encio.DataBuffer) (types.Blob, int, error) {
	length, n, err := d.ReadVarUint(buf)
	if err != nil {
		return nil, n, err
	}

	remaining := buf.DataLength() - buf.ReadLength()
	if uint64(length) > uint64(remaining) {
		return nil, n, encio.NewError(encio.ErrReadPastEnd, "blob length exceeds remaining data", 0)
	}
	if length == 0 {
		return types.Blob{}, n, nil
	}

	raw := make(types.Blob, int(length))
	if err := buf.ReadBytes(raw); err != nil {
		return nil, n, err
	}
	return raw, n + len(raw), nil
}
