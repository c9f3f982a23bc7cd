package encio

import (
	"bytes"
	"io"
	"math"
)

// DataBuffer is a bounded, contiguous octet region with three counters: a
// fixed capacity, a data length counting the meaningful octets, and a read
// cursor for sequential reads. Appends write at the data length; reads
// advance the cursor. Neither ever grows the storage: an append past the
// capacity fails with ErrOverflow and a read past the data length fails
// with ErrReadPastEnd, leaving the buffer unchanged.
//
// A DataBuffer either owns its storage (NewDataBuffer) or borrows storage
// provided by the caller (NewDataBufferFrom); a borrowed buffer mutates the
// caller's bytes in place. A nil *DataBuffer is the size-only sentinel
// understood by encode.Serializer; it stores nothing and is never written
// through.
//
// All multi-octet values are big-endian. 64-bit values are transferred as
// two 32-bit halves, high half first. Floats are transferred as the raw bit
// pattern of the equivalent-width unsigned integer.
//
// A DataBuffer is not safe for concurrent use.
type DataBuffer struct {
	buf     []byte
	size    int
	dataLen int
	readPos int
}

// NewDataBuffer returns a DataBuffer owning freshly allocated storage of
// the given capacity.
func NewDataBuffer(size int) *DataBuffer {
	b := &DataBuffer{size: size}
	if size > 0 {
		b.buf = make([]byte, size)
	}
	return b
}

// NewDataBufferFrom returns a DataBuffer borrowing the caller's storage.
// The capacity is len(buffer); the first dataLength octets are taken as
// meaningful data. The buffer mutates the caller's bytes but never
// releases or replaces them.
func NewDataBufferFrom(buffer []byte, dataLength int) (*DataBuffer, error) {
	if dataLength > len(buffer) || dataLength < 0 {
		return nil, NewError(ErrOutOfRange, "data length larger than the buffer", 0)
	}

	return &DataBuffer{
		buf:     buffer,
		size:    len(buffer),
		dataLen: dataLength,
	}, nil
}

// Size returns the buffer's capacity.
func (b *DataBuffer) Size() int { return b.size }

// DataLength returns the count of meaningful octets in the buffer.
func (b *DataBuffer) DataLength() int { return b.dataLen }

// Empty reports whether the buffer holds no data.
func (b *DataBuffer) Empty() bool { return b.dataLen == 0 }

// SetDataLength sets the data length directly. The read cursor is clamped
// down if the data length shrinks below it.
func (b *DataBuffer) SetDataLength(length int) error {
	if length > b.size || length < 0 {
		return NewError(ErrOverflow, "data length larger than the buffer size", 0)
	}

	b.dataLen = length
	if b.readPos > b.dataLen {
		b.readPos = b.dataLen
	}
	return nil
}

// ReadLength returns the read cursor; the count of octets consumed so far.
func (b *DataBuffer) ReadLength() int { return b.readPos }

// ResetReadLength rewinds the read cursor to the start of the data.
func (b *DataBuffer) ResetReadLength() { b.readPos = 0 }

// AdvanceReadLength moves the read cursor forward count octets without
// copying them out.
func (b *DataBuffer) AdvanceReadLength(count int) error {
	if count < 0 || b.readPos+count > b.dataLen {
		return NewError(ErrReadPastEnd, "attempt to advance read cursor beyond data length", 0)
	}

	b.readPos += count
	return nil
}

// TakeOwnership yields the buffer's storage to the caller, leaving the
// buffer storageless with all counters zeroed. The returned slice spans
// the full capacity.
func (b *DataBuffer) TakeOwnership() []byte {
	p := b.buf
	b.buf = nil
	b.size = 0
	b.dataLen = 0
	b.readPos = 0
	return p
}

// Bytes returns the data region of the buffer. The slice aliases the
// buffer's storage; it is valid until the next mutation.
func (b *DataBuffer) Bytes() []byte {
	return b.buf[:b.dataLen]
}

// Equal reports whether two buffers hold the same data: equal data
// lengths and equal octets, regardless of capacity or read cursor.
func (b *DataBuffer) Equal(other *DataBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.dataLen == other.dataLen && bytes.Equal(b.Bytes(), other.Bytes())
}

// Byte returns the octet at the given offset within the capacity. Random
// access is not bounded by the data length and does not move any counter.
func (b *DataBuffer) Byte(offset int) (byte, error) {
	if offset < 0 || offset >= b.size {
		return 0, NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	return b.buf[offset], nil
}

// SetByte stores an octet at the given offset within the capacity. The
// data length is not changed.
func (b *DataBuffer) SetByte(offset int, value byte) error {
	if offset < 0 || offset >= b.size {
		return NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	b.buf[offset] = value
	return nil
}

// GetBytes copies len(dst) octets of the data region starting at offset
// into dst. A zero-length copy never fails.
func (b *DataBuffer) GetBytes(dst []byte, offset int) error {
	if len(dst) == 0 {
		return nil
	}
	if offset < 0 || offset+len(dst) > b.dataLen {
		return NewError(ErrOutOfRange, "access beyond the end of the data", 0)
	}
	copy(dst, b.buf[offset:])
	return nil
}

// SetBytes stores src at the given offset within the capacity. The data
// length is not changed. A zero-length store never fails.
func (b *DataBuffer) SetBytes(offset int, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if offset < 0 || offset+len(src) > b.size {
		return NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	copy(b.buf[offset:], src)
	return nil
}

// GetUint8 returns the octet at offset within the data region.
func (b *DataBuffer) GetUint8(offset int) (uint8, error) {
	if offset < 0 || offset+1 > b.dataLen {
		return 0, NewError(ErrOutOfRange, "access beyond the end of the data", 0)
	}
	return b.buf[offset], nil
}

// GetUint16 returns the big-endian uint16 at offset within the data region.
func (b *DataBuffer) GetUint16(offset int) (uint16, error) {
	if offset < 0 || offset+2 > b.dataLen {
		return 0, NewError(ErrOutOfRange, "access beyond the end of the data", 0)
	}
	return uint16(b.buf[offset])<<8 | uint16(b.buf[offset+1]), nil
}

// GetUint32 returns the big-endian uint32 at offset within the data region.
func (b *DataBuffer) GetUint32(offset int) (uint32, error) {
	if offset < 0 || offset+4 > b.dataLen {
		return 0, NewError(ErrOutOfRange, "access beyond the end of the data", 0)
	}
	n := uint32(b.buf[offset]) << 24
	n |= uint32(b.buf[offset+1]) << 16
	n |= uint32(b.buf[offset+2]) << 8
	n |= uint32(b.buf[offset+3])
	return n, nil
}

// GetUint64 returns the uint64 at offset within the data region, read as
// two big-endian 32-bit halves, high half first.
func (b *DataBuffer) GetUint64(offset int) (uint64, error) {
	high, err := b.GetUint32(offset)
	if err != nil {
		return 0, err
	}
	low, err := b.GetUint32(offset + 4)
	if err != nil {
		return 0, err
	}
	return uint64(high)<<32 | uint64(low), nil
}

// GetFloat32 returns the float32 at offset, read as its uint32 bit pattern.
func (b *DataBuffer) GetFloat32(offset int) (float32, error) {
	bits, err := b.GetUint32(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// GetFloat64 returns the float64 at offset, read as its uint64 bit pattern.
func (b *DataBuffer) GetFloat64(offset int) (float64, error) {
	bits, err := b.GetUint64(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// SetUint8 stores an octet at offset within the capacity.
func (b *DataBuffer) SetUint8(offset int, value uint8) error {
	return b.SetByte(offset, value)
}

// SetUint16 stores a big-endian uint16 at offset within the capacity.
func (b *DataBuffer) SetUint16(offset int, value uint16) error {
	if offset < 0 || offset+2 > b.size {
		return NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	b.buf[offset] = byte(value >> 8)
	b.buf[offset+1] = byte(value)
	return nil
}

// SetUint32 stores a big-endian uint32 at offset within the capacity.
func (b *DataBuffer) SetUint32(offset int, value uint32) error {
	if offset < 0 || offset+4 > b.size {
		return NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	b.buf[offset] = byte(value >> 24)
	b.buf[offset+1] = byte(value >> 16)
	b.buf[offset+2] = byte(value >> 8)
	b.buf[offset+3] = byte(value)
	return nil
}

// SetUint64 stores a uint64 at offset as two big-endian 32-bit halves,
// high half first.
func (b *DataBuffer) SetUint64(offset int, value uint64) error {
	if offset < 0 || offset+8 > b.size {
		return NewError(ErrOutOfRange, "access beyond the end of the buffer", 0)
	}
	if err := b.SetUint32(offset, uint32(value>>32)); err != nil {
		return err
	}
	return b.SetUint32(offset+4, uint32(value))
}

// SetFloat32 stores a float32 at offset as its uint32 bit pattern.
func (b *DataBuffer) SetFloat32(offset int, value float32) error {
	return b.SetUint32(offset, math.Float32bits(value))
}

// SetFloat64 stores a float64 at offset as its uint64 bit pattern.
func (b *DataBuffer) SetFloat64(offset int, value float64) error {
	return b.SetUint64(offset, math.Float64bits(value))
}

// Append writes src at the data length and advances it. The append is
// all-or-nothing: if src does not fit within the capacity nothing is
// written. A zero-length append never fails.
func (b *DataBuffer) Append(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if b.dataLen+len(src) > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	copy(b.buf[b.dataLen:], src)
	b.dataLen += len(src)
	return nil
}

// AppendString appends the raw octets of s.
func (b *DataBuffer) AppendString(s string) error {
	if len(s) == 0 {
		return nil
	}
	if b.dataLen+len(s) > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	copy(b.buf[b.dataLen:], s)
	b.dataLen += len(s)
	return nil
}

// AppendUint8 appends one octet.
func (b *DataBuffer) AppendUint8(value uint8) error {
	if b.dataLen+1 > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	b.buf[b.dataLen] = value
	b.dataLen++
	return nil
}

// AppendUint16 appends a big-endian uint16.
func (b *DataBuffer) AppendUint16(value uint16) error {
	if b.dataLen+2 > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	b.buf[b.dataLen] = byte(value >> 8)
	b.buf[b.dataLen+1] = byte(value)
	b.dataLen += 2
	return nil
}

// AppendUint32 appends a big-endian uint32.
func (b *DataBuffer) AppendUint32(value uint32) error {
	if b.dataLen+4 > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	b.buf[b.dataLen] = byte(value >> 24)
	b.buf[b.dataLen+1] = byte(value >> 16)
	b.buf[b.dataLen+2] = byte(value >> 8)
	b.buf[b.dataLen+3] = byte(value)
	b.dataLen += 4
	return nil
}

// AppendUint64 appends a uint64 as two big-endian 32-bit halves, high
// half first.
func (b *DataBuffer) AppendUint64(value uint64) error {
	if b.dataLen+8 > b.size {
		return NewError(ErrOverflow, "append beyond the end of the buffer", 0)
	}
	if err := b.AppendUint32(uint32(value >> 32)); err != nil {
		return err
	}
	return b.AppendUint32(uint32(value))
}

// AppendFloat32 appends a float32 as its uint32 bit pattern.
func (b *DataBuffer) AppendFloat32(value float32) error {
	return b.AppendUint32(math.Float32bits(value))
}

// AppendFloat64 appends a float64 as its uint64 bit pattern.
func (b *DataBuffer) AppendFloat64(value float64) error {
	return b.AppendUint64(math.Float64bits(value))
}

// ReadBytes fills dst from the read cursor and advances it. The read is
// all-or-nothing: if fewer than len(dst) octets remain nothing is
// consumed. A zero-length read never fails.
func (b *DataBuffer) ReadBytes(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if b.readPos+len(dst) > b.dataLen {
		return NewError(ErrReadPastEnd, "read beyond the end of the data", 0)
	}
	copy(dst, b.buf[b.readPos:])
	b.readPos += len(dst)
	return nil
}

// ReadUint8 reads one octet from the read cursor.
func (b *DataBuffer) ReadUint8() (uint8, error) {
	if b.readPos+1 > b.dataLen {
		return 0, NewError(ErrReadPastEnd, "read beyond the end of the data", 0)
	}
	v := b.buf[b.readPos]
	b.readPos++
	return v, nil
}

// ReadUint16 reads a big-endian uint16 from the read cursor.
func (b *DataBuffer) ReadUint16() (uint16, error) {
	if b.readPos+2 > b.dataLen {
		return 0, NewError(ErrReadPastEnd, "read beyond the end of the data", 0)
	}
	v := uint16(b.buf[b.readPos])<<8 | uint16(b.buf[b.readPos+1])
	b.readPos += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32 from the read cursor.
func (b *DataBuffer) ReadUint32() (uint32, error) {
	if b.readPos+4 > b.dataLen {
		return 0, NewError(ErrReadPastEnd, "read beyond the end of the data", 0)
	}
	v := uint32(b.buf[b.readPos]) << 24
	v |= uint32(b.buf[b.readPos+1]) << 16
	v |= uint32(b.buf[b.readPos+2]) << 8
	v |= uint32(b.buf[b.readPos+3])
	b.readPos += 4
	return v, nil
}

// ReadUint64 reads a uint64 from the read cursor as two big-endian 32-bit
// halves, high half first.
func (b *DataBuffer) ReadUint64() (uint64, error) {
	if b.readPos+8 > b.dataLen {
		return 0, NewError(ErrReadPastEnd, "read beyond the end of the data", 0)
	}
	high, _ := b.ReadUint32()
	low, _ := b.ReadUint32()
	return uint64(high)<<32 | uint64(low), nil
}

// ReadFloat32 reads a float32 from the read cursor via its bit pattern.
func (b *DataBuffer) ReadFloat32() (float32, error) {
	bits, err := b.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a float64 from the read cursor via its bit pattern.
func (b *DataBuffer) ReadFloat64() (float64, error) {
	bits, err := b.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// Write implements io.Writer, appending p within the capacity. The write
// is all-or-nothing; a write that does not fit returns ErrOverflow with
// nothing written.
func (b *DataBuffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read implements io.Reader, draining the data region from the read
// cursor. It returns io.EOF once no data remains.
func (b *DataBuffer) Read(p []byte) (int, error) {
	n := copy(p, b.buf[b.readPos:b.dataLen])
	b.readPos += n
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
