package gse

import (
	"fmt"

	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/encode"
	"github.com/cisco/gse/types"
)

// EncodeResult reports the count of objects and the count of octets
// appended to the buffer by an encode call.
type EncodeResult struct {
	Objects int
	Octets  int
}

// Encoder appends game state objects to a data buffer.
//
// Encoding is atomic at the object level. Each object's body is first
// measured with a size-only serialization pass; if the complete record
// (tag, length prefix and body) does not fit in the buffer's remaining
// capacity, EncodeObject returns a zero EncodeResult with a nil error and
// the buffer is untouched. The caller may flush the buffer and retry.
type Encoder struct {
	buf *encio.DataBuffer
	ser encode.Serializer
	err error
}

// NewEncoder returns an Encoder appending to buf. The buffer remains
// owned by the caller.
func NewEncoder(buf *encio.DataBuffer) *Encoder {
	return &Encoder{buf: buf}
}

// DataLength returns the count of octets written to the underlying
// buffer so far.
func (e *Encoder) DataLength() int {
	return e.buf.DataLength()
}

// Err returns the error from the most recent encode call. It is cleared
// by every successful call.
func (e *Encoder) Err() error {
	return e.err
}

// Encode appends a vector of objects, stopping cleanly at the first
// object that does not fit. Objects already appended remain appended; a
// result with Objects less than len(objects) means the remainder is
// still pending.
func (e *Encoder) Encode(objects types.Objects) (EncodeResult, error) {
	var result EncodeResult

	for _, object := range objects {
		r, err := e.EncodeObject(object)
		if err != nil {
			return result, err
		}
		if r.Objects == 0 {
			break
		}
		result.Objects += r.Objects
		result.Octets += r.Octets
	}

	return result, nil
}

// EncodeObject appends one object. A zero EncodeResult with a nil error
// means the object did not fit and nothing was written.
func (e *Encoder) EncodeObject(object types.Object) (EncodeResult, error) {
	var result EncodeResult
	var err error

	switch v := object.(type) {
	case types.Head1:
		result, err = e.encodeHead1(v)
	case types.Hand1:
		result, err = e.encodeHand1(v)
	case types.Hand2:
		result, err = e.encodeHand2(v)
	case types.Object1:
		result, err = e.encodeObject1(v)
	case types.Mesh1:
		result, err = e.encodeMesh1(v)
	case types.HeadIPD1:
		result, err = e.encodeHeadIPD1(v)
	case types.UnknownObject:
		result, err = e.encodeUnknown(v)
	default:
		err = encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot encode %T", object), 0)
	}

	e.err = err
	return result, err
}

// encodeRecord frames one object: it checks the buffer has room for the
// complete record, then appends the tag, the body length and the body.
// writeBody must append the same octets it counted when called with a
// nil buffer.
func (e *Encoder) encodeRecord(tag types.Tag, writeBody func(*encio.DataBuffer) (int, error)) (EncodeResult, error) {
	if tag == types.TagInvalid {
		return EncodeResult{}, encio.NewError(encio.ErrInvalidTag, "cannot encode the invalid (0) tag", 1)
	}

	// Size-only pass to learn the body length.
	bodyLen, err := writeBody(nil)
	if err != nil {
		return EncodeResult{}, err
	}

	tagLen, _ := e.ser.WriteVarUint(nil, types.VarUint(tag))
	lenLen, _ := e.ser.WriteVarUint(nil, types.VarUint(bodyLen))

	// Ensure the data buffer has sufficient space.
	if e.buf.DataLength()+tagLen+lenLen+bodyLen > e.buf.Size() {
		return EncodeResult{}, nil
	}

	total, err := e.ser.WriteVarUint(e.buf, types.VarUint(tag))
	if err != nil {
		return EncodeResult{}, err
	}

	n, err := e.ser.WriteVarUint(e.buf, types.VarUint(bodyLen))
	total += n
	if err != nil {
		return EncodeResult{}, err
	}

	n, err = writeBody(e.buf)
	total += n
	if err != nil {
		return EncodeResult{}, err
	}

	return EncodeResult{Objects: 1, Octets: total}, nil
}

func (e *Encoder) encodeHead1(v types.Head1) (EncodeResult, error) {
	return e.encodeRecord(types.TagHead1, func(buf *encio.DataBuffer) (int, error) {
		fields := []func(*encio.DataBuffer) (int, error){
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.ID) },
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteUint16(b, v.Time) },
			func(b *encio.DataBuffer) (int, error) { return e.writeLoc2(b, v.Location) },
			func(b *encio.DataBuffer) (int, error) { return e.writeRot2(b, v.Rotation) },
		}
		if v.IPD != nil {
			fields = append(fields, func(b *encio.DataBuffer) (int, error) {
				return e.writeHeadIPD1(b, *v.IPD)
			})
		}
		return e.writeAll(buf, fields...)
	})
}

func (e *Encoder) encodeHand1(v types.Hand1) (EncodeResult, error) {
	return e.encodeRecord(types.TagHand1, func(buf *encio.DataBuffer) (int, error) {
		return e.writeAll(buf,
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.ID) },
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteUint16(b, v.Time) },
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteBool(b, v.Left) },
			func(b *encio.DataBuffer) (int, error) { return e.writeLoc2(b, v.Location) },
			func(b *encio.DataBuffer) (int, error) { return e.writeRot2(b, v.Rotation) },
		)
	})
}

func (e *Encoder) encodeHand2(v types.Hand2) (EncodeResult, error) {
	return e.encodeRecord(types.TagHand2, func(buf *encio.DataBuffer) (int, error) {
		return e.writeAll(buf,
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.ID) },
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteUint16(b, v.Time) },
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteBool(b, v.Left) },
			func(b *encio.DataBuffer) (int, error) { return e.writeLoc2(b, v.Location) },
			func(b *encio.DataBuffer) (int, error) { return e.writeRot2(b, v.Rotation) },
			func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.Wrist) },
			func(b *encio.DataBuffer) (int, error) { return e.writeThumb(b, v.Thumb) },
			func(b *encio.DataBuffer) (int, error) { return e.writeFinger(b, v.Index) },
			func(b *encio.DataBuffer) (int, error) { return e.writeFinger(b, v.Middle) },
			func(b *encio.DataBuffer) (int, error) { return e.writeFinger(b, v.Ring) },
			func(b *encio.DataBuffer) (int, error) { return e.writeFinger(b, v.Pinky) },
		)
	})
}

// encodeObject1 writes the Object1 wire body: id, position, rotation,
// scale and the optional parent. The in-memory Time field is not part of
// the wire encoding.
func (e *Encoder) encodeObject1(v types.Object1) (EncodeResult, error) {
	return e.encodeRecord(types.TagObject1, func(buf *encio.DataBuffer) (int, error) {
		fields := []func(*encio.DataBuffer) (int, error){
			func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.ID) },
			func(b *encio.DataBuffer) (int, error) { return e.writeLoc1(b, v.Position) },
			func(b *encio.DataBuffer) (int, error) { return e.writeRot1(b, v.Rotation) },
			func(b *encio.DataBuffer) (int, error) { return e.writeLoc1(b, v.Scale) },
		}
		if v.Parent != nil {
			fields = append(fields, func(b *encio.DataBuffer) (int, error) {
				return e.ser.WriteVarUint(b, *v.Parent)
			})
		}
		return e.writeAll(buf, fields...)
	})
}

func (e *Encoder) encodeMesh1(v types.Mesh1) (EncodeResult, error) {
	return e.encodeRecord(types.TagMesh1, func(buf *encio.DataBuffer) (int, error) {
		total, err := e.ser.WriteVarUint(buf, v.ID)
		if err != nil {
			return total, err
		}

		n, err := e.writeVectorHeader(buf, len(v.Vertices))
		total += n
		if err != nil {
			return total, err
		}
		for _, vertex := range v.Vertices {
			n, err = e.writeLoc1(buf, vertex)
			total += n
			if err != nil {
				return total, err
			}
		}

		n, err = e.writeVectorHeader(buf, len(v.Normals))
		total += n
		if err != nil {
			return total, err
		}
		for _, normal := range v.Normals {
			n, err = e.writeNorm1(buf, normal)
			total += n
			if err != nil {
				return total, err
			}
		}

		n, err = e.writeVectorHeader(buf, len(v.Textures))
		total += n
		if err != nil {
			return total, err
		}
		for _, texture := range v.Textures {
			n, err = e.writeTextureUV1(buf, texture)
			total += n
			if err != nil {
				return total, err
			}
		}

		n, err = e.writeVectorHeader(buf, len(v.Triangles))
		total += n
		if err != nil {
			return total, err
		}
		for _, triangle := range v.Triangles {
			n, err = e.ser.WriteVarUint(buf, triangle)
			total += n
			if err != nil {
				return total, err
			}
		}

		return total, nil
	})
}

// encodeHeadIPD1 frames a HeadIPD1 as a top-level record; the same
// framing writeHeadIPD1 produces when it trails a Head1 body.
func (e *Encoder) encodeHeadIPD1(v types.HeadIPD1) (EncodeResult, error) {
	return e.encodeRecord(types.TagHeadIPD1, func(buf *encio.DataBuffer) (int, error) {
		return e.ser.WriteFloat16(buf, v.IPD)
	})
}

// encodeUnknown writes an unknown object as its raw tag followed by its
// data as a length-prefixed blob. The data is expected to be exactly the
// body the decoder consumed, so re-encoding reproduces the original
// octets.
func (e *Encoder) encodeUnknown(v types.UnknownObject) (EncodeResult, error) {
	if v.Tag == 0 {
		return EncodeResult{}, encio.NewError(encio.ErrInvalidTag, "cannot encode the invalid (0) tag", 0)
	}

	tagLen, _ := e.ser.WriteVarUint(nil, v.Tag)
	blobLen, _ := e.ser.WriteBlob(nil, v.Data)

	// Ensure the data buffer has sufficient space.
	if e.buf.DataLength()+tagLen+blobLen > e.buf.Size() {
		return EncodeResult{}, nil
	}

	total, err := e.ser.WriteVarUint(e.buf, v.Tag)
	if err != nil {
		return EncodeResult{}, err
	}

	n, err := e.ser.WriteBlob(e.buf, v.Data)
	total += n
	if err != nil {
		return EncodeResult{}, err
	}

	return EncodeResult{Objects: 1, Octets: total}, nil
}

// writeAll runs each field writer in order, summing their octet counts.
func (e *Encoder) writeAll(buf *encio.DataBuffer, fields ...func(*encio.DataBuffer) (int, error)) (int, error) {
	total := 0
	for _, field := range fields {
		n, err := field(buf)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeVectorHeader writes the element count that precedes a vector.
func (e *Encoder) writeVectorHeader(buf *encio.DataBuffer, count int) (int, error) {
	return e.ser.WriteVarUint(buf, types.VarUint(count))
}

func (e *Encoder) writeLoc1(buf *encio.DataBuffer, v types.Loc1) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.X) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.Y) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.Z) },
	)
}

// writeLoc2 serializes the velocity components in wire order vx, vy, vz,
// which differs from the struct's declared order.
func (e *Encoder) writeLoc2(buf *encio.DataBuffer, v types.Loc2) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.X) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.Y) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat32(b, v.Z) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Vx) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Vy) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Vz) },
	)
}

func (e *Encoder) writeNorm1(buf *encio.DataBuffer, v types.Norm1) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.X) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Y) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Z) },
	)
}

func (e *Encoder) writeTextureUV1(buf *encio.DataBuffer, v types.TextureUV1) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.U) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteVarUint(b, v.V) },
	)
}

func (e *Encoder) writeRot1(buf *encio.DataBuffer, v types.Rot1) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.I) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.J) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.K) },
	)
}

func (e *Encoder) writeRot2(buf *encio.DataBuffer, v types.Rot2) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Si) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Sj) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Sk) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Ei) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Ej) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Ek) },
	)
}

func (e *Encoder) writeTransform1(buf *encio.DataBuffer, v types.Transform1) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Tx) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Ty) },
		func(b *encio.DataBuffer) (int, error) { return e.ser.WriteFloat16(b, v.Tz) },
	)
}

func (e *Encoder) writeThumb(buf *encio.DataBuffer, v types.Thumb) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.Tip) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.IP) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.MCP) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.CMC) },
	)
}

func (e *Encoder) writeFinger(buf *encio.DataBuffer, v types.Finger) (int, error) {
	return e.writeAll(buf,
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.Tip) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.DIP) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.PIP) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.MCP) },
		func(b *encio.DataBuffer) (int, error) { return e.writeTransform1(b, v.CMC) },
	)
}

// writeHeadIPD1 serializes a HeadIPD1 as a nested record: its tag, body
// length and body, framed identically to the top-level form.
func (e *Encoder) writeHeadIPD1(buf *encio.DataBuffer, v types.HeadIPD1) (int, error) {
	bodyLen, _ := e.ser.WriteFloat16(nil, v.IPD)

	total, err := e.ser.WriteVarUint(buf, types.VarUint(types.TagHeadIPD1))
	if err != nil {
		return total, err
	}

	n, err := e.ser.WriteVarUint(buf, types.VarUint(bodyLen))
	total += n
	if err != nil {
		return total, err
	}

	n, err = e.ser.WriteFloat16(buf, v.IPD)
	total += n
	return total, err
}
