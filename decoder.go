package gse

import (
	"io"

	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/encode"
	"github.com/cisco/gse/types"
)

// Decoder reads game state objects from a data buffer.
//
// Each object's declared body length dominates the decode: consuming more
// octets than declared is an error, while octets the decoder does not
// understand at the end of a body are silently skipped. That skip rule is
// how older readers survive newer writers. Objects with an unrecognised
// tag decode to types.UnknownObject carrying the raw body.
//
// A decode error leaves the read cursor past the last successfully read
// primitive; callers needing atomic-object semantics should note
// ReadLength before the call and rewind on error.
type Decoder struct {
	buf *encio.DataBuffer
	des encode.Deserializer
	err error
}

// NewDecoder returns a Decoder consuming buf from its read cursor. The
// buffer remains owned by the caller.
func NewDecoder(buf *encio.DataBuffer) *Decoder {
	return &Decoder{buf: buf}
}

// Err returns the error from the most recent decode call. It is cleared
// by every successful call.
func (d *Decoder) Err() error {
	return d.err
}

// DecodeAll drains the buffer, decoding objects serially until the read
// cursor reaches the data length. Objects decoded before an error are
// returned with it.
func (d *Decoder) DecodeAll() (types.Objects, int, error) {
	var objects types.Objects
	total := 0

	for {
		object, n, err := d.Decode()
		total += n
		if err == io.EOF {
			return objects, total, nil
		}
		if err != nil {
			return objects, total, err
		}
		objects = append(objects, object)
	}
}

// Decode reads one object. It returns io.EOF, with no error state
// retained, once the buffer has no data left to read.
func (d *Decoder) Decode() (types.Object, int, error) {
	object, n, err := d.decode()
	if err == io.EOF {
		d.err = nil
	} else {
		d.err = err
	}
	return object, n, err
}

func (d *Decoder) decode() (types.Object, int, error) {
	if d.buf.ReadLength() >= d.buf.DataLength() {
		return nil, 0, io.EOF
	}

	rawTag, n, err := d.des.ReadVarUint(d.buf)
	if err != nil {
		return nil, n, err
	}
	if rawTag == 0 {
		return nil, n, encio.NewError(encio.ErrInvalidTag, "cannot decode an invalid (0) tag", 0)
	}

	var object types.Object
	var bn int

	switch types.Tag(rawTag) {
	case types.TagHead1:
		object, bn, err = d.decodeHead1()
	case types.TagHand1:
		object, bn, err = d.decodeHand1()
	case types.TagHand2:
		object, bn, err = d.decodeHand2()
	case types.TagObject1:
		object, bn, err = d.decodeObject1()
	case types.TagMesh1:
		object, bn, err = d.decodeMesh1()
	case types.TagHeadIPD1:
		object, bn, err = d.decodeHeadIPD1()
	default:
		object, bn, err = d.decodeUnknown(rawTag)
	}

	if err != nil {
		return nil, n + bn, err
	}
	return object, n + bn, nil
}

// readBodyLength reads and validates an object's declared body length.
func (d *Decoder) readBodyLength() (int, int, error) {
	length, n, err := d.des.ReadVarUint(d.buf)
	if err != nil {
		return 0, n, err
	}
	if length == 0 {
		return 0, n, encio.NewError(encio.ErrLengthMismatch, "invalid object length", 0)
	}
	return int(length), n, nil
}

// finishBody skips octets the decoder did not understand inside the
// declared body, and rejects bodies whose fields overran the declaration.
// start is the read cursor position just after the length prefix.
func (d *Decoder) finishBody(start, length, n int) (int, error) {
	consumed := d.buf.ReadLength() - start
	if consumed > length {
		return n, encio.NewError(encio.ErrLengthMismatch, "encoded object length error", 0)
	}
	if consumed < length {
		skip := length - consumed
		if err := d.buf.AdvanceReadLength(skip); err != nil {
			return n, err
		}
		n += skip
	}
	return n, nil
}

func (d *Decoder) decodeHead1() (types.Head1, int, error) {
	var v types.Head1

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.ID, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}
	if v.Time, n, err = d.readUint16(n); err != nil {
		return v, n, err
	}
	if v.Location, n, err = d.readLoc2(n); err != nil {
		return v, n, err
	}
	if v.Rotation, n, err = d.readRot2(n); err != nil {
		return v, n, err
	}

	// An optional trailing record must be a HeadIPD1.
	if d.buf.ReadLength()-start < length {
		object, on, err := d.decode()
		n += on
		if err != nil {
			if err == io.EOF {
				err = encio.NewError(encio.ErrReadPastEnd, "truncated optional object", 0)
			}
			return v, n, err
		}
		ipd, ok := object.(types.HeadIPD1)
		if !ok {
			return v, n, encio.NewError(encio.ErrUnexpectedOptional, "unexpected optional object type decoding Head1", 0)
		}
		v.IPD = &ipd
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

func (d *Decoder) decodeHand1() (types.Hand1, int, error) {
	var v types.Hand1

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.ID, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}
	if v.Time, n, err = d.readUint16(n); err != nil {
		return v, n, err
	}
	if v.Left, n, err = d.readBool(n); err != nil {
		return v, n, err
	}
	if v.Location, n, err = d.readLoc2(n); err != nil {
		return v, n, err
	}
	if v.Rotation, n, err = d.readRot2(n); err != nil {
		return v, n, err
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

func (d *Decoder) decodeHand2() (types.Hand2, int, error) {
	var v types.Hand2

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.ID, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}
	if v.Time, n, err = d.readUint16(n); err != nil {
		return v, n, err
	}
	if v.Left, n, err = d.readBool(n); err != nil {
		return v, n, err
	}
	if v.Location, n, err = d.readLoc2(n); err != nil {
		return v, n, err
	}
	if v.Rotation, n, err = d.readRot2(n); err != nil {
		return v, n, err
	}
	if v.Wrist, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.Thumb, n, err = d.readThumb(n); err != nil {
		return v, n, err
	}
	if v.Index, n, err = d.readFinger(n); err != nil {
		return v, n, err
	}
	if v.Middle, n, err = d.readFinger(n); err != nil {
		return v, n, err
	}
	if v.Ring, n, err = d.readFinger(n); err != nil {
		return v, n, err
	}
	if v.Pinky, n, err = d.readFinger(n); err != nil {
		return v, n, err
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

// decodeObject1 reads the Object1 wire body: id, position, rotation,
// scale and the optional parent. No time field travels on the wire; the
// struct's Time field is left zero.
func (d *Decoder) decodeObject1() (types.Object1, int, error) {
	var v types.Object1

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.ID, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}
	if v.Position, n, err = d.readLoc1(n); err != nil {
		return v, n, err
	}
	if v.Rotation, n, err = d.readRot1(n); err != nil {
		return v, n, err
	}
	if v.Scale, n, err = d.readLoc1(n); err != nil {
		return v, n, err
	}

	// The optional trailer is a bare VarUint parent id, not a framed
	// record.
	if d.buf.ReadLength()-start < length {
		parent, pn, err := d.des.ReadVarUint(d.buf)
		n += pn
		if err != nil {
			return v, n, err
		}
		v.Parent = &parent
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

func (d *Decoder) decodeMesh1() (types.Mesh1, int, error) {
	var v types.Mesh1

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.ID, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}

	count, cn, err := d.readVectorHeader(12)
	n += cn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < count; i++ {
		var vertex types.Loc1
		if vertex, n, err = d.readLoc1(n); err != nil {
			return v, n, err
		}
		v.Vertices = append(v.Vertices, vertex)
	}

	count, cn, err = d.readVectorHeader(6)
	n += cn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < count; i++ {
		var normal types.Norm1
		if normal, n, err = d.readNorm1(n); err != nil {
			return v, n, err
		}
		v.Normals = append(v.Normals, normal)
	}

	count, cn, err = d.readVectorHeader(2)
	n += cn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < count; i++ {
		var texture types.TextureUV1
		if texture, n, err = d.readTextureUV1(n); err != nil {
			return v, n, err
		}
		v.Textures = append(v.Textures, texture)
	}

	count, cn, err = d.readVectorHeader(1)
	n += cn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < count; i++ {
		triangle, tn, err := d.des.ReadVarUint(d.buf)
		n += tn
		if err != nil {
			return v, n, err
		}
		v.Triangles = append(v.Triangles, triangle)
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

func (d *Decoder) decodeHeadIPD1() (types.HeadIPD1, int, error) {
	var v types.HeadIPD1

	length, n, err := d.readBodyLength()
	if err != nil {
		return v, n, err
	}
	start := d.buf.ReadLength()

	if v.IPD, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}

	n, err = d.finishBody(start, length, n)
	return v, n, err
}

// decodeUnknown preserves an unrecognised object: the raw tag plus its
// length-prefixed body octets, verbatim.
func (d *Decoder) decodeUnknown(rawTag types.VarUint) (types.UnknownObject, int, error) {
	data, n, err := d.des.ReadBlob(d.buf)
	if err != nil {
		return types.UnknownObject{}, n, err
	}
	return types.UnknownObject{Tag: rawTag, Data: data}, n, nil
}

// readVectorHeader reads a vector's element count and sanity-checks it
// against the octets remaining, given the minimum encoded width of one
// element.
func (d *Decoder) readVectorHeader(minElementSize int) (int, int, error) {
	count, n, err := d.des.ReadVarUint(d.buf)
	if err != nil {
		return 0, n, err
	}

	remaining := d.buf.DataLength() - d.buf.ReadLength()
	if uint64(count) > uint64(remaining)/uint64(minElementSize) {
		return 0, n, encio.NewError(encio.ErrReadPastEnd, "vector count exceeds remaining data", 0)
	}
	return int(count), n, nil
}

// The field readers below mirror the encoder's field writers; each takes
// and returns the running octet count.

func (d *Decoder) readVarUint(n int) (types.VarUint, int, error) {
	v, rn, err := d.des.ReadVarUint(d.buf)
	return v, n + rn, err
}

func (d *Decoder) readUint16(n int) (uint16, int, error) {
	v, rn, err := d.des.ReadUint16(d.buf)
	return v, n + rn, err
}

func (d *Decoder) readBool(n int) (bool, int, error) {
	v, rn, err := d.des.ReadBool(d.buf)
	return v, n + rn, err
}

func (d *Decoder) readFloat16(n int) (types.Float16, int, error) {
	v, rn, err := d.des.ReadFloat16(d.buf)
	return v, n + rn, err
}

func (d *Decoder) readFloat32(n int) (float32, int, error) {
	v, rn, err := d.des.ReadFloat32(d.buf)
	return v, n + rn, err
}

func (d *Decoder) readLoc1(n int) (types.Loc1, int, error) {
	var v types.Loc1
	var err error

	if v.X, n, err = d.readFloat32(n); err != nil {
		return v, n, err
	}
	if v.Y, n, err = d.readFloat32(n); err != nil {
		return v, n, err
	}
	v.Z, n, err = d.readFloat32(n)
	return v, n, err
}

// readLoc2 reads the velocity components in wire order vx, vy, vz.
func (d *Decoder) readLoc2(n int) (types.Loc2, int, error) {
	var v types.Loc2
	var err error

	if v.X, n, err = d.readFloat32(n); err != nil {
		return v, n, err
	}
	if v.Y, n, err = d.readFloat32(n); err != nil {
		return v, n, err
	}
	if v.Z, n, err = d.readFloat32(n); err != nil {
		return v, n, err
	}
	if v.Vx, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Vy, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	v.Vz, n, err = d.readFloat16(n)
	return v, n, err
}

func (d *Decoder) readNorm1(n int) (types.Norm1, int, error) {
	var v types.Norm1
	var err error

	if v.X, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Y, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	v.Z, n, err = d.readFloat16(n)
	return v, n, err
}

func (d *Decoder) readTextureUV1(n int) (types.TextureUV1, int, error) {
	var v types.TextureUV1
	var err error

	if v.U, n, err = d.readVarUint(n); err != nil {
		return v, n, err
	}
	v.V, n, err = d.readVarUint(n)
	return v, n, err
}

func (d *Decoder) readRot1(n int) (types.Rot1, int, error) {
	var v types.Rot1
	var err error

	if v.I, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.J, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	v.K, n, err = d.readFloat16(n)
	return v, n, err
}

func (d *Decoder) readRot2(n int) (types.Rot2, int, error) {
	var v types.Rot2
	var err error

	if v.Si, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Sj, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Sk, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Ei, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Ej, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	v.Ek, n, err = d.readFloat16(n)
	return v, n, err
}

func (d *Decoder) readTransform1(n int) (types.Transform1, int, error) {
	var v types.Transform1
	var err error

	if v.Tx, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	if v.Ty, n, err = d.readFloat16(n); err != nil {
		return v, n, err
	}
	v.Tz, n, err = d.readFloat16(n)
	return v, n, err
}

func (d *Decoder) readThumb(n int) (types.Thumb, int, error) {
	var v types.Thumb
	var err error

	if v.Tip, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.IP, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.MCP, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	v.CMC, n, err = d.readTransform1(n)
	return v, n, err
}

func (d *Decoder) readFinger(n int) (types.Finger, int, error) {
	var v types.Finger
	var err error

	if v.Tip, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.DIP, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.PIP, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	if v.MCP, n, err = d.readTransform1(n); err != nil {
		return v, n, err
	}
	v.CMC, n, err = d.readTransform1(n)
	return v, n, err
}
