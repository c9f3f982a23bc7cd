// Package types defines the game state object catalog and the primitive
// value types it is built from.
//
// These are the in-memory representations; the wire representation is
// produced by the encode and gse packages. Note that Float16 is held as a
// 32-bit float in memory and only narrows to binary16 at the wire
// boundary.
package types

// VarUint is an unsigned integer of up to 64 bits, carried on the wire in
// a variable-length prefix coding of 1, 2, 3, 5 or 9 octets.
type VarUint uint64

// VarInt is a signed integer of up to 64 bits, carried on the wire in the
// same prefix shapes as VarUint with a two's-complement payload.
type VarInt int64

// Float16 is a floating point value transferred as IEEE-754 binary16.
// In memory it is single precision; the codec narrows and widens at each
// wire boundary.
type Float16 float32

// Basic types.
type (
	String = string
	Blob   = []byte
)

// Simple type aliases.
type (
	TextureUrl1   = String
	TextureRtpPT1 = uint8
	Time1         = uint16
	ObjectID      = VarUint
	Length        = VarUint
)

// Tag identifies a serializable object variant. It is carried on the wire
// as a VarUint. The raw value 0 is reserved and never valid on the wire.
type Tag VarUint

const (
	TagInvalid  Tag = 0x00
	TagHead1    Tag = 0x01
	TagHand1    Tag = 0x02
	TagObject1  Tag = 0x03
	TagMesh1    Tag = 0x8000
	TagHand2    Tag = 0x8001
	TagHeadIPD1 Tag = 0x8002
)

// Object is one serializable game state object: Head1, Hand1, Object1,
// Mesh1, Hand2, HeadIPD1 or UnknownObject. The set is closed.
type Object interface {
	gsObject()
}

// Objects is a collection of game state objects.
type Objects []Object

// Loc1 is a position in metres.
type Loc1 struct {
	X float32
	Y float32
	Z float32
}

// Loc2 is a position in metres with a velocity vector. The declared field
// order is a historical artifact; the wire order is vx, vy, vz.
type Loc2 struct {
	X  float32
	Y  float32
	Z  float32
	Vy Float16
	Vx Float16
	Vz Float16
}

// Norm1 is a surface normal.
type Norm1 struct {
	X Float16
	Y Float16
	Z Float16
}

// TextureUV1 is a texture coordinate pair.
type TextureUV1 struct {
	U VarUint
	V VarUint
}

// Rot1 is a Rodrigues rotation vector.
type Rot1 struct {
	I Float16
	J Float16
	K Float16
}

// Rot2 is a pair of rotation vectors, start and end.
type Rot2 struct {
	Si Float16
	Sj Float16
	Sk Float16
	Ei Float16
	Ej Float16
	Ek Float16
}

// Transform1 is a translation relative to a parent joint.
type Transform1 struct {
	Tx Float16
	Ty Float16
	Tz Float16
}

// Thumb holds the joint transforms of a thumb.
type Thumb struct {
	Tip Transform1
	IP  Transform1
	MCP Transform1
	CMC Transform1
}

// Finger holds the joint transforms of a finger.
type Finger struct {
	Tip Transform1
	DIP Transform1
	PIP Transform1
	MCP Transform1
	CMC Transform1
}

// HeadIPD1 is the inter-pupillary distance in millimetres. It appears
// both as a top-level object and as the optional trailer of Head1.
type HeadIPD1 struct {
	IPD Float16
}

// Head1 is a head pose. IPD is optional; nil when absent.
type Head1 struct {
	ID       ObjectID
	Time     Time1
	Location Loc2
	Rotation Rot2
	IPD      *HeadIPD1
}

// Hand1 is a basic hand pose.
type Hand1 struct {
	ID       ObjectID
	Time     Time1
	Left     bool
	Location Loc2
	Rotation Rot2
}

// Hand2 is a fully articulated hand pose.
type Hand2 struct {
	ID       ObjectID
	Time     Time1
	Left     bool
	Location Loc2
	Rotation Rot2
	Wrist    Transform1
	Thumb    Thumb
	Index    Finger
	Middle   Finger
	Ring     Finger
	Pinky    Finger
}

// Object1 is a generic scene object transform. Parent is optional; nil
// when absent. Time is retained for callers but is not part of the wire
// encoding.
type Object1 struct {
	ID       ObjectID
	Time     Time1
	Position Loc1
	Rotation Rot1
	Scale    Loc1
	Parent   *ObjectID
}

// Mesh1 is an indexed triangle mesh.
type Mesh1 struct {
	ID        ObjectID
	Vertices  []Loc1
	Normals   []Norm1
	Textures  []TextureUV1
	Triangles []VarUint
}

// UnknownObject preserves the tag and raw body octets of an object the
// decoder does not recognise, so that it survives a decode/re-encode
// round trip unchanged.
type UnknownObject struct {
	Tag  VarUint
	Data Blob
}

func (Head1) gsObject()         {}
func (Hand1) gsObject()         {}
func (Hand2) gsObject()         {}
func (Object1) gsObject()       {}
func (Mesh1) gsObject()         {}
func (HeadIPD1) gsObject()      {}
func (UnknownObject) gsObject() {}
