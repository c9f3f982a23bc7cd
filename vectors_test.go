package gse_test

import (
	"testing"

	"github.com/cisco/gse/encio"
	"github.com/cisco/gse/types"
)

// The expected octet strings below are the wire test vectors of the
// protocol; producers and consumers must match them bit for bit.

func head1Fixture() types.Head1 {
	return types.Head1{
		ID:   0,
		Time: 0x0500,
		Location: types.Loc2{
			X: 1.1,
			Y: 0.2,
			Z: 30.0,
		},
	}
}

var head1Encoded = []byte{
	0x01, 0x21, 0x00, 0x05, 0x00, 0x3f, 0x8c, 0xcc,
	0xcd, 0x3e, 0x4c, 0xcc, 0xcd, 0x41, 0xf0, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00,
}

func head1IPDFixture() types.Head1 {
	head := head1Fixture()
	head.IPD = &types.HeadIPD1{IPD: 3.140625}
	return head
}

var head1IPDEncoded = []byte{
	0x01, 0x27, 0x00, 0x05, 0x00, 0x3f, 0x8c, 0xcc,
	0xcd, 0x3e, 0x4c, 0xcc, 0xcd, 0x41, 0xf0, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00,

	// ipd
	0xc0, 0x80, 0x02, 0x02, 0x42, 0x48,
}

func hand1Fixture() types.Hand1 {
	return types.Hand1{
		ID:   12,
		Time: 0x0500,
		Left: true,
		Location: types.Loc2{
			X:  1.1,
			Y:  0.2,
			Z:  30.0,
			Vx: 3.140625,
		},
		Rotation: types.Rot2{
			Ek: 3.140625,
		},
	}
}

var hand1Encoded = []byte{
	0x02, 0x22, 0x0c, 0x05, 0x00, 0x01, 0x3f, 0x8c,
	0xcc, 0xcd, 0x3e, 0x4c, 0xcc, 0xcd, 0x41, 0xf0,
	0x00, 0x00, 0x42, 0x48, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x42, 0x48,
}

func hand2Fixture() types.Hand2 {
	hand := types.Hand2{
		ID:   12,
		Time: 0x0500,
		Left: true,
		Location: types.Loc2{
			X:  1.1,
			Y:  0.2,
			Z:  30.0,
			Vx: 3.140625,
		},
		Rotation: types.Rot2{
			Ek: 3.140625,
		},
		Wrist: types.Transform1{Ty: 3.140625},
	}
	hand.Thumb.Tip.Ty = 3.140625
	hand.Thumb.IP.Ty = 3.140625
	hand.Thumb.MCP.Ty = 3.140625
	hand.Thumb.CMC.Ty = 3.140625
	hand.Pinky.Tip.Tx = 3.140625
	return hand
}

var hand2Encoded = []byte{
	// tag
	0xc0, 0x80, 0x01,

	// length
	0x80, 0xb8,

	// id
	0x0c,

	// time
	0x05, 0x00,

	// left
	0x01,

	// location
	0x3f, 0x8c, 0xcc, 0xcd, 0x3e, 0x4c, 0xcc, 0xcd,
	0x41, 0xf0, 0x00, 0x00, 0x42, 0x48, 0x00, 0x00,
	0x00, 0x00,

	// rotation
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x42, 0x48,

	// wrist
	0x00, 0x00, 0x42, 0x48, 0x00, 0x00,

	// thumb
	0x00, 0x00, 0x42, 0x48, 0x00, 0x00, 0x00, 0x00,
	0x42, 0x48, 0x00, 0x00, 0x00, 0x00, 0x42, 0x48,
	0x00, 0x00, 0x00, 0x00, 0x42, 0x48, 0x00, 0x00,

	// index
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	// middle
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	// ring
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	// pinky
	0x42, 0x48, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func mesh1Fixture() types.Mesh1 {
	return types.Mesh1{
		ID: 0x1b,
		Vertices: []types.Loc1{
			{X: 1.0, Y: 2.0, Z: 3.0},
			{X: 1.0, Y: 2.0, Z: 3.0},
		},
		Normals: []types.Norm1{
			{X: 3.140625, Y: -1.0, Z: 65504.0},
			{X: 3.140625, Y: -1.0, Z: 3.140625},
			{X: 3.140625, Y: -1.0, Z: 65504.0},
		},
		Textures: []types.TextureUV1{
			{U: 1, V: 129},
		},
	}
}

var mesh1Encoded = []byte{
	// tag
	0xc0, 0x80, 0x00,

	// length
	0x32,

	// id
	0x1b,

	// vertices
	0x02,
	0x3f, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00,
	0x40, 0x40, 0x00, 0x00,
	0x3f, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00,
	0x40, 0x40, 0x00, 0x00,

	// normals
	0x03,
	0x42, 0x48, 0xbc, 0x00, 0x7b, 0xff,
	0x42, 0x48, 0xbc, 0x00, 0x42, 0x48,
	0x42, 0x48, 0xbc, 0x00, 0x7b, 0xff,

	// textures
	0x01,
	0x01, 0x80, 0x81,

	// triangles
	0x00,
}

func object1Fixture() types.Object1 {
	return types.Object1{
		ID:       12,
		Time:     0x0500,
		Position: types.Loc1{X: 1.0, Y: 2.0, Z: 3.0},
		Rotation: types.Rot1{I: 4.0, J: 5.0, K: 6.0},
		Scale:    types.Loc1{X: 7.0, Y: 8.0, Z: 9.0},
	}
}

// Object1 carries no time field on the wire.
var object1Encoded = []byte{
	// tag
	0x03,

	// length
	0x1f,

	// id
	0x0c,

	// position
	0x3f, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00,
	0x40, 0x40, 0x00, 0x00,

	// rotation
	0x44, 0x00, 0x45, 0x00, 0x46, 0x00,

	// scale
	0x40, 0xe0, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00,
	0x41, 0x10, 0x00, 0x00,
}

// concat joins record vectors into a stream vector.
func concat(records ...[]byte) []byte {
	var stream []byte
	for _, record := range records {
		stream = append(stream, record...)
	}
	return stream
}

func decodeBufferOf(t *testing.T, octets []byte) *encio.DataBuffer {
	t.Helper()
	buff, err := encio.NewDataBufferFrom(octets, len(octets))
	if err != nil {
		t.Fatal(err)
	}
	return buff
}
