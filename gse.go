// Package gse implements a compact binary codec for real-time game state
// telemetry objects: head pose, hand pose, generic scene object
// transforms, inter-pupillary distance and indexed triangle meshes.
//
// Each object is framed on the wire as a (tag, length, body) record;
// records concatenate back-to-back into a stream. All multi-octet
// integers are big-endian, floats travel as the raw bit pattern of the
// equivalent-width unsigned integer, and tags and lengths are
// variable-length integers. Objects carrying a tag the decoder does not
// recognise are preserved verbatim as types.UnknownObject, so they
// survive a decode/re-encode round trip unchanged.
//
// Encoder and Decoder operate on an encio.DataBuffer. Encoding an object
// is atomic: the encoder first measures the body with a size-only pass,
// and if the framed record does not fit in the buffer's remaining
// capacity nothing is written and the caller may retry on a fresh buffer.
//
// The low-level pieces are exposed in sub-packages: gse/types holds the
// object catalog, gse/encode the primitive serializer and deserializer,
// gse/encio the data buffer and error kinds, and gse/float16 the
// binary16 conversion.
//
// Encoders, Decoders and DataBuffers are not safe for concurrent use;
// distinct instances are independent.
package gse
