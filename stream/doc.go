// Package stream implements the per-field byte streams a write session
// multiplexes into packets.
//
// Each stream pulls typed values from its binding, encodes them with a
// type-specific encoder, and pushes encoded blocks through a compress.Codec.
// Compressed blocks are framed into the stream's output buffer as
//
//	[rawLen uint32][compLen uint32][compressed bytes]
//
// with both lengths in the stream's byte order. The session drains the output
// buffer through ReadAvailable when it emits packets; a packet boundary may
// fall anywhere inside a frame, readers reassemble frames across packets.
//
// Streams are not safe for concurrent use; each stream belongs to exactly one
// write session.
package stream
