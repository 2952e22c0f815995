// Package compress provides the block codecs used by cvec field streams.
//
// Field streams accumulate encoded records into pending blocks and push each
// block through a Codec before framing it into the stream's output buffer.
// Blocks are small (a few KiB), so all codecs here are block codecs rather
// than streaming writers, and implementations pool their internal state where
// the underlying library benefits from reuse.
package compress
