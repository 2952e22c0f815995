// Package section defines the fixed binary layouts of the cvec container
// format: the data packet header, the index packet, and the section header.
//
// Every multi-byte field is serialized through an endian.EndianEngine so the
// same layout code supports both byte orders. All layout sizes and limits are
// declared as constants in this package; the writer package validates emitted
// packets against them before any byte reaches the container.
package section
