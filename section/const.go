package section

import "math"

// Layout sizes and limits of the container format.
const (
	// PacketMax is the maximum total length of any packet in bytes.
	PacketMax = 64 * 1024

	// DataPacketHeaderSize is the fixed size of the data packet header:
	// packetLengthMinus1 (uint16) + streamCount (uint16).
	DataPacketHeaderSize = 4

	// StreamLengthSize is the size of one per-stream byte count in the
	// length table that follows the data packet header.
	StreamLengthSize = 2

	// IndexPacketHeaderSize is the fixed size of the index packet header:
	// entryCount (uint16) + packetLengthMinus1 (uint16).
	IndexPacketHeaderSize = 4

	// IndexEntrySize is the size of one index packet entry: the physical
	// offset of a data packet chunk (uint64).
	IndexEntrySize = 8

	// SectionHeaderSize is the fixed size of the section header record:
	// sectionLength + dataPhysicalOffset + indexPhysicalOffset (3 × uint64).
	SectionHeaderSize = 24

	// PacketAlign is the required alignment of every packet's total length.
	PacketAlign = 4

	// MaxStreamByteCount is the largest per-stream byte count representable
	// in the data packet length table.
	MaxStreamByteCount = math.MaxUint16

	// MaxStreamCount is the largest stream count representable in the data
	// packet header.
	MaxStreamCount = math.MaxUint16
)

// NoDataOffset is the sentinel stored as the data physical offset when a
// section was closed without writing any data packets. A zero offset would be
// ambiguous with a packet at physical offset 0, so the all-ones value is used
// instead.
const NoDataOffset = math.MaxUint64
