package section

import (
	"fmt"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
)

// IndexPacket is the packet that records, for readers, where a section's data
// packet chunks begin. The format reserves room for multiple entries; the
// write engine always emits exactly one entry referencing the first data
// packet.
//
// On-disk layout:
//
//	offset 0: entryCount (uint16)
//	offset 2: packetLengthMinus1 (uint16)
//	offset 4: chunkPhysicalOffset (uint64) × entryCount
type IndexPacket struct {
	EntryCount         uint16
	PacketLengthMinus1 uint16
	Entries            []uint64
}

// NewIndexPacket creates an index packet with the given chunk offsets.
// The packet length is computed from the entry count.
func NewIndexPacket(entries ...uint64) *IndexPacket {
	length := IndexPacketHeaderSize + IndexEntrySize*len(entries)

	return &IndexPacket{
		EntryCount:         uint16(len(entries)), //nolint: gosec
		PacketLengthMinus1: uint16(length - 1),   //nolint: gosec
		Entries:            entries,
	}
}

// PacketLength returns the total packet length encoded in the header.
func (p *IndexPacket) PacketLength() int {
	return int(p.PacketLengthMinus1) + 1
}

// Bytes serializes the index packet into a new byte slice.
func (p *IndexPacket) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, IndexPacketHeaderSize+IndexEntrySize*len(p.Entries))

	engine.PutUint16(b[0:2], p.EntryCount)
	engine.PutUint16(b[2:4], p.PacketLengthMinus1)
	for i, entry := range p.Entries {
		offset := IndexPacketHeaderSize + i*IndexEntrySize
		engine.PutUint64(b[offset:offset+IndexEntrySize], entry)
	}

	return b
}

// ParseIndexPacket parses an index packet from data.
func ParseIndexPacket(data []byte, engine endian.EndianEngine) (*IndexPacket, error) {
	if len(data) < IndexPacketHeaderSize {
		return nil, errs.ErrInvalidHeaderSize
	}

	p := &IndexPacket{
		EntryCount:         engine.Uint16(data[0:2]),
		PacketLengthMinus1: engine.Uint16(data[2:4]),
	}

	expected := IndexPacketHeaderSize + IndexEntrySize*int(p.EntryCount)
	if p.PacketLength() != expected {
		return nil, fmt.Errorf("%w: index packet length %d does not match %d entries",
			errs.ErrInternal, p.PacketLength(), p.EntryCount)
	}
	if len(data) < expected {
		return nil, errs.ErrInvalidHeaderSize
	}

	p.Entries = make([]uint64, p.EntryCount)
	for i := range p.Entries {
		offset := IndexPacketHeaderSize + i*IndexEntrySize
		p.Entries[i] = engine.Uint64(data[offset : offset+IndexEntrySize])
	}

	return p, nil
}

// Validate checks the internal consistency of the index packet.
func (p *IndexPacket) Validate() error {
	if int(p.EntryCount) != len(p.Entries) {
		return fmt.Errorf("%w: entry count %d does not match %d entries",
			errs.ErrInternal, p.EntryCount, len(p.Entries))
	}

	expected := IndexPacketHeaderSize + IndexEntrySize*len(p.Entries)
	if p.PacketLength() != expected {
		return fmt.Errorf("%w: index packet length %d, expected %d",
			errs.ErrInternal, p.PacketLength(), expected)
	}

	if p.PacketLength()%PacketAlign != 0 {
		return fmt.Errorf("%w: index packet length %d not a multiple of %d",
			errs.ErrInternal, p.PacketLength(), PacketAlign)
	}

	return nil
}
