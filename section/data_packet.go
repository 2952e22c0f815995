package section

import (
	"fmt"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
)

// DataPacketHeader is the 4-byte header at the start of every data packet.
//
// On-disk layout:
//
//	offset 0: packetLengthMinus1 (uint16) - total packet length minus one,
//	          including header, length table, payload and padding
//	offset 2: streamCount (uint16) - number of entries in the length table
//
// The length is stored minus one so a full 64KiB packet fits in uint16.
type DataPacketHeader struct {
	PacketLengthMinus1 uint16
	StreamCount        uint16
}

// PacketLength returns the total packet length encoded in the header.
func (h *DataPacketHeader) PacketLength() int {
	return int(h.PacketLengthMinus1) + 1
}

// WriteToSlice serializes the header into buf at the given offset.
// The slice must have at least DataPacketHeaderSize bytes available.
func (h *DataPacketHeader) WriteToSlice(buf []byte, offset int, engine endian.EndianEngine) {
	engine.PutUint16(buf[offset:offset+2], h.PacketLengthMinus1)
	engine.PutUint16(buf[offset+2:offset+4], h.StreamCount)
}

// Parse parses the header from the beginning of data.
func (h *DataPacketHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < DataPacketHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.PacketLengthMinus1 = engine.Uint16(data[0:2])
	h.StreamCount = engine.Uint16(data[2:4])

	return nil
}

// Validate checks that the header is consistent with the actual serialized
// packet length: the header length echo matches, the length is 4-byte
// aligned, and the packet does not exceed the packet size ceiling.
func (h *DataPacketHeader) Validate(actualLength int) error {
	if h.PacketLength() != actualLength {
		return fmt.Errorf("%w: header length %d does not match packet length %d",
			errs.ErrInternal, h.PacketLength(), actualLength)
	}

	if actualLength%PacketAlign != 0 {
		return fmt.Errorf("%w: packet length %d not a multiple of %d",
			errs.ErrInternal, actualLength, PacketAlign)
	}

	if actualLength > PacketMax {
		return fmt.Errorf("%w: packet length %d exceeds maximum %d",
			errs.ErrInternal, actualLength, PacketMax)
	}

	return nil
}
