package section

import (
	"fmt"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
)

// SectionHeader is the fixed-size record written at the reserved offset at
// the start of every compressed-vector binary section. It is reserved
// zero-filled when a write session opens and back-patched when the session
// closes.
//
// On-disk layout:
//
//	offset  0: sectionLength (uint64) - total bytes from the header start to
//	           the end of the section's last packet
//	offset  8: dataPhysicalOffset (uint64) - physical offset of the first
//	           data packet, or NoDataOffset if none were written
//	offset 16: indexPhysicalOffset (uint64) - physical offset of the index packet
type SectionHeader struct {
	SectionLength       uint64
	DataPhysicalOffset  uint64
	IndexPhysicalOffset uint64
}

// HasData reports whether the section contains any data packets.
func (h *SectionHeader) HasData() bool {
	return h.DataPhysicalOffset != NoDataOffset
}

// Bytes serializes the section header into a new byte slice.
func (h *SectionHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, SectionHeaderSize)

	engine.PutUint64(b[0:8], h.SectionLength)
	engine.PutUint64(b[8:16], h.DataPhysicalOffset)
	engine.PutUint64(b[16:24], h.IndexPhysicalOffset)

	return b
}

// Parse parses the section header from a byte slice.
func (h *SectionHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != SectionHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.SectionLength = engine.Uint64(data[0:8])
	h.DataPhysicalOffset = engine.Uint64(data[8:16])
	h.IndexPhysicalOffset = engine.Uint64(data[16:24])

	return nil
}

// Validate checks the header against the physical length of the container
// file before it is written. Every referenced offset must fall inside the
// file, and the section must at least cover its own header and the index
// packet.
func (h *SectionHeader) Validate(filePhysicalLength uint64) error {
	if h.SectionLength < SectionHeaderSize+IndexPacketHeaderSize+IndexEntrySize {
		return fmt.Errorf("%w: section length %d too small", errs.ErrInternal, h.SectionLength)
	}

	if h.HasData() && h.DataPhysicalOffset >= filePhysicalLength {
		return fmt.Errorf("%w: data offset %d beyond file length %d",
			errs.ErrInternal, h.DataPhysicalOffset, filePhysicalLength)
	}

	if h.IndexPhysicalOffset >= filePhysicalLength {
		return fmt.Errorf("%w: index offset %d beyond file length %d",
			errs.ErrInternal, h.IndexPhysicalOffset, filePhysicalLength)
	}

	return nil
}
