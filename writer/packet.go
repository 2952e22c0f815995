package writer

import (
	"fmt"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/section"
	"github.com/arloliu/cvec/stream"
)

// packetSerializer lays data packets out into a fixed scratch buffer. The
// scratch buffer lives for the whole session so packet emission allocates
// nothing; the returned slices are views into it, valid until the next
// serialize call.
type packetSerializer struct {
	engine  endian.EndianEngine
	scratch [section.PacketMax]byte
}

// serializeData lays out one data packet: header, per-stream length table in
// stream-index order, each stream's allocated bytes in the same order, then
// zero padding to a 4-byte boundary. Fails with ErrInternal if a count
// overflows the 16-bit length field, the write position would exceed the
// scratch bound, or the final length disagrees with the independently
// computed expected length.
func (p *packetSerializer) serializeData(streams []stream.FieldStream, counts []int) ([]byte, error) {
	numStreams := len(streams)
	if numStreams != len(counts) {
		return nil, fmt.Errorf("%w: %d streams with %d counts", errs.ErrInternal, numStreams, len(counts))
	}
	if numStreams > section.MaxStreamCount {
		return nil, fmt.Errorf("%w: stream count %d exceeds %d", errs.ErrInternal, numStreams, section.MaxStreamCount)
	}

	// Write the length table after the header slot, checking each count
	// fits its 16-bit field.
	totalByteCount := 0
	pos := section.DataPacketHeaderSize
	for i, count := range counts {
		if count < 0 || count > section.MaxStreamByteCount {
			return nil, fmt.Errorf("%w: stream %d count %d overflows length field",
				errs.ErrInternal, i, count)
		}
		p.engine.PutUint16(p.scratch[pos:pos+section.StreamLengthSize], uint16(count)) //nolint: gosec
		pos += section.StreamLengthSize
		totalByteCount += count
	}

	// Copy each stream's contribution in stream-index order.
	for i, s := range streams {
		n := counts[i]
		if pos+n > section.PacketMax {
			return nil, fmt.Errorf("%w: stream %d write of %d bytes exceeds packet bound",
				errs.ErrInternal, i, n)
		}

		if err := s.ReadAvailable(p.scratch[pos:pos+n], n); err != nil {
			return nil, err
		}
		pos += n
	}

	// Double check the write position is what we expect before padding.
	expected := section.DataPacketHeaderSize + numStreams*section.StreamLengthSize + totalByteCount
	if pos != expected {
		return nil, fmt.Errorf("%w: packet length %d, expected %d", errs.ErrInternal, pos, expected)
	}

	// Packet length must be a multiple of 4; pad with zero bytes.
	for pos%section.PacketAlign != 0 {
		if pos >= section.PacketMax {
			return nil, fmt.Errorf("%w: padding exceeds packet bound", errs.ErrInternal)
		}
		p.scratch[pos] = 0
		pos++
	}

	header := section.DataPacketHeader{
		PacketLengthMinus1: uint16(pos - 1),    //nolint: gosec
		StreamCount:        uint16(numStreams), //nolint: gosec
	}
	header.WriteToSlice(p.scratch[:], 0, p.engine)

	if err := header.Validate(pos); err != nil {
		return nil, err
	}

	return p.scratch[:pos], nil
}

// serializeEmpty lays out the zero-record packet: a header with zero streams
// plus alignment padding, no payload. It keeps the packet stream well-formed
// for empty writes.
func (p *packetSerializer) serializeEmpty() ([]byte, error) {
	length := section.DataPacketHeaderSize
	for length%section.PacketAlign != 0 {
		p.scratch[length] = 0
		length++
	}

	header := section.DataPacketHeader{
		PacketLengthMinus1: uint16(length - 1), //nolint: gosec
		StreamCount:        0,
	}
	header.WriteToSlice(p.scratch[:], 0, p.engine)

	if err := header.Validate(length); err != nil {
		return nil, err
	}

	return p.scratch[:length], nil
}
