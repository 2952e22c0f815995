package writer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cvec/compress"
	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
	"github.com/arloliu/cvec/schema"
	"github.com/arloliu/cvec/section"
	"github.com/arloliu/cvec/stream"
)

// newFlushedStream builds an uncompressed integer field stream with every
// record encoded and flushed, so its framed bytes are available for packing.
func newFlushedStream(t *testing.T, streamIndex int, values []int64) stream.FieldStream {
	t.Helper()

	field := schema.Field{Path: "f", Type: format.TypeInteger}
	b := stream.Binding{Path: "f", Values: values}

	s, err := stream.New(field, streamIndex, b, compress.NewNoOpCompressor(), endian.GetLittleEndianEngine())
	require.NoError(t, err)
	t.Cleanup(s.Release)

	require.NoError(t, s.EncodeUpTo(len(values)))
	require.NoError(t, s.Flush())

	return s
}

func TestPacketSerializer_SerializeData(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	p := &packetSerializer{engine: engine}

	streams := []stream.FieldStream{
		newFlushedStream(t, 0, []int64{1, 2, 3}),
		newFlushedStream(t, 1, []int64{10}),
	}
	counts := []int{streams[0].BytesAvailable(), streams[1].BytesAvailable()}

	packet, err := p.serializeData(streams, counts)
	require.NoError(t, err)

	header := section.DataPacketHeader{}
	require.NoError(t, header.Parse(packet, engine))
	require.Equal(t, len(packet), header.PacketLength())
	require.Equal(t, uint16(2), header.StreamCount)
	require.Zero(t, len(packet)%section.PacketAlign)

	// Length table follows the header, one uint16 per stream.
	require.Equal(t, uint16(counts[0]), engine.Uint16(packet[4:6]))
	require.Equal(t, uint16(counts[1]), engine.Uint16(packet[6:8]))

	// Both streams were fully drained.
	require.Zero(t, streams[0].BytesAvailable())
	require.Zero(t, streams[1].BytesAvailable())

	// Bytes beyond header, table and payloads are alignment padding.
	payloadEnd := section.DataPacketHeaderSize + 2*section.StreamLengthSize + counts[0] + counts[1]
	for _, pad := range packet[payloadEnd:] {
		require.Zero(t, pad)
	}
}

func TestPacketSerializer_SerializeDataErrors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	p := &packetSerializer{engine: engine}

	t.Run("count list mismatch", func(t *testing.T) {
		streams := []stream.FieldStream{newFlushedStream(t, 0, []int64{1})}
		_, err := p.serializeData(streams, []int{1, 2})
		require.ErrorIs(t, err, errs.ErrInternal)
	})

	t.Run("count overflows length field", func(t *testing.T) {
		streams := []stream.FieldStream{newFlushedStream(t, 0, []int64{1})}
		_, err := p.serializeData(streams, []int{section.MaxStreamByteCount + 1})
		require.ErrorIs(t, err, errs.ErrInternal)
	})

	t.Run("count exceeds stream availability", func(t *testing.T) {
		streams := []stream.FieldStream{newFlushedStream(t, 0, []int64{1})}
		_, err := p.serializeData(streams, []int{1000})
		require.ErrorIs(t, err, errs.ErrInternal)
	})
}

func TestPacketSerializer_SerializeEmpty(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	p := &packetSerializer{engine: engine}

	packet, err := p.serializeEmpty()
	require.NoError(t, err)
	require.Len(t, packet, section.DataPacketHeaderSize)

	header := section.DataPacketHeader{}
	require.NoError(t, header.Parse(packet, engine))
	require.Equal(t, section.DataPacketHeaderSize, header.PacketLength())
	require.Zero(t, header.StreamCount)
}
