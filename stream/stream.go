package stream

import (
	"fmt"

	"github.com/arloliu/cvec/compress"
	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
	"github.com/arloliu/cvec/internal/pool"
	"github.com/arloliu/cvec/schema"
)

// blockSize is the pending-block threshold: once a stream has this many raw
// encoded bytes pending, the block is compressed and framed into the output
// buffer. Small enough to keep per-stream memory bounded, large enough to
// give the codecs a useful window.
const blockSize = 4096

// FieldStream is the contract the write session consumes. One stream exists
// per bound field, ordered by the stream index the prototype assigns.
type FieldStream interface {
	// StreamIndex returns the schema-assigned stream index.
	StreamIndex() int

	// BytesAvailable returns the number of framed output bytes ready to be
	// read into a packet.
	BytesAvailable() int

	// ReadAvailable copies the first n available output bytes into dst and
	// consumes them. n must not exceed BytesAvailable.
	ReadAvailable(dst []byte, n int) error

	// Flush compresses and frames any pending partial block so its bytes
	// become available.
	Flush() error

	// RecordsEncoded returns the cumulative number of records this stream
	// has consumed over the session's lifetime.
	RecordsEncoded() uint64

	// EncodeUpTo encodes exactly batch more records from the binding cursor.
	EncodeUpTo(batch int) error

	// Rebind replaces the stream's binding with a structurally compatible one.
	Rebind(b Binding) error

	// Rewind resets the binding read cursor to the buffer start.
	Rewind()

	// Release returns the stream's buffers to the pool. The stream is
	// unusable afterwards.
	Release()
}

// New creates the field stream for one binding, selecting the encoder that
// matches the field's declared type.
func New(field schema.Field, streamIndex int, b Binding, codec compress.Codec, engine endian.EndianEngine) (FieldStream, error) {
	if !b.matchesType(field.Type) {
		return nil, fmt.Errorf("%w: field %q (%s) bound to %s buffer",
			errs.ErrSchemaMismatch, field.Path, field.Type, b.kind())
	}

	out := output{
		index:   streamIndex,
		codec:   codec,
		engine:  engine,
		pending: pool.GetStreamBuffer(),
		out:     pool.GetStreamBuffer(),
	}

	switch field.Type {
	case format.TypeInteger:
		return &IntegerStream{output: out, binding: b}, nil
	case format.TypeScaledInteger:
		return &ScaledIntegerStream{output: out, binding: b, scale: field.Scale, offset: field.Offset, path: field.Path}, nil
	case format.TypeFloat:
		return &FloatStream{output: out, binding: b}, nil
	case format.TypeString:
		return &StringStream{output: out, binding: b, path: field.Path}, nil
	default:
		return nil, fmt.Errorf("%w: field %q has unknown type %s", errs.ErrInternal, field.Path, field.Type)
	}
}

// output holds the state shared by all stream implementations: the binding
// cursor, record accounting, and the pending-block/framed-output buffers.
type output struct {
	index   int
	cursor  int
	records uint64

	codec   compress.Codec
	engine  endian.EndianEngine
	pending *pool.ByteBuffer
	out     *pool.ByteBuffer
}

func (o *output) StreamIndex() int {
	return o.index
}

func (o *output) BytesAvailable() int {
	return o.out.Len()
}

func (o *output) RecordsEncoded() uint64 {
	return o.records
}

func (o *output) Rewind() {
	o.cursor = 0
}

// ReadAvailable copies the first n output bytes into dst and consumes them.
func (o *output) ReadAvailable(dst []byte, n int) error {
	if n < 0 || n > o.out.Len() {
		return fmt.Errorf("%w: read of %d bytes with %d available", errs.ErrInternal, n, o.out.Len())
	}

	copy(dst, o.out.Bytes()[:n])
	o.out.Consume(n)

	return nil
}

// Flush seals the pending partial block, if any, into the output buffer.
func (o *output) Flush() error {
	return o.sealBlock()
}

// sealBlock compresses the pending block and appends one frame to the output
// buffer. A no-op when nothing is pending.
func (o *output) sealBlock() error {
	rawLen := o.pending.Len()
	if rawLen == 0 {
		return nil
	}

	compressed, err := o.codec.Compress(o.pending.Bytes())
	if err != nil {
		return fmt.Errorf("failed to compress stream block: %w", err)
	}

	o.out.Grow(8 + len(compressed))
	o.out.B = o.engine.AppendUint32(o.out.B, uint32(rawLen))          //nolint: gosec
	o.out.B = o.engine.AppendUint32(o.out.B, uint32(len(compressed))) //nolint: gosec
	o.out.B = append(o.out.B, compressed...)

	o.pending.Reset()

	return nil
}

// sealIfFull seals the pending block once it reaches the block threshold.
func (o *output) sealIfFull() error {
	if o.pending.Len() >= blockSize {
		return o.sealBlock()
	}

	return nil
}

// advance records that n more records were consumed from the binding.
func (o *output) advance(n int) {
	o.cursor += n
	o.records += uint64(n)
}

// checkBatch validates that the binding can supply batch more records.
func (o *output) checkBatch(batch int, capacity int) error {
	if batch < 0 || o.cursor+batch > capacity {
		return fmt.Errorf("%w: batch of %d records at cursor %d exceeds capacity %d",
			errs.ErrInternal, batch, o.cursor, capacity)
	}

	return nil
}

func (o *output) Release() {
	if o.pending != nil {
		pool.PutStreamBuffer(o.pending)
		o.pending = nil
	}
	if o.out != nil {
		pool.PutStreamBuffer(o.out)
		o.out = nil
	}
}
