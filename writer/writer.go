package writer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/arloliu/cvec/compress"
	"github.com/arloliu/cvec/container"
	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/internal/options"
	"github.com/arloliu/cvec/schema"
	"github.com/arloliu/cvec/section"
	"github.com/arloliu/cvec/stream"
)

// Writer is a write session producing one compressed-vector binary section.
//
// A session is opened against a schema.Vector and a container, fed records
// through Write or WriteBindings, and finalized by Close, which drains the
// field streams, emits the mandatory index packet and back-patches the
// section header reserved at open time.
//
// Note: The Writer is NOT thread-safe. Each session belongs to a single
// goroutine; independent sessions on the same container may run concurrently.
//
// Note: The Writer is NOT reusable. After Close, open a new session for
// further writing.
type Writer struct {
	*WriterConfig

	vector  *schema.Vector
	cont    *container.Container
	proto   *schema.Prototype
	streams []stream.FieldStream // ordered by stream index
	bound   []stream.Binding     // current bindings, ordered by stream index

	serializer packetSerializer

	headerPlaceholder *container.Placeholder
	sectionStart      uint64 // logical offset of the reserved section header

	dataPhysicalOffset  uint64 // physical offset of the first data packet
	indexPhysicalOffset uint64 // physical offset of the index packet

	recordCount      uint64
	dataPacketCount  int
	indexPacketCount int

	isOpen bool
}

// Open opens a write session for the given vector on the given container.
//
// The binding set must be non-empty and exactly cover the vector prototype's
// declared field set; validation happens before any resource is allocated, so
// a failed Open leaves the container untouched (no writer count increment, no
// reserved space).
//
// Returns:
//   - *Writer: Open session ready for Write calls
//   - error: ErrInvalidArgument for an empty binding set, ErrSchemaMismatch
//     for a malformed one, ErrInternal for violated open-time invariants
func Open(vector *schema.Vector, cont *container.Container, bindings []stream.Binding, opts ...WriterOption) (*Writer, error) {
	config := newWriterConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: empty binding set", errs.ErrInvalidArgument)
	}

	proto := vector.Prototype()

	// Check the binding set is well formed before allocating anything: no
	// dups, no missing, no extra. All declared fields must be presented for
	// writing at the same time.
	if err := proto.ValidateBindings(bindingPaths(bindings)); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(config.compression, "stream")
	if err != nil {
		return nil, err
	}

	w := &Writer{
		WriterConfig:       config,
		vector:             vector,
		cont:               cont,
		proto:              proto,
		dataPhysicalOffset: section.NoDataOffset,
	}
	w.serializer.engine = config.engine

	// One encoding stream per binding, each resolved to the stream index its
	// position in the prototype dictates.
	w.streams = make([]stream.FieldStream, 0, len(bindings))
	for i, b := range bindings {
		idx, ok := proto.Resolve(b.Path)
		if !ok {
			w.releaseStreams()
			return nil, fmt.Errorf("%w: binding %d path %q has no stream position", errs.ErrInternal, i, b.Path)
		}

		s, err := stream.New(proto.Field(idx), idx, b, codec, config.engine)
		if err != nil {
			w.releaseStreams()
			return nil, err
		}
		w.streams = append(w.streams, s)
	}

	// The stream list must be ordered by stream index, not by the order the
	// caller supplied bindings in.
	sort.Slice(w.streams, func(i, j int) bool {
		return w.streams[i].StreamIndex() < w.streams[j].StreamIndex()
	})

	if config.strictValidation {
		// Double check the sorted indices form the dense 0..N-1 range.
		for i, s := range w.streams {
			if s.StreamIndex() != i {
				w.releaseStreams()
				return nil, fmt.Errorf("%w: stream %d has index %d", errs.ErrInternal, i, s.StreamIndex())
			}
		}
	}

	w.bound = orderBindings(proto, bindings)

	// Reserve the section header region now, zero-filled, and record where
	// it is so Close can back-patch it.
	placeholder, err := cont.Reserve(section.SectionHeaderSize)
	if err != nil {
		w.releaseStreams()
		return nil, err
	}
	w.headerPlaceholder = placeholder
	w.sectionStart = placeholder.Offset()

	// Just before returning, and past anything that can fail, register the
	// open session for leak detection.
	cont.IncrementWriterCount()
	w.isOpen = true

	return w, nil
}

// IsOpen reports whether the session accepts writes.
func (w *Writer) IsOpen() bool {
	return w.isOpen
}

// RecordCount returns the cumulative number of records written.
func (w *Writer) RecordCount() uint64 {
	return w.recordCount
}

// DataPacketCount returns the number of data packets emitted so far.
func (w *Writer) DataPacketCount() int {
	return w.dataPacketCount
}

// IndexPacketCount returns the number of index packets emitted so far.
func (w *Writer) IndexPacketCount() int {
	return w.indexPacketCount
}

// SectionStart returns the logical offset of the section's reserved header.
func (w *Writer) SectionStart() uint64 {
	return w.sectionStart
}

// WriteBindings replaces the session's bindings and writes requestedRecordCount
// records. The replacement set must be structurally compatible with the
// previous one: same fields, same buffer types, same capacities.
func (w *Writer) WriteBindings(bindings []stream.Binding, requestedRecordCount int) error {
	if !w.isOpen {
		return fmt.Errorf("%w: write on closed session", errs.ErrWriterNotOpen)
	}

	if err := w.setBindings(bindings); err != nil {
		return err
	}

	return w.Write(requestedRecordCount)
}

// Write writes requestedRecordCount records from the current bindings into
// the section, emitting data packets as the streams fill.
//
// A requested count of zero emits a packet containing only a header plus
// alignment padding and leaves the record counter unchanged, so empty writes
// keep the packet stream well-formed.
func (w *Writer) Write(requestedRecordCount int) error {
	if !w.isOpen {
		return fmt.Errorf("%w: write on closed session", errs.ErrWriterNotOpen)
	}

	if requestedRecordCount < 0 {
		return fmt.Errorf("%w: negative record count %d", errs.ErrInvalidArgument, requestedRecordCount)
	}

	if requestedRecordCount == 0 {
		return w.emitEmptyPacket()
	}

	// The requested count must not exceed any bound buffer.
	for _, b := range w.bound {
		if requestedRecordCount > b.Capacity() {
			return fmt.Errorf("%w: requested %d records, field %q buffer holds %d",
				errs.ErrInvalidArgument, requestedRecordCount, b.Path, b.Capacity())
		}
	}

	// Rewind all binding cursors so this write reads from the buffer start.
	for _, s := range w.streams {
		s.Rewind()
	}

	// Loop until every stream has completed requestedRecordCount transfers.
	endRecordIndex := w.recordCount + uint64(requestedRecordCount)
	for {
		totalDeficit := uint64(0)
		for _, s := range w.streams {
			totalDeficit += endRecordIndex - s.RecordsEncoded()
		}
		if totalDeficit == 0 {
			break
		}

		// If the pending packet passed the target fill threshold, send it
		// now and recalculate: one emission may not drain below the
		// threshold when the streams hold more than a packet's worth.
		if w.currentPacketSize() >= w.targetPacketSize() {
			if err := w.emitDataPacket(); err != nil {
				return err
			}

			continue
		}

		// Drive every lagging stream forward by a bounded batch. The cap
		// keeps the streams roughly synchronized to record boundaries so a
		// reader needs only a small look-ahead buffer.
		for _, s := range w.streams {
			deficit := endRecordIndex - s.RecordsEncoded()
			if deficit == 0 {
				continue
			}

			batch := uint64(w.encodeBatchSize)
			if deficit < batch {
				batch = deficit
			}
			if err := s.EncodeUpTo(int(batch)); err != nil { //nolint: gosec
				return err
			}
		}
	}

	w.recordCount += uint64(requestedRecordCount)

	// Streams will likely still hold buffered output and partial pending
	// blocks here; they carry into the next Write or into Close.
	return nil
}

// Close finalizes the session: drains all stream output into final data
// packets, emits the mandatory index packet, back-patches the section header
// and stores the record count and section start on the vector node.
//
// Close is idempotent; a second call returns nil without effect, and the
// container's writer count is decremented exactly once.
func (w *Writer) Close() error {
	if !w.isOpen {
		return nil
	}

	// Mark closed before any fallible step so an error unwind cannot
	// re-enter, and release the leak-detection count along with it.
	w.isOpen = false
	w.cont.DecrementWriterCount()

	defer w.releaseStreams()

	// Write all remaining stream output and partial pending blocks. We are
	// done when no stream has output left after a flush.
	if err := w.flushStreams(); err != nil {
		return err
	}
	for w.totalOutputAvailable() > 0 {
		if err := w.emitDataPacket(); err != nil {
			return err
		}
		if err := w.flushStreams(); err != nil {
			return err
		}
	}

	// One index packet per section, always.
	if err := w.emitIndexPacket(); err != nil {
		return err
	}

	// The section spans from its header to the current start of free space.
	sectionLength := w.cont.FreeSpaceOffset() - w.sectionStart

	header := section.SectionHeader{
		SectionLength:       sectionLength,
		DataPhysicalOffset:  w.dataPhysicalOffset,
		IndexPhysicalOffset: w.indexPhysicalOffset,
	}
	if err := header.Validate(w.cont.PhysicalLength()); err != nil {
		return err
	}

	if err := w.headerPlaceholder.Commit(header.Bytes(w.engine)); err != nil {
		return err
	}

	// Let readers find and size the section through the schema node.
	w.vector.SetSection(w.recordCount, w.sectionStart)

	return nil
}

// Release closes the session if it is still open, logging rather than
// returning any failure. It is meant for defer, as the guaranteed-release
// path when the caller discards the session:
//
//	w, err := writer.Open(vector, cont, bindings)
//	if err != nil { ... }
//	defer w.Release()
func (w *Writer) Release() {
	if err := w.Close(); err != nil {
		w.logger.Error("implicit close of write session failed",
			zap.Uint64("sectionStart", w.sectionStart),
			zap.Error(err))
	}
}

// setBindings validates and installs a replacement binding set.
func (w *Writer) setBindings(bindings []stream.Binding) error {
	if err := w.proto.ValidateBindings(bindingPaths(bindings)); err != nil {
		return err
	}

	ordered := orderBindings(w.proto, bindings)

	// Check every replacement against its predecessor before mutating any
	// stream, so an incompatible set leaves the session unchanged.
	for i, b := range ordered {
		if err := b.CompatibleWith(w.bound[i]); err != nil {
			return err
		}
	}

	for i, b := range ordered {
		if err := w.streams[i].Rebind(b); err != nil {
			return err
		}
	}
	w.bound = ordered

	return nil
}

// totalOutputAvailable sums the framed output bytes across all streams.
func (w *Writer) totalOutputAvailable() int {
	total := 0
	for _, s := range w.streams {
		total += s.BytesAvailable()
	}

	return total
}

// currentPacketSize returns the size the pending packet would have if
// emitted now: header, length table and all currently available bytes.
func (w *Writer) currentPacketSize() int {
	return section.DataPacketHeaderSize + len(w.streams)*section.StreamLengthSize + w.totalOutputAvailable()
}

// flushStreams flushes every stream's pending partial block to output.
func (w *Writer) flushStreams() error {
	for _, s := range w.streams {
		if err := s.Flush(); err != nil {
			return err
		}
	}

	return nil
}

// emitDataPacket allocates byte counts for the next packet, serializes it and
// writes it at the start of free space. A no-op when no output is available.
func (w *Writer) emitDataPacket() error {
	totalOutput := w.totalOutputAvailable()
	if totalOutput == 0 {
		return nil
	}

	// Maximum payload the packet can carry once the header and the
	// per-stream length table are accounted for.
	capacity := section.PacketMax - section.DataPacketHeaderSize - len(w.streams)*section.StreamLengthSize

	avail := make([]int, len(w.streams))
	for i, s := range w.streams {
		avail[i] = s.BytesAvailable()
	}
	counts := allocate(avail, capacity)

	// Double check the allocation stayed at or under capacity.
	totalByteCount := 0
	for _, count := range counts {
		totalByteCount += count
	}
	if totalByteCount > capacity {
		return fmt.Errorf("%w: allocated %d bytes for capacity %d", errs.ErrInternal, totalByteCount, capacity)
	}

	packet, err := w.serializer.serializeData(w.streams, counts)
	if err != nil {
		return err
	}

	return w.writePacket(packet)
}

// emitEmptyPacket writes the zero-record packet: header plus padding only.
func (w *Writer) emitEmptyPacket() error {
	packet, err := w.serializer.serializeEmpty()
	if err != nil {
		return err
	}

	return w.writePacket(packet)
}

// writePacket writes one serialized data packet at the start of free space
// and records the physical offset of the section's first packet.
func (w *Writer) writePacket(packet []byte) error {
	logical, err := w.cont.AllocateSpace(uint64(len(packet)), false)
	if err != nil {
		return err
	}

	if err := w.cont.WriteAt(logical, packet); err != nil {
		return err
	}

	if w.dataPacketCount == 0 {
		w.dataPhysicalOffset = w.cont.LogicalToPhysical(logical)
	}
	w.dataPacketCount++

	return nil
}

// emitIndexPacket writes the single index packet referencing the section's
// first data packet. With no data packets the entry carries the NoDataOffset
// sentinel, which readers treat as "no data" rather than an offset.
func (w *Writer) emitIndexPacket() error {
	packet := section.NewIndexPacket(w.dataPhysicalOffset)
	if err := packet.Validate(); err != nil {
		return err
	}

	data := packet.Bytes(w.engine)

	logical, err := w.cont.AllocateSpace(uint64(len(data)), false)
	if err != nil {
		return err
	}
	w.indexPhysicalOffset = w.cont.LogicalToPhysical(logical)

	if err := w.cont.WriteAt(logical, data); err != nil {
		return err
	}
	w.indexPacketCount++

	return nil
}

// releaseStreams returns all stream buffers to the pool.
func (w *Writer) releaseStreams() {
	for _, s := range w.streams {
		if s != nil {
			s.Release()
		}
	}
	w.streams = nil
}

// bindingPaths extracts the path list of a binding set.
func bindingPaths(bindings []stream.Binding) []string {
	paths := make([]string, len(bindings))
	for i, b := range bindings {
		paths[i] = b.Path
	}

	return paths
}

// orderBindings returns the binding set reordered by stream index. The set
// must already have passed ValidateBindings.
func orderBindings(proto *schema.Prototype, bindings []stream.Binding) []stream.Binding {
	ordered := make([]stream.Binding, len(bindings))
	for _, b := range bindings {
		idx, _ := proto.Resolve(b.Path)
		ordered[idx] = b
	}

	return ordered
}
