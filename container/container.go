// Package container implements the shared container handle that write
// sessions allocate space from: a byte store with a fixed preamble, a
// logical-to-physical offset translation, reserve-then-commit placeholder
// regions, and an open-writer count for leak detection.
//
// A single Container may be shared by multiple independent write sessions
// writing different sections. The container serializes access to the shared
// free-space pointer; sessions themselves are single-threaded.
package container

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/arloliu/cvec/errs"
)

// Preamble layout at physical offset 0.
const (
	// PreambleSize is the fixed size of the container preamble: a 4-byte
	// magic, a uint16 version and 2 reserved bytes. Logical offset 0 maps to
	// the first byte after the preamble.
	PreambleSize = 8

	// Version is the container format version written into the preamble.
	Version = 1
)

// MagicBytes identifies a cvec container.
var MagicBytes = [4]byte{'C', 'V', 'E', 'C'}

// Container is a memory-backed container file. All offsets handed to callers
// are logical; the container translates them to physical positions that
// account for the preamble.
type Container struct {
	mu sync.Mutex

	buf           []byte // physical bytes, preamble included
	unusedLogical uint64 // logical offset of the start of free space

	writerCount atomic.Int32
	closed      bool
}

// New creates an empty container with its preamble written.
func New() *Container {
	buf := make([]byte, PreambleSize)
	copy(buf, MagicBytes[:])
	buf[4] = Version & 0xff
	buf[5] = Version >> 8

	return &Container{buf: buf}
}

// AllocateSpace reserves size bytes at the current start of free space and
// returns the logical offset of the reserved region. The free-space pointer
// advances past the region.
//
// zeroFill requests that the region be readable as zeros before it is
// written; callers use it for placeholder regions that are back-patched
// later, so uninitialized bytes are never exposed if the session never
// completes.
func (c *Container) AllocateSpace(size uint64, zeroFill bool) (uint64, error) {
	_ = zeroFill // the memory-backed store is always zero-filled on growth

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, errs.ErrContainerClosed
	}

	offset := c.unusedLogical
	c.unusedLogical += size

	physicalEnd := int(c.unusedLogical) + PreambleSize
	if physicalEnd > len(c.buf) {
		c.buf = append(c.buf, make([]byte, physicalEnd-len(c.buf))...)
	}

	return offset, nil
}

// LogicalToPhysical translates a logical offset to its physical byte position.
func (c *Container) LogicalToPhysical(offset uint64) uint64 {
	return offset + PreambleSize
}

// WriteAt writes data at the given logical offset. The target range must have
// been allocated beforehand.
func (c *Container) WriteAt(logicalOffset uint64, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errs.ErrContainerClosed
	}

	if logicalOffset+uint64(len(data)) > c.unusedLogical {
		return fmt.Errorf("%w: write [%d, %d) beyond allocated space %d",
			errs.ErrInternal, logicalOffset, logicalOffset+uint64(len(data)), c.unusedLogical)
	}

	physical := c.LogicalToPhysical(logicalOffset)
	copy(c.buf[physical:], data)

	return nil
}

// FreeSpaceOffset returns the logical offset of the current start of free space.
func (c *Container) FreeSpaceOffset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.unusedLogical
}

// PhysicalLength returns the container's total physical length in bytes.
func (c *Container) PhysicalLength() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return uint64(len(c.buf))
}

// Bytes returns the container's physical bytes, preamble included.
// The returned slice is the live backing store; callers must not modify it.
func (c *Container) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf
}

// WriteTo writes the container's physical bytes to w.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := w.Write(c.buf)

	return int64(n), err
}

// IncrementWriterCount registers an open write session on the container.
func (c *Container) IncrementWriterCount() {
	c.writerCount.Add(1)
}

// DecrementWriterCount unregisters an open write session.
func (c *Container) DecrementWriterCount() {
	c.writerCount.Add(-1)
}

// WriterCount returns the number of currently open write sessions.
func (c *Container) WriterCount() int {
	return int(c.writerCount.Load())
}

// IsOpen reports whether the container accepts allocations and writes.
func (c *Container) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return !c.closed
}

// Close closes the container. Closing with open write sessions is a leak and
// returns an error naming the count; the container is not closed in that case.
// The leak check and the closed transition share one critical section, so a
// session observed as open cannot be raced past the check.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if count := int(c.writerCount.Load()); count > 0 {
		return fmt.Errorf("%w: %d writer(s) still open", errs.ErrInvalidArgument, count)
	}
	c.closed = true

	return nil
}
