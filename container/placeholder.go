package container

import (
	"fmt"

	"github.com/arloliu/cvec/errs"
)

// Placeholder is a reserved, zero-filled container region whose content is
// back-patched later. The offset is fixed at reservation time; the region can
// be committed exactly once with bytes of exactly the reserved size.
type Placeholder struct {
	c         *Container
	offset    uint64
	size      uint64
	committed bool
}

// Reserve allocates a zero-filled placeholder region of the given size and
// returns a handle for the later commit.
func (c *Container) Reserve(size uint64) (*Placeholder, error) {
	offset, err := c.AllocateSpace(size, true)
	if err != nil {
		return nil, err
	}

	return &Placeholder{c: c, offset: offset, size: size}, nil
}

// Offset returns the logical offset of the reserved region.
func (p *Placeholder) Offset() uint64 {
	return p.offset
}

// Size returns the reserved size in bytes.
func (p *Placeholder) Size() uint64 {
	return p.size
}

// Committed reports whether the region has been committed.
func (p *Placeholder) Committed() bool {
	return p.committed
}

// Commit writes the final bytes into the reserved region. The data length
// must equal the reserved size, and a placeholder can be committed only once.
func (p *Placeholder) Commit(data []byte) error {
	if p.committed {
		return errs.ErrPlaceholderCommitted
	}

	if uint64(len(data)) != p.size {
		return fmt.Errorf("%w: commit of %d bytes into %d-byte placeholder",
			errs.ErrInvalidArgument, len(data), p.size)
	}

	if err := p.c.WriteAt(p.offset, data); err != nil {
		return err
	}
	p.committed = true

	return nil
}
