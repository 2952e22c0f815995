package container

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cvec/errs"
)

func TestNew_Preamble(t *testing.T) {
	c := New()

	data := c.Bytes()
	require.Len(t, data, PreambleSize)
	require.Equal(t, MagicBytes[:], data[0:4])
	require.Equal(t, byte(Version), data[4])

	require.Zero(t, c.FreeSpaceOffset())
	require.Equal(t, uint64(PreambleSize), c.PhysicalLength())
	require.True(t, c.IsOpen())
}

func TestContainer_AllocateSpace(t *testing.T) {
	c := New()

	first, err := c.AllocateSpace(24, true)
	require.NoError(t, err)
	require.Equal(t, uint64(0), first)

	second, err := c.AllocateSpace(16, false)
	require.NoError(t, err)
	require.Equal(t, uint64(24), second)

	require.Equal(t, uint64(40), c.FreeSpaceOffset())
	require.Equal(t, uint64(40+PreambleSize), c.PhysicalLength())

	// Reserved space reads back as zeros until written.
	require.Equal(t, make([]byte, 40), c.Bytes()[PreambleSize:])
}

func TestContainer_LogicalToPhysical(t *testing.T) {
	c := New()
	require.Equal(t, uint64(PreambleSize), c.LogicalToPhysical(0))
	require.Equal(t, uint64(PreambleSize+100), c.LogicalToPhysical(100))
}

func TestContainer_WriteAt(t *testing.T) {
	c := New()

	offset, err := c.AllocateSpace(8, false)
	require.NoError(t, err)

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, c.WriteAt(offset, payload))
	require.Equal(t, payload, c.Bytes()[PreambleSize:PreambleSize+8])

	t.Run("beyond allocated space", func(t *testing.T) {
		err := c.WriteAt(4, payload)
		require.ErrorIs(t, err, errs.ErrInternal)
	})
}

func TestContainer_WriteTo(t *testing.T) {
	c := New()

	offset, err := c.AllocateSpace(4, false)
	require.NoError(t, err)
	require.NoError(t, c.WriteAt(offset, []byte{0xde, 0xad, 0xbe, 0xef}))

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(PreambleSize+4), n)
	require.Equal(t, c.Bytes(), buf.Bytes())
}

func TestContainer_Close(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.False(t, c.IsOpen())
	})

	t.Run("rejects open writers", func(t *testing.T) {
		c := New()
		c.IncrementWriterCount()

		err := c.Close()
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		require.True(t, c.IsOpen())

		c.DecrementWriterCount()
		require.NoError(t, c.Close())
	})

	t.Run("closed container rejects allocation and writes", func(t *testing.T) {
		c := New()
		offset, err := c.AllocateSpace(4, false)
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = c.AllocateSpace(4, false)
		require.ErrorIs(t, err, errs.ErrContainerClosed)

		err = c.WriteAt(offset, []byte{1})
		require.ErrorIs(t, err, errs.ErrContainerClosed)
	})
}

func TestContainer_CloseRacesWriterRegistration(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	start := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 1000; i++ {
			c.IncrementWriterCount()
			c.DecrementWriterCount()
		}
	}()
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 1000; i++ {
			// May fail while a registration is in flight; must never close
			// the container under an open session.
			_ = c.Close()
		}
	}()

	close(start)
	wg.Wait()

	// Whatever interleaving occurred, the container ends closed with no
	// writers registered.
	require.NoError(t, c.Close())
	require.False(t, c.IsOpen())
	require.Zero(t, c.WriterCount())
}

func TestContainer_WriterCount(t *testing.T) {
	c := New()
	require.Zero(t, c.WriterCount())

	c.IncrementWriterCount()
	c.IncrementWriterCount()
	require.Equal(t, 2, c.WriterCount())

	c.DecrementWriterCount()
	require.Equal(t, 1, c.WriterCount())
}

func TestPlaceholder(t *testing.T) {
	t.Run("reserve and commit", func(t *testing.T) {
		c := New()

		p, err := c.Reserve(8)
		require.NoError(t, err)
		require.Equal(t, uint64(0), p.Offset())
		require.Equal(t, uint64(8), p.Size())
		require.False(t, p.Committed())

		data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
		require.NoError(t, p.Commit(data))
		require.True(t, p.Committed())
		require.Equal(t, data, c.Bytes()[PreambleSize:PreambleSize+8])
	})

	t.Run("commit is one-shot", func(t *testing.T) {
		c := New()

		p, err := c.Reserve(4)
		require.NoError(t, err)
		require.NoError(t, p.Commit([]byte{1, 2, 3, 4}))

		err = p.Commit([]byte{5, 6, 7, 8})
		require.ErrorIs(t, err, errs.ErrPlaceholderCommitted)
	})

	t.Run("commit length must match reservation", func(t *testing.T) {
		c := New()

		p, err := c.Reserve(4)
		require.NoError(t, err)

		err = p.Commit([]byte{1, 2})
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		require.False(t, p.Committed())

		require.NoError(t, p.Commit([]byte{1, 2, 3, 4}))
	})

	t.Run("allocations after reserve do not move the region", func(t *testing.T) {
		c := New()

		p, err := c.Reserve(4)
		require.NoError(t, err)

		offset, err := c.AllocateSpace(16, false)
		require.NoError(t, err)
		require.Equal(t, uint64(4), offset)

		require.NoError(t, p.Commit([]byte{9, 9, 9, 9}))
		require.Equal(t, []byte{9, 9, 9, 9}, c.Bytes()[PreambleSize:PreambleSize+4])
	})
}
