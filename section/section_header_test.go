package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
)

func TestSectionHeader_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	original := SectionHeader{
		SectionLength:       1024,
		DataPhysicalOffset:  32,
		IndexPhysicalOffset: 996,
	}

	data := original.Bytes(engine)
	require.Len(t, data, SectionHeaderSize)

	parsed := SectionHeader{}
	err := parsed.Parse(data, engine)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestSectionHeader_RoundTripBigEndian(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	original := SectionHeader{
		SectionLength:       56,
		DataPhysicalOffset:  NoDataOffset,
		IndexPhysicalOffset: 44,
	}

	parsed := SectionHeader{}
	err := parsed.Parse(original.Bytes(engine), engine)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestSectionHeader_ParseInvalidSize(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	header := SectionHeader{}
	err := header.Parse([]byte{1, 2, 3}, engine)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	err = header.Parse(make([]byte, SectionHeaderSize+1), engine)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestSectionHeader_HasData(t *testing.T) {
	header := SectionHeader{DataPhysicalOffset: 32}
	require.True(t, header.HasData())

	header.DataPhysicalOffset = NoDataOffset
	require.False(t, header.HasData())

	// A zero offset is a real physical position, not the no-data sentinel.
	header.DataPhysicalOffset = 0
	require.True(t, header.HasData())
}

func TestSectionHeader_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		header := SectionHeader{
			SectionLength:       56,
			DataPhysicalOffset:  32,
			IndexPhysicalOffset: 52,
		}
		require.NoError(t, header.Validate(100))
	})

	t.Run("valid without data packets", func(t *testing.T) {
		header := SectionHeader{
			SectionLength:       36,
			DataPhysicalOffset:  NoDataOffset,
			IndexPhysicalOffset: 32,
		}
		require.NoError(t, header.Validate(44))
	})

	t.Run("section too small", func(t *testing.T) {
		header := SectionHeader{SectionLength: 8, IndexPhysicalOffset: 4}
		err := header.Validate(100)
		require.ErrorIs(t, err, errs.ErrInternal)
	})

	t.Run("data offset beyond file", func(t *testing.T) {
		header := SectionHeader{
			SectionLength:       56,
			DataPhysicalOffset:  200,
			IndexPhysicalOffset: 52,
		}
		err := header.Validate(100)
		require.ErrorIs(t, err, errs.ErrInternal)
	})

	t.Run("index offset beyond file", func(t *testing.T) {
		header := SectionHeader{
			SectionLength:       56,
			DataPhysicalOffset:  32,
			IndexPhysicalOffset: 100,
		}
		err := header.Validate(100)
		require.ErrorIs(t, err, errs.ErrInternal)
	})
}
