package stream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/cvec/errs"
)

// ScaledIntegerStream encodes a floating point field as scaled integers:
// each value v is stored as round((v - offset) / scale), then delta encoded
// like an integer field. Values that scale outside the int64 range are
// rejected rather than silently wrapped.
type ScaledIntegerStream struct {
	output

	binding Binding
	path    string
	scale   float64
	offset  float64
	prev    int64
}

var _ FieldStream = (*ScaledIntegerStream)(nil)

// EncodeUpTo encodes exactly batch more records from the binding cursor.
func (s *ScaledIntegerStream) EncodeUpTo(batch int) error {
	values := s.binding.Values.([]float64)
	if err := s.checkBatch(batch, len(values)); err != nil {
		return err
	}

	for _, v := range values[s.cursor : s.cursor+batch] {
		scaled := math.Round((v - s.offset) / s.scale)
		// float64(MaxInt64) is exactly 2^63, one past the largest int64, so
		// the upper bound must reject equality; float64(MinInt64) is exact.
		if scaled < math.MinInt64 || scaled >= math.MaxInt64 || math.IsNaN(scaled) {
			return fmt.Errorf("%w: field %q value %g does not fit scaled representation",
				errs.ErrValueOutOfRange, s.path, v)
		}
		iv := int64(scaled)

		s.pending.Grow(binary.MaxVarintLen64)
		s.pending.B = binary.AppendVarint(s.pending.B, iv-s.prev)
		s.prev = iv

		if err := s.sealIfFull(); err != nil {
			return err
		}
	}
	s.advance(batch)

	return nil
}

// Rebind replaces the binding with a structurally compatible one.
func (s *ScaledIntegerStream) Rebind(b Binding) error {
	if err := b.CompatibleWith(s.binding); err != nil {
		return err
	}
	s.binding = b

	return nil
}
