package stream

import "math"

// FloatStream encodes a floating point field as raw IEEE-754 bits in the
// stream's byte order. Raw bits compress poorly on their own, so this type
// leans on the stream's codec for size reduction.
type FloatStream struct {
	output

	binding Binding
}

var _ FieldStream = (*FloatStream)(nil)

// EncodeUpTo encodes exactly batch more records from the binding cursor.
func (s *FloatStream) EncodeUpTo(batch int) error {
	values := s.binding.Values.([]float64)
	if err := s.checkBatch(batch, len(values)); err != nil {
		return err
	}

	for _, v := range values[s.cursor : s.cursor+batch] {
		s.pending.Grow(8)
		s.pending.B = s.engine.AppendUint64(s.pending.B, math.Float64bits(v))

		if err := s.sealIfFull(); err != nil {
			return err
		}
	}
	s.advance(batch)

	return nil
}

// Rebind replaces the binding with a structurally compatible one.
func (s *FloatStream) Rebind(b Binding) error {
	if err := b.CompatibleWith(s.binding); err != nil {
		return err
	}
	s.binding = b

	return nil
}
