package stream

import "encoding/binary"

// IntegerStream encodes a signed integer field as zigzag varints of deltas
// between consecutive values. The first record of the session is encoded as a
// delta from zero; the delta chain runs across Write calls so regular
// sequences keep compressing well over packet boundaries.
type IntegerStream struct {
	output

	binding Binding
	prev    int64
}

var _ FieldStream = (*IntegerStream)(nil)

// EncodeUpTo encodes exactly batch more records from the binding cursor.
func (s *IntegerStream) EncodeUpTo(batch int) error {
	values := s.binding.Values.([]int64)
	if err := s.checkBatch(batch, len(values)); err != nil {
		return err
	}

	for _, v := range values[s.cursor : s.cursor+batch] {
		s.pending.Grow(binary.MaxVarintLen64)
		s.pending.B = binary.AppendVarint(s.pending.B, v-s.prev)
		s.prev = v

		if err := s.sealIfFull(); err != nil {
			return err
		}
	}
	s.advance(batch)

	return nil
}

// Rebind replaces the binding with a structurally compatible one.
func (s *IntegerStream) Rebind(b Binding) error {
	if err := b.CompatibleWith(s.binding); err != nil {
		return err
	}
	s.binding = b

	return nil
}
