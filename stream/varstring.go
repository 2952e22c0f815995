package stream

import (
	"fmt"
	"math"

	"github.com/arloliu/cvec/errs"
)

// MaxTextLength is the maximum encodable string length in bytes, set by the
// uint16 length prefix.
const MaxTextLength = math.MaxUint16

// StringStream encodes a variable-length string field. Each value is encoded
// as a uint16 length prefix in the stream's byte order followed by the raw
// string bytes.
type StringStream struct {
	output

	binding Binding
	path    string
}

var _ FieldStream = (*StringStream)(nil)

// EncodeUpTo encodes exactly batch more records from the binding cursor.
func (s *StringStream) EncodeUpTo(batch int) error {
	values := s.binding.Values.([]string)
	if err := s.checkBatch(batch, len(values)); err != nil {
		return err
	}

	for _, v := range values[s.cursor : s.cursor+batch] {
		if len(v) > MaxTextLength {
			return fmt.Errorf("%w: field %q string of %d bytes exceeds %d",
				errs.ErrTextTooLong, s.path, len(v), MaxTextLength)
		}

		s.pending.Grow(2 + len(v))
		s.pending.B = s.engine.AppendUint16(s.pending.B, uint16(len(v))) //nolint: gosec
		s.pending.B = append(s.pending.B, v...)

		if err := s.sealIfFull(); err != nil {
			return err
		}
	}
	s.advance(batch)

	return nil
}

// Rebind replaces the binding with a structurally compatible one.
func (s *StringStream) Rebind(b Binding) error {
	if err := b.CompatibleWith(s.binding); err != nil {
		return err
	}
	s.binding = b

	return nil
}
