package stream

import (
	"fmt"

	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
)

// Binding pairs a field path with a caller-owned value buffer.
//
// Values must be []int64 for Integer fields, []float64 for ScaledInteger and
// Float fields, and []string for String fields. The buffer stays owned by the
// caller; the session reads it during Write calls only.
type Binding struct {
	Path   string
	Values any
}

// Capacity returns the number of records the binding's buffer can supply.
func (b Binding) Capacity() int {
	switch v := b.Values.(type) {
	case []int64:
		return len(v)
	case []float64:
		return len(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}

// kind returns a short name of the buffer's element type for error messages
// and compatibility checks.
func (b Binding) kind() string {
	switch b.Values.(type) {
	case []int64:
		return "int64"
	case []float64:
		return "float64"
	case []string:
		return "string"
	default:
		return fmt.Sprintf("%T", b.Values)
	}
}

// matchesType reports whether the binding's buffer type can supply the given
// field type.
func (b Binding) matchesType(t format.FieldType) bool {
	switch t {
	case format.TypeInteger:
		_, ok := b.Values.([]int64)
		return ok
	case format.TypeScaledInteger, format.TypeFloat:
		_, ok := b.Values.([]float64)
		return ok
	case format.TypeString:
		_, ok := b.Values.([]string)
		return ok
	default:
		return false
	}
}

// CompatibleWith checks that a replacement binding is structurally compatible
// with the previous one: same path, same buffer element type, same capacity.
func (b Binding) CompatibleWith(prev Binding) error {
	if b.Path != prev.Path {
		return fmt.Errorf("%w: path %q replaced by %q", errs.ErrBuffersNotCompatible, prev.Path, b.Path)
	}

	if b.kind() != prev.kind() {
		return fmt.Errorf("%w: field %q buffer type %s replaced by %s",
			errs.ErrBuffersNotCompatible, b.Path, prev.kind(), b.kind())
	}

	if b.Capacity() != prev.Capacity() {
		return fmt.Errorf("%w: field %q capacity %d replaced by %d",
			errs.ErrBuffersNotCompatible, b.Path, prev.Capacity(), b.Capacity())
	}

	return nil
}
