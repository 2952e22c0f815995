// Package errs defines the sentinel errors shared by all cvec packages.
//
// Call sites wrap these with fmt.Errorf("%w: ...") to add context, so callers
// can always test error kinds with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidArgument indicates empty or malformed caller input, such as an
	// empty binding set or a record request exceeding buffer capacity.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSchemaMismatch indicates that the supplied bindings do not exactly
	// cover the prototype's declared field set.
	ErrSchemaMismatch = errors.New("bindings do not match schema")

	// ErrBuffersNotCompatible indicates that replacement bindings differ
	// structurally from the previously supplied set.
	ErrBuffersNotCompatible = errors.New("buffers not compatible")

	// ErrWriterNotOpen indicates an operation on a closed or never-opened
	// write session.
	ErrWriterNotOpen = errors.New("writer not open")

	// ErrInternal indicates a violated internal invariant: an unresolved
	// stream index, a stream index gap, an overflowing length field, a
	// scratch buffer bound violation, or a computed-vs-actual length mismatch.
	ErrInternal = errors.New("internal error")

	// ErrInvalidHeaderSize indicates a header byte slice of the wrong length.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrValueOutOfRange indicates a value that cannot be represented by the
	// declared field type, such as a scaled integer overflowing int64.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrTextTooLong indicates a string value exceeding the maximum encodable length.
	ErrTextTooLong = errors.New("text too long")

	// ErrContainerClosed indicates an operation on a closed container.
	ErrContainerClosed = errors.New("container closed")

	// ErrPlaceholderCommitted indicates a second commit of a reserved region.
	ErrPlaceholderCommitted = errors.New("placeholder already committed")
)
