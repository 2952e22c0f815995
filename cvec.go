// Package cvec implements the write path of a self-describing binary
// container for large homogeneous record sets, such as point-cloud tabular
// data. Typed per-field value streams are independently encoded, compressed
// and multiplexed into fixed-format binary packets inside a section of the
// container, finished by a mandatory index packet and a back-patched section
// header.
//
// This package provides convenient top-level wrappers around the writer,
// schema and container packages, simplifying the most common use cases. For
// fine-grained control, use those packages directly.
//
// # Basic Usage
//
//	proto, _ := cvec.NewPrototype([]cvec.Field{
//	    {Path: "cartesianX", Type: format.TypeFloat},
//	    {Path: "cartesianY", Type: format.TypeFloat},
//	    {Path: "intensity", Type: format.TypeInteger},
//	})
//	vector := cvec.NewVector(proto)
//	cont := cvec.NewContainer()
//
//	w, err := cvec.OpenWriter(vector, cont, []cvec.Binding{
//	    {Path: "cartesianX", Values: xs},
//	    {Path: "cartesianY", Values: ys},
//	    {Path: "intensity", Values: is},
//	}, cvec.WithCompression(format.CompressionS2))
//	if err != nil {
//	    return err
//	}
//	defer w.Release()
//
//	if err := w.Write(len(xs)); err != nil {
//	    return err
//	}
//	if err := w.Close(); err != nil {
//	    return err
//	}
package cvec

import (
	"github.com/arloliu/cvec/container"
	"github.com/arloliu/cvec/internal/hash"
	"github.com/arloliu/cvec/schema"
	"github.com/arloliu/cvec/stream"
	"github.com/arloliu/cvec/writer"
)

// Field declares one scalar field of a compressed vector record.
type Field = schema.Field

// Binding pairs a field path with a caller-owned value buffer.
type Binding = stream.Binding

// WriterOption configures a write session.
type WriterOption = writer.WriterOption

// FieldID computes the xxHash64 identifier of a field path.
func FieldID(path string) uint64 {
	return hash.ID(path)
}

// NewPrototype creates an ordered, immutable field prototype.
func NewPrototype(fields []Field) (*schema.Prototype, error) {
	return schema.NewPrototype(fields)
}

// NewVector creates a vector node for the given prototype.
func NewVector(proto *schema.Prototype) *schema.Vector {
	return schema.NewVector(proto)
}

// NewContainer creates an empty memory-backed container.
func NewContainer() *container.Container {
	return container.New()
}

// OpenWriter opens a write session for the given vector on the given container.
func OpenWriter(vector *schema.Vector, cont *container.Container, bindings []Binding, opts ...WriterOption) (*writer.Writer, error) {
	return writer.Open(vector, cont, bindings, opts...)
}

// Re-exported write session options.
var (
	WithLittleEndian     = writer.WithLittleEndian
	WithBigEndian        = writer.WithBigEndian
	WithCompression      = writer.WithCompression
	WithTargetFillRatio  = writer.WithTargetFillRatio
	WithEncodeBatchSize  = writer.WithEncodeBatchSize
	WithStrictValidation = writer.WithStrictValidation
	WithLogger           = writer.WithLogger
)
