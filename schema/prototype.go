// Package schema declares the field set of a compressed vector: the prototype
// every record must match, and the vector node a write session targets.
package schema

import (
	"fmt"

	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
	"github.com/arloliu/cvec/internal/hash"
)

// Field declares one scalar field of a compressed vector record.
type Field struct {
	// Path is the field's unique path name within the prototype.
	Path string
	// Type selects the field stream encoder for this field.
	Type format.FieldType
	// Scale converts float input to scaled integers (ScaledInteger only).
	// A stored integer i decodes to i*Scale + Offset.
	Scale float64
	// Offset is the decode offset for scaled integers (ScaledInteger only).
	Offset float64
}

// ID returns the xxHash64 identifier of the field path.
func (f Field) ID() uint64 {
	return hash.ID(f.Path)
}

// Prototype is the ordered, immutable field set of a compressed vector.
//
// The position of a field in the declaration order is its stream index:
// stream indices always form a dense 0..N-1 range regardless of the order
// bindings are later supplied in.
type Prototype struct {
	fields []Field
	byPath map[string]int
}

// NewPrototype creates a prototype from the given field declarations.
//
// Returns an error if the field list is empty, a path is duplicated or empty,
// a field type is unknown, or a scaled integer field has a non-positive scale.
func NewPrototype(fields []Field) (*Prototype, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: prototype requires at least one field", errs.ErrInvalidArgument)
	}

	p := &Prototype{
		fields: make([]Field, len(fields)),
		byPath: make(map[string]int, len(fields)),
	}
	copy(p.fields, fields)

	for i, field := range p.fields {
		if field.Path == "" {
			return nil, fmt.Errorf("%w: field %d has empty path", errs.ErrInvalidArgument, i)
		}

		switch field.Type {
		case format.TypeInteger, format.TypeFloat, format.TypeString:
		case format.TypeScaledInteger:
			if field.Scale <= 0 {
				return nil, fmt.Errorf("%w: field %q requires a positive scale", errs.ErrInvalidArgument, field.Path)
			}
		default:
			return nil, fmt.Errorf("%w: field %q has unknown type %s", errs.ErrInvalidArgument, field.Path, field.Type)
		}

		if _, exists := p.byPath[field.Path]; exists {
			return nil, fmt.Errorf("%w: duplicate field path %q", errs.ErrInvalidArgument, field.Path)
		}
		p.byPath[field.Path] = i
	}

	return p, nil
}

// Resolve returns the stream index of the field with the given path.
func (p *Prototype) Resolve(path string) (int, bool) {
	idx, ok := p.byPath[path]
	return idx, ok
}

// Field returns the field declared at the given stream index.
func (p *Prototype) Field(streamIndex int) Field {
	return p.fields[streamIndex]
}

// Fields returns a copy of the declared field list in stream-index order.
func (p *Prototype) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)

	return out
}

// Len returns the number of declared fields.
func (p *Prototype) Len() int {
	return len(p.fields)
}

// ValidateBindings checks that the given binding paths exactly cover the
// declared field set: no duplicates, none missing, none extra. For writing,
// all fields of the prototype must be presented at the same time.
func (p *Prototype) ValidateBindings(paths []string) error {
	if len(paths) != len(p.fields) {
		return fmt.Errorf("%w: %d bindings for %d declared fields",
			errs.ErrSchemaMismatch, len(paths), len(p.fields))
	}

	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := p.byPath[path]; !ok {
			return fmt.Errorf("%w: field %q not declared", errs.ErrSchemaMismatch, path)
		}
		if _, dup := seen[path]; dup {
			return fmt.Errorf("%w: duplicate binding for field %q", errs.ErrSchemaMismatch, path)
		}
		seen[path] = struct{}{}
	}

	return nil
}
