package schema

// Vector is the node a write session targets. It pairs a prototype with the
// location and record count of the binary section once a session has written
// one, so readers can later find and size the section.
type Vector struct {
	proto *Prototype

	recordCount  uint64
	sectionStart uint64
	hasSection   bool
}

// NewVector creates a vector node for the given prototype.
func NewVector(proto *Prototype) *Vector {
	return &Vector{proto: proto}
}

// Prototype returns the vector's field prototype.
func (v *Vector) Prototype() *Prototype {
	return v.proto
}

// SetSection records the final record count and the logical offset of the
// section header. The write session calls this exactly once, at close.
func (v *Vector) SetSection(recordCount uint64, sectionStart uint64) {
	v.recordCount = recordCount
	v.sectionStart = sectionStart
	v.hasSection = true
}

// RecordCount returns the number of records written to the vector's section.
func (v *Vector) RecordCount() uint64 {
	return v.recordCount
}

// SectionStart returns the logical offset of the vector's section header.
func (v *Vector) SectionStart() uint64 {
	return v.sectionStart
}

// HasSection reports whether a write session has completed for this vector.
func (v *Vector) HasSection() bool {
	return v.hasSection
}
