package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
)

func testFields() []Field {
	return []Field{
		{Path: "cartesianX", Type: format.TypeScaledInteger, Scale: 0.001},
		{Path: "cartesianY", Type: format.TypeScaledInteger, Scale: 0.001},
		{Path: "intensity", Type: format.TypeFloat},
		{Path: "label", Type: format.TypeString},
	}
}

func TestNewPrototype(t *testing.T) {
	proto, err := NewPrototype(testFields())
	require.NoError(t, err)
	require.Equal(t, 4, proto.Len())

	idx, ok := proto.Resolve("intensity")
	require.True(t, ok)
	require.Equal(t, 2, idx)

	_, ok = proto.Resolve("missing")
	require.False(t, ok)

	require.Equal(t, "cartesianX", proto.Field(0).Path)
	require.Equal(t, format.TypeString, proto.Field(3).Type)
}

func TestNewPrototype_Errors(t *testing.T) {
	t.Run("empty field list", func(t *testing.T) {
		_, err := NewPrototype(nil)
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewPrototype([]Field{{Path: "", Type: format.TypeInteger}})
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})

	t.Run("duplicate path", func(t *testing.T) {
		_, err := NewPrototype([]Field{
			{Path: "x", Type: format.TypeInteger},
			{Path: "x", Type: format.TypeFloat},
		})
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewPrototype([]Field{{Path: "x", Type: format.FieldType(0x99)}})
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})

	t.Run("scaled integer without scale", func(t *testing.T) {
		_, err := NewPrototype([]Field{{Path: "x", Type: format.TypeScaledInteger}})
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})
}

func TestPrototype_FieldsReturnsCopy(t *testing.T) {
	proto, err := NewPrototype(testFields())
	require.NoError(t, err)

	fields := proto.Fields()
	fields[0].Path = "mutated"
	require.Equal(t, "cartesianX", proto.Field(0).Path)
}

func TestPrototype_ValidateBindings(t *testing.T) {
	proto, err := NewPrototype(testFields())
	require.NoError(t, err)

	t.Run("exact cover in any order", func(t *testing.T) {
		err := proto.ValidateBindings([]string{"label", "cartesianY", "intensity", "cartesianX"})
		require.NoError(t, err)
	})

	t.Run("missing field", func(t *testing.T) {
		err := proto.ValidateBindings([]string{"cartesianX", "cartesianY", "intensity"})
		require.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := proto.ValidateBindings([]string{"cartesianX", "cartesianY", "intensity", "color"})
		require.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("duplicate binding", func(t *testing.T) {
		err := proto.ValidateBindings([]string{"cartesianX", "cartesianX", "intensity", "label"})
		require.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})
}

func TestField_ID(t *testing.T) {
	a := Field{Path: "cartesianX"}
	b := Field{Path: "cartesianY"}

	require.Equal(t, a.ID(), Field{Path: "cartesianX"}.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestVector_SetSection(t *testing.T) {
	proto, err := NewPrototype(testFields())
	require.NoError(t, err)

	vec := NewVector(proto)
	require.Same(t, proto, vec.Prototype())
	require.False(t, vec.HasSection())
	require.Zero(t, vec.RecordCount())

	vec.SetSection(1000, 8)
	require.True(t, vec.HasSection())
	require.Equal(t, uint64(1000), vec.RecordCount())
	require.Equal(t, uint64(8), vec.SectionStart())
}
