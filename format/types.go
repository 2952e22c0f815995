package format

type (
	FieldType       uint8
	CompressionType uint8
)

const (
	// TypeInteger represents a plain signed integer field.
	TypeInteger FieldType = 0x1
	// TypeScaledInteger represents a floating point field stored as a scaled integer.
	TypeScaledInteger FieldType = 0x2
	// TypeFloat represents an IEEE-754 floating point field.
	TypeFloat FieldType = 0x3
	// TypeString represents a variable-length string field.
	TypeString FieldType = 0x4

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (t FieldType) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeScaledInteger:
		return "ScaledInteger"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
