package compress

// ZstdCompressor provides Zstandard compression for cvec stream blocks.
//
// Two implementations exist behind build tags: a cgo implementation backed by
// valyala/gozstd (libzstd), and a pure-Go fallback backed by
// klauspost/compress/zstd for builds without cgo. Both produce standard
// Zstandard frames and are interchangeable on disk.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
