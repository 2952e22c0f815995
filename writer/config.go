package writer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/cvec/endian"
	"github.com/arloliu/cvec/errs"
	"github.com/arloliu/cvec/format"
	"github.com/arloliu/cvec/internal/options"
	"github.com/arloliu/cvec/section"
)

// Packing heuristics. Both are tunable configuration, not format invariants:
// any threshold produces a well-formed section, these defaults just keep the
// streams synchronized closely enough that a reader with a two-packet cache
// stays efficient.
const (
	// DefaultTargetFillRatio is the pending-packet fill fraction that
	// triggers an emission during Write.
	DefaultTargetFillRatio = 0.75

	// DefaultEncodeBatchSize caps how many records one stream encodes per
	// pass of the write loop, bounding per-stream memory growth.
	DefaultEncodeBatchSize = 50
)

// WriterConfig holds the session configuration assembled from options.
type WriterConfig struct {
	engine           endian.EndianEngine
	compression      format.CompressionType
	targetFillRatio  float64
	encodeBatchSize  int
	strictValidation bool
	logger           *zap.Logger
}

func newWriterConfig() *WriterConfig {
	return &WriterConfig{
		engine:           endian.GetLittleEndianEngine(),
		compression:      format.CompressionNone,
		targetFillRatio:  DefaultTargetFillRatio,
		encodeBatchSize:  DefaultEncodeBatchSize,
		strictValidation: true,
		logger:           zap.NewNop(),
	}
}

// targetPacketSize returns the pending-packet size that triggers an emission.
func (c *WriterConfig) targetPacketSize() int {
	return int(c.targetFillRatio * section.PacketMax)
}

// WriterOption represents a functional option for configuring a write session.
type WriterOption = options.Option[*WriterConfig]

// WithLittleEndian sets the session to little-endian byte order.
// It is the default option.
func WithLittleEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian sets the session to big-endian byte order.
// It rarely needs to be used unless interoperability with big-endian systems is required.
func WithBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithCompression selects the codec every field stream compresses its blocks with.
func WithCompression(comp format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("%w: invalid stream compression: %s", errs.ErrInvalidArgument, comp)
		}
	})
}

// WithTargetFillRatio sets the pending-packet fill fraction (0, 1] that
// triggers a packet emission. Lower ratios produce denser, smaller packets.
func WithTargetFillRatio(ratio float64) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if ratio <= 0 || ratio > 1 {
			return fmt.Errorf("%w: target fill ratio %g outside (0, 1]", errs.ErrInvalidArgument, ratio)
		}
		c.targetFillRatio = ratio

		return nil
	})
}

// WithEncodeBatchSize caps how many records one stream encodes per pass of
// the write loop.
func WithEncodeBatchSize(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: encode batch size %d must be positive", errs.ErrInvalidArgument, n)
		}
		c.encodeBatchSize = n

		return nil
	})
}

// WithStrictValidation enables or disables the deep open-time check that the
// sorted streams cover the dense 0..N-1 index range. Enabled by default.
func WithStrictValidation(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.strictValidation = enabled
	})
}

// WithLogger sets the logger used on the implicit-close cleanup path.
// A nil logger restores the default no-op logger.
func WithLogger(logger *zap.Logger) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}
