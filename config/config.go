// Package config holds kvon's process-wide tunables as an explicit struct
// threaded through call stacks, rather than as mutable package-level
// globals, which would be a porting hazard under parallel test execution.
// Both codec and pipeline operations take a *Config (defaulted when callers
// pass none), using a functional options convention (internal/options,
// generic over any target type).
package config

import (
	"github.com/arloliu/kvon/compress"
	"github.com/arloliu/kvon/internal/options"
)

const (
	// DefaultParallelMethodThreshold is the record-count boundary between
	// the pipelined and chunked write strategies.
	DefaultParallelMethodThreshold = 2000

	// DefaultReadSizeThreshold is the file-size boundary, in bytes, between
	// the whole-file and chunked read strategies, default 500 MiB.
	DefaultReadSizeThreshold = 500 * 1024 * 1024

	// DefaultChunkLines is the default chunk size, in lines, for the
	// chunked read strategy.
	DefaultChunkLines = 10_000

	// DefaultWriteChunkMin/Max bound the chunked-write strategy's
	// per-chunk record count: max(500, min(2000, count/max(parallelism*4,50))).
	DefaultWriteChunkMin = 500
	DefaultWriteChunkMax = 2000
)

// Config carries the threshold knobs that select between strategies, plus
// the derived tunables that implementations should keep adjustable rather
// than hard-coded.
type Config struct {
	// EagerUnpackRaw, if true, causes the parser to Z85-decode RawBlob
	// payloads immediately rather than leaving them packed until accessed.
	EagerUnpackRaw bool

	// ParallelMethodThreshold is the record-count boundary between the
	// pipelined and chunked write strategies.
	ParallelMethodThreshold int

	// ReadSizeThreshold is the file-size boundary, in bytes, between the
	// whole-file and chunked read strategies.
	ReadSizeThreshold int64

	// ChunkLines is the chunk size, in lines, for the chunked read strategy.
	ChunkLines int

	// Parallelism is the worker-pool fan-out width. Zero means
	// runtime.GOMAXPROCS(0) at call time.
	Parallelism int

	// Compression selects the stream codec wrapped around the on-disk
	// file by the pipeline package. None leaves the file as plain text.
	Compression compress.Kind
}

// Default returns a Config populated with sensible default tunables.
func Default() *Config {
	return &Config{
		EagerUnpackRaw:           false,
		ParallelMethodThreshold:  DefaultParallelMethodThreshold,
		ReadSizeThreshold:        DefaultReadSizeThreshold,
		ChunkLines:               DefaultChunkLines,
		Parallelism:              0,
		Compression:              compress.None,
	}
}

// Option configures a Config via the shared functional-options machinery.
type Option = options.Option[*Config]

// Apply applies opts over a fresh Default Config and returns it.
func Apply(opts ...Option) (*Config, error) {
	c := Default()
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// WithEagerUnpackRaw sets the eager_unpack_raw knob.
func WithEagerUnpackRaw(v bool) Option {
	return options.NoError(func(c *Config) { c.EagerUnpackRaw = v })
}

// WithParallelMethodThreshold sets the parallel_method_threshold knob.
func WithParallelMethodThreshold(n int) Option {
	return options.NoError(func(c *Config) { c.ParallelMethodThreshold = n })
}

// WithReadSizeThreshold sets the whole-file/chunked read strategy boundary, in bytes.
func WithReadSizeThreshold(n int64) Option {
	return options.NoError(func(c *Config) { c.ReadSizeThreshold = n })
}

// WithChunkLines sets the chunked-read strategy's per-chunk line count.
func WithChunkLines(n int) Option {
	return options.NoError(func(c *Config) { c.ChunkLines = n })
}

// WithParallelism sets the worker-pool fan-out width.
func WithParallelism(n int) Option {
	return options.NoError(func(c *Config) { c.Parallelism = n })
}

// WithCompression sets the stream codec wrapped around the on-disk file.
func WithCompression(kind compress.Kind) Option {
	return options.NoError(func(c *Config) { c.Compression = kind })
}

// WriteChunkSize computes the chunked-write strategy's per-chunk record
// count from the total record count and parallelism:
// max(500, min(2000, count/max(parallelism*4, 50))).
func (c *Config) WriteChunkSize(count, parallelism int) int {
	denom := parallelism * 4
	if denom < 50 {
		denom = 50
	}

	size := count / denom
	if size > DefaultWriteChunkMax {
		size = DefaultWriteChunkMax
	}
	if size < DefaultWriteChunkMin {
		size = DefaultWriteChunkMin
	}

	return size
}
