// Package kvon provides top-level wrappers around the codec, recstore, and
// pipeline packages for the most common use cases: reading and writing a
// whole store to a file, and converting single records to and from their
// line representation. For fine-grained control (explicit strategy choice,
// custom parallelism), use those packages directly.
package kvon

import (
	"github.com/arloliu/kvon/codec"
	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/pipeline"
	"github.com/arloliu/kvon/recstore"
	"github.com/arloliu/kvon/value"
)

// Store is an alias for the record store type, so callers of this package
// don't need to import recstore directly for the common path.
type Store = recstore.Store

// Record is an alias for the in-memory record type.
type Record = value.Record

// Config is an alias for the shared tunables struct.
type Config = config.Config

// Option configures a Config; see config.Option for the available knobs.
type Option = config.Option

// NewStore creates an empty record store.
func NewStore() *Store {
	return recstore.New()
}

// SerializeAuto writes store to path, choosing between the pipelined and
// chunked write strategies by comparing the record count against
// cfg.ParallelMethodThreshold. Passing a nil cfg uses config.Default().
func SerializeAuto(store *Store, path string, cfg *Config) error {
	return pipeline.WriteAuto(store, path, cfg)
}

// SerializeChunked writes store to path using the chunked write strategy,
// partitioning records into cfg.WriteChunkSize-sized groups and overlapping
// serialization with I/O one chunk at a time.
func SerializeChunked(store *Store, path string, cfg *Config) error {
	return pipeline.WriteChunked(store, path, cfg)
}

// SerializeOrderedFanout writes store to path using the ordered-fanout
// strategy: every record is serialized in parallel up front, then the
// results are streamed to path in index order. Exposed for callers that
// need to force a specific strategy (e.g. kvondump's --write-strategy flag) rather
// than go through SerializeAuto's size-based choice.
func SerializeOrderedFanout(store *Store, path string, cfg *Config) error {
	return pipeline.WriteOrderedFanout(store, path, cfg)
}

// DeserializeAuto reads path into a new store, choosing between the
// whole-file and chunked read strategies by comparing the file size against
// cfg.ReadSizeThreshold. Passing a nil cfg uses config.Default().
func DeserializeAuto(path string, cfg *Config) (*Store, error) {
	return pipeline.ReadAuto(path, cfg)
}

// DeserializeChunked reads path into a new store using the chunked read
// strategy, streaming cfg.ChunkLines lines at a time rather than loading
// the whole file into memory.
func DeserializeChunked(path string, cfg *Config) (*Store, error) {
	return pipeline.ReadChunked(path, cfg)
}

// SerializeRecord renders a single record as its one-line text form,
// without a trailing newline.
func SerializeRecord(rec *Record) (string, error) {
	line, err := codec.SerializeRecord(rec)
	if err != nil {
		return "", err
	}

	return string(line), nil
}

// ParseLine parses a single line (no trailing newline) into a record.
func ParseLine(line []byte, cfg *Config) (*Record, error) {
	return codec.ParseLine(line, cfg)
}
