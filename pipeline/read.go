package pipeline

import (
	"bufio"
	"io"
	"os"

	"github.com/arloliu/kvon/codec"
	"github.com/arloliu/kvon/compress"
	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/recstore"
	"github.com/arloliu/kvon/value"
)

// parseLinesInto parses lines in parallel and commits the non-blank results
// into store at baseIndex+position. Blank lines are skipped and leave a
// hole. Commit happens from the calling goroutine only, after
// all parse workers have drained.
func parseLinesInto(store *recstore.Store, lines [][]byte, baseIndex uint64, cfg *config.Config, parallelism int) error {
	results, err := parallelMap(lines, parallelism, func(_ int, line []byte) (*value.Record, error) {
		if len(line) == 0 {
			return nil, nil
		}

		return codec.ParseLine(line, cfg)
	})
	if err != nil {
		return err
	}

	for i, rec := range results {
		if rec == nil {
			continue
		}

		if err := store.Insert(baseIndex+uint64(i), rec); err != nil {
			return err
		}
	}

	return nil
}

// ReadWholeFile implements the whole-file read strategy: reads
// the entire file into one buffer, splits it into line sub-slices that
// alias the buffer, and parses all lines across a worker pool. If
// cfg.Compression is set, the file is transparently decompressed as it is
// read.
func ReadWholeFile(path string, cfg *config.Config) (*recstore.Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, kverr.Wrap("opening file for whole-file strategy", err)
	}
	defer f.Close()

	rc, err := compress.NewReader(f, cfg.Compression)
	if err != nil {
		return nil, kverr.Wrap("wrapping file reader for whole-file strategy", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, kverr.Wrap("reading file for whole-file strategy", err)
	}

	lines := splitLines(data)
	store := recstore.NewWithCapacity(len(lines))

	if err := parseLinesInto(store, lines, 0, cfg, cfg.Parallelism); err != nil {
		return nil, err
	}

	return store, nil
}

// ReadChunked implements the chunked read strategy: streams the
// file, accumulating cfg.ChunkLines lines at a time, dispatching each chunk
// to the parallel parser and committing with a running base index before
// reading the next chunk. Peak memory is bounded to roughly
// chunk_size * average_line_size.
func ReadChunked(path string, cfg *config.Config) (*recstore.Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, kverr.Wrap("opening file for chunked strategy", err)
	}
	defer f.Close()

	rc, err := compress.NewReader(f, cfg.Compression)
	if err != nil {
		return nil, kverr.Wrap("wrapping file reader for chunked strategy", err)
	}
	defer rc.Close()

	store := recstore.New()
	reader := bufio.NewReaderSize(rc, 1<<20)

	chunkLines := cfg.ChunkLines
	if chunkLines <= 0 {
		chunkLines = config.DefaultChunkLines
	}

	baseIndex := uint64(0)
	chunk := make([][]byte, 0, chunkLines)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}

		if err := parseLinesInto(store, chunk, baseIndex, cfg, cfg.Parallelism); err != nil {
			return err
		}

		baseIndex += uint64(len(chunk))
		chunk = chunk[:0]

		return nil
	}

	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			line := trimLineTerminator(raw)
			lineCopy := make([]byte, len(line))
			copy(lineCopy, line)
			chunk = append(chunk, lineCopy)

			if len(chunk) >= chunkLines {
				if ferr := flush(); ferr != nil {
					return nil, ferr
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, kverr.Wrap("reading chunk", err)
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return store, nil
}

// trimLineTerminator strips a trailing LF and, if present, the CR before it.
func trimLineTerminator(raw []byte) []byte {
	n := len(raw)
	if n > 0 && raw[n-1] == '\n' {
		n--
	}
	if n > 0 && raw[n-1] == '\r' {
		n--
	}

	return raw[:n]
}

// ReadAuto selects the whole-file or chunked read strategy by comparing the
// file size against cfg.ReadSizeThreshold, and is the
// implementation behind the public deserialize_auto entry point.
func ReadAuto(path string, cfg *config.Config) (*recstore.Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, kverr.Wrap("stat file", err)
	}

	if info.Size() <= cfg.ReadSizeThreshold {
		return ReadWholeFile(path, cfg)
	}

	return ReadChunked(path, cfg)
}
