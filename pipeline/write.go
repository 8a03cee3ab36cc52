package pipeline

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/arloliu/kvon/codec"
	"github.com/arloliu/kvon/compress"
	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/recstore"
	"github.com/arloliu/kvon/value"
)

// orderedSnapshot captures the store's records in ascending line-index
// order, the order every write strategy must emit in.
type orderedSnapshot struct {
	records []*value.Record
}

func snapshot(store *recstore.Store) orderedSnapshot {
	snap := orderedSnapshot{}
	store.ForEach(func(_ uint64, rec *value.Record) bool {
		snap.records = append(snap.records, rec)

		return true
	})

	return snap
}

func serializeLine(rec *value.Record) ([]byte, error) {
	line, err := codec.SerializeRecord(rec)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(line)+1)
	copy(out, line)
	out[len(line)] = '\n'

	return out, nil
}

func writeLinesInOrder(w *bufio.Writer, lines [][]byte) error {
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return kverr.Wrap("writing line", err)
		}
	}

	return nil
}

// finalizeWrite flushes w, then closes cw so any compression stream writes
// its final frame before the underlying file is closed by the caller's
// defer. It returns nil only if both steps succeed.
func finalizeWrite(w *bufio.Writer, cw io.WriteCloser) error {
	if err := w.Flush(); err != nil {
		cw.Close()

		return kverr.Wrap("flushing output file", err)
	}

	if err := cw.Close(); err != nil {
		return kverr.Wrap("closing compressed output file", err)
	}

	return nil
}

// WriteOrderedFanout implements the ordered-fanout write strategy:
// snapshots the ordered records, serializes all of them in parallel
// into an equally-sized result array indexed by position, then streams the
// result array to path in order.
func WriteOrderedFanout(store *recstore.Store, path string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}

	snap := snapshot(store)

	lines, err := parallelMap(snap.records, cfg.Parallelism, func(_ int, rec *value.Record) ([]byte, error) {
		return serializeLine(rec)
	})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return kverr.Wrap("creating output file", err)
	}
	defer f.Close()

	cw, err := compress.NewWriter(f, cfg.Compression)
	if err != nil {
		return kverr.Wrap("wrapping output file", err)
	}

	w := bufio.NewWriterSize(cw, 1<<20)
	if err := writeLinesInOrder(w, lines); err != nil {
		cw.Close()

		return err
	}

	return finalizeWrite(w, cw)
}

// WriteChunked implements the chunked write strategy:
// partitions the ordered snapshot into fixed-size chunks, and for each
// chunk in order, serializes it in parallel and writes it before moving to
// the next chunk. This overlaps serialize cost with write cost and bounds
// memory to one chunk's serialized size.
func WriteChunked(store *recstore.Store, path string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}

	snap := snapshot(store)

	f, err := os.Create(path)
	if err != nil {
		return kverr.Wrap("creating output file", err)
	}
	defer f.Close()

	cw, err := compress.NewWriter(f, cfg.Compression)
	if err != nil {
		return kverr.Wrap("wrapping output file", err)
	}

	w := bufio.NewWriterSize(cw, 1<<20)

	parallelism := resolveParallelism(cfg.Parallelism)
	chunkSize := cfg.WriteChunkSize(len(snap.records), parallelism)

	for start := 0; start < len(snap.records); start += chunkSize {
		end := start + chunkSize
		if end > len(snap.records) {
			end = len(snap.records)
		}

		chunk := snap.records[start:end]
		lines, err := parallelMap(chunk, cfg.Parallelism, func(_ int, rec *value.Record) ([]byte, error) {
			return serializeLine(rec)
		})
		if err != nil {
			cw.Close()

			return err
		}

		if err := writeLinesInOrder(w, lines); err != nil {
			cw.Close()

			return err
		}
	}

	return finalizeWrite(w, cw)
}

// pipelinedSlot is one producer→consumer handoff in WritePipelined.
type pipelinedSlot struct {
	position int
	line     []byte
	err      error
}

// WritePipelined implements the pipelined write strategy: a
// pool of producer goroutines serializes records and emits
// (position, line) pairs; a single consumer drains them in strictly
// ascending position order, blocking when the next required position
// hasn't arrived yet and waking on every completion signal. Every position
// is produced exactly once, so the consumer always eventually progresses.
func WritePipelined(store *recstore.Store, path string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}

	snap := snapshot(store)

	f, err := os.Create(path)
	if err != nil {
		return kverr.Wrap("creating output file", err)
	}
	defer f.Close()

	cw, err := compress.NewWriter(f, cfg.Compression)
	if err != nil {
		return kverr.Wrap("wrapping output file", err)
	}

	w := bufio.NewWriterSize(cw, 1<<20)

	if len(snap.records) == 0 {
		return finalizeWrite(w, cw)
	}

	jobs := make(chan int, len(snap.records))
	for i := range snap.records {
		jobs <- i
	}
	close(jobs)

	results := make(chan pipelinedSlot, len(snap.records))

	workers := resolveParallelism(cfg.Parallelism)
	if workers > len(snap.records) {
		workers = len(snap.records)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for wk := 0; wk < workers; wk++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				line, err := serializeLine(snap.records[i])
				results <- pipelinedSlot{position: i, line: line, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Order-aware buffer: hold out-of-order arrivals until the next
	// required position shows up, then drain as far as possible.
	pending := make(map[int][]byte)
	next := 0
	var firstErr error

	for slot := range results {
		if slot.err != nil {
			if firstErr == nil {
				firstErr = slot.err
			}
			continue
		}

		pending[slot.position] = slot.line
		for {
			line, ok := pending[next]
			if !ok {
				break
			}

			delete(pending, next)
			if firstErr == nil {
				if _, werr := w.Write(line); werr != nil {
					firstErr = kverr.Wrap("writing line", werr)
				}
			}
			next++
		}
	}

	if firstErr != nil {
		cw.Close()

		return firstErr
	}

	return finalizeWrite(w, cw)
}

// WriteAuto selects the pipelined or chunked write strategy by comparing
// the store's record count against cfg.ParallelMethodThreshold,
// and is the implementation behind the public serialize_auto entry point.
func WriteAuto(store *recstore.Store, path string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}

	if store.Len() < cfg.ParallelMethodThreshold {
		return WritePipelined(store, path, cfg)
	}

	return WriteChunked(store, path, cfg)
}
