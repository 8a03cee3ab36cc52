// Package recstore implements the record store (C5): an index-keyed
// in-memory collection of records, written and read as a whole file.
package recstore

import (
	"sort"
	"strconv"
	"sync"

	"github.com/arloliu/kvon/kverr"
	"github.com/arloliu/kvon/value"
)

// Store maps a 0-based line index to the Record parsed from that line. A
// freshly-parsed file populates index i iff line i was non-empty; blank
// lines leave a hole. On write, records are emitted in ascending
// index order; holes produce no output.
type Store struct {
	mu      sync.Mutex
	records map[uint64]*value.Record
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[uint64]*value.Record)}
}

// NewWithCapacity returns an empty Store pre-sized for n records, used by
// the file pipeline's commit phase to avoid map growth during bulk insert.
func NewWithCapacity(n int) *Store {
	return &Store{records: make(map[uint64]*value.Record, n)}
}

// Insert adds rec at index. It fails with KindDuplicateIndex if index is
// already populated; the store is left unmodified on failure.
//
// Parallel parse workers insert at disjoint indices, so the
// store's own lock only needs to guard the commit phase against concurrent
// map writes, not against a racy check-then-insert on the same key.
func (s *Store) Insert(index uint64, rec *value.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[index]; exists {
		return kverr.New(kverr.KindDuplicateIndex, "line index "+strconv.FormatUint(index, 10)+" already present in store")
	}

	s.records[index] = rec

	return nil
}

// Get returns the record at index, if present.
func (s *Store) Get(index uint64) (*value.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[index]

	return rec, ok
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Indices returns the store's populated indices in ascending order.
func (s *Store) Indices() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]uint64, 0, len(s.records))
	for idx := range s.records {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// ForEach iterates records in ascending index order, stopping early if fn
// returns false. This is the order write strategies must emit in.
func (s *Store) ForEach(fn func(index uint64, rec *value.Record) bool) {
	for _, idx := range s.Indices() {
		rec, ok := s.Get(idx)
		if !ok {
			continue // index was removed between Indices() and Get(); skip rather than panic
		}
		if !fn(idx, rec) {
			return
		}
	}
}

// Equal reports whether two stores hold equal records at every index, used
// by the round-trip property tests.
func (s *Store) Equal(other *Store) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.Len() != other.Len() {
		return false
	}

	equal := true
	s.ForEach(func(idx uint64, rec *value.Record) bool {
		orec, ok := other.Get(idx)
		if !ok || !rec.Equal(orec) {
			equal = false
			return false
		}

		return true
	})

	return equal
}
