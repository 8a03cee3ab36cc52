package recstore

import (
	"github.com/arloliu/kvon/codec"
	"github.com/arloliu/kvon/internal/hash"
	"github.com/arloliu/kvon/value"
)

// Checksum returns an xxHash64 fingerprint of the store's ascending-index
// byte stream: the same bytes the ordered-fanout write strategy would
// produce, folded incrementally rather than fully materialized. Two stores
// with equal Checksum values are very likely to serialize to byte-identical
// files; this is a diagnostic shortcut for the bulk-export/import workflow,
// not a substitute for Equal.
func (s *Store) Checksum() (uint64, error) {
	d := hash.NewDigest()

	var rerr error
	s.ForEach(func(_ uint64, rec *value.Record) bool {
		line, err := codec.SerializeRecord(rec)
		if err != nil {
			rerr = err
			return false
		}

		d.Write(line)
		d.Write([]byte{'\n'})

		return true
	})
	if rerr != nil {
		return 0, rerr
	}

	return d.Sum64(), nil
}
