package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given byte slice.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest is an incremental xxHash64 accumulator, used by RecordStore.Checksum
// to fold the byte stream of many serialized lines without concatenating
// them into one buffer first.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns a Digest ready for incremental writes.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write feeds more bytes into the running hash.
func (h *Digest) Write(p []byte) {
	_, _ = h.d.Write(p)
}

// Sum64 returns the xxHash64 of all bytes written so far.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
