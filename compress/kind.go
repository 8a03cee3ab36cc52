package compress

// Kind selects the streaming compression algorithm applied to a kvon file
// as a whole, independent of the line format itself.
type Kind uint8

const (
	// None writes/reads the file uncompressed.
	None Kind = iota
	// Zstd gives the best ratio at moderate speed; good for cold storage.
	Zstd
	// S2 trades some ratio for much faster compression; good for hot paths.
	S2
	// LZ4 favors fast decompression over ratio.
	LZ4
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
