// Package compress provides optional whole-file compression for kvon's
// on-disk format. Compression is applied as a transparent io.Writer/
// io.Reader shim around the line-splitting pipeline core: the line format
// itself is always plain text, and a Kind selects the stream codec wrapped
// around the file handle before lines are written or read.
//
// NewWriter and NewReader are the only entry points; there is no
// block-oriented, whole-payload-in-memory variant, since nothing in the
// pipeline holds a compressed buffer that way.
package compress
