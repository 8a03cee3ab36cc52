package pipeline

// splitLines splits data into lines on LF, treating a preceding CR as part
// of the terminator so CRLF counts as one line break. The
// returned slices alias data; blank lines (including a final line that is
// empty because the file ends mid-terminator) are preserved as zero-length
// slices so the caller can tell a hole from content.
//
// A file ending in LF does not get a synthetic trailing empty line: "a\n"
// is one line, not two.
func splitLines(data []byte) [][]byte {
	var lines [][]byte

	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}

		end := i
		if end > start && data[end-1] == '\r' {
			end--
		}

		lines = append(lines, data[start:end])
		start = i + 1
	}

	if start < len(data) {
		lines = append(lines, data[start:])
	}

	return lines
}
