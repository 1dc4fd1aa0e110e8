// Package chunker partitions byte blobs into bounded, ordered chunks.
package chunker

import "errors"

// DefaultSize is the payload size used when no chunk size is configured.
const DefaultSize = 100_000

var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Count returns how many chunks a blob of the given length splits into.
// An empty blob still occupies one chunk.
func Count(length, size int) int {
	if size <= 0 {
		return 0
	}
	if length <= 0 {
		return 1
	}

	return (length + size - 1) / size
}

// Split cuts blob into Count(len(blob), size) chunks. The chunks share the
// blob's backing array but have their capacity capped, so appending to one
// never bleeds into its neighbour.
func Split(blob []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}

	n := Count(len(blob), size)
	chunks := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		end := min(start+size, len(blob))
		chunks = append(chunks, blob[start:end:end])
	}

	return chunks, nil
}
