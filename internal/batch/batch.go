package batch

// MaxSize is the largest number of images submitted to the extraction
// service in a single request.
const MaxSize = 10

// Split partitions items into contiguous, order-preserving chunks of at
// most size elements each. Every item appears in exactly one chunk and the
// last chunk may be smaller. An empty input yields no chunks.
func Split[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}

	return chunks
}
