package service

import "strings"

// DefaultChunkSizeWords is the window size used when none is configured.
const DefaultChunkSizeWords = 1000

// ChunkWords splits text into non-overlapping windows of up to size words,
// preserving word order. The final window may be short. Empty or
// whitespace-only text yields no chunks. Boundaries are word-aligned, not
// sentence-aware.
func ChunkWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSizeWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}
