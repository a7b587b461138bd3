package memory

import "unicode/utf8"

// DefaultChunkSize is the maximum chunk length used when no explicit size is
// given.
const DefaultChunkSize = 1000

// SplitChunks splits text into ordered, non-overlapping chunks of at most size
// bytes. Cut points back off to the preceding rune start so a multibyte
// character never straddles a boundary; the store rejects invalid UTF-8.
// Beyond that the split is not semantically aware: cutting mid-word is
// acceptable. Concatenating the result reproduces the input exactly. Empty
// input returns nil.
func SplitChunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(text) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(text)+size-1)/size)
	for start := 0; start < len(text); {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			// Not valid UTF-8 within a whole chunk; cut at raw bytes.
			end = start + size
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	return chunks
}
