package pipeline

import "strings"

const (
	// chunkSize is the maximum chunk length in characters.
	chunkSize = 1024
	// minMeaningful is the trimmed length below which a chunk is skipped.
	minMeaningful = 50
)

// Chunk splits text into contiguous, non-overlapping slices of at most
// chunkSize characters, preserving original order.
func Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+chunkSize-1)/chunkSize)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// MeaningfulChunks drops chunks that are mostly whitespace. A chunk whose
// trimmed content is minMeaningful characters or fewer carries too little
// signal to summarize.
func MeaningfulChunks(chunks []string) []string {
	kept := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(strings.TrimSpace(c)) > minMeaningful {
			kept = append(kept, c)
		}
	}
	return kept
}
