// Package textsplit slices normalized document text into overlapping chunks
// for embedding. Offsets and sizes are measured in runes so multi-byte text
// is never cut mid-character.
package textsplit

import (
	"strings"
	"unicode"
)

// Chunk is one slice of the input text. StartOffset is the rune index of the
// chunk's first character in the original text and is carried into the vector
// index for provenance and upsert identity.
type Chunk struct {
	Text        string
	StartOffset int
}

type Splitter struct {
	chunkSize int
	overlap   int
}

// New returns a splitter producing chunks of at most chunkSize runes with
// overlap runes shared between consecutive chunks. An overlap >= chunkSize
// degrades to zero overlap instead of looping forever.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split produces the ordered chunk sequence for text. Whitespace-only input
// yields an empty sequence.
func (s *Splitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= s.chunkSize {
		return []Chunk{{Text: text, StartOffset: 0}}
	}

	var chunks []Chunk
	start := 0
	for start < totalLen {
		end := start + s.chunkSize
		if end >= totalLen {
			chunks = append(chunks, Chunk{
				Text:        string(runes[start:totalLen]),
				StartOffset: start,
			})
			break
		}

		// Prefer cutting at a natural boundary close to the window end:
		// paragraph break first, then sentence end, then any whitespace.
		// The search is bounded by the overlap region so chunks keep their
		// nominal size.
		if cut := boundaryBefore(runes, end, end-s.overlap); cut > start {
			end = cut
		}

		chunks = append(chunks, Chunk{
			Text:        string(runes[start:end]),
			StartOffset: start,
		})

		next := end - s.overlap
		if next <= start {
			// Forward progress guard for pathological overlap/boundary
			// combinations.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// boundaryBefore scans backwards from end (exclusive) down to lowest looking
// for the best split point. Returns the rune index just after the boundary,
// or 0 when none is found.
func boundaryBefore(runes []rune, end, lowest int) int {
	if lowest < 0 {
		lowest = 0
	}

	paragraph, sentence, space := 0, 0, 0
	for i := end - 1; i > lowest; i-- {
		r := runes[i]
		if r == '\n' && i > 0 && runes[i-1] == '\n' && paragraph == 0 {
			paragraph = i + 1
		}
		if (r == '.' || r == '!' || r == '?') && i+1 < end && unicode.IsSpace(runes[i+1]) && sentence == 0 {
			sentence = i + 2
		}
		if unicode.IsSpace(r) && space == 0 {
			space = i + 1
		}
	}

	switch {
	case paragraph > 0:
		return paragraph
	case sentence > 0:
		return sentence
	default:
		return space
	}
}
