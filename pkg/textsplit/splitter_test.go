package textsplit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEmptyInput(t *testing.T) {
	s := New(1000, 200)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "spaces only", input: "     "},
		{name: "newlines only", input: "\n\n\n"},
		{name: "mixed whitespace", input: " \t\n  \t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, s.Split(tt.input))
		})
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	s := New(1000, 200)
	text := "a short document"

	chunks := s.Split(text)

	assert.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartOffset)
}

func TestSplitOverlapProperty(t *testing.T) {
	// No natural boundaries: every cut lands exactly at the window end, so
	// consecutive chunks must share exactly overlap runes.
	s := New(100, 20)
	text := strings.Repeat("x", 450)

	chunks := s.Split(text)

	assert.True(t, len(chunks) > 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)

		expectedStart := chunks[i-1].StartOffset + len(prev) - 20
		assert.Equal(t, expectedStart, chunks[i].StartOffset, "chunk %d start", i)

		if i < len(chunks)-1 {
			assert.Len(t, cur, 100, "chunk %d size", i)
		}
		assert.Equal(t, string(prev[len(prev)-20:]), string(cur[:20]), "chunk %d overlap", i)
	}
}

func TestSplitCoversWholeText(t *testing.T) {
	s := New(80, 10)
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump! " +
		"Sphinx of black quartz, judge my vow."

	chunks := s.Split(text)
	runes := []rune(text)

	assert.True(t, len(chunks) > 1)
	for i, chunk := range chunks {
		start := chunk.StartOffset
		end := start + len([]rune(chunk.Text))
		assert.Equal(t, string(runes[start:end]), chunk.Text, "chunk %d offset mismatch", i)
	}

	// The final chunk must reach the end of the input.
	last := chunks[len(chunks)-1]
	assert.Equal(t, len(runes), last.StartOffset+len([]rune(last.Text)))
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	s := New(60, 20)
	text := "First sentence ends right here. Second one stops here. Third sentence keeps going for a while and on and on."

	chunks := s.Split(text)

	assert.True(t, len(chunks) > 1)
	// The first cut should land just after a sentence end inside the
	// boundary-search window, not mid-word at rune 60.
	first := chunks[0].Text
	assert.True(t, strings.HasSuffix(strings.TrimRight(first, " "), "."), "first chunk %q should end at a sentence", first)
}

func TestSplitMultibyteOffsets(t *testing.T) {
	s := New(10, 2)
	text := strings.Repeat("日本語テキスト処理系", 5) // 50 runes, 150 bytes

	chunks := s.Split(text)
	runes := []rune(text)

	assert.True(t, len(chunks) > 1)
	for i, chunk := range chunks {
		start := chunk.StartOffset
		end := start + len([]rune(chunk.Text))
		assert.Equal(t, string(runes[start:end]), chunk.Text, "chunk %d", i)
	}
}

func TestNewGuards(t *testing.T) {
	// Overlap >= chunk size would never make forward progress; the
	// constructor degrades it to zero.
	s := New(10, 10)
	chunks := s.Split(strings.Repeat("y", 35))

	assert.Len(t, chunks, 4)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].StartOffset+len([]rune(chunks[i-1].Text)), chunks[i].StartOffset)
	}
}
