package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"codelm-be/pkg/llm"
)

const marker = "NO RELEVANT CONTEXT WAS FOUND."

func TestAssembleContextEmpty(t *testing.T) {
	block := AssembleContext(nil, 15000, marker)

	assert.True(t, block.Empty)
	assert.Equal(t, marker, block.Text)
	assert.Empty(t, block.Sources)
}

func TestAssembleContextRankOrder(t *testing.T) {
	chunks := []RetrievedChunk{
		{Source: "a.pdf", Text: "first"},
		{Source: "b.pdf", Text: "second"},
		{Source: "a.pdf", Text: "third"},
	}

	block := AssembleContext(chunks, 15000, marker)

	assert.False(t, block.Empty)
	assert.Equal(t, "first\n\nsecond\n\nthird", block.Text)
	// Sources deduplicated, rank order preserved
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, block.Sources)
}

func TestAssembleContextTruncatesTail(t *testing.T) {
	chunks := []RetrievedChunk{
		{Source: "top.pdf", Text: strings.Repeat("a", 50)},
		{Source: "mid.pdf", Text: strings.Repeat("b", 50)},
		{Source: "low.pdf", Text: strings.Repeat("c", 50)},
	}

	// Budget fits the first chunk and part of the second.
	block := AssembleContext(chunks, 80, marker)

	assert.Contains(t, block.Text, strings.Repeat("a", 50))
	assert.NotContains(t, block.Text, "c")
	assert.LessOrEqual(t, len([]rune(block.Text)), 80)
	// The top-ranked chunk is never the one dropped.
	assert.True(t, strings.HasPrefix(block.Text, strings.Repeat("a", 50)))
}

func TestAssembleContextZeroLimitMeansUnbounded(t *testing.T) {
	chunks := []RetrievedChunk{
		{Source: "a.pdf", Text: strings.Repeat("x", 1000)},
		{Source: "b.pdf", Text: strings.Repeat("y", 1000)},
	}

	block := AssembleContext(chunks, 0, marker)

	assert.Equal(t, 2002, len([]rune(block.Text)))
}

func TestBuilderIncludesAllSections(t *testing.T) {
	block := ContextBlock{Text: "reference text", Sources: []string{"a.pdf"}}

	prompt := NewBuilder(block, "what is X?", nil).Build()

	assert.Contains(t, prompt, "<task>")
	assert.Contains(t, prompt, "reference text")
	assert.Contains(t, prompt, "what is X?")
	assert.NotContains(t, prompt, "<conversation_history>")
}

func TestBuilderIncludesHistoryWhenPresent(t *testing.T) {
	block := ContextBlock{Text: "ctx"}

	history := []llm.Message{
		{Role: "user", Content: "hello"},
		{Role: "model", Content: "hi there"},
	}

	prompt := NewBuilder(block, "and then?", history).Build()

	assert.Contains(t, prompt, "<conversation_history>")
	assert.Contains(t, prompt, "user: hello")
	assert.Contains(t, prompt, "model: hi there")
}

func TestBuilderNoContextMarkerFlowsThrough(t *testing.T) {
	block := AssembleContext(nil, 100, marker)

	prompt := NewBuilder(block, "anything?", nil).Build()

	assert.Contains(t, prompt, marker)
	assert.Contains(t, prompt, "don't have enough information")
}
