package prompt

import (
	"strings"

	"codelm-be/pkg/llm"
)

// ContextBlock is the assembled retrieval context plus the sources it came
// from, in rank order.
type ContextBlock struct {
	Text    string
	Sources []string
	Empty   bool
}

// Builder assembles the completion prompt from retrieved context, prior
// turn history and the new question.
type Builder struct {
	context  ContextBlock
	question string
	history  []llm.Message
}

func NewBuilder(context ContextBlock, question string, history []llm.Message) *Builder {
	return &Builder{
		context:  context,
		question: question,
		history:  history,
	}
}

// Build produces the full prompt. Sections are tagged so the model can tell
// instruction, material, history and question apart.
func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeContext(&prompt)
	b.writeHistory(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *Builder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a research assistant answering questions about the documents in the user's notebook.\n")
	prompt.WriteString("Answer ONLY from the reference material below. Do not use outside knowledge.\n")
	prompt.WriteString("If the reference material does not contain the answer, say you don't have enough information in this notebook. Never invent an answer.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *Builder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(b.context.Text)
	prompt.WriteString("\n</reference_material>\n\n")
}

func (b *Builder) writeHistory(prompt *strings.Builder) {
	if len(b.history) == 0 {
		return
	}

	prompt.WriteString("<conversation_history>\n")
	for _, msg := range b.history {
		prompt.WriteString(msg.Role)
		prompt.WriteString(": ")
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</conversation_history>\n\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now answer based only on the reference material:")
}
