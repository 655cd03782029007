package prompt

import "strings"

// RetrievedChunk is one search hit, already in rank order.
type RetrievedChunk struct {
	Source string
	Text   string
}

const chunkSeparator = "\n\n"

// AssembleContext concatenates retrieved chunk texts in rank order into a
// single context block bounded by charLimit runes. When the budget runs out
// the tail is dropped, never the top-ranked chunks. With no chunks at all the
// block carries the noContextMarker so the prompt stays honest about having
// nothing to cite.
func AssembleContext(chunks []RetrievedChunk, charLimit int, noContextMarker string) ContextBlock {
	if len(chunks) == 0 {
		return ContextBlock{
			Text:  noContextMarker,
			Empty: true,
		}
	}

	var (
		builder   strings.Builder
		sources   []string
		seen      = map[string]bool{}
		remaining = charLimit
	)

	for _, chunk := range chunks {
		text := chunk.Text
		sep := ""
		if builder.Len() > 0 {
			sep = chunkSeparator
		}

		need := len([]rune(sep)) + len([]rune(text))
		if charLimit > 0 && need > remaining {
			budget := remaining - len([]rune(sep))
			if budget <= 0 {
				break
			}
			runes := []rune(text)
			if budget >= len(runes) {
				budget = len(runes)
			}
			text = string(runes[:budget])
			if text == "" {
				break
			}
			need = len([]rune(sep)) + len([]rune(text))
		}

		builder.WriteString(sep)
		builder.WriteString(text)
		remaining -= need

		if !seen[chunk.Source] {
			seen[chunk.Source] = true
			sources = append(sources, chunk.Source)
		}

		if charLimit > 0 && remaining <= 0 {
			break
		}
	}

	return ContextBlock{
		Text:    builder.String(),
		Sources: sources,
	}
}
