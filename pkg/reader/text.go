package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReadText decodes data as UTF-8 text. Invalid UTF-8 is rejected rather than
// silently mangled, so a binary uploaded with a text MIME type surfaces as an
// unavailable source instead of garbage chunks.
func ReadText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	return string(data), nil
}

// ReadHTML strips tags from an HTML document and returns the visible text.
// Script and style bodies are dropped entirely.
func ReadHTML(data []byte) (string, error) {
	raw, err := ReadText(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var tag strings.Builder
	inTag := false
	skipDepth := 0 // inside <script> or <style>

	flushTag := func() {
		fields := strings.Fields(strings.TrimPrefix(tag.String(), "/"))
		if len(fields) == 0 {
			// Nameless "tag" like a stray </> or < > in prose
			tag.Reset()
			return
		}
		name := strings.ToLower(fields[0])
		closing := strings.HasPrefix(tag.String(), "/")
		if name == "script" || name == "style" {
			if closing {
				if skipDepth > 0 {
					skipDepth--
				}
			} else {
				skipDepth++
			}
		}
		// Block-level boundaries become whitespace so words don't fuse
		switch name {
		case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString("\n")
		}
		tag.Reset()
	}

	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
			if tag.Len() > 0 {
				flushTag()
			}
		case inTag:
			tag.WriteRune(r)
		case skipDepth == 0:
			sb.WriteRune(r)
		}
	}

	return collapseBlankLines(sb.String()), nil
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
