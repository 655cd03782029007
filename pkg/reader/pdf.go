package reader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadPDF extracts per-page plain text and concatenates it. A PDF with no
// extractable text yields an empty string, not an error.
func ReadPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	readerAt := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not void the rest of the
			// document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		// Fall back to whole-document extraction; some PDFs only yield text
		// through the combined reader.
		plainReader, err := pdfReader.GetPlainText()
		if err != nil {
			return "", fmt.Errorf("extract pdf text: %w", err)
		}
		out, err := io.ReadAll(plainReader)
		if err != nil {
			return "", fmt.Errorf("read pdf text: %w", err)
		}
		return string(out), nil
	}

	return sb.String(), nil
}
