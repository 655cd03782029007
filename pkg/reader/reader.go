// Package reader converts stored file bytes into normalized text. Each
// supported MIME type maps to a reader function through an explicit registry;
// unknown types resolve to an unsupported outcome rather than an error so a
// batch upload can skip them and keep going.
package reader

import (
	"strings"

	"codelm-be/pkg/rag"
)

// ReadFunc converts raw file bytes into normalized UTF-8 text.
type ReadFunc func(data []byte) (string, error)

type Registry struct {
	byMime map[string]ReadFunc
}

// NewRegistry builds the default registry: PDF, the text family, HTML, and a
// text/* fallback.
func NewRegistry() *Registry {
	r := &Registry{byMime: make(map[string]ReadFunc)}

	r.Register("application/pdf", ReadPDF)
	r.Register("text/plain", ReadText)
	r.Register("text/markdown", ReadText)
	r.Register("text/csv", ReadText)
	r.Register("application/json", ReadText)
	r.Register("text/html", ReadHTML)

	return r
}

func (r *Registry) Register(mimeType string, fn ReadFunc) {
	r.byMime[normalizeMime(mimeType)] = fn
}

// Lookup resolves the reader for a MIME type. Unregistered text/* subtypes
// fall back to the plain-text reader; everything else is unsupported.
func (r *Registry) Lookup(mimeType string) (ReadFunc, bool) {
	mt := normalizeMime(mimeType)
	if fn, ok := r.byMime[mt]; ok {
		return fn, true
	}
	if strings.HasPrefix(mt, "text/") {
		return ReadText, true
	}
	return nil, false
}

// Read dispatches on MIME type and converts data to text.
// Returns rag.ErrUnsupportedInput for unknown types and rag.ErrUnavailable
// when a registered reader fails to decode.
func (r *Registry) Read(mimeType string, data []byte) (string, error) {
	fn, ok := r.Lookup(mimeType)
	if !ok {
		return "", rag.ErrUnsupportedInput
	}
	text, err := fn(data)
	if err != nil {
		return "", rag.ErrUnavailable
	}
	return text, nil
}

// normalizeMime drops parameters ("text/plain; charset=utf-8") and lowercases.
func normalizeMime(mimeType string) string {
	mt := mimeType
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = mt[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
