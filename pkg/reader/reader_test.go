package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codelm-be/pkg/rag"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name      string
		mimeType  string
		supported bool
	}{
		{name: "pdf", mimeType: "application/pdf", supported: true},
		{name: "plain text", mimeType: "text/plain", supported: true},
		{name: "markdown", mimeType: "text/markdown", supported: true},
		{name: "csv", mimeType: "text/csv", supported: true},
		{name: "json", mimeType: "application/json", supported: true},
		{name: "html", mimeType: "text/html", supported: true},
		{name: "mime params stripped", mimeType: "text/plain; charset=utf-8", supported: true},
		{name: "case insensitive", mimeType: "TEXT/PLAIN", supported: true},
		{name: "unregistered text subtype falls back", mimeType: "text/x-log", supported: true},
		{name: "image rejected", mimeType: "image/png", supported: false},
		{name: "binary rejected", mimeType: "application/octet-stream", supported: false},
		{name: "empty rejected", mimeType: "", supported: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Lookup(tt.mimeType)
			assert.Equal(t, tt.supported, ok)
		})
	}
}

func TestReadUnsupportedType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Read("image/png", []byte{0x89, 0x50})

	assert.ErrorIs(t, err, rag.ErrUnsupportedInput)
}

func TestReadInvalidUTF8(t *testing.T) {
	r := NewRegistry()

	_, err := r.Read("text/plain", []byte{0xff, 0xfe, 0x00})

	assert.ErrorIs(t, err, rag.ErrUnavailable)
}

func TestReadPlainText(t *testing.T) {
	r := NewRegistry()

	text, err := r.Read("text/plain", []byte("hello notebook"))

	assert.NoError(t, err)
	assert.Equal(t, "hello notebook", text)
}

func TestReadHTMLStripsMarkup(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style>
<script>console.log("ignore me");</script></head>
<body><h1>Title</h1><p>First paragraph.</p><div>Second <b>bold</b> line.</div></body></html>`

	text, err := ReadHTML([]byte(html))

	assert.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second bold line.")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "<")
}

func TestReadHTMLNamelessTags(t *testing.T) {
	// Stray brackets in prose must come back as text, never crash the reader.
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty closing tag", input: "math says x </> y", want: "math says x  y"},
		{name: "spaced brackets", input: "spaced brackets < > in prose", want: "spaced brackets  in prose"},
		{name: "empty tag between blocks", input: "<p>alpha</p><></p>beta</p>", want: "alpha\nbeta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ReadHTML([]byte(tt.input))

			assert.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestReadHTMLBlockBoundaries(t *testing.T) {
	// Adjacent block elements must not fuse words together.
	text, err := ReadHTML([]byte("<p>alpha</p><p>beta</p>"))

	assert.NoError(t, err)
	assert.Equal(t, "alpha\nbeta", text)
}
