package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

func TestExtractText_PlainTextPassesThrough(t *testing.T) {
	text := extractText(document.FileTypeTxt, []byte("hello\nworld"))
	assert.Equal(t, "hello\nworld", text)
}

func TestExtractText_HTMLStripped(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head>` +
		`<body><p>visible &amp; text</p><script>alert(1)</script></body></html>`

	text := extractText(document.FileTypeHTML, []byte(html))

	assert.Contains(t, text, "visible & text")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "<p>")
}

func TestExtractText_BinaryKeepsPrintableRuns(t *testing.T) {
	raw := append([]byte{0x00, 0x01, 0x02}, []byte("Readable sentence inside")...)
	raw = append(raw, 0xFF, 0xFE)
	raw = append(raw, []byte("ab")...) // below the run threshold

	text := extractText(document.FileTypePDF, raw)

	assert.Equal(t, "Readable sentence inside", text)
}
