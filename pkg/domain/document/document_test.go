package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

func TestFileTypeFromExtension(t *testing.T) {
	assert.Equal(t, document.FileTypePDF, document.FileTypeFromExtension(".pdf"))
	assert.Equal(t, document.FileTypePDF, document.FileTypeFromExtension("pdf"))
	assert.Equal(t, document.FileTypeMd, document.FileTypeFromExtension(".MD"))
	assert.Equal(t, document.FileTypeTxt, document.FileTypeFromExtension(".unknown"))
	assert.Equal(t, document.FileTypeTxt, document.FileTypeFromExtension(""))
}
