package books

import (
	"testing"

	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mimeType string
		filename string
		want     models.BookFormat
		ok       bool
	}{
		{"pdf by mime type", "application/pdf", "scan-001", models.BookFormatPDF, true},
		{"epub by mime type", "application/epub+zip", "book", models.BookFormatEPub, true},
		{"txt by mime type", "text/plain", "notes", models.BookFormatTXT, true},
		{"pdf by extension", "", "manual.pdf", models.BookFormatPDF, true},
		{"epub by extension", "", "novel.EPUB", models.BookFormatEPub, true},
		{"extension beats unknown mime", "application/octet-stream", "story.txt", models.BookFormatTXT, true},
		{"unsupported", "image/png", "cover.png", "", false},
		{"nothing to go on", "", "mystery", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ok := DetectFormat(tt.mimeType, tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, format)
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The Left Hand of Darkness", TitleFromFilename("The Left Hand of Darkness.epub"))
	assert.Equal(t, "report.v2", TitleFromFilename("report.v2.pdf"))
	assert.Equal(t, "untitled", TitleFromFilename("untitled"))
}
