package books

import (
	"path/filepath"
	"strings"

	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/gabriel-vasile/mimetype"
)

// DetectFormat infers the book format from the picker-reported MIME type,
// falling back to the filename extension. The MIME lookup resolves aliases
// (e.g. text/x-plain) to a canonical extension first.
func DetectFormat(mimeType, filename string) (models.BookFormat, bool) {
	if mt := strings.TrimSpace(mimeType); mt != "" {
		if m := mimetype.Lookup(mt); m != nil {
			if format, ok := formatForExtension(m.Extension()); ok {
				return format, true
			}
		}
	}
	return formatForExtension(filepath.Ext(filename))
}

func formatForExtension(ext string) (models.BookFormat, bool) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return models.BookFormatPDF, true
	case ".epub":
		return models.BookFormatEPub, true
	case ".txt":
		return models.BookFormatTXT, true
	}
	return "", false
}

// TitleFromFilename strips the extension off a picker-supplied name, matching
// how the reader titles unnamed imports.
func TitleFromFilename(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext)
}
