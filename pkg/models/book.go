package models

import (
	"github.com/uptrace/bun"
)

// BookFormat is the file format of an imported book.
type BookFormat string

const (
	BookFormatPDF  BookFormat = "PDF"
	BookFormatEPub BookFormat = "ePub"
	BookFormatTXT  BookFormat = "TXT"
)

// ValidBookFormats returns all valid book format values.
func ValidBookFormats() []BookFormat {
	return []BookFormat{BookFormatPDF, BookFormatEPub, BookFormatTXT}
}

// IsValidBookFormat returns true if the format is valid.
func IsValidBookFormat(format BookFormat) bool {
	for _, valid := range ValidBookFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// Book is an imported file in a user's library. The file_* columns are opaque
// strings handed over by the platform file picker; nothing here reads the file
// itself. last_cfi is an opaque reading-position token owned by the renderer.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          string     `bun:",pk" json:"id"`
	UserID      string     `bun:"user_id,notnull" json:"user_id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Author      *string    `bun:"author" json:"author,omitempty"`
	ISBN        *string    `bun:"isbn" json:"isbn,omitempty"`
	CoverURL    *string    `bun:"cover_url" json:"cover_url,omitempty"`
	Format      BookFormat `bun:"format,notnull" json:"format"`
	FilePath    string     `bun:"file_path,notnull" json:"file_path"`
	FileURI     *string    `bun:"file_uri" json:"file_uri,omitempty"`
	FileCopyURI *string    `bun:"file_copy_uri" json:"file_copy_uri,omitempty"`
	FileSize    *int64     `bun:"file_size" json:"file_size,omitempty"`
	Progress    int        `bun:"progress" json:"progress"`
	LastCFI     *string    `bun:"last_cfi" json:"last_cfi,omitempty"`
	LastReadAt  *int64     `bun:"last_read_at" json:"last_read_at,omitempty"`
	AddedAt     int64      `bun:"added_at" json:"added_at"`
	UpdatedAt   int64      `bun:"updated_at" json:"updated_at"`
	DeletedAt   *int64     `bun:"deleted_at" json:"deleted_at,omitempty"`
}
