package models

import (
	"github.com/uptrace/bun"
)

// AnnotationType distinguishes highlights, marks, and notes.
type AnnotationType string

const (
	AnnotationTypeHighlight AnnotationType = "highlight"
	AnnotationTypeMark      AnnotationType = "mark"
	AnnotationTypeNote      AnnotationType = "note"
)

// ValidAnnotationTypes returns all valid annotation type values.
func ValidAnnotationTypes() []AnnotationType {
	return []AnnotationType{AnnotationTypeHighlight, AnnotationTypeMark, AnnotationTypeNote}
}

// IsValidAnnotationType returns true if the type is valid.
func IsValidAnnotationType(t AnnotationType) bool {
	for _, valid := range ValidAnnotationTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Annotation is a highlight, mark, or note anchored to a position range within
// a book. cfi_range is opaque to this layer.
type Annotation struct {
	bun.BaseModel `bun:"table:annotations,alias:a"`

	ID           string         `bun:",pk" json:"id"`
	BookID       string         `bun:"book_id,notnull" json:"book_id"`
	UserID       string         `bun:"user_id,notnull" json:"user_id"`
	Type         AnnotationType `bun:"type,notnull" json:"type"`
	CFIRange     string         `bun:"cfi_range,notnull" json:"cfi_range"`
	SelectedText *string        `bun:"selected_text" json:"selected_text,omitempty"`
	Color        *string        `bun:"color" json:"color,omitempty"`
	NoteText     *string        `bun:"note_text" json:"note_text,omitempty"`
	CreatedAt    int64          `bun:"created_at" json:"created_at"`
	UpdatedAt    int64          `bun:"updated_at" json:"updated_at"`
	DeletedAt    *int64         `bun:"deleted_at" json:"deleted_at,omitempty"`
}
