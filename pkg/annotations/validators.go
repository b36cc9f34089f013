package annotations

// CreateAnnotationPayload is the request body for anchoring a new annotation
// to a book.
type CreateAnnotationPayload struct {
	Type         string  `json:"type" validate:"required,annotationtype"`
	CFIRange     string  `json:"cfi_range" validate:"required,max=2000"`
	SelectedText *string `json:"selected_text,omitempty" validate:"omitempty,max=10000"`
	Color        *string `json:"color,omitempty" validate:"omitempty,max=50"`
	NoteText     *string `json:"note_text,omitempty" validate:"omitempty,max=10000"`
}

// UpdateAnnotationPayload is the request body for patching an annotation. Only
// the color and note text can change after creation.
type UpdateAnnotationPayload struct {
	Color    *string `json:"color,omitempty" validate:"omitempty,max=50"`
	NoteText *string `json:"note_text,omitempty" validate:"omitempty,max=10000"`
}
