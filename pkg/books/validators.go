package books

// FilePayload is the metadata handed over by the platform file picker. Every
// field is opaque to this layer; nothing validates that the file exists.
type FilePayload struct {
	Name        string  `json:"name" mod:"trim" validate:"required,max=500"`
	URI         string  `json:"uri" validate:"required,max=2000"`
	FileCopyURI *string `json:"file_copy_uri,omitempty" validate:"omitempty,max=2000"`
	Size        *int64  `json:"size,omitempty" validate:"omitempty,min=0"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=200"`
}

// CreateBookPayload is the request body for importing a book. Title and
// format are inferred from the file metadata when omitted.
type CreateBookPayload struct {
	Title    *string     `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=500"`
	Author   *string     `json:"author,omitempty" mod:"trim" validate:"omitempty,max=300"`
	ISBN     *string     `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=32"`
	CoverURL *string     `json:"cover_url,omitempty" validate:"omitempty,max=2000"`
	Format   *string     `json:"format,omitempty" validate:"omitempty,bookformat"`
	File     FilePayload `json:"file"`
}

// UpdateBookPayload is the request body for patching a book. Nil fields are
// untouched; empty strings clear nullable fields.
type UpdateBookPayload struct {
	Title    *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=500"`
	Author   *string `json:"author,omitempty" mod:"trim" validate:"omitempty,max=300"`
	ISBN     *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=32"`
	CoverURL *string `json:"cover_url,omitempty" validate:"omitempty,max=2000"`
	Progress *int    `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	LastCFI  *string `json:"last_cfi,omitempty" validate:"omitempty,max=2000"`
}

// UpdateProgressPayload is the request body for the reading-position fast
// path.
type UpdateProgressPayload struct {
	Progress int     `json:"progress" validate:"min=0,max=100"`
	LastCFI  *string `json:"last_cfi,omitempty" validate:"omitempty,max=2000"`
}

// ListBooksQuery are the query params for listing a user's library.
type ListBooksQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}
