package settings

// UpdateSettingsPayload is the request body for patching user settings. Nil
// fields are left untouched; an empty openai_api_key clears the stored key.
type UpdateSettingsPayload struct {
	DarkMode     *bool   `json:"dark_mode,omitempty"`
	FontSize     *int    `json:"font_size,omitempty" validate:"omitempty,min=1,max=128"`
	Language     *string `json:"language,omitempty" validate:"omitempty,language"`
	OpenAIAPIKey *string `json:"openai_api_key,omitempty" validate:"omitempty,max=200"`
}
