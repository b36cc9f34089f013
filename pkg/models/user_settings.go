package models

import (
	"github.com/uptrace/bun"
)

const (
	LanguageEnglish    = "english"
	LanguageVietnamese = "vietnamese"

	DefaultFontSize = 16
)

type UserSettings struct {
	bun.BaseModel `bun:"table:user_settings,alias:us"`

	ID           string  `bun:",pk" json:"id"`
	UserID       string  `bun:"user_id,notnull" json:"user_id"`
	DarkMode     bool    `bun:"dark_mode" json:"dark_mode"`
	FontSize     int     `bun:"font_size" json:"font_size"`
	Language     string  `bun:"language" json:"language"`
	OpenAIAPIKey *string `bun:"openai_api_key" json:"openai_api_key,omitempty"`
	CreatedAt    int64   `bun:"created_at" json:"created_at"`
	UpdatedAt    int64   `bun:"updated_at" json:"updated_at"`
}

// DefaultUserSettings returns the settings row created on first access.
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:   userID,
		DarkMode: false,
		FontSize: DefaultFontSize,
		Language: LanguageEnglish,
	}
}

// ValidLanguages returns all valid language values.
func ValidLanguages() []string {
	return []string{LanguageEnglish, LanguageVietnamese}
}

// IsValidLanguage returns true if the language is valid.
func IsValidLanguage(language string) bool {
	for _, valid := range ValidLanguages() {
		if language == valid {
			return true
		}
	}
	return false
}
