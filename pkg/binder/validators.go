package binder

import (
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/go-playground/validator/v10"
)

// bookFormatValidator ensures the value is one of the supported book formats.
// The empty string is allowed so that optional fields can be omitted; combine
// with required when the field is mandatory.
func bookFormatValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidBookFormat(models.BookFormat(value))
}

// annotationTypeValidator ensures the value is a known annotation type.
func annotationTypeValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidAnnotationType(models.AnnotationType(value))
}

// languageValidator ensures the value is a supported settings language.
func languageValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidLanguage(value)
}
