// Package identifiers generates the opaque row ids used across every table
// and normalizes the external book identifiers users paste in. Ids are
// random UUIDs, so an offline device never needs a central sequence.
package identifiers

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// New returns a fresh opaque record identifier.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether the value is a well-formed record identifier.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NormalizeISBN removes hyphens, spaces, and common prefixes from an ISBN.
func NormalizeISBN(value string) string {
	value = strings.TrimPrefix(strings.ToUpper(value), "ISBN:")
	value = strings.TrimPrefix(value, "ISBN")
	value = strings.TrimSpace(value)

	// Keep only digits and X (for the ISBN-10 checksum)
	var result strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) || r == 'X' || r == 'x' {
			result.WriteRune(r)
		}
	}
	return strings.ToUpper(result.String())
}

// ValidateISBN reports whether the value normalizes to a valid ISBN-10 or
// ISBN-13.
func ValidateISBN(value string) bool {
	normalized := NormalizeISBN(value)
	switch len(normalized) {
	case 10:
		return ValidateISBN10(normalized)
	case 13:
		return ValidateISBN13(normalized)
	}
	return false
}

// ValidateISBN10 validates an ISBN-10 checksum.
// ISBN-10 uses modulo 11 with weights 10,9,8,7,6,5,4,3,2,1.
func ValidateISBN10(isbn string) bool {
	if len(isbn) != 10 {
		return false
	}

	var sum int
	for i, r := range isbn {
		var digit int
		if r == 'X' || r == 'x' {
			if i != 9 {
				return false // X only valid as last digit
			}
			digit = 10
		} else if unicode.IsDigit(r) {
			digit = int(r - '0')
		} else {
			return false
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

// ValidateISBN13 validates an ISBN-13 checksum.
// ISBN-13 uses alternating weights of 1 and 3.
func ValidateISBN13(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}

	var sum int
	for i, r := range isbn {
		if !unicode.IsDigit(r) {
			return false
		}
		digit := int(r - '0')
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}
	return sum%10 == 0
}
