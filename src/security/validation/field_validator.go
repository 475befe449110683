// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxCategoryLength    = 100
	MaxDescriptionLength = 1024
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

var transactionTypes = map[string]bool{"income": true, "expense": true}

// ValidateTransactionType checks the type against the two allowed values.
func ValidateTransactionType(s string) error {
	if !transactionTypes[strings.ToLower(strings.TrimSpace(s))] {
		return fmt.Errorf("%w: transaction type must be 'income' or 'expense', got '%s'", ErrValidationFailed, s)
	}
	return nil
}

var categoryRegex = regexp.MustCompile(`^[\p{L}\p{N} &/-]*$`)

// ValidateCategory checks that a category contains only letters, numbers,
// spaces and a small set of separators.
func ValidateCategory(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxCategoryLength, "Category"); err != nil {
		return err
	}
	if !categoryRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Category contains disallowed characters", ErrValidationFailed)
	}
	return nil
}
