package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// EmailPattern accepts the usual local@domain.tld shape, case-insensitively
	EmailPattern = `(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	NameMaxLength        = 100
	EmailMaxLength       = 255
	PhoneMaxLength       = 30
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation validates a single named string field
type StringValidation struct {
	Field    string
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
	// PatternMessage is reported when Pattern does not match
	PatternMessage string
}

// NewStringValidation creates a new string validation for a required field
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern and the message reported on mismatch
func (v *StringValidation) WithPattern(pattern *regexp.Regexp, message string) *StringValidation {
	v.Pattern = pattern
	v.PatternMessage = message
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns a validation error naming the field, or nil
func (v *StringValidation) Validate() error {
	value := strings.TrimSpace(v.Value)

	if value == "" {
		if v.Required {
			return apperrors.NewValidationError(v.Field, v.Field+" is required")
		}
		return nil
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(value) > v.MaxLen {
		return apperrors.NewValidationError(v.Field,
			fmt.Sprintf("%s must be at most %d characters", v.Field, v.MaxLen))
	}

	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return apperrors.NewValidationError(v.Field, v.PatternMessage)
	}

	return nil
}

// Email validates a required email address
func Email(value string) error {
	return NewStringValidation("email", value).
		WithMaxLength(EmailMaxLength).
		WithPattern(CompiledPatterns.Email, "email must be a valid email address").
		Validate()
}

// FirstError runs the validations in order and returns the first failure
func FirstError(validations ...*StringValidation) error {
	for _, v := range validations {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PositiveID validates a primary key supplied by a caller
func PositiveID(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError(field, field+" must be a positive integer")
	}
	return nil
}
