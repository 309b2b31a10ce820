package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name      string
		v         *StringValidation
		wantField string
	}{
		{name: "required present", v: NewStringValidation("name", "Alice")},
		{name: "required blank", v: NewStringValidation("name", "   "), wantField: "name"},
		{name: "optional blank", v: NewStringValidation("phone", "").WithRequired(false)},
		{name: "too long", v: NewStringValidation("name", strings.Repeat("é", 101)).WithMaxLength(100), wantField: "name"},
		{name: "multibyte at limit", v: NewStringValidation("name", strings.Repeat("é", 100)).WithMaxLength(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
			assert.Equal(t, tt.wantField, apperrors.FieldOf(err))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@ecole.fr"))
	assert.NoError(t, Email("Alice.Martin+cours@Ecole.Example.COM"))

	for _, bad := range []string{"", "alice", "alice@", "@ecole.fr", "alice@ecole"} {
		err := Email(bad)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed), bad)
	}
}

func TestFirstError(t *testing.T) {
	err := FirstError(
		NewStringValidation("name", "Alice"),
		NewStringValidation("instructor", ""),
		NewStringValidation("title", ""),
	)
	assert.Equal(t, "instructor", apperrors.FieldOf(err))
	assert.NoError(t, FirstError())
}

func TestPositiveID(t *testing.T) {
	assert.NoError(t, PositiveID("studentId", 1))
	assert.Equal(t, "studentId must be a positive integer", apperrors.Message(PositiveID("studentId", 0)))
}
