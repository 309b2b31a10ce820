package dto

import (
	"errors"
	"testing"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterJSONTagNames(v)
	return v
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	err := newValidator().Struct(StudentRequest{Name: "Alice", Email: "not-an-email"})
	require.Error(t, err)

	detail := HandleValidationError(err)

	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "email", detail.Field)
	assert.Equal(t, "email must be a valid email address", detail.Message)
	assert.Equal(t, []FieldError{{Field: "email", Message: "email must be a valid email address"}}, detail.Details)
}

func TestHandleValidationError_MultipleFields(t *testing.T) {
	err := newValidator().Struct(CourseRequest{})
	require.Error(t, err)

	detail := HandleValidationError(err)

	assert.Equal(t, "title is required; instructor is required", detail.Message)
	assert.Empty(t, detail.Field)
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))

	assert.Equal(t, ErrorCodeInvalidRequest, detail.Code)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestEnrollmentRequestValidation(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(CreateEnrollmentRequest{StudentID: 1, CourseID: 2}))

	err := v.Struct(CreateEnrollmentRequest{StudentID: 0, CourseID: -1})
	require.Error(t, err)
	assert.Equal(t, "studentId is required; courseId must be greater than 0", HandleValidationError(err).Message)
}

func TestRequestedDate(t *testing.T) {
	a, _ := models.ParseDate("2024-01-15")
	b, _ := models.ParseDate("2024-02-01")

	assert.Nil(t, CreateEnrollmentRequest{}.RequestedDate())
	assert.Equal(t, &b, CreateEnrollmentRequest{Date: &b}.RequestedDate())
	assert.Equal(t, &a, CreateEnrollmentRequest{EnrollmentDate: &a, Date: &b}.RequestedDate())
}

func TestStudentRequestToModel(t *testing.T) {
	phone := "0601020304"
	s := StudentRequest{Name: "Alice", Email: "a@x.com", Phone: &phone}.ToModel()

	assert.Equal(t, &models.Student{Name: "Alice", Email: "a@x.com", Phone: &phone}, s)
}
