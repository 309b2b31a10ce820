package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.String())

	d, err = ParseDate("2024-01-15T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.String())

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestNewDateDropsTimeOfDay(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 9, 17, 45, 12, 99, time.Local))

	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
	assert.Equal(t, "2024-03-09", d.String())
}

func TestEnrollmentJSON(t *testing.T) {
	e := Enrollment{ID: 1, EnrollmentDate: NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), StudentID: 2, CourseID: 3}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"enrollmentDate":"2024-01-15","studentId":2,"courseId":3}`, string(data))
}

func TestDateUnmarshal(t *testing.T) {
	var body struct {
		Date *Date `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-09-01"}`), &body))
	require.NotNil(t, body.Date)
	assert.Equal(t, "2023-09-01", body.Date.String())

	body.Date = nil
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &body))
	assert.Nil(t, body.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":20230901}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &body))
}

func TestStudentOmitsEmptyPhone(t *testing.T) {
	data, err := json.Marshal(Student{ID: 1, Name: "Alice", Email: "a@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"a@x.com"}`, string(data))
}
