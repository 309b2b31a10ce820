package dto

import (
	"github.com/ecole/schoolrecords/internal/app/models"
)

// CreateEnrollmentRequest enrolls a student in a course.
// Date is accepted as a shorter alias of EnrollmentDate.
type CreateEnrollmentRequest struct {
	StudentID      int64        `json:"studentId" binding:"required,gt=0" example:"1"`
	CourseID       int64        `json:"courseId" binding:"required,gt=0" example:"1"`
	EnrollmentDate *models.Date `json:"enrollmentDate,omitempty" swaggertype:"string" example:"2024-01-15"`
	Date           *models.Date `json:"date,omitempty" swaggertype:"string" example:"2024-01-15"`
}

// RequestedDate returns the supplied enrollment date, or nil when none was given
func (r CreateEnrollmentRequest) RequestedDate() *models.Date {
	if r.EnrollmentDate != nil {
		return r.EnrollmentDate
	}
	return r.Date
}
