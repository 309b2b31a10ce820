package models

// Enrollment links one student to one course on a given date.
// The (StudentID, CourseID) pair is unique.
type Enrollment struct {
	ID             int64 `json:"id" db:"id" example:"1"`
	EnrollmentDate Date  `json:"enrollmentDate" db:"enrollment_date" swaggertype:"string" example:"2024-01-15"`
	StudentID      int64 `json:"studentId" db:"student_id" example:"1"`
	CourseID       int64 `json:"courseId" db:"course_id" example:"1"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
