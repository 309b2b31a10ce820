package models

// Course represents a course taught by an instructor.
type Course struct {
	ID          int64   `json:"id" db:"id" example:"1"`
	Title       string  `json:"title" db:"title" example:"Mathematics"`
	Description *string `json:"description,omitempty" db:"description"` // Nullable
	Instructor  string  `json:"instructor" db:"instructor" example:"M. Dupont"`
}
