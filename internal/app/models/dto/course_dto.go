package dto

import (
	"github.com/ecole/schoolrecords/internal/app/models"
)

// CourseRequest represents course creation and update data
type CourseRequest struct {
	Title       string  `json:"title" binding:"required,max=200" example:"Mathematics"`
	Description *string `json:"description,omitempty" example:"Algebra and analysis"`
	Instructor  string  `json:"instructor" binding:"required,max=100" example:"M. Dupont"`
}

// ToModel converts the request into a course model
func (r CourseRequest) ToModel() *models.Course {
	return &models.Course{
		Title:       r.Title,
		Description: r.Description,
		Instructor:  r.Instructor,
	}
}
