package dto

import (
	"github.com/ecole/schoolrecords/internal/app/models"
)

// StudentRequest represents student creation and update data
type StudentRequest struct {
	Name  string  `json:"name" binding:"required,max=100" example:"Alice Martin"`
	Email string  `json:"email" binding:"required,email,max=255" example:"alice@ecole.fr"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,max=30" example:"+33 6 12 34 56 78"`
}

// ToModel converts the request into a student model
func (r StudentRequest) ToModel() *models.Student {
	return &models.Student{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}
