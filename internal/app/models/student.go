package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID    int64   `json:"id" db:"id" example:"1"`
	Name  string  `json:"name" db:"name" example:"Alice Martin"`
	Email string  `json:"email" db:"email" example:"alice@ecole.fr"`
	Phone *string `json:"phone,omitempty" db:"phone" example:"+33 6 12 34 56 78"` // Nullable
}
