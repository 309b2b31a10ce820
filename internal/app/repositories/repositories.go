package repositories

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ecole/schoolrecords/internal/db"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories on a pool or a transaction
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(conn),
		CourseRepository:     NewCourseRepository(conn),
		EnrollmentRepository: NewEnrollmentRepository(conn),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// persistenceError classifies a driver failure as ErrPersistence while keeping the cause
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistence, op, err)
}

var (
	studentColumns = []string{"id", "name", "email", "phone"}
	courseColumns  = []string{"id", "title", "description", "instructor"}
)

// qualify prefixes columns with a table alias
func qualify(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
