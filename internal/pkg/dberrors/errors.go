package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// Constraint names declared in migrations/001_init.sql
const (
	StudentEmailConstraint        = "students_email_key"
	EnrollmentPairConstraint      = "enrollments_student_course_key"
	EnrollmentStudentFKConstraint = "enrollments_student_id_fkey"
	EnrollmentCourseFKConstraint  = "enrollments_course_id_fkey"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isConstraintError(err, UniqueViolation, constraintName)
}

// IsForeignKeyError checks if the error is a foreign key violation on a specific constraint.
func IsForeignKeyError(err error, constraintName string) bool {
	return isConstraintError(err, ForeignKeyViolation, constraintName)
}

func isConstraintError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
