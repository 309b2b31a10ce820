package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolation, ConstraintName: StudentEmailConstraint})

	assert.True(t, IsDuplicateConstraintError(err, StudentEmailConstraint))
	assert.False(t, IsDuplicateConstraintError(err, EnrollmentPairConstraint))
	assert.False(t, IsForeignKeyError(err, StudentEmailConstraint))
	assert.False(t, IsDuplicateConstraintError(errors.New("plain"), StudentEmailConstraint))
}

func TestIsForeignKeyError(t *testing.T) {
	err := &pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: EnrollmentCourseFKConstraint}

	assert.True(t, IsForeignKeyError(err, EnrollmentCourseFKConstraint))
	assert.False(t, IsForeignKeyError(err, EnrollmentStudentFKConstraint))
}
