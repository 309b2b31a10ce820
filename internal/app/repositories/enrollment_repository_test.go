package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enrollmentJoinColumns = []string{
	"id", "enrollment_date", "student_id", "course_id",
	"name", "email", "phone", "title", "description", "instructor",
}

func newEnrollment() *models.Enrollment {
	return &models.Enrollment{
		EnrollmentDate: models.NewDate(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)),
		StudentID:      1,
		CourseID:       10,
	}
}

func expectParentLocks(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery("SELECT id FROM students WHERE id = \\$1 FOR KEY SHARE").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id FROM courses WHERE id = \\$1 FOR KEY SHARE").
		WithArgs(int64(10)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(10)))
}

// expectPairCheck matches the duplicate check; squirrel orders Eq keys, so course_id binds first
func expectPairCheck(mock pgxmock.PgxPoolIface, exists bool) {
	mock.ExpectQuery("SELECT EXISTS \\( ?SELECT 1 FROM enrollments WHERE course_id = \\$1 AND student_id = \\$2 LIMIT 1 ?\\)").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectInsert(mock pgxmock.PgxPoolIface) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery("INSERT INTO enrollments \\(enrollment_date,student_id,course_id\\) VALUES \\(\\$1,\\$2,\\$3\\) RETURNING id").
		WithArgs(newEnrollment().EnrollmentDate.Time, int64(1), int64(10))
}

func TestEnrollmentRepository_Enroll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectBegin()
	expectParentLocks(mock)
	expectPairCheck(mock, false)
	expectInsert(mock).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectCommit()

	id, err := repo.Enroll(context.Background(), newEnrollment())

	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_EnrollMissingStudent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM students WHERE id = \\$1 FOR KEY SHARE").
		WithArgs(int64(1)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), newEnrollment())

	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_EnrollMissingCourse(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM students WHERE id = \\$1 FOR KEY SHARE").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id FROM courses WHERE id = \\$1 FOR KEY SHARE").
		WithArgs(int64(10)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), newEnrollment())

	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Equal(t, "course with id 10 not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_EnrollDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectBegin()
	expectParentLocks(mock)
	expectPairCheck(mock, true)
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), newEnrollment())

	assert.ErrorIs(t, err, apperrors.ErrDuplicateEnrollment)
	assert.Equal(t, "student 1 is already enrolled in course 10", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_EnrollConstraintRace(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{
			name:    "pair inserted concurrently",
			pgErr:   &pgconn.PgError{Code: dberrors.UniqueViolation, ConstraintName: dberrors.EnrollmentPairConstraint},
			wantErr: apperrors.ErrDuplicateEnrollment,
		},
		{
			name:    "student deleted concurrently",
			pgErr:   &pgconn.PgError{Code: dberrors.ForeignKeyViolation, ConstraintName: dberrors.EnrollmentStudentFKConstraint},
			wantErr: apperrors.ErrStudentNotFound,
		},
		{
			name:    "course deleted concurrently",
			pgErr:   &pgconn.PgError{Code: dberrors.ForeignKeyViolation, ConstraintName: dberrors.EnrollmentCourseFKConstraint},
			wantErr: apperrors.ErrCourseNotFound,
		},
		{
			name:    "unrelated failure",
			pgErr:   &pgconn.PgError{Code: "53100"},
			wantErr: apperrors.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewEnrollmentRepository(mock)

			mock.ExpectBegin()
			expectParentLocks(mock)
			expectPairCheck(mock, false)
			expectInsert(mock).WillReturnError(tt.pgErr)
			mock.ExpectRollback()

			_, err := repo.Enroll(context.Background(), newEnrollment())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	date := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM enrollments e JOIN students s ON s.id = e.student_id JOIN courses c ON c.id = e.course_id WHERE e.id = \\$1").
		WithArgs(int64(100)).
		WillReturnRows(mock.NewRows(enrollmentJoinColumns).
			AddRow(int64(100), date, int64(1), int64(10), "Alice", "alice@example.com", nil, "Math", nil, "Dr. X"))

	enrollment, err := repo.GetByID(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, "2024-09-01", enrollment.EnrollmentDate.String())
	require.NotNil(t, enrollment.Student)
	require.NotNil(t, enrollment.Course)
	assert.Equal(t, int64(1), enrollment.Student.ID)
	assert.Equal(t, "Alice", enrollment.Student.Name)
	assert.Equal(t, int64(10), enrollment.Course.ID)
	assert.Equal(t, "Dr. X", enrollment.Course.Instructor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_GetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectQuery("FROM enrollments e").
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 5)

	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	date := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM enrollments e .* ORDER BY e.id ASC").
		WillReturnRows(mock.NewRows(enrollmentJoinColumns).
			AddRow(int64(1), date, int64(1), int64(10), "Alice", "alice@example.com", nil, "Math", nil, "Dr. X").
			AddRow(int64(2), date, int64(2), int64(10), "Bob", "bob@example.com", "555", "Math", nil, "Dr. X"))

	enrollments, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "Bob", enrollments[1].Student.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectExec("DELETE FROM enrollments WHERE id = \\$1").
		WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 100)

	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_CoursesForStudent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectQuery("SELECT c.id, c.title, c.description, c.instructor FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE e.student_id = \\$1 ORDER BY e.id ASC").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(courseColumns).AddRow(int64(10), "Math", nil, "Dr. X"))

	courses, err := repo.CoursesForStudent(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Math", courses[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_StudentsForCourse(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectQuery("SELECT s.id, s.name, s.email, s.phone FROM enrollments e JOIN students s ON s.id = e.student_id WHERE e.course_id = \\$1").
		WithArgs(int64(10)).
		WillReturnRows(mock.NewRows(studentColumns))

	students, err := repo.StudentsForCourse(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
