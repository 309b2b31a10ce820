package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func TestStudentRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Alice", "alice@example.com", strPtr("555-0100")).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.Create(context.Background(), &models.Student{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: strPtr("555-0100"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Bob", "alice@example.com", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: dberrors.UniqueViolation, ConstraintName: dberrors.StudentEmailConstraint})

	_, err := repo.Create(context.Background(), &models.Student{Name: "Bob", Email: "alice@example.com"})

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, "email", apperrors.FieldOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_CreateDriverFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Bob", "bob@example.com", (*string)(nil)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), &models.Student{Name: "Bob", Email: "bob@example.com"})

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("SELECT id, name, email, phone FROM students WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(studentColumns).AddRow(int64(1), "Alice", "alice@example.com", nil))

	student, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Alice", student.Name)
	assert.Nil(t, student.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("FROM students").WithArgs(int64(42)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "student with id 42 not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("WHERE email = \\$1").WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudentRepository_ListWithFilter(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("FROM students WHERE email = \\$1 ORDER BY id ASC").
		WithArgs("alice@example.com").
		WillReturnRows(mock.NewRows(studentColumns).
			AddRow(int64(1), "Alice", "alice@example.com", "555-0100"))

	students, err := repo.List(context.Background(), models.StudentFilter{Email: "alice@example.com"})

	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NotNil(t, students[0].Phone)
	assert.Equal(t, "555-0100", *students[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_ListEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("FROM students ORDER BY id ASC").WillReturnRows(mock.NewRows(studentColumns))

	students, err := repo.List(context.Background(), models.StudentFilter{})

	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "updated", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "missing row", result: pgxmock.NewResult("UPDATE", 0), wantErr: apperrors.ErrStudentNotFound},
		{
			name:    "email taken",
			execErr: &pgconn.PgError{Code: dberrors.UniqueViolation, ConstraintName: dberrors.StudentEmailConstraint},
			wantErr: apperrors.ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewStudentRepository(mock)

			// SetMap binds columns in key order
			exp := mock.ExpectExec("UPDATE students SET email = \\$1, name = \\$2, phone = \\$3 WHERE id = \\$4").
				WithArgs("a@example.com", "Alice", (*string)(nil), int64(7))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Update(context.Background(), &models.Student{ID: 7, Name: "Alice", Email: "a@example.com"})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStudentRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
