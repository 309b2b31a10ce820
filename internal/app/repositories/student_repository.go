package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/db"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/dberrors"
	"github.com/ecole/schoolrecords/internal/pkg/helpers"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func duplicateEmailError(email string) error {
	return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
		fmt.Sprintf("a student with email %s already exists", email)).WithField("email")
}

// scanStudent reads the columns listed in studentColumns
func scanStudent(row pgx.Row) (*models.Student, error) {
	var (
		student models.Student
		phone   pgtype.Text
	)
	if err := row.Scan(&student.ID, &student.Name, &student.Email, &phone); err != nil {
		return nil, err
	}
	student.Phone = helpers.TextToPtr(phone)
	return &student, nil
}

// Create inserts a student and returns its new id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "phone").
		Values(student.Name, student.Email, student.Phone).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentEmailConstraint) {
			return 0, duplicateEmailError(student.Email)
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return 0, persistenceError("creating student", err)
	}

	return id, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.StudentNotFound(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, persistenceError("getting student", err)
	}

	return student, nil
}

// GetByEmail retrieves the student owning email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by email query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound,
				fmt.Sprintf("student with email %s not found", email))
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning student row")
		return nil, persistenceError("getting student by email", err)
	}

	return student, nil
}

// List retrieves students matching filter, ordered by id
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns...).From("students").OrderBy("id ASC")
	if filter.Email != "" {
		query = query.Where(squirrel.Eq{"email": filter.Email})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	return queryStudents(ctx, r.db, "listing students", sql, args...)
}

// queryStudents runs a query whose select list is studentColumns
func queryStudents(ctx context.Context, conn db.DBTX, op, sql string, args ...interface{}) ([]*models.Student, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing student query")
		return nil, persistenceError(op, err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, persistenceError(op, err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error iterating student rows")
		return nil, persistenceError(op, err)
	}

	return students, nil
}

// Update overwrites name, email and phone of an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":  student.Name,
			"email": student.Email,
			"phone": student.Phone,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentEmailConstraint) {
			return duplicateEmailError(student.Email)
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return persistenceError("updating student", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.StudentNotFound(student.ID)
	}

	return nil
}

// Delete removes a student; its enrollments go with it through ON DELETE CASCADE
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return persistenceError("deleting student", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.StudentNotFound(id)
	}

	return nil
}
