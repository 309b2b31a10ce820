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

// EnrollmentRepository is the ledger of student/course enrollments
type EnrollmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(conn db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func duplicateEnrollmentError(studentID, courseID int64) error {
	return apperrors.NewCustomError(apperrors.ErrDuplicateEnrollment,
		fmt.Sprintf("student %d is already enrolled in course %d", studentID, courseID))
}

// enrollmentSelect joins each enrollment with its student and course
func (r *EnrollmentRepository) enrollmentSelect() squirrel.SelectBuilder {
	columns := []string{"e.id", "e.enrollment_date", "e.student_id", "e.course_id"}
	columns = append(columns, qualify("s", studentColumns[1:])...)
	columns = append(columns, qualify("c", courseColumns[1:])...)

	return r.sb.Select(columns...).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var (
		e           models.Enrollment
		date        pgtype.Date
		student     models.Student
		course      models.Course
		phone       pgtype.Text
		description pgtype.Text
	)
	err := row.Scan(
		&e.ID, &date, &e.StudentID, &e.CourseID,
		&student.Name, &student.Email, &phone,
		&course.Title, &description, &course.Instructor,
	)
	if err != nil {
		return nil, err
	}

	e.EnrollmentDate = models.NewDate(date.Time)
	student.ID = e.StudentID
	student.Phone = helpers.TextToPtr(phone)
	course.ID = e.CourseID
	course.Description = helpers.TextToPtr(description)
	e.Student = &student
	e.Course = &course
	return &e, nil
}

// Enroll records the enrollment of e.StudentID in e.CourseID.
// Parent existence, the duplicate check and the insert run in one transaction,
// with both parent rows locked so they cannot be deleted underneath it.
func (r *EnrollmentRepository) Enroll(ctx context.Context, e *models.Enrollment) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.lockRow(ctx, tx, "students", e.StudentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.StudentNotFound(e.StudentID)
			}
			return persistenceError("locking student", err)
		}

		if err := r.lockRow(ctx, tx, "courses", e.CourseID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.CourseNotFound(e.CourseID)
			}
			return persistenceError("locking course", err)
		}

		exists, err := r.pairExists(ctx, tx, e.StudentID, e.CourseID)
		if err != nil {
			return err
		}
		if exists {
			return duplicateEnrollmentError(e.StudentID, e.CourseID)
		}

		sql, args, err := r.sb.Insert("enrollments").
			Columns("enrollment_date", "student_id", "course_id").
			Values(e.EnrollmentDate.Time, e.StudentID, e.CourseID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create enrollment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return r.classifyInsertError(err, e)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) && !errors.Is(err, apperrors.ErrDuplicateEnrollment) {
			logger.Error().Err(err).Int64("studentID", e.StudentID).Int64("courseID", e.CourseID).
				Msg("Error creating enrollment")
		}
		return 0, err
	}

	return id, nil
}

// classifyInsertError maps constraint violations raised by concurrent writers
func (r *EnrollmentRepository) classifyInsertError(err error, e *models.Enrollment) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.EnrollmentPairConstraint):
		return duplicateEnrollmentError(e.StudentID, e.CourseID)
	case dberrors.IsForeignKeyError(err, dberrors.EnrollmentStudentFKConstraint):
		return apperrors.StudentNotFound(e.StudentID)
	case dberrors.IsForeignKeyError(err, dberrors.EnrollmentCourseFKConstraint):
		return apperrors.CourseNotFound(e.CourseID)
	default:
		return persistenceError("creating enrollment", err)
	}
}

func (r *EnrollmentRepository) lockRow(ctx context.Context, tx pgx.Tx, table string, id int64) error {
	sql, args, err := r.sb.Select("id").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR KEY SHARE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock query: %w", err)
	}

	var locked int64
	return tx.QueryRow(ctx, sql, args...).Scan(&locked)
}

func (r *EnrollmentRepository) pairExists(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, persistenceError("checking enrollment", err)
	}
	return exists, nil
}

// GetByID retrieves an enrollment with its student and course
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.enrollmentSelect().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.EnrollmentNotFound(id)
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, persistenceError("getting enrollment", err)
	}

	return enrollment, nil
}

// List retrieves all enrollments ordered by id
func (r *EnrollmentRepository) List(ctx context.Context) ([]*models.Enrollment, error) {
	sql, args, err := r.enrollmentSelect().OrderBy("e.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list enrollments query")
		return nil, persistenceError("listing enrollments", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, persistenceError("listing enrollments", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating enrollment rows")
		return nil, persistenceError("listing enrollments", err)
	}

	return enrollments, nil
}

// Delete removes a single enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing delete enrollment query")
		return persistenceError("deleting enrollment", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.EnrollmentNotFound(id)
	}

	return nil
}

// CoursesForStudent lists the courses a student is enrolled in, in enrollment order.
// It does not check that the student exists.
func (r *EnrollmentRepository) CoursesForStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(qualify("c", courseColumns)...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build courses for student query: %w", err)
	}

	return queryCourses(ctx, r.db, "listing courses for student", sql, args...)
}

// StudentsForCourse lists the students enrolled in a course, in enrollment order.
// It does not check that the course exists.
func (r *EnrollmentRepository) StudentsForCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(qualify("s", studentColumns)...).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build students for course query: %w", err)
	}

	return queryStudents(ctx, r.db, "listing students for course", sql, args...)
}
