package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/db"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/helpers"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// scanCourse reads the columns listed in courseColumns
func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		course      models.Course
		description pgtype.Text
	)
	if err := row.Scan(&course.ID, &course.Title, &description, &course.Instructor); err != nil {
		return nil, err
	}
	course.Description = helpers.TextToPtr(description)
	return &course, nil
}

// Create inserts a course and returns its new id. Titles are not unique.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "description", "instructor").
		Values(course.Title, course.Description, course.Instructor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error executing create course query")
		return 0, persistenceError("creating course", err)
	}

	return id, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.CourseNotFound(id)
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, persistenceError("getting course", err)
	}

	return course, nil
}

// List retrieves courses matching filter, ordered by id
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns...).From("courses").OrderBy("id ASC")
	if filter.Title != "" {
		query = query.Where(squirrel.Eq{"title": filter.Title})
	}
	if filter.Instructor != "" {
		query = query.Where(squirrel.Eq{"instructor": filter.Instructor})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	return queryCourses(ctx, r.db, "listing courses", sql, args...)
}

// queryCourses runs a query whose select list is courseColumns
func queryCourses(ctx context.Context, conn db.DBTX, op, sql string, args ...interface{}) ([]*models.Course, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing course query")
		return nil, persistenceError(op, err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, persistenceError(op, err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error iterating course rows")
		return nil, persistenceError(op, err)
	}

	return courses, nil
}

// Update overwrites title, description and instructor of an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":       course.Title,
			"description": course.Description,
			"instructor":  course.Instructor,
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return persistenceError("updating course", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.CourseNotFound(course.ID)
	}

	return nil
}

// Delete removes a course; its enrollments go with it through ON DELETE CASCADE
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return persistenceError("deleting course", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.CourseNotFound(id)
	}

	return nil
}
