package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/helpers"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/ecole/schoolrecords/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	GetCourseStudents(ctx context.Context, id int64) ([]*models.Student, error)
}

type courseServiceImpl struct {
	courseRepo CourseStore
	ledger     EnrollmentLedger
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore, ledger EnrollmentLedger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		ledger:     ledger,
	}
}

func normalizeCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}

	course.Title = strings.TrimSpace(course.Title)
	course.Instructor = strings.TrimSpace(course.Instructor)
	course.Description = helpers.NullableString(course.Description)

	description := ""
	if course.Description != nil {
		description = *course.Description
	}

	return validation.FirstError(
		validation.NewStringValidation("title", course.Title).WithMaxLength(validation.TitleMaxLength),
		validation.NewStringValidation("instructor", course.Instructor).WithMaxLength(validation.NameMaxLength),
		validation.NewStringValidation("description", description).
			WithRequired(false).
			WithMaxLength(validation.DescriptionMaxLength),
	)
}

// CreateCourse validates and stores a new course. Titles need not be unique.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := normalizeCourse(course); err != nil {
		return nil, err
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	course.ID = id
	logger.Info().Int64("courseID", id).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// GetAllCourses retrieves courses matching filter
func (s *courseServiceImpl) GetAllCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Instructor = strings.TrimSpace(filter.Instructor)
	return s.courseRepo.List(ctx, filter)
}

// UpdateCourse overwrites title, description and instructor of an existing course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := normalizeCourse(course); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Msg("Course updated")
	return course, nil
}

// DeleteCourse removes a course and, through the schema, its enrollments
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// GetCourseStudents lists the students enrolled in the course
func (s *courseServiceImpl) GetCourseStudents(ctx context.Context, id int64) ([]*models.Student, error) {
	if _, err := s.courseRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.ledger.StudentsForCourse(ctx, id)
}
