package services

import (
	"context"
	"time"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/ecole/schoolrecords/internal/pkg/validation"
)

// EnrollmentService defines the interface for enrollment-related operations
type EnrollmentService interface {
	// CreateEnrollment enrolls a student in a course on date, or today when date is nil.
	// It fails with a student or course not-found error when a parent is missing,
	// and with ErrDuplicateEnrollment when the pair already exists.
	CreateEnrollment(ctx context.Context, studentID, courseID int64, date *models.Date) (*models.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetAllEnrollments(ctx context.Context) ([]*models.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id int64) error
	GetCoursesForStudent(ctx context.Context, studentID int64) ([]*models.Course, error)
	GetStudentsForCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
}

type enrollmentServiceImpl struct {
	ledger   EnrollmentLedger
	students StudentStore
	courses  CourseStore
	now      func() time.Time
}

// EnrollmentServiceOption customizes an enrollment service
type EnrollmentServiceOption func(*enrollmentServiceImpl)

// WithClock overrides the clock used for default enrollment dates
func WithClock(now func() time.Time) EnrollmentServiceOption {
	return func(s *enrollmentServiceImpl) {
		s.now = now
	}
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(ledger EnrollmentLedger, students StudentStore, courses CourseStore, opts ...EnrollmentServiceOption) EnrollmentService {
	s := &enrollmentServiceImpl{
		ledger:   ledger,
		students: students,
		courses:  courses,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *enrollmentServiceImpl) CreateEnrollment(ctx context.Context, studentID, courseID int64, date *models.Date) (*models.Enrollment, error) {
	if err := validation.PositiveID("studentId", studentID); err != nil {
		return nil, err
	}
	if err := validation.PositiveID("courseId", courseID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if date != nil && !date.IsZero() {
		enrollment.EnrollmentDate = *date
	} else {
		enrollment.EnrollmentDate = models.NewDate(s.now())
	}

	id, err := s.ledger.Enroll(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("enrollmentID", id).
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Str("date", enrollment.EnrollmentDate.String()).
		Msg("Student enrolled")

	// Re-read so the response embeds the student and course
	return s.ledger.GetByID(ctx, id)
}

func (s *enrollmentServiceImpl) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	return s.ledger.GetByID(ctx, id)
}

func (s *enrollmentServiceImpl) GetAllEnrollments(ctx context.Context) ([]*models.Enrollment, error) {
	return s.ledger.List(ctx)
}

func (s *enrollmentServiceImpl) DeleteEnrollment(ctx context.Context, id int64) error {
	if err := s.ledger.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("enrollmentID", id).Msg("Enrollment deleted")
	return nil
}

func (s *enrollmentServiceImpl) GetCoursesForStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.ledger.CoursesForStudent(ctx, studentID)
}

func (s *enrollmentServiceImpl) GetStudentsForCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.ledger.StudentsForCourse(ctx, courseID)
}
