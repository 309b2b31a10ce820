package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/helpers"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/ecole/schoolrecords/internal/pkg/validation"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	GetStudentCourses(ctx context.Context, id int64) ([]*models.Course, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo StudentStore
	ledger      EnrollmentLedger
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo StudentStore, ledger EnrollmentLedger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		ledger:      ledger,
	}
}

// normalizeStudent trims input and validates it before any store call
func normalizeStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}

	student.Name = strings.TrimSpace(student.Name)
	student.Email = strings.TrimSpace(student.Email)
	student.Phone = helpers.NullableString(student.Phone)

	phone := ""
	if student.Phone != nil {
		phone = *student.Phone
	}

	if err := validation.FirstError(
		validation.NewStringValidation("name", student.Name).WithMaxLength(validation.NameMaxLength),
		validation.NewStringValidation("phone", phone).WithRequired(false).WithMaxLength(validation.PhoneMaxLength),
	); err != nil {
		return err
	}

	return validation.Email(student.Email)
}

// ensureEmailAvailable fails with ErrEmailAlreadyExists when email belongs to a student other than ownerID
func (s *studentServiceImpl) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	existing, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil
		}
		return err
	}

	if existing.ID != ownerID {
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
			fmt.Sprintf("a student with email %s already exists", email)).WithField("email")
	}
	return nil
}

// CreateStudent validates and stores a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := normalizeStudent(student); err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, student.Email, 0); err != nil {
		return nil, err
	}

	// The unique constraint still catches a concurrent insert of the same email
	id, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	student.ID = id
	logger.Info().Int64("studentID", id).Str("email", student.Email).Msg("Student created")
	return student, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetAllStudents retrieves students matching filter
func (s *studentServiceImpl) GetAllStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	filter.Email = strings.TrimSpace(filter.Email)
	return s.studentRepo.List(ctx, filter)
}

// UpdateStudent overwrites name, email and phone of an existing student
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := normalizeStudent(student); err != nil {
		return nil, err
	}

	current, err := s.studentRepo.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	if current.Email != student.Email {
		if err := s.ensureEmailAvailable(ctx, student.Email, student.ID); err != nil {
			return nil, err
		}
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Msg("Student updated")
	return student, nil
}

// DeleteStudent removes a student and, through the schema, its enrollments
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// GetStudentCourses lists the courses the student is enrolled in
func (s *studentServiceImpl) GetStudentCourses(ctx context.Context, id int64) ([]*models.Course, error) {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.ledger.CoursesForStudent(ctx, id)
}
