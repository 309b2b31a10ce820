package services

import (
	"context"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/app/repositories"
)

// StudentStore is the persistence surface the student service depends on.
// It is implemented by repositories.StudentRepository and repotest.StudentStore.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// CourseStore is the persistence surface the course service depends on
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentLedger is the persistence surface for enrollments.
// Enroll must check both parents and the pair atomically with the insert.
type EnrollmentLedger interface {
	Enroll(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	List(ctx context.Context) ([]*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
	CoursesForStudent(ctx context.Context, studentID int64) ([]*models.Course, error)
	StudentsForCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
}

// Services holds all the service instances
type Services struct {
	StudentService    StudentService
	CourseService     CourseService
	EnrollmentService EnrollmentService
}

// NewServices wires services to their stores
func NewServices(students StudentStore, courses CourseStore, enrollments EnrollmentLedger) *Services {
	return &Services{
		StudentService:    NewStudentService(students, enrollments),
		CourseService:     NewCourseService(courses, enrollments),
		EnrollmentService: NewEnrollmentService(enrollments, students, courses),
	}
}

// NewServicesFromRepositories wires services to the PostgreSQL repositories
func NewServicesFromRepositories(repos *repositories.Repositories) *Services {
	return NewServices(repos.StudentRepository, repos.CourseRepository, repos.EnrollmentRepository)
}

var (
	_ StudentStore     = (*repositories.StudentRepository)(nil)
	_ CourseStore      = (*repositories.CourseRepository)(nil)
	_ EnrollmentLedger = (*repositories.EnrollmentRepository)(nil)
)
