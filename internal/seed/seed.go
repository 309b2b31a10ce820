package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/app/repositories"
	"github.com/ecole/schoolrecords/internal/db"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

func ptr(s string) *string { return &s }

var demoStudents = []models.Student{
	{Name: "Alice Martin", Email: "alice.martin@ecole.fr", Phone: ptr("+33 6 12 34 56 78")},
	{Name: "Karim Benali", Email: "karim.benali@ecole.fr"},
	{Name: "Chloé Dubois", Email: "chloe.dubois@ecole.fr", Phone: ptr("+33 6 98 76 54 32")},
}

var demoCourses = []models.Course{
	{Title: "Mathématiques", Description: ptr("Algèbre et analyse"), Instructor: "M. Dupont"},
	{Title: "Physique", Description: ptr("Mécanique classique"), Instructor: "Mme Curie"},
	{Title: "Histoire", Instructor: "M. Lefèvre"},
}

// demoEnrollments pairs indexes into demoStudents and demoCourses
var demoEnrollments = [][2]int{{0, 0}, {0, 1}, {1, 0}, {2, 2}}

// Summary counts the rows a seeding run created
type Summary struct {
	Students    int
	Courses     int
	Enrollments int
}

// CreateDemoData inserts demo students, courses and enrollments in one transaction.
// Rows that already exist are reused, so running it twice is harmless.
func CreateDemoData(ctx context.Context, conn db.DBTX) (Summary, error) {
	var summary Summary

	err := db.WithTransaction(ctx, conn, func(ctx context.Context, tx pgx.Tx) error {
		repos := repositories.NewRepositories(tx)

		studentIDs := make([]int64, len(demoStudents))
		for i := range demoStudents {
			id, created, err := ensureStudent(ctx, repos.StudentRepository, demoStudents[i])
			if err != nil {
				return err
			}
			studentIDs[i] = id
			if created {
				summary.Students++
			}
		}

		courseIDs := make([]int64, len(demoCourses))
		for i := range demoCourses {
			id, created, err := ensureCourse(ctx, repos.CourseRepository, demoCourses[i])
			if err != nil {
				return err
			}
			courseIDs[i] = id
			if created {
				summary.Courses++
			}
		}

		today := models.NewDate(time.Now())
		for _, pair := range demoEnrollments {
			_, err := repos.EnrollmentRepository.Enroll(ctx, &models.Enrollment{
				StudentID:      studentIDs[pair[0]],
				CourseID:       courseIDs[pair[1]],
				EnrollmentDate: today,
			})
			switch {
			case err == nil:
				summary.Enrollments++
			case errors.Is(err, apperrors.ErrDuplicateEnrollment):
			default:
				return fmt.Errorf("seeding enrollment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create demo data")
		return Summary{}, err
	}

	logger.Info().
		Int("students", summary.Students).
		Int("courses", summary.Courses).
		Int("enrollments", summary.Enrollments).
		Msg("Demo data created")
	return summary, nil
}

func ensureStudent(ctx context.Context, repo *repositories.StudentRepository, student models.Student) (int64, bool, error) {
	existing, err := repo.GetByEmail(ctx, student.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return 0, false, fmt.Errorf("seeding student %s: %w", student.Email, err)
	}

	id, err := repo.Create(ctx, &student)
	if err != nil {
		return 0, false, fmt.Errorf("seeding student %s: %w", student.Email, err)
	}
	return id, true, nil
}

func ensureCourse(ctx context.Context, repo *repositories.CourseRepository, course models.Course) (int64, bool, error) {
	existing, err := repo.List(ctx, models.CourseFilter{Title: course.Title, Instructor: course.Instructor})
	if err != nil {
		return 0, false, fmt.Errorf("seeding course %s: %w", course.Title, err)
	}
	if len(existing) > 0 {
		return existing[0].ID, false, nil
	}

	id, err := repo.Create(ctx, &course)
	if err != nil {
		return 0, false, fmt.Errorf("seeding course %s: %w", course.Title, err)
	}
	return id, true, nil
}
