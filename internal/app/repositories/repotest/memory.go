// Package repotest provides in-memory stores with the same observable
// semantics as the PostgreSQL repositories: unique student email, unique
// (student, course) enrollment pairs, ids assigned in insertion order and
// enrollment cascade on parent delete.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ecole/schoolrecords/internal/app/models"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
)

// DB is the shared in-memory state behind the three stores
type DB struct {
	mu sync.Mutex

	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[int64]models.Enrollment

	nextStudentID    int64
	nextCourseID     int64
	nextEnrollmentID int64

	failure error
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		students:    make(map[int64]models.Student),
		courses:     make(map[int64]models.Course),
		enrollments: make(map[int64]models.Enrollment),
	}
}

// Fail makes every following store call return err classified as a persistence failure.
// Passing nil restores normal behavior.
func (db *DB) Fail(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failure = err
}

// failed reports an injected failure, if any; the caller holds the lock
func (db *DB) failed(op string) error {
	if db.failure != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistence, op, db.failure)
	}
	return nil
}

// Stores returns the three stores sharing this database
func (db *DB) Stores() (*StudentStore, *CourseStore, *EnrollmentLedger) {
	return &StudentStore{db: db}, &CourseStore{db: db}, &EnrollmentLedger{db: db}
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStudent(s models.Student) *models.Student {
	s.Phone = cloneString(s.Phone)
	return &s
}

func cloneCourse(c models.Course) *models.Course {
	c.Description = cloneString(c.Description)
	return &c
}

// cascade removes the enrollments matching drop; the caller holds the lock
func (db *DB) cascade(drop func(models.Enrollment) bool) {
	for id, e := range db.enrollments {
		if drop(e) {
			delete(db.enrollments, id)
		}
	}
}

// StudentStore is an in-memory student repository
type StudentStore struct {
	db *DB
}

func (s *StudentStore) emailOwner(email string) (int64, bool) {
	for id, st := range s.db.students {
		if st.Email == email {
			return id, true
		}
	}
	return 0, false
}

func duplicateEmail(email string) error {
	return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
		fmt.Sprintf("a student with email %s already exists", email)).WithField("email")
}

func (s *StudentStore) Create(ctx context.Context, student *models.Student) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("creating student"); err != nil {
		return 0, err
	}

	if _, taken := s.emailOwner(student.Email); taken {
		return 0, duplicateEmail(student.Email)
	}

	s.db.nextStudentID++
	stored := *cloneStudent(*student)
	stored.ID = s.db.nextStudentID
	s.db.students[stored.ID] = stored
	return stored.ID, nil
}

func (s *StudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("getting student"); err != nil {
		return nil, err
	}

	student, ok := s.db.students[id]
	if !ok {
		return nil, apperrors.StudentNotFound(id)
	}
	return cloneStudent(student), nil
}

func (s *StudentStore) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("getting student by email"); err != nil {
		return nil, err
	}

	id, ok := s.emailOwner(email)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound,
			fmt.Sprintf("student with email %s not found", email))
	}
	return cloneStudent(s.db.students[id]), nil
}

func (s *StudentStore) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("listing students"); err != nil {
		return nil, err
	}

	students := []*models.Student{}
	for _, id := range sortedIDs(s.db.students) {
		student := s.db.students[id]
		if filter.Email != "" && student.Email != filter.Email {
			continue
		}
		students = append(students, cloneStudent(student))
	}
	return students, nil
}

func (s *StudentStore) Update(ctx context.Context, student *models.Student) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("updating student"); err != nil {
		return err
	}

	if _, ok := s.db.students[student.ID]; !ok {
		return apperrors.StudentNotFound(student.ID)
	}
	if owner, taken := s.emailOwner(student.Email); taken && owner != student.ID {
		return duplicateEmail(student.Email)
	}

	s.db.students[student.ID] = *cloneStudent(*student)
	return nil
}

func (s *StudentStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("deleting student"); err != nil {
		return err
	}

	if _, ok := s.db.students[id]; !ok {
		return apperrors.StudentNotFound(id)
	}
	delete(s.db.students, id)
	s.db.cascade(func(e models.Enrollment) bool { return e.StudentID == id })
	return nil
}

// CourseStore is an in-memory course repository
type CourseStore struct {
	db *DB
}

func (s *CourseStore) Create(ctx context.Context, course *models.Course) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("creating course"); err != nil {
		return 0, err
	}

	s.db.nextCourseID++
	stored := *cloneCourse(*course)
	stored.ID = s.db.nextCourseID
	s.db.courses[stored.ID] = stored
	return stored.ID, nil
}

func (s *CourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("getting course"); err != nil {
		return nil, err
	}

	course, ok := s.db.courses[id]
	if !ok {
		return nil, apperrors.CourseNotFound(id)
	}
	return cloneCourse(course), nil
}

func (s *CourseStore) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("listing courses"); err != nil {
		return nil, err
	}

	courses := []*models.Course{}
	for _, id := range sortedIDs(s.db.courses) {
		course := s.db.courses[id]
		if filter.Title != "" && course.Title != filter.Title {
			continue
		}
		if filter.Instructor != "" && course.Instructor != filter.Instructor {
			continue
		}
		courses = append(courses, cloneCourse(course))
	}
	return courses, nil
}

func (s *CourseStore) Update(ctx context.Context, course *models.Course) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("updating course"); err != nil {
		return err
	}

	if _, ok := s.db.courses[course.ID]; !ok {
		return apperrors.CourseNotFound(course.ID)
	}
	s.db.courses[course.ID] = *cloneCourse(*course)
	return nil
}

func (s *CourseStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failed("deleting course"); err != nil {
		return err
	}

	if _, ok := s.db.courses[id]; !ok {
		return apperrors.CourseNotFound(id)
	}
	delete(s.db.courses, id)
	s.db.cascade(func(e models.Enrollment) bool { return e.CourseID == id })
	return nil
}

// EnrollmentLedger is an in-memory enrollment repository.
// Enroll holds the database lock across its checks and the insert.
type EnrollmentLedger struct {
	db *DB
}

func (l *EnrollmentLedger) withRelations(e models.Enrollment) *models.Enrollment {
	if student, ok := l.db.students[e.StudentID]; ok {
		e.Student = cloneStudent(student)
	}
	if course, ok := l.db.courses[e.CourseID]; ok {
		e.Course = cloneCourse(course)
	}
	return &e
}

func (l *EnrollmentLedger) Enroll(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("creating enrollment"); err != nil {
		return 0, err
	}

	if _, ok := l.db.students[enrollment.StudentID]; !ok {
		return 0, apperrors.StudentNotFound(enrollment.StudentID)
	}
	if _, ok := l.db.courses[enrollment.CourseID]; !ok {
		return 0, apperrors.CourseNotFound(enrollment.CourseID)
	}
	for _, e := range l.db.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return 0, apperrors.NewCustomError(apperrors.ErrDuplicateEnrollment,
				fmt.Sprintf("student %d is already enrolled in course %d", e.StudentID, e.CourseID))
		}
	}

	l.db.nextEnrollmentID++
	stored := models.Enrollment{
		ID:             l.db.nextEnrollmentID,
		EnrollmentDate: enrollment.EnrollmentDate,
		StudentID:      enrollment.StudentID,
		CourseID:       enrollment.CourseID,
	}
	l.db.enrollments[stored.ID] = stored
	return stored.ID, nil
}

func (l *EnrollmentLedger) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("getting enrollment"); err != nil {
		return nil, err
	}

	e, ok := l.db.enrollments[id]
	if !ok {
		return nil, apperrors.EnrollmentNotFound(id)
	}
	return l.withRelations(e), nil
}

func (l *EnrollmentLedger) List(ctx context.Context) ([]*models.Enrollment, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("listing enrollments"); err != nil {
		return nil, err
	}

	enrollments := []*models.Enrollment{}
	for _, id := range sortedIDs(l.db.enrollments) {
		enrollments = append(enrollments, l.withRelations(l.db.enrollments[id]))
	}
	return enrollments, nil
}

func (l *EnrollmentLedger) Delete(ctx context.Context, id int64) error {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("deleting enrollment"); err != nil {
		return err
	}

	if _, ok := l.db.enrollments[id]; !ok {
		return apperrors.EnrollmentNotFound(id)
	}
	delete(l.db.enrollments, id)
	return nil
}

func (l *EnrollmentLedger) CoursesForStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("listing courses for student"); err != nil {
		return nil, err
	}

	courses := []*models.Course{}
	for _, id := range sortedIDs(l.db.enrollments) {
		e := l.db.enrollments[id]
		if e.StudentID == studentID {
			courses = append(courses, cloneCourse(l.db.courses[e.CourseID]))
		}
	}
	return courses, nil
}

func (l *EnrollmentLedger) StudentsForCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()
	if err := l.db.failed("listing students for course"); err != nil {
		return nil, err
	}

	students := []*models.Student{}
	for _, id := range sortedIDs(l.db.enrollments) {
		e := l.db.enrollments[id]
		if e.CourseID == courseID {
			students = append(students, cloneStudent(l.db.students[e.StudentID]))
		}
	}
	return students, nil
}
