package controllers

import (
	"fmt"
	"net/http"

	"github.com/ecole/schoolrecords/internal/app/models/dto"
	"github.com/ecole/schoolrecords/internal/app/services"
	"github.com/ecole/schoolrecords/internal/middleware"
	"github.com/gin-gonic/gin"
)

// EnrollmentController handles enrollment-related operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// CreateEnrollment enrolls a student in a course
// @Summary Enroll a student in a course
// @Description Creates an enrollment dated enrollmentDate, or today when omitted. A student can be enrolled in a course only once.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.CreateEnrollmentRequest true "Enrollment information"
// @Success 201 {object} models.Enrollment "Enrollment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or duplicate enrollment"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.CreateEnrollment(ctx, req.StudentID, req.CourseID, req.RequestedDate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, enrollment)
}

// GetEnrollmentByID retrieves an enrollment by ID
// @Summary Get enrollment details
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 200 {object} models.Enrollment "Enrollment retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID format"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollmentByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "enrollment")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollmentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, enrollment)
}

// GetAllEnrollments lists enrollments
// @Summary Get all enrollments
// @Tags enrollments
// @Produce json
// @Success 200 {array} models.Enrollment "Enrollments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Database error"
// @Router /enrollments [get]
func (c *EnrollmentController) GetAllEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.GetAllEnrollments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, enrollments)
}

// DeleteEnrollment deletes an enrollment
// @Summary Delete an enrollment
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.SuccessResponse "Enrollment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "enrollment")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("enrollment with id %d deleted", id),
	})
}

// GetCoursesForStudent lists the courses of a student's enrollments
// @Summary Get courses for a student
// @Tags enrollments
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {array} models.Course "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /enrollments/students/{id}/courses [get]
func (c *EnrollmentController) GetCoursesForStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}

	courses, err := c.enrollmentService.GetCoursesForStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// GetStudentsForCourse lists the students of a course's enrollments
// @Summary Get students for a course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {array} models.Student "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /enrollments/courses/{id}/students [get]
func (c *EnrollmentController) GetStudentsForCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "course")
	if !ok {
		return
	}

	students, err := c.enrollmentService.GetStudentsForCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}
