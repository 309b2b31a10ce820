package routes

import (
	"net/http"

	"github.com/ecole/schoolrecords/internal/app/controllers"
	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Student    *controllers.StudentController
	Course     *controllers.CourseController
	Enrollment *controllers.EnrollmentController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")

	if c.Health != nil {
		api.GET("/health", c.Health.Health)
	}

	students := api.Group("/students")
	{
		students.POST("", c.Student.CreateStudent)
		students.GET("", c.Student.GetAllStudents)
		students.GET("/:id", c.Student.GetStudentByID)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
		students.GET("/:id/courses", c.Student.GetStudentCourses)
	}

	courses := api.Group("/courses")
	{
		courses.POST("", c.Course.CreateCourse)
		courses.GET("", c.Course.GetAllCourses)
		courses.GET("/:id", c.Course.GetCourseByID)
		courses.PUT("/:id", c.Course.UpdateCourse)
		courses.DELETE("/:id", c.Course.DeleteCourse)
		courses.GET("/:id/students", c.Course.GetCourseStudents)
	}

	// Projection routes share the /enrollments prefix with the :id routes;
	// gin resolves the static "students" and "courses" segments first.
	enrollments := api.Group("/enrollments")
	{
		enrollments.POST("", c.Enrollment.CreateEnrollment)
		enrollments.GET("", c.Enrollment.GetAllEnrollments)
		enrollments.GET("/:id", c.Enrollment.GetEnrollmentByID)
		enrollments.DELETE("/:id", c.Enrollment.DeleteEnrollment)
		enrollments.GET("/students/:id/courses", c.Enrollment.GetCoursesForStudent)
		enrollments.GET("/courses/:id/students", c.Enrollment.GetStudentsForCourse)
	}
}
