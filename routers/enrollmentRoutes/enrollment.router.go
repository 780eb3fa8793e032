package enrollmentRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "coursehub/controllers/course"
	courseValidator "coursehub/validators/course"
)

// SetupEnrollmentRoutes wires the USER-facing enrollment endpoints.
func SetupEnrollmentRoutes(app *fiber.App, auth fiber.Handler, ctrl *courseController.Controller) {
	group := app.Group("/api/v1")

	group.Post("/enroll/:id", auth, courseValidator.CourseID(), ctrl.EnrollInCourse)
	group.Get("/enrolled-courses", auth, ctrl.GetEnrolledCourses)
}
