package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "coursehub/controllers/course"
	courseValidator "coursehub/validators/course"
)

// SetupCourseRoutes wires the catalog endpoints. Listing and single-course
// reads are public; mutations go through the auth middleware and the
// superadmin check in the controller.
func SetupCourseRoutes(app *fiber.App, auth fiber.Handler, ctrl *courseController.Controller) {
	group := app.Group("/api/v1")

	group.Get("/courses", ctrl.GetCourses)
	group.Get("/courses/:id", courseValidator.CourseID(), ctrl.GetCourse)

	group.Post("/courses/create", auth, courseValidator.CreateCourse(), ctrl.CreateCourse)
	group.Put("/courses/:id", auth, courseValidator.CourseID(), courseValidator.UpdateCourse(), ctrl.UpdateCourse)
	group.Delete("/courses/:id", auth, courseValidator.CourseID(), ctrl.DeleteCourse)
}
