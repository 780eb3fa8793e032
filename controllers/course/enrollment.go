package courseController

import (
	"github.com/gofiber/fiber/v2"

	"coursehub/middleware"
	"coursehub/models"
)

// EnrollInCourse creates the enrollment for the caller's profile. Only the
// USER role may enroll; a superadmin cannot self-enroll.
func (ctrl *Controller) EnrollInCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return middleware.NotFound("User not found")
	}
	if user.Role != models.RoleUser {
		return middleware.Forbidden("You are not authorized to enroll in a course")
	}

	profile, err := ctrl.users.ProfileByUserID(userID)
	if err != nil {
		return middleware.NotFound("User not found")
	}
	if _, err := ctrl.courses.FindByID(courseID); err != nil {
		return middleware.NotFound("Course not found")
	}

	enrolled, err := ctrl.enrollments.Exists(profile.ID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return middleware.BadRequest("You are already enrolled in this course")
	}

	enrollment := models.Enrollment{UserProfileID: profile.ID, CourseID: courseID}
	if err := ctrl.enrollments.Create(&enrollment); err != nil {
		// A concurrent enroll that won the race lands here through the
		// unique index; the error handler maps it to a 400.
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Enrolled in course successfully"})
}

// GetEnrolledCourses lists the caller's courses. Pagination applies to the
// course fetch, not the enrollment fetch.
func (ctrl *Controller) GetEnrolledCourses(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	page := c.QueryInt("page", 1)

	if _, err := ctrl.users.FindByID(userID); err != nil {
		return middleware.NotFound("User not found")
	}
	profile, err := ctrl.users.ProfileByUserID(userID)
	if err != nil {
		return middleware.NotFound("User not found")
	}

	enrollments, err := ctrl.enrollments.ListByProfile(profile.ID)
	if err != nil {
		return err
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}
	if len(courseIDs) == 0 {
		return c.Status(fiber.StatusOK).JSON([]models.Course{})
	}

	courses, err := ctrl.courses.FindByIDs(courseIDs, page)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(courses)
}
