package courseController

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"coursehub/media"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/repository"

	courseValidator "coursehub/validators/course"
)

type Controller struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	media       media.Store
}

func New(users repository.UserRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository, store media.Store) *Controller {
	return &Controller{users: users, courses: courses, enrollments: enrollments, media: store}
}

// requireSuperAdmin re-reads the role from the credential store on every
// call; a role revoked mid-session takes effect on the next request.
func (ctrl *Controller) requireSuperAdmin(c *fiber.Ctx, action string) (*models.User, error) {
	userID := c.Locals("userId").(uint)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return nil, middleware.NotFound("User not found")
	}
	if user.Role != models.RoleSuperAdmin {
		return nil, middleware.Forbidden("You are not authorized to " + action + " a course")
	}
	return user, nil
}

func (ctrl *Controller) CreateCourse(c *fiber.Ctx) error {
	user, err := ctrl.requireSuperAdmin(c, "create")
	if err != nil {
		return err
	}

	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	level, err := models.ParseCourseLevel(reqData.Level)
	if err != nil {
		return middleware.BadRequest("level must be one of beginner, intermediate, advanced")
	}

	course := models.Course{
		Name:        reqData.Name,
		Description: reqData.Description,
		Price:       *reqData.Price,
		Level:       level,
		Instructor:  reqData.Instructor,
		Duration:    reqData.Duration,
		Rating:      reqData.Rating, // zero falls back to the column default 3.5
		CreatedByID: user.ID,
	}

	if reqData.Image != "" {
		url, err := ctrl.media.Upload(c.Context(), reqData.Image)
		if err != nil {
			return middleware.BadGateway("Failed to store course image")
		}
		course.Image = url
	}

	if err := ctrl.courses.Create(&course); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// GetCourses is public: filtered, fixed page size 5, page 1-indexed.
func (ctrl *Controller) GetCourses(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	page := c.QueryInt("page", 1)

	courses, err := ctrl.courses.List(filter, page)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(courses)
}

func (ctrl *Controller) GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, err := ctrl.courses.FindByID(courseID)
	if err != nil {
		return middleware.NotFound("Course not found")
	}
	return c.Status(fiber.StatusOK).JSON(course)
}

// UpdateCourse patches the course field by field. The lookup is scoped to
// (id, creator): a course owned by someone else reads as not found.
func (ctrl *Controller) UpdateCourse(c *fiber.Ctx) error {
	user, err := ctrl.requireSuperAdmin(c, "update")
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)

	course, err := ctrl.courses.FindOwned(courseID, user.ID)
	if err != nil {
		return middleware.NotFound("Course not found")
	}

	if reqData.Name != "" {
		course.Name = reqData.Name
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Instructor != "" {
		course.Instructor = reqData.Instructor
	}
	if reqData.Price > 0 {
		course.Price = reqData.Price
	}
	if reqData.Duration > 0 {
		course.Duration = reqData.Duration
	}
	if reqData.Rating > 0 {
		course.Rating = reqData.Rating
	}
	if reqData.Level != "" {
		level, err := models.ParseCourseLevel(reqData.Level)
		if err != nil {
			return middleware.BadRequest("level must be one of beginner, intermediate, advanced")
		}
		course.Level = level
	}
	if reqData.Image != "" {
		if course.Image != "" {
			if err := ctrl.media.Delete(c.Context(), course.Image); err != nil {
				log.Printf("Error deleting previous course image: %v", err)
			}
		}
		url, err := ctrl.media.Upload(c.Context(), reqData.Image)
		if err != nil {
			return middleware.BadGateway("Failed to store course image")
		}
		course.Image = url
	}

	if err := ctrl.courses.Update(course); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Course updated successfully"})
}

// DeleteCourse removes the image asset, then the enrollments and the course
// row inside one transaction.
func (ctrl *Controller) DeleteCourse(c *fiber.Ctx) error {
	user, err := ctrl.requireSuperAdmin(c, "delete")
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := ctrl.courses.FindOwned(courseID, user.ID)
	if err != nil {
		return middleware.NotFound("Course not found")
	}

	if course.Image != "" {
		if err := ctrl.media.Delete(c.Context(), course.Image); err != nil {
			log.Printf("Error deleting course image: %v", err)
		}
	}

	if err := ctrl.courses.DeleteCascade(course); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Course deleted successfully"})
}

func parseFilter(c *fiber.Ctx) (repository.CourseFilter, error) {
	filter := repository.CourseFilter{
		Name:       c.Query("name"),
		Instructor: c.Query("instructor"),
	}
	if level := c.Query("level"); level != "" {
		parsed, err := models.ParseCourseLevel(level)
		if err != nil {
			return filter, middleware.BadRequest("level must be one of beginner, intermediate, advanced")
		}
		filter.Level = string(parsed)
	}
	for query, target := range map[string]**float64{
		"price":    &filter.Price,
		"duration": &filter.Duration,
		"rating":   &filter.Rating,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, middleware.BadRequest(query + " must be a number")
		}
		*target = &value
	}
	return filter, nil
}
